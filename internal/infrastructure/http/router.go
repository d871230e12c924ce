// Package http registers the operational endpoints served next to the API:
// health probes, Prometheus metrics, swagger docs and build info.
package http

import (
	goversion "github.com/caarlos0/go-version"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/99minutos/expense-system/internal/infrastructure/http/handlers"
)

// RegisterOpsRoutes adds the probe, metrics, docs and version routes to e.
func RegisterOpsRoutes(e *echo.Echo, info goversion.Info, checks ...handlers.DependencyCheck) {
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(checks...)
	versionHandler := handlers.NewVersionHandler(info)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/version", versionHandler.Version)
}
