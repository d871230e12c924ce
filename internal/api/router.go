package api

import (
	"sync"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/99minutos/expense-system/internal/api/handler"
	"github.com/99minutos/expense-system/internal/api/middleware"
	"github.com/99minutos/expense-system/internal/core/ports"
)

// httpMetrics registers the echoprometheus collectors once per process.
var httpMetrics = sync.OnceValue(func() echo.MiddlewareFunc {
	return echoprometheus.NewMiddleware("expense")
})

// Services are the use cases the HTTP API exposes.
type Services struct {
	Users     ports.UserService
	Expenses  ports.ExpenseService
	Approvals ports.ApprovalService
	Dashboard ports.DashboardService
	Export    ports.ExportService
}

// NewRouter builds and returns the Echo instance with all /api routes registered.
func NewRouter(svc Services, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(httpMetrics())

	users := handler.NewUserHandler(svc.Users)
	expenses := handler.NewExpenseHandler(svc.Expenses, svc.Approvals)
	reports := handler.NewReportHandler(svc.Dashboard, svc.Export)

	g := e.Group("/api")

	// --- Users ---
	g.GET("/users", users.List)
	g.GET("/users/:id", users.Get)
	g.POST("/users", users.Create)
	g.PATCH("/users/:id", users.Update)

	// --- Expenses ---
	g.GET("/expenses", expenses.List)
	g.GET("/expenses/:id", expenses.Get)
	g.POST("/expenses", expenses.Create)
	g.PATCH("/expenses/:id", expenses.Update)
	g.GET("/expenses/:id/approvals", expenses.Approvals)
	g.POST("/expenses/:id/approve", expenses.Approve)
	g.POST("/expenses/:id/reject", expenses.Reject)

	// --- Reports ---
	g.GET("/dashboard/stats", reports.Stats)
	g.GET("/export/expenses", reports.Export)

	return e
}
