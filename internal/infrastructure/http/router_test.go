package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	goversion "github.com/caarlos0/go-version"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/expense-system/internal/infrastructure/http/handlers"
)

func TestRegisterOpsRoutes(t *testing.T) {
	e := echo.New()
	info := goversion.GetVersionInfo(func(i *goversion.Info) { i.GitVersion = "v1.2.3" })
	RegisterOpsRoutes(e, info, handlers.DependencyCheck{
		Name:  "store",
		Check: func(context.Context) error { return nil },
	})

	for _, path := range []string{"/health", "/health/ready", "/metrics", "/version"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	var got goversion.Info
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.GitVersion != "v1.2.3" {
		t.Errorf("expected git version v1.2.3, got %q", got.GitVersion)
	}
}
