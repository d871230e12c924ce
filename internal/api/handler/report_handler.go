package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/expense-system/internal/core/ports"
)

// ReportHandler serves the dashboard stats and the expense export.
type ReportHandler struct {
	dashboard ports.DashboardService
	export    ports.ExportService
}

func NewReportHandler(dashboard ports.DashboardService, export ports.ExportService) *ReportHandler {
	return &ReportHandler{dashboard: dashboard, export: export}
}

// Stats handles GET /api/dashboard/stats.
//
// @Summary      Dashboard statistics
// @Tags         dashboard
// @Produce      json
// @Param        userId  query     string  false  "Restrict to one user's expenses"
// @Success      200     {object}  domain.DashboardStats
// @Failure      500     {object}  errorResponse
// @Router       /api/dashboard/stats [get]
func (h *ReportHandler) Stats(c echo.Context) error {
	var q statsQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}

	stats, err := h.dashboard.Stats(c.Request().Context(), q.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Export handles GET /api/export/expenses.
//
// @Summary      Export expenses submitted in a date range
// @Tags         export
// @Produce      json
// @Produce      text/csv
// @Param        startDate  query     string  true   "First day, YYYY-MM-DD"
// @Param        endDate    query     string  true   "Last day, YYYY-MM-DD"
// @Param        format     query     string  false  "json (default) or csv"
// @Success      200        {object}  domain.ExpenseExport
// @Failure      400        {object}  errorResponse
// @Router       /api/export/expenses [get]
func (h *ReportHandler) Export(c echo.Context) error {
	var q exportQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}

	res, err := h.export.Export(c.Request().Context(), ports.ExportInput{
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Format:    q.Format,
	})
	if err != nil {
		return err
	}

	if res.Format == ports.ExportFormatCSV {
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.Filename))
		return c.Blob(http.StatusOK, "text/csv", res.CSV)
	}
	return c.JSON(http.StatusOK, res.Document)
}
