package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/expense-system/internal/core/ports"
)

// ExpenseHandler handles HTTP requests for expenses and their decisions.
type ExpenseHandler struct {
	expenses  ports.ExpenseService
	approvals ports.ApprovalService
}

func NewExpenseHandler(expenses ports.ExpenseService, approvals ports.ApprovalService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses, approvals: approvals}
}

// List handles GET /api/expenses. Only the first present filter of userId,
// status, managerId is applied.
//
// @Summary      List expenses
// @Tags         expenses
// @Produce      json
// @Param        userId     query     string  false  "Owner"
// @Param        status     query     string  false  "pending | approved | rejected | submitted"
// @Param        managerId  query     string  false  "Pending expenses of this manager's direct reports"
// @Success      200        {array}   domain.Expense
// @Failure      400        {object}  errorResponse
// @Router       /api/expenses [get]
func (h *ExpenseHandler) List(c echo.Context) error {
	var q listExpensesQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}

	expenses, err := h.expenses.List(c.Request().Context(), ports.ListExpensesInput{
		UserID:    q.UserID,
		Status:    q.Status,
		ManagerID: q.ManagerID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, expenses)
}

// Get handles GET /api/expenses/:id.
//
// @Summary      Get an expense
// @Tags         expenses
// @Produce      json
// @Param        id   path      string  true  "Expense ID (e.g. exp-1)"
// @Success      200  {object}  domain.Expense
// @Failure      404  {object}  errorResponse
// @Router       /api/expenses/{id} [get]
func (h *ExpenseHandler) Get(c echo.Context) error {
	expense, err := h.expenses.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, expense)
}

// Create handles POST /api/expenses.
//
// @Summary      Submit an expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        body  body      createExpenseRequest  true  "Expense"
// @Success      201   {object}  domain.Expense
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/expenses [post]
func (h *ExpenseHandler) Create(c echo.Context) error {
	var req createExpenseRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	expense, err := h.expenses.Create(c.Request().Context(), toCreateExpenseInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, expense)
}

// Update handles PATCH /api/expenses/:id.
//
// @Summary      Update an expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Expense ID"
// @Param        body  body      updateExpenseRequest  true  "Fields to change"
// @Success      200   {object}  domain.Expense
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/expenses/{id} [patch]
func (h *ExpenseHandler) Update(c echo.Context) error {
	var req updateExpenseRequest
	if err := bindStrict(c, &req); err != nil {
		return err
	}

	expense, err := h.expenses.Update(c.Request().Context(), c.Param("id"), toExpensePatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, expense)
}

// Approvals handles GET /api/expenses/:id/approvals.
//
// @Summary      List the decisions recorded for an expense
// @Tags         expenses
// @Produce      json
// @Param        id   path      string  true  "Expense ID"
// @Success      200  {array}   domain.Approval
// @Failure      404  {object}  errorResponse
// @Router       /api/expenses/{id}/approvals [get]
func (h *ExpenseHandler) Approvals(c echo.Context) error {
	trail, err := h.expenses.Approvals(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, trail)
}

// Approve handles POST /api/expenses/:id/approve.
//
// @Summary      Approve an expense
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Expense ID"
// @Param        body  body      approveRequest  true  "Approver"
// @Success      200   {object}  decisionResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/expenses/{id}/approve [post]
func (h *ExpenseHandler) Approve(c echo.Context) error {
	var req approveRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	res, err := h.approvals.Approve(c.Request().Context(), c.Param("id"), req.ApproverID, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDecisionResponse(res))
}

// Reject handles POST /api/expenses/:id/reject.
//
// @Summary      Reject an expense
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Param        id    path      string         true  "Expense ID"
// @Param        body  body      rejectRequest  true  "Approver and reason"
// @Success      200   {object}  decisionResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/expenses/{id}/reject [post]
func (h *ExpenseHandler) Reject(c echo.Context) error {
	var req rejectRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	res, err := h.approvals.Reject(c.Request().Context(), c.Param("id"), req.ApproverID, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDecisionResponse(res))
}
