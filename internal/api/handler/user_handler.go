package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/expense-system/internal/core/ports"
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /api/users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.User
// @Failure      500  {object}  errorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Get handles GET /api/users/:id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID (e.g. user-1)"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Create handles POST /api/users.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	user, err := h.service.Create(c.Request().Context(), toCreateUserInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Update handles PATCH /api/users/:id.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := bindStrict(c, &req); err != nil {
		return err
	}

	user, err := h.service.Update(c.Request().Context(), c.Param("id"), toUserPatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
