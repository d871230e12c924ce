package handlers

import (
	"net/http"

	goversion "github.com/caarlos0/go-version"
	"github.com/labstack/echo/v4"
)

// VersionHandler handles GET /version with the build information of the binary.
type VersionHandler struct {
	info goversion.Info
}

func NewVersionHandler(info goversion.Info) *VersionHandler {
	return &VersionHandler{info: info}
}

func (h *VersionHandler) Version(c echo.Context) error {
	return c.JSON(http.StatusOK, h.info)
}
