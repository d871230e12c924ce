package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

// bindStrict decodes the JSON body into dst rejecting unknown fields, then
// runs the echo validator. Bad JSON is a 400, failed validation a 422.
func bindStrict(c echo.Context, dst any) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload: "+err.Error())
	}
	if err := c.Validate(dst); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}

// bindBody is the lenient variant used for create and decision requests.
func bindBody(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(dst); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
