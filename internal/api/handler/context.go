package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxSessionID extracts the session id injected by the Session middleware.
// Its presence proves the middleware ran and the handle signature was valid.
func ctxSessionID(c echo.Context) (string, error) {
	id, _ := c.Get("session_id").(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing session handle")
	}
	return id, nil
}
