package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/growthai/guardrail-engine/internal/core/ports"
)

// SessionHandler opens and closes in-memory sessions.
type SessionHandler struct {
	service ports.SessionService
}

func NewSessionHandler(service ports.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// Start handles POST /v1/sessions.
//
// @Summary      Open a session
// @Tags         sessions
// @Produce      json
// @Success      201  {object}  sessionResponse
// @Router       /v1/sessions [post]
func (h *SessionHandler) Start(c echo.Context) error {
	info, err := h.service.Start(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sessionResponse{
		SessionID: info.ID,
		Token:     info.Token,
		ExpiresAt: info.ExpiresAt,
	})
}

// End handles DELETE /v1/sessions. Any guide reply still in flight is discarded.
//
// @Summary      End the current session
// @Tags         sessions
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  map[string]string
// @Router       /v1/sessions [delete]
func (h *SessionHandler) End(c echo.Context) error {
	id, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	if err := h.service.End(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
