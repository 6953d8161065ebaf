package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/growthai/guardrail-engine/internal/core/domain"
)

// statusClientClosedRequest is the nginx convention for a request the client
// abandoned before the response was ready.
const statusClientClosedRequest = 499

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusUnauthorized, "session not found or expired"
	case errors.Is(err, domain.ErrInvalidProfile), errors.Is(err, domain.ErrEmptyMessage):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrAlreadyLocked),
		errors.Is(err, domain.ErrAlreadyCommitted),
		errors.Is(err, domain.ErrDecisionImmutable),
		errors.Is(err, domain.ErrOnboardingIncomplete),
		errors.Is(err, domain.ErrSendInFlight):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrEmotionalLockActive):
		return http.StatusLocked, "emotional lock active: no new major decisions right now"
	case errors.Is(err, domain.ErrNoDecision):
		return http.StatusNotFound, "no decision committed"
	case errors.Is(err, domain.ErrUnknownTask):
		return http.StatusNotFound, "task not found"
	case errors.Is(err, domain.ErrConversationClosed):
		return http.StatusGone, "conversation closed"
	case errors.Is(err, domain.ErrAssistantUnavailable):
		return http.StatusServiceUnavailable, "guide unavailable"
	case errors.Is(err, context.Canceled):
		log.Debug().Str("path", c.Path()).Msg("client closed request")
		return statusClientClosedRequest, "request cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn().Str("path", c.Path()).Msg("request deadline exceeded")
		return http.StatusGatewayTimeout, "request timed out"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
