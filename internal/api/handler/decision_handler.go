package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/growthai/guardrail-engine/internal/api/metrics"
	"github.com/growthai/guardrail-engine/internal/core/domain"
	"github.com/growthai/guardrail-engine/internal/core/ports"
)

// DecisionHandler handles onboarding and the decision lifecycle.
type DecisionHandler struct {
	service ports.SessionService
}

func NewDecisionHandler(service ports.SessionService) *DecisionHandler {
	return &DecisionHandler{service: service}
}

// CompleteOnboarding handles POST /v1/onboarding: derives and locks the decision.
//
// @Summary      Submit onboarding answers
// @Tags         decision
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      onboardingRequest  true  "Onboarding answers"
// @Success      201   {object}  onboardingResponse
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/onboarding [post]
func (h *DecisionHandler) CompleteOnboarding(c echo.Context) error {
	id, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	var req onboardingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	res, err := h.service.CompleteOnboarding(c.Request().Context(), id, ports.OnboardingInput{
		Age:             req.Age,
		Role:            req.Role,
		FinancePressure: req.FinancePressure,
		Interests:       req.Interests,
		Confusion:       req.Confusion,
		MoodScore:       req.MoodScore,
	})
	if err != nil {
		return err
	}
	metrics.DecisionsCommittedTotal.WithLabelValues(req.Role).Inc()

	return c.JSON(http.StatusCreated, onboardingResponse{
		decisionResponse: toDecisionResponse(res.Status),
		Tasks:            res.Tasks,
	})
}

// Get handles GET /v1/decision.
//
// @Summary      Current decision and lock state
// @Tags         decision
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  decisionResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/decision [get]
func (h *DecisionHandler) Get(c echo.Context) error {
	id, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	st, err := h.service.Decision(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDecisionResponse(*st))
}

// Release handles POST /v1/decision/release: the explicit unlock ritual.
//
// @Summary      Release the lock window early
// @Tags         decision
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  decisionResponse
// @Failure      423  {object}  map[string]string
// @Router       /v1/decision/release [post]
func (h *DecisionHandler) Release(c echo.Context) error {
	id, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	st, err := h.service.ReleaseDecision(c.Request().Context(), id)
	metrics.DecisionTransitionsTotal.WithLabelValues("release", transitionResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDecisionResponse(*st))
}

// Redecide handles POST /v1/decision/redecide: replaces an expired decision.
//
// @Summary      Derive a new decision after the lock window
// @Tags         decision
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  decisionResponse
// @Failure      409  {object}  map[string]string
// @Failure      423  {object}  map[string]string
// @Router       /v1/decision/redecide [post]
func (h *DecisionHandler) Redecide(c echo.Context) error {
	id, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	st, err := h.service.Redecide(c.Request().Context(), id)
	metrics.DecisionTransitionsTotal.WithLabelValues("replace", transitionResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDecisionResponse(*st))
}

func transitionResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrDecisionImmutable):
		return "locked"
	case errors.Is(err, domain.ErrEmotionalLockActive):
		return "emotional_lock"
	default:
		return "error"
	}
}
