package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/growthai/guardrail-engine/internal/core/domain"
	"github.com/growthai/guardrail-engine/internal/core/ports"
)

// GuideHandler handles the conversation with the guide assistant.
type GuideHandler struct {
	service ports.SessionService
}

func NewGuideHandler(service ports.SessionService) *GuideHandler {
	return &GuideHandler{service: service}
}

// Send handles POST /v1/guide/messages. When the assistant is unavailable the
// response still succeeds with fallback=true and the fallback text.
//
// @Summary      Send a message to the guide
// @Tags         guide
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      guideMessageRequest  true  "User message"
// @Success      200   {object}  guideReplyResponse
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/guide/messages [post]
func (h *GuideHandler) Send(c echo.Context) error {
	id, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	var req guideMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	res, err := h.service.SendGuide(c.Request().Context(), id, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, guideReplyResponse{
		Reply:    res.Reply,
		Fallback: res.Fallback,
		History:  nonNil(res.History),
	})
}

// History handles GET /v1/guide/messages.
//
// @Summary      Conversation history
// @Tags         guide
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  historyResponse
// @Router       /v1/guide/messages [get]
func (h *GuideHandler) History(c echo.Context) error {
	id, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	msgs, err := h.service.GuideHistory(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, historyResponse{Messages: nonNil(msgs)})
}

func nonNil(msgs []domain.Message) []domain.Message {
	if msgs == nil {
		return []domain.Message{}
	}
	return msgs
}
