package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/growthai/guardrail-engine/internal/api/metrics"
	"github.com/growthai/guardrail-engine/internal/core/ports"
)

// TaskHandler handles the daily task board, mood check-ins and day rollover.
type TaskHandler struct {
	service ports.SessionService
}

func NewTaskHandler(service ports.SessionService) *TaskHandler {
	return &TaskHandler{service: service}
}

// List handles GET /v1/tasks.
//
// @Summary      Today's task board
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  taskBoardResponse
// @Router       /v1/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	id, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	board, err := h.service.Tasks(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskBoardResponse(board))
}

// Toggle handles POST /v1/tasks/:id/toggle. Retries carrying the same
// Idempotency-Key header do not flip the task back.
//
// @Summary      Toggle a task's completion
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id               path    string  true   "Task ID"
// @Param        Idempotency-Key  header  string  false  "Client retry key"
// @Success      200  {object}  taskBoardResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/tasks/{id}/toggle [post]
func (h *TaskHandler) Toggle(c echo.Context) error {
	id, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	taskID := c.Param("id")
	if taskID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task id is required")
	}

	board, err := h.service.ToggleTask(c.Request().Context(), id, taskID, c.Request().Header.Get("Idempotency-Key"))
	if err != nil {
		return err
	}
	for _, t := range board.Tasks {
		if t.ID == taskID {
			metrics.TaskTogglesTotal.WithLabelValues(string(t.Category), strconv.FormatBool(t.Completed)).Inc()
			break
		}
	}
	return c.JSON(http.StatusOK, toTaskBoardResponse(board))
}

// RollOver handles POST /v1/tasks/rollover: closes the calendar day if it ended.
//
// @Summary      Close the previous day and update the streak
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  taskBoardResponse
// @Router       /v1/tasks/rollover [post]
func (h *TaskHandler) RollOver(c echo.Context) error {
	id, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	board, err := h.service.RollOver(c.Request().Context(), id)
	if err != nil {
		return err
	}
	metrics.StreakLength.Observe(float64(board.Streak))
	return c.JSON(http.StatusOK, toTaskBoardResponse(board))
}

// UpdateMood handles PUT /v1/mood: records a mood check-in.
//
// @Summary      Mood check-in
// @Tags         mood
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      moodRequest  true  "Mood score 1-5"
// @Success      200   {object}  moodResponse
// @Failure      422   {object}  map[string]string
// @Router       /v1/mood [put]
func (h *TaskHandler) UpdateMood(c echo.Context) error {
	id, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	var req moodRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	res, err := h.service.UpdateMood(c.Request().Context(), id, req.Score)
	if err != nil {
		return err
	}
	if res.Changed {
		state := "inactive"
		if res.EmotionalLock {
			state = "active"
		}
		metrics.EmotionalLockChangesTotal.WithLabelValues(state).Inc()
	}
	return c.JSON(http.StatusOK, moodResponse{
		Score:         res.Score,
		EmotionalLock: res.EmotionalLock,
		Advisory:      res.Advisory,
	})
}
