package handler

import (
	"time"

	"github.com/growthai/guardrail-engine/internal/core/domain"
	"github.com/growthai/guardrail-engine/internal/core/ports"
)

type onboardingRequest struct {
	Age             int      `json:"age"              validate:"omitempty,min=1,max=120"`
	Role            string   `json:"role"             validate:"required,oneof=student working founder business"`
	FinancePressure int      `json:"finance_pressure" validate:"omitempty,min=1,max=5"`
	Interests       []string `json:"interests"        validate:"omitempty,max=20,dive,max=64"`
	Confusion       string   `json:"confusion"        validate:"max=2000"`
	MoodScore       int      `json:"mood_score"       validate:"omitempty,min=1,max=5"`
}

type moodRequest struct {
	Score int `json:"score" validate:"required,min=1,max=5"`
}

type guideMessageRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

type sessionResponse struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type decisionResponse struct {
	Decision      domain.Decision `json:"decision"`
	Locked        bool            `json:"locked"`
	LockedUntil   time.Time       `json:"locked_until"`
	DaysRemaining int             `json:"days_remaining"`
	EmotionalLock bool            `json:"emotional_lock"`
	CanRedecide   bool            `json:"can_redecide"`
}

type onboardingResponse struct {
	decisionResponse
	Tasks []domain.TaskView `json:"tasks"`
}

type moodResponse struct {
	Score         int    `json:"score"`
	EmotionalLock bool   `json:"emotional_lock"`
	Advisory      string `json:"advisory,omitempty"`
}

type taskBoardResponse struct {
	Tasks         []domain.TaskView `json:"tasks"`
	Completed     int               `json:"completed"`
	Total         int               `json:"total"`
	Streak        int               `json:"streak"`
	EmotionalLock bool              `json:"emotional_lock"`
}

type guideReplyResponse struct {
	Reply    string           `json:"reply"`
	Fallback bool             `json:"fallback"`
	History  []domain.Message `json:"history"`
}

type historyResponse struct {
	Messages []domain.Message `json:"messages"`
}

func toDecisionResponse(st ports.DecisionStatus) decisionResponse {
	return decisionResponse{
		Decision:      st.Decision,
		Locked:        st.Locked,
		LockedUntil:   st.LockedUntil,
		DaysRemaining: st.DaysRemaining,
		EmotionalLock: st.EmotionalLock,
		CanRedecide:   st.CanRedecide,
	}
}

func toTaskBoardResponse(b *ports.TaskBoard) taskBoardResponse {
	return taskBoardResponse{
		Tasks:         b.Tasks,
		Completed:     b.Completed,
		Total:         len(b.Tasks),
		Streak:        b.Streak,
		EmotionalLock: b.EmotionalLock,
	}
}
