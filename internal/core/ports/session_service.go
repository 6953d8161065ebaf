package ports

import (
	"context"
	"time"

	"github.com/growthai/guardrail-engine/internal/core/domain"
)

// SessionInfo is returned when a new session is opened.
type SessionInfo struct {
	ID        string
	Token     string
	ExpiresAt time.Time
}

// OnboardingInput carries the answers collected by the onboarding screens.
// Zero values mean "not answered".
type OnboardingInput struct {
	Age             int
	Role            string
	FinancePressure int
	Interests       []string
	Confusion       string
	MoodScore       int
}

// DecisionStatus is the read model of the committed decision and its guardrails.
type DecisionStatus struct {
	Decision      domain.Decision
	Locked        bool
	LockedUntil   time.Time
	DaysRemaining int
	EmotionalLock bool
	CanRedecide   bool
}

// OnboardingResult is returned once onboarding has committed a decision.
type OnboardingResult struct {
	Status DecisionStatus
	Tasks  []domain.TaskView
}

// MoodResult describes the emotional lock after a mood check-in.
type MoodResult struct {
	Score         int
	EmotionalLock bool
	// Changed is true when this check-in flipped the emotional lock.
	Changed  bool
	Advisory string
}

// TaskBoard is the daily task list as shown on the dashboard.
type TaskBoard struct {
	Tasks         []domain.TaskView
	Completed     int
	Streak        int
	EmotionalLock bool
}

// GuideResult is the outcome of one guide message.
type GuideResult struct {
	Reply string
	// Fallback is true when the assistant was unavailable and Reply holds
	// the human-readable fallback text.
	Fallback bool
	History  []domain.Message
}

// SessionService defines the use-case operations exposed to the UI boundary.
type SessionService interface {
	Start(ctx context.Context) (*SessionInfo, error)
	End(ctx context.Context, sessionID string) error

	CompleteOnboarding(ctx context.Context, sessionID string, in OnboardingInput) (*OnboardingResult, error)
	Decision(ctx context.Context, sessionID string) (*DecisionStatus, error)
	ReleaseDecision(ctx context.Context, sessionID string) (*DecisionStatus, error)
	Redecide(ctx context.Context, sessionID string) (*DecisionStatus, error)

	UpdateMood(ctx context.Context, sessionID string, score int) (*MoodResult, error)

	Tasks(ctx context.Context, sessionID string) (*TaskBoard, error)
	// ToggleTask flips a task. A non-empty idempotencyKey makes retries of the
	// same toggle a no-op.
	ToggleTask(ctx context.Context, sessionID, taskID, idempotencyKey string) (*TaskBoard, error)
	RollOver(ctx context.Context, sessionID string) (*TaskBoard, error)

	SendGuide(ctx context.Context, sessionID, message string) (*GuideResult, error)
	GuideHistory(ctx context.Context, sessionID string) ([]domain.Message, error)
}
