package service

import "github.com/growthai/guardrail-engine/internal/core/domain"

// LowMoodThreshold is the highest mood score that still triggers the emotional lock.
const LowMoodThreshold = 2

const emotionalLockAdvisory = "EMOTIONAL LOCK ACTIVE: Don't make new major decisions for 7 days. " +
	"Focus only on essential health tasks."

// EmotionalLockGate derives the emotional lock from the latest mood score.
// It holds no state; every consumer asks the gate rather than comparing
// scores inline, so the restriction is applied the same way everywhere.
type EmotionalLockGate struct{}

// IsActive reports whether the emotional lock applies to p. An unanswered
// mood (zero) never activates the lock.
func (EmotionalLockGate) IsActive(p domain.Profile) bool {
	return p.MoodScore >= domain.ScaleMin && p.MoodScore <= LowMoodThreshold
}

// Advisory returns the banner text shown while the lock is active, or "".
func (g EmotionalLockGate) Advisory(p domain.Profile) string {
	if !g.IsActive(p) {
		return ""
	}
	return emotionalLockAdvisory
}
