package domain

import (
	"errors"
	"time"
)

// LockDurationDays is the length of the lock window applied to every decision.
const LockDurationDays = 21

// LockWindow is LockDurationDays expressed as a duration.
const LockWindow = LockDurationDays * 24 * time.Hour

var ErrAlreadyLocked = errors.New("decision already locked")
var ErrAlreadyCommitted = errors.New("decision already committed")
var ErrDecisionImmutable = errors.New("decision is immutable while locked")
var ErrEmotionalLockActive = errors.New("emotional lock active")
var ErrNoDecision = errors.New("no decision committed")

// Decision is the locked growth path produced by the rules engine.
type Decision struct {
	Focus        string        `json:"focus"`
	Path         string        `json:"path"`
	Timeline     string        `json:"timeline"`
	EarningStart string        `json:"earning_start"`
	LockedAt     time.Time     `json:"locked_at"`
	LockDuration time.Duration `json:"lock_duration"`
}

// LockedUntil is the instant at which the lock window elapses.
func (d Decision) LockedUntil() time.Time {
	return d.LockedAt.Add(d.LockDuration)
}

// IsLockedAt reports whether the lock window is still open at now.
func (d Decision) IsLockedAt(now time.Time) bool {
	return now.Before(d.LockedUntil())
}

// DecisionPatch carries a proposed edit to a decision's content fields.
// Nil fields are left untouched.
type DecisionPatch struct {
	Focus        *string
	Path         *string
	Timeline     *string
	EarningStart *string
}

// Apply returns d with every non-nil patch field copied over.
func (p DecisionPatch) Apply(d Decision) Decision {
	if p.Focus != nil {
		d.Focus = *p.Focus
	}
	if p.Path != nil {
		d.Path = *p.Path
	}
	if p.Timeline != nil {
		d.Timeline = *p.Timeline
	}
	if p.EarningStart != nil {
		d.EarningStart = *p.EarningStart
	}
	return d
}
