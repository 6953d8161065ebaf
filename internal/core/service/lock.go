package service

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/growthai/guardrail-engine/internal/core/domain"
	"github.com/growthai/guardrail-engine/internal/core/ports"
)

const day = 24 * time.Hour

// DecisionLockManager owns the lifecycle of the single active decision.
//
// It has two states. Locked: a decision exists, was not released, and now is
// inside its window. Unlocked: no decision yet, or the window elapsed, or the
// unlock ritual ran. Expiry is evaluated lazily on every read.
//
// DecisionLockManager is not safe for concurrent use; the owning Session
// serializes access.
type DecisionLockManager struct {
	clock   ports.Clock
	gate    EmotionalLockGate
	profile func() domain.Profile
	log     zerolog.Logger

	current  *domain.Decision
	released bool
	// generation counts lock events (commit and every replace).
	generation uint64
}

// NewDecisionLockManager returns an empty manager. profile supplies the
// current profile whenever the emotional lock must be consulted.
func NewDecisionLockManager(clock ports.Clock, gate EmotionalLockGate, profile func() domain.Profile, log zerolog.Logger) *DecisionLockManager {
	return &DecisionLockManager{clock: clock, gate: gate, profile: profile, log: log}
}

// Commit locks the first decision of the session.
func (m *DecisionLockManager) Commit(d domain.Decision) error {
	if m.current != nil {
		if m.IsLocked() {
			return fmt.Errorf("commit: %w", domain.ErrAlreadyLocked)
		}
		return fmt.Errorf("commit: %w", domain.ErrAlreadyCommitted)
	}
	m.lock(d)
	m.log.Info().
		Str("focus", d.Focus).
		Time("locked_until", m.current.LockedUntil()).
		Msg("decision committed")
	return nil
}

// Replace swaps an unlocked decision for d and starts a fresh window.
// The emotional lock blocks replacement even after the window elapsed.
func (m *DecisionLockManager) Replace(d domain.Decision) error {
	if m.current == nil {
		return fmt.Errorf("replace: %w", domain.ErrNoDecision)
	}
	if m.IsLocked() {
		return fmt.Errorf("replace: %w (%d days remaining)", domain.ErrDecisionImmutable, m.DaysRemaining())
	}
	if m.gate.IsActive(m.profile()) {
		return fmt.Errorf("replace: %w", domain.ErrEmotionalLockActive)
	}
	prev := m.current.Focus
	m.lock(d)
	m.log.Info().
		Str("previous_focus", prev).
		Str("focus", d.Focus).
		Uint64("generation", m.generation).
		Msg("decision replaced")
	return nil
}

// Amend applies a direct edit. Edits are rejected while locked; once unlocked
// the edited decision goes through Replace.
func (m *DecisionLockManager) Amend(patch domain.DecisionPatch) error {
	if m.current == nil {
		return fmt.Errorf("amend: %w", domain.ErrNoDecision)
	}
	if m.IsLocked() {
		return fmt.Errorf("amend: %w", domain.ErrDecisionImmutable)
	}
	return m.Replace(patch.Apply(*m.current))
}

// Release is the explicit unlock ritual: it closes the current window early.
func (m *DecisionLockManager) Release() error {
	if m.current == nil {
		return fmt.Errorf("release: %w", domain.ErrNoDecision)
	}
	if m.gate.IsActive(m.profile()) {
		return fmt.Errorf("release: %w", domain.ErrEmotionalLockActive)
	}
	if !m.IsLocked() {
		return nil
	}
	m.released = true
	m.log.Info().Str("focus", m.current.Focus).Msg("decision released early")
	return nil
}

// IsLocked reports whether a decision is inside its lock window right now.
func (m *DecisionLockManager) IsLocked() bool {
	if m.current == nil || m.released {
		return false
	}
	return m.current.IsLockedAt(m.clock.Now())
}

// DaysRemaining returns the whole days left in the window, rounded up.
// It is 0 once the window has elapsed.
func (m *DecisionLockManager) DaysRemaining() int {
	if !m.IsLocked() {
		return 0
	}
	left := m.current.LockedUntil().Sub(m.clock.Now())
	return int((left + day - 1) / day)
}

// Current returns a copy of the last committed decision.
func (m *DecisionLockManager) Current() (domain.Decision, error) {
	if m.current == nil {
		return domain.Decision{}, domain.ErrNoDecision
	}
	return *m.current, nil
}

// CanRedecide reports whether a "make a new decision" flow may be offered.
func (m *DecisionLockManager) CanRedecide() bool {
	return m.current != nil && !m.IsLocked() && !m.gate.IsActive(m.profile())
}

// Generation identifies the current lock event. Zero means nothing committed.
func (m *DecisionLockManager) Generation() uint64 {
	return m.generation
}

// lock opens a fresh window starting now. The window length is fixed policy;
// whatever LockedAt and LockDuration the caller supplied are overwritten.
func (m *DecisionLockManager) lock(d domain.Decision) {
	d.LockedAt = m.clock.Now()
	d.LockDuration = domain.LockWindow
	m.current = &d
	m.released = false
	m.generation++
}
