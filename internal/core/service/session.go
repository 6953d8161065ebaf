package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/growthai/guardrail-engine/internal/core/domain"
	"github.com/growthai/guardrail-engine/internal/core/ports"
)

// SessionDeps are the collaborators shared by every session.
type SessionDeps struct {
	Clock      ports.Clock
	Rules      *DecisionRulesEngine
	Guide      *GuideContextAssembler
	Dispatcher ports.GuideDispatcher
	Log        zerolog.Logger
}

// Session is the explicit state container for one user session. It owns the
// profile, the decision lifecycle, the task tracker and the guide
// conversation. Every operation runs to completion under mu; only the
// assistant call itself happens outside of it.
type Session struct {
	id        string
	createdAt time.Time
	clock     ports.Clock
	log       zerolog.Logger

	mu           sync.Mutex
	profile      domain.Profile
	onboarded    bool
	intake       *ProfileIntake
	rules        *DecisionRulesEngine
	gate         EmotionalLockGate
	locks        *DecisionLockManager
	tracker      *TaskStreakTracker
	guide        *GuideContextAssembler
	conversation *Conversation
}

// NewSession builds an empty session with its own component instances.
func NewSession(id string, deps SessionDeps) *Session {
	clock := deps.Clock
	if clock == nil {
		clock = ports.SystemClock{}
	}
	rules := deps.Rules
	if rules == nil {
		rules = NewDecisionRulesEngine(DefaultRules())
	}
	log := deps.Log.With().Str("session_id", id).Logger()

	s := &Session{
		id:        id,
		createdAt: clock.Now(),
		clock:     clock,
		log:       log,
		intake:    NewProfileIntake(),
		rules:     rules,
		guide:     deps.Guide,
	}
	// locks reads the profile only from Session methods, which hold mu.
	s.locks = NewDecisionLockManager(clock, s.gate, func() domain.Profile { return s.profile }, log)
	s.tracker = NewTaskStreakTracker(clock, log)
	s.conversation = NewConversation(id, deps.Dispatcher, clock)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Profile returns a copy of the current profile.
func (s *Session) Profile() domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.Clone()
}

// CompleteOnboarding validates the answers, derives a decision, locks it and
// seeds the task list for the profile's role.
func (s *Session) CompleteOnboarding(answers ports.OnboardingInput) (*ports.OnboardingResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.intake.Apply(answers)
	profile, err := s.intake.Complete()
	if err != nil {
		return nil, fmt.Errorf("complete onboarding: %w", err)
	}

	decision := s.rules.Derive(profile, s.clock.Now())
	if err := s.locks.Commit(decision); err != nil {
		return nil, fmt.Errorf("complete onboarding: %w", err)
	}
	s.profile = profile
	s.onboarded = true
	s.tracker.Seed(profile.Role, s.locks.Generation())

	return &ports.OnboardingResult{
		Status: s.decisionStatus(),
		Tasks:  s.tracker.Board(s.gate.IsActive(s.profile)),
	}, nil
}

// DecisionStatus returns the committed decision and its guardrails.
func (s *Session) DecisionStatus() (*ports.DecisionStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.onboarded {
		return nil, domain.ErrNoDecision
	}
	st := s.decisionStatus()
	return &st, nil
}

// Release runs the unlock ritual on the current decision.
func (s *Session) Release() (*ports.DecisionStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.locks.Release(); err != nil {
		return nil, err
	}
	st := s.decisionStatus()
	return &st, nil
}

// Redecide derives a fresh decision from the current profile and replaces
// the expired one. The task list is reseeded for the new lock event.
func (s *Session) Redecide() (*ports.DecisionStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.onboarded {
		return nil, domain.ErrOnboardingIncomplete
	}

	next := s.rules.Derive(s.profile, s.clock.Now())
	if err := s.locks.Replace(next); err != nil {
		return nil, fmt.Errorf("redecide: %w", err)
	}
	s.tracker.Seed(s.profile.Role, s.locks.Generation())
	st := s.decisionStatus()
	return &st, nil
}

// UpdateMood records a mood check-in and recomputes the emotional lock.
func (s *Session) UpdateMood(score int) (*ports.MoodResult, error) {
	if score < domain.ScaleMin || score > domain.ScaleMax {
		return nil, fmt.Errorf("update mood: %w: score must be between %d and %d", domain.ErrInvalidProfile, domain.ScaleMin, domain.ScaleMax)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	was := s.gate.IsActive(s.profile)
	s.profile.MoodScore = score
	s.intake.SetMood(score)
	now := s.gate.IsActive(s.profile)

	if was != now {
		s.log.Info().Int("mood", score).Bool("emotional_lock", now).Msg("emotional lock changed")
	}
	return &ports.MoodResult{
		Score:         score,
		EmotionalLock: now,
		Changed:       was != now,
		Advisory:      s.gate.Advisory(s.profile),
	}, nil
}

// Tasks returns the current task board.
func (s *Session) Tasks() *ports.TaskBoard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board()
}

// ToggleTask flips one task. Completing a discouraged task is allowed but logged.
func (s *Session) ToggleTask(id string) (*ports.TaskBoard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.tracker.Toggle(id); err != nil {
		return nil, fmt.Errorf("toggle task %q: %w", id, err)
	}
	if task, ok := s.tracker.Find(id); ok && task.Completed &&
		task.Category != domain.CategoryHealth && s.gate.IsActive(s.profile) {
		s.log.Debug().Str("task_id", id).Str("category", string(task.Category)).Msg("discouraged task completed under emotional lock")
	}
	return s.board(), nil
}

// FindTask returns a copy of the task with id.
func (s *Session) FindTask(id string) (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Find(id)
}

// RollOver closes the calendar day if it has ended.
func (s *Session) RollOver() *ports.TaskBoard {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracker.OnDayRollover()
	return s.board()
}

// SendGuide sends message to the guide and waits for the reply. When the
// assistant is unavailable the fallback text is returned without an error.
func (s *Session) SendGuide(ctx context.Context, message string) (*ports.GuideResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, domain.ErrEmptyMessage
	}
	if s.guide == nil {
		return nil, fmt.Errorf("send guide: %w: no guide configured", domain.ErrAssistantUnavailable)
	}

	s.mu.Lock()
	var decision *domain.Decision
	if d, err := s.locks.Current(); err == nil {
		decision = &d
	}
	profile, locked, lock := s.profile, s.locks.IsLocked(), s.gate.IsActive(s.profile)
	results, err := s.conversation.Submit(func(history []domain.Message) domain.ChatContext {
		return s.guide.BuildContext(profile, decision, locked, lock, history)
	}, message)
	s.mu.Unlock()
	if errors.Is(err, domain.ErrAssistantUnavailable) {
		s.log.Warn().Err(err).Msg("guide request not queued")
		return &ports.GuideResult{Reply: FallbackReply, Fallback: true, History: s.conversation.History()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("send guide: %w", err)
	}

	select {
	case res := <-results:
		switch {
		case res.Discarded:
			return nil, fmt.Errorf("send guide: %w", domain.ErrConversationClosed)
		case res.Fallback:
			s.log.Warn().Err(res.Err).Msg("guide fell back")
			return &ports.GuideResult{Reply: res.Reply.Text, Fallback: true, History: res.History}, nil
		case res.Err != nil:
			return nil, fmt.Errorf("send guide: %w", res.Err)
		}
		return &ports.GuideResult{Reply: res.Reply.Text, History: res.History}, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("send guide: %w", ctx.Err())
	}
}

// History returns the guide conversation so far.
func (s *Session) History() []domain.Message {
	return s.conversation.History()
}

// End closes the session. Outstanding guide replies are discarded.
func (s *Session) End() {
	s.conversation.Close()
	s.log.Debug().Msg("session ended")
}

func (s *Session) decisionStatus() ports.DecisionStatus {
	d, _ := s.locks.Current()
	return ports.DecisionStatus{
		Decision:      d,
		Locked:        s.locks.IsLocked(),
		LockedUntil:   d.LockedUntil(),
		DaysRemaining: s.locks.DaysRemaining(),
		EmotionalLock: s.gate.IsActive(s.profile),
		CanRedecide:   s.locks.CanRedecide(),
	}
}

func (s *Session) board() *ports.TaskBoard {
	lock := s.gate.IsActive(s.profile)
	return &ports.TaskBoard{
		Tasks:         s.tracker.Board(lock),
		Completed:     s.tracker.CompletedCount(),
		Streak:        s.tracker.Streak(),
		EmotionalLock: lock,
	}
}
