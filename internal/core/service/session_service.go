package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/growthai/guardrail-engine/internal/core/domain"
	"github.com/growthai/guardrail-engine/internal/core/ports"
)

const defaultSessionTTL = 24 * time.Hour

// SessionStore keeps live sessions in memory (go-cache).
type SessionStore interface {
	Save(s *Session)
	Get(id string) (*Session, bool)
	Delete(id string)
}

// IdempotencyGuard abstracts the idempotency-key store (Redis or in-memory).
type IdempotencyGuard interface {
	// Claim reports true when key was not seen before and is now reserved.
	Claim(ctx context.Context, key string) (bool, error)
	// Release forgets key so a failed operation can be retried with it.
	Release(ctx context.Context, key string) error
}

// SessionServiceConfig controls session handle issuing.
type SessionServiceConfig struct {
	Secret string
	TTL    time.Duration
}

type sessionService struct {
	store  SessionStore
	guard  IdempotencyGuard
	deps   SessionDeps
	secret []byte
	ttl    time.Duration
	log    zerolog.Logger
}

// NewSessionService returns a SessionService implementation.
func NewSessionService(store SessionStore, guard IdempotencyGuard, deps SessionDeps, cfg SessionServiceConfig) ports.SessionService {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultSessionTTL
	}
	if deps.Clock == nil {
		deps.Clock = ports.SystemClock{}
	}
	return &sessionService{
		store:  store,
		guard:  guard,
		deps:   deps,
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		log:    deps.Log,
	}
}

// Start opens a new in-memory session and signs a handle for it.
func (s *sessionService) Start(_ context.Context) (*ports.SessionInfo, error) {
	id := uuid.NewString()
	now := s.deps.Clock.Now()
	expires := now.Add(s.ttl)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": id,
		"iat": now.Unix(),
		"exp": expires.Unix(),
	}).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("start session: sign handle: %w", err)
	}

	s.store.Save(NewSession(id, s.deps))
	s.log.Info().Str("session_id", id).Msg("session started")

	return &ports.SessionInfo{ID: id, Token: token, ExpiresAt: expires}, nil
}

// End closes the session and drops it from the store.
func (s *sessionService) End(_ context.Context, sessionID string) error {
	sess, err := s.session(sessionID)
	if err != nil {
		return err
	}
	sess.End()
	s.store.Delete(sessionID)
	s.log.Info().Str("session_id", sessionID).Msg("session ended")
	return nil
}

func (s *sessionService) CompleteOnboarding(_ context.Context, sessionID string, in ports.OnboardingInput) (*ports.OnboardingResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.CompleteOnboarding(in)
}

func (s *sessionService) Decision(_ context.Context, sessionID string) (*ports.DecisionStatus, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.DecisionStatus()
}

func (s *sessionService) ReleaseDecision(_ context.Context, sessionID string) (*ports.DecisionStatus, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Release()
}

func (s *sessionService) Redecide(_ context.Context, sessionID string) (*ports.DecisionStatus, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Redecide()
}

func (s *sessionService) UpdateMood(_ context.Context, sessionID string, score int) (*ports.MoodResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.UpdateMood(score)
}

func (s *sessionService) Tasks(_ context.Context, sessionID string) (*ports.TaskBoard, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Tasks(), nil
}

// ToggleTask flips a task once per idempotency key.
func (s *sessionService) ToggleTask(ctx context.Context, sessionID, taskID, idempotencyKey string) (*ports.TaskBoard, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if idempotencyKey == "" || s.guard == nil {
		return sess.ToggleTask(taskID)
	}

	// 1. Idempotency check; a broken store must not block the toggle.
	key := sessionID + ":" + idempotencyKey
	fresh, err := s.guard.Claim(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("idempotency claim failed, toggling anyway")
	} else if !fresh {
		s.log.Debug().Str("session_id", sessionID).Str("task_id", taskID).Msg("duplicate toggle skipped")
		return sess.Tasks(), nil
	}

	// 2. Toggle; give the key back when the toggle itself fails.
	board, err := sess.ToggleTask(taskID)
	if err != nil && fresh {
		if relErr := s.guard.Release(ctx, key); relErr != nil {
			s.log.Warn().Err(relErr).Str("session_id", sessionID).Msg("failed to release idempotency key")
		}
	}
	return board, err
}

func (s *sessionService) RollOver(_ context.Context, sessionID string) (*ports.TaskBoard, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.RollOver(), nil
}

func (s *sessionService) SendGuide(ctx context.Context, sessionID, message string) (*ports.GuideResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.SendGuide(ctx, message)
}

func (s *sessionService) GuideHistory(_ context.Context, sessionID string) ([]domain.Message, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.History(), nil
}

func (s *sessionService) session(id string) (*Session, error) {
	if id == "" {
		return nil, domain.ErrSessionNotFound
	}
	sess, ok := s.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrSessionNotFound)
	}
	return sess, nil
}
