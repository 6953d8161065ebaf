package service

import (
	"context"
	"sync"
	"time"

	"github.com/growthai/guardrail-engine/internal/core/domain"
	"github.com/growthai/guardrail-engine/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Clock
// ---------------------------------------------------------------------------

var t0 = time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(at time.Time) *fakeClock { return &fakeClock{now: at} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// ---------------------------------------------------------------------------
// Assistant
// ---------------------------------------------------------------------------

type stubAssistant struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []ports.AssistantRequest
}

func (a *stubAssistant) Generate(_ context.Context, req ports.AssistantRequest) (domain.AssistantReply, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = append(a.requests, req)
	if a.err != nil {
		return domain.AssistantReply{}, a.err
	}
	return domain.AssistantReply{Text: a.reply}, nil
}

func (a *stubAssistant) Requests() []ports.AssistantRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]ports.AssistantRequest(nil), a.requests...)
}

// ---------------------------------------------------------------------------
// Dispatchers
// ---------------------------------------------------------------------------

// asyncDispatcher runs every request on its own goroutine and records the
// context it was given.
type asyncDispatcher struct {
	sender ports.GuideSender

	mu       sync.Mutex
	contexts []domain.ChatContext
}

func (d *asyncDispatcher) Enqueue(req ports.GuideRequest) error {
	d.mu.Lock()
	d.contexts = append(d.contexts, req.Context)
	d.mu.Unlock()
	go func() {
		reply, err := d.sender.Send(req.Ctx, req.Context, req.Message)
		req.Deliver(reply, err)
	}()
	return nil
}

func (d *asyncDispatcher) Contexts() []domain.ChatContext {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.ChatContext(nil), d.contexts...)
}

// manualDispatcher parks requests until the test delivers them.
type manualDispatcher struct {
	enqueueErr error
	pending    []ports.GuideRequest
}

func (d *manualDispatcher) Enqueue(req ports.GuideRequest) error {
	if d.enqueueErr != nil {
		return d.enqueueErr
	}
	d.pending = append(d.pending, req)
	return nil
}

func (d *manualDispatcher) deliver(i int, text string, err error) {
	d.pending[i].Deliver(domain.AssistantReply{Text: text}, err)
}

// ---------------------------------------------------------------------------
// Stores
// ---------------------------------------------------------------------------

type mapStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func newMapStore() *mapStore { return &mapStore{sessions: map[string]*Session{}} }

func (s *mapStore) Save(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID()] = sess
}

func (s *mapStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *mapStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

type stubGuard struct {
	seen       map[string]bool
	claimErr   error
	released   []string
	claimCalls int
}

func newStubGuard() *stubGuard { return &stubGuard{seen: map[string]bool{}} }

func (g *stubGuard) Claim(_ context.Context, key string) (bool, error) {
	g.claimCalls++
	if g.claimErr != nil {
		return false, g.claimErr
	}
	if g.seen[key] {
		return false, nil
	}
	g.seen[key] = true
	return true, nil
}

func (g *stubGuard) Release(_ context.Context, key string) error {
	delete(g.seen, key)
	g.released = append(g.released, key)
	return nil
}
