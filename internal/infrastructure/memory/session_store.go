package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/growthai/guardrail-engine/internal/api/metrics"
	"github.com/growthai/guardrail-engine/internal/core/service"
)

const cleanupInterval = 10 * time.Minute

// SessionStore keeps live sessions in process memory. Sessions idle for
// longer than the TTL are evicted and ended, which discards any guide reply
// still in flight.
type SessionStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewSessionStore returns a store whose entries expire after ttl without use.
func NewSessionStore(ttl time.Duration) *SessionStore {
	c := cache.New(ttl, cleanupInterval)
	c.OnEvicted(func(_ string, v interface{}) {
		if s, ok := v.(*service.Session); ok {
			s.End()
		}
		metrics.SessionsActive.Dec()
	})
	return &SessionStore{cache: c, ttl: ttl}
}

func (r *SessionStore) Save(s *service.Session) {
	if _, found := r.cache.Get(s.ID()); !found {
		metrics.SessionsActive.Inc()
	}
	r.cache.Set(s.ID(), s, cache.DefaultExpiration)
}

// Get returns the session and extends its lifetime.
func (r *SessionStore) Get(id string) (*service.Session, bool) {
	x, found := r.cache.Get(id)
	if !found {
		return nil, false
	}
	s := x.(*service.Session)
	r.cache.Set(id, s, cache.DefaultExpiration)
	return s, true
}

func (r *SessionStore) Delete(id string) {
	r.cache.Delete(id)
}

// Len returns the number of live sessions, including expired ones not yet
// cleaned up.
func (r *SessionStore) Len() int {
	return r.cache.ItemCount()
}
