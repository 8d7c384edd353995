// Package session holds completed analyses in memory for repeated querying.
//
// One session corresponds to one upload event: the analysis is stored
// immutable under a fresh UUID and queried until it expires or is replaced.
// Nothing survives process restart; the store is a bounded cache, not a
// database.
package session

import (
	"time"

	"github.com/govrecon/accessrecon/internal/recon"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/google/uuid"
)

var (
	sessionHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "accessrecon_session_hits_total",
		Help: "Number of session lookups that found a live analysis.",
	})
	sessionMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "accessrecon_session_misses_total",
		Help: "Number of session lookups for an unknown or expired session.",
	})
	analysesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "accessrecon_analyses_created_total",
		Help: "Number of analyses stored since startup.",
	})
)

// Store is a bounded, TTL-evicting collection of analyses keyed by session ID.
type Store struct {
	cache *expirable.LRU[string, *recon.Analysis]
}

// NewStore creates a store capped at maxSessions entries, each expiring ttl
// after creation. Abandoned sessions age out without any explicit cleanup.
func NewStore(maxSessions int, ttl time.Duration) *Store {
	return &Store{
		cache: expirable.NewLRU[string, *recon.Analysis](maxSessions, nil, ttl),
	}
}

// Put stores an analysis and returns its new session ID.
func (s *Store) Put(a *recon.Analysis) string {
	id := uuid.NewString()
	s.cache.Add(id, a)
	analysesCreatedTotal.Inc()
	return id
}

// Get returns the analysis for id, or false if it never existed or expired.
func (s *Store) Get(id string) (*recon.Analysis, bool) {
	a, ok := s.cache.Get(id)
	if ok {
		sessionHitsTotal.Inc()
		return a, true
	}
	sessionMissesTotal.Inc()
	return nil, false
}

// Delete removes a session. Removing an unknown id is a no-op.
func (s *Store) Delete(id string) {
	s.cache.Remove(id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.cache.Len()
}
