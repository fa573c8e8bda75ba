// Package sessions keeps live estimator sessions in memory. Sessions expire
// after a period of inactivity.
package sessions

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/PortNumber53/agency-site/backend/internal/estimator"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("sessions: session not found")

const DefaultTTL = 2 * time.Hour

type entry struct {
	mu      sync.Mutex
	session *estimator.Session
}

// Store holds sessions keyed by id. Each session is guarded by its own mutex.
type Store struct {
	catalog *estimator.Catalog
	cache   *cache.Cache
}

// New creates a store whose sessions expire after ttl without activity.
func New(catalog *estimator.Catalog, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cleanup := ttl / 4
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &Store{
		catalog: catalog,
		cache:   cache.New(ttl, cleanup),
	}
}

// Create starts a new session and returns its id and initial view.
func (s *Store) Create() (string, estimator.View) {
	id := uuid.NewString()
	e := &entry{session: estimator.NewSession(s.catalog)}
	s.cache.Set(id, e, cache.DefaultExpiration)
	return id, e.session.View()
}

// View returns the current snapshot of a session.
func (s *Store) View(id string) (estimator.View, error) {
	e, err := s.lookup(id)
	if err != nil {
		return estimator.View{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.View(), nil
}

// Dispatch applies an action to a session. The returned view reflects the
// session after the action, including when the action was rejected.
func (s *Store) Dispatch(id string, a estimator.Action) (estimator.View, error) {
	e, err := s.lookup(id)
	if err != nil {
		return estimator.View{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	err = e.session.Dispatch(a)
	return e.session.View(), err
}

// Submit sends the session's quote through sub. The session lock is not held
// while sub runs; other requests see the session in the submitting phase.
func (s *Store) Submit(ctx context.Context, id string, sub estimator.Submitter) (string, estimator.View, error) {
	e, err := s.lookup(id)
	if err != nil {
		return "", estimator.View{}, err
	}

	e.mu.Lock()
	q, err := e.session.BeginSubmit()
	if err != nil {
		view := e.session.View()
		e.mu.Unlock()
		return "", view, err
	}
	e.mu.Unlock()

	quoteID, sendErr := sub.SubmitQuote(ctx, q)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.session.CompleteSubmit(quoteID, sendErr); err != nil {
		return "", e.session.View(), err
	}
	return quoteID, e.session.View(), nil
}

// Delete discards a session.
func (s *Store) Delete(id string) error {
	if _, found := s.cache.Get(id); !found {
		return ErrNotFound
	}
	s.cache.Delete(id)
	return nil
}

// Len reports the number of live sessions, including expired ones not yet
// purged.
func (s *Store) Len() int {
	return s.cache.ItemCount()
}

func (s *Store) lookup(id string) (*entry, error) {
	x, found := s.cache.Get(id)
	if !found {
		return nil, ErrNotFound
	}
	e := x.(*entry)
	// Replace only succeeds while the item is still live, so a concurrent
	// Delete or expiry is never undone by the touch.
	if err := s.cache.Replace(id, e, cache.DefaultExpiration); err != nil {
		return nil, ErrNotFound
	}
	return e, nil
}
