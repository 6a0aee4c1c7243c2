// Package sessionstore keeps live claimant sessions in process memory.
package sessionstore

import (
	"crypto/subtle"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/goliatone/go-claimform/pkg/session"
)

const (
	idLength   = 21
	csrfLength = 32
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = eris.New("session not found")

// Factory builds a fresh session for a newly minted id.
type Factory func(id string) *session.Session

// Entry is one stored session. Callers hold the entry lock for the duration
// of a request so a session only ever sees one request at a time.
type Entry struct {
	mu      sync.Mutex
	Session *session.Session
	CSRF    string
	// Flash is a one-shot notice for the next rendered page.
	Flash string
}

// Store is a TTL cache of sessions keyed by id.
type Store struct {
	cache   *gocache.Cache
	ttl     time.Duration
	factory Factory
	logger  *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for expiry events.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a store. Entries idle for ttl are evicted by a janitor running
// every cleanup interval.
func New(ttl, cleanup time.Duration, factory Factory, opts ...Option) *Store {
	if factory == nil {
		factory = func(id string) *session.Session { return session.New(id) }
	}
	s := &Store{
		cache:   gocache.New(ttl, cleanup),
		ttl:     ttl,
		factory: factory,
		logger:  zap.L(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.cache.OnEvicted(func(id string, _ any) {
		s.logger.Debug("session evicted", zap.String("session_id", id))
	})
	return s
}

// Create mints a session with fresh id and CSRF token.
func (s *Store) Create() (*Entry, error) {
	id, err := gonanoid.New(idLength)
	if err != nil {
		return nil, eris.Wrap(err, "sessionstore: generate id")
	}
	token, err := gonanoid.New(csrfLength)
	if err != nil {
		return nil, eris.Wrap(err, "sessionstore: generate csrf token")
	}
	entry := &Entry{Session: s.factory(id), CSRF: token}
	if err := s.cache.Add(id, entry, gocache.DefaultExpiration); err != nil {
		return nil, eris.Wrap(err, "sessionstore: add")
	}
	return entry, nil
}

// Get returns the entry and extends its expiry.
func (s *Store) Get(id string) (*Entry, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	val, found := s.cache.Get(id)
	if !found {
		return nil, eris.Wrapf(ErrNotFound, "session %s", id)
	}
	entry := val.(*Entry)
	s.cache.Set(id, entry, gocache.DefaultExpiration)
	return entry, nil
}

// Delete drops a session.
func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

// Len reports the number of live sessions, including expired entries the
// janitor has not yet collected.
func (s *Store) Len() int {
	return s.cache.ItemCount()
}

// TTL returns the idle lifetime of a session.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// With runs fn while holding the entry lock.
func (s *Store) With(id string, fn func(*Entry) error) error {
	entry, err := s.Get(id)
	if err != nil {
		return err
	}
	entry.Lock()
	defer entry.Unlock()
	return fn(entry)
}

// Lock serialises access to the entry's session.
func (e *Entry) Lock() { e.mu.Lock() }

// Unlock releases the entry.
func (e *Entry) Unlock() { e.mu.Unlock() }

// ID returns the session id.
func (e *Entry) ID() string {
	return e.Session.ID
}

// VerifyCSRF compares token with the entry's token in constant time.
func (e *Entry) VerifyCSRF(token string) bool {
	if e.CSRF == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(e.CSRF), []byte(token)) == 1
}
