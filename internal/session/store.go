// Package session owns the client's authenticated-session value: the
// token and user identity shared by every backend client and view. The
// value is mutated only through Establish and Clear, so consumers never
// observe a partial session.
package session

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// State reports whether the store has finished rehydrating persisted state.
type State int

const (
	StateInitializing State = iota
	StateReady
)

// Session is the authenticated identity held by the client. The zero
// value means "not logged in".
type Session struct {
	Token     string
	UserEmail string
	UserID    int64
}

// LoggedIn reports whether a session is established.
func (s Session) LoggedIn() bool { return s.Token != "" }

// Store is the single source of truth for the current Session. It
// persists the session across restarts and notifies subscribers
// synchronously, in subscription order, after every change.
type Store struct {
	persister Persister
	log       zerolog.Logger

	mu          sync.RWMutex
	state       State
	current     Session
	initialized bool
	nextSubID   int
	subscribers []subscriber
}

type subscriber struct {
	id int
	fn func(Session)
}

// NewStore creates a Store in the initializing state. Initialize must be
// called once before protected content is rendered.
func NewStore(p Persister, log zerolog.Logger) *Store {
	return &Store{
		persister: p,
		log:       log,
		state:     StateInitializing,
	}
}

// Initialize rehydrates any persisted session record and transitions the
// store to ready. A record missing either token or email is treated as no
// session. Calling Initialize more than once is a no-op. No network calls.
func (s *Store) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return
	}
	s.initialized = true
	s.state = StateReady

	rec, ok, err := s.persister.Load()
	if err != nil {
		// Session loss is recoverable via re-login; never fatal.
		s.log.Warn().Err(err).Msg("session: failed to load persisted record")
		return
	}
	if !ok || rec.Token == "" || rec.UserEmail == "" {
		return
	}

	s.current = Session{
		Token:     rec.Token,
		UserEmail: rec.UserEmail,
		UserID:    rec.UserID,
	}
}

// Establish records a successful login. Both email and token are
// required; the persisted record is written before Establish returns so a
// reload immediately afterwards observes the session. Idempotent.
func (s *Store) Establish(email, token string, userID int64) error {
	if email == "" || token == "" {
		return fmt.Errorf("session: email and token are required")
	}

	s.mu.Lock()
	s.current = Session{Token: token, UserEmail: email, UserID: userID}
	rec := Record{
		Token:     token,
		UserEmail: email,
		UserID:    userID,
		LoggedIn:  true,
	}
	if err := s.persister.Save(rec); err != nil {
		s.log.Warn().Err(err).Msg("session: failed to persist record")
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// Clear resets the session to empty and removes the persisted record.
// Safe to call when already empty.
func (s *Store) Clear() {
	s.mu.Lock()
	s.current = Session{}
	if err := s.persister.Clear(); err != nil {
		s.log.Warn().Err(err).Msg("session: failed to remove persisted record")
	}
	s.mu.Unlock()

	s.notify()
}

// Current returns the current session value. Never blocks on I/O.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// State reports whether Initialize has completed.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Token returns the current session token, or "" when logged out. It
// satisfies the token source contract of the backend clients.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// Subscribe registers fn to be called after every Establish or Clear.
// The returned func removes the subscription.
func (s *Store) Subscribe(fn func(Session)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify() {
	s.mu.RLock()
	subs := make([]subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	current := s.current
	s.mu.RUnlock()

	for _, sub := range subs {
		sub.fn(current)
	}
}
