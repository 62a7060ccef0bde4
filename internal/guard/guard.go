// Package guard centralizes the reaction to an invalid session. A 401
// from any backend ends up here, regardless of which client saw it.
package guard

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/swiftmart/storefront/internal/session"
)

// DefaultLoginRoute is the login entry point navigated to after the
// session is invalidated.
const DefaultLoginRoute = "/login"

// Navigator abstracts the view layer's location. Current returns the
// active route; NavigateTo performs a full navigation.
type Navigator interface {
	Current() string
	NavigateTo(route string)
}

// Guard clears the session and redirects to the login entry point when
// any backend reports the session as no longer valid.
type Guard struct {
	sessions   *session.Store
	nav        Navigator
	loginRoute string
	log        zerolog.Logger

	mu sync.Mutex
}

// New creates a Guard using DefaultLoginRoute.
func New(sessions *session.Store, nav Navigator, log zerolog.Logger) *Guard {
	return &Guard{
		sessions:   sessions,
		nav:        nav,
		loginRoute: DefaultLoginRoute,
		log:        log,
	}
}

// OnUnauthenticated clears the session store, then navigates to the login
// entry point unless the current view already is it. Safe to call from
// any number of concurrently failing requests: clearing an empty session
// and navigating from the login view are both no-ops.
func (g *Guard) OnUnauthenticated() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.sessions.Clear()

	if g.nav.Current() == g.loginRoute {
		return
	}
	g.log.Info().Str("route", g.loginRoute).Msg("session invalidated, redirecting to login")
	g.nav.NavigateTo(g.loginRoute)
}
