package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftmart/storefront/internal/backend/store"
	"github.com/swiftmart/storefront/internal/config"
	"github.com/swiftmart/storefront/internal/guard"
	"github.com/swiftmart/storefront/internal/session"
)

type recordingNavigator struct {
	mu    sync.Mutex
	route string
}

func (n *recordingNavigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.route
}

func (n *recordingNavigator) NavigateTo(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.route = route
}

func newTestApp(t *testing.T, handler http.HandlerFunc) (*App, *recordingNavigator) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Store.BaseURL = server.URL
	cfg.Delivery.BaseURL = server.URL
	cfg.Email.BaseURL = server.URL
	cfg.Bank.BaseURL = server.URL

	nav := &recordingNavigator{route: "/"}
	app, err := New(cfg, session.NewMemoryStore(), nav, zerolog.Nop())
	require.NoError(t, err)
	return app, nav
}

func TestLoginEstablishesSession(t *testing.T) {
	app, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user/login", r.URL.Path)
		json.NewEncoder(w).Encode(store.LoginResponse{
			Success: true,
			Token:   "jwt-token",
			Email:   "jane@example.com",
			UserID:  7,
		})
	})

	resp, err := app.Login(context.Background(), "jane@example.com", "s3cret")
	require.NoError(t, err)
	assert.True(t, resp.Success)

	current := app.Sessions.Current()
	assert.Equal(t, "jwt-token", current.Token)
	assert.Equal(t, "jane@example.com", current.UserEmail)
	assert.Equal(t, int64(7), current.UserID)
	assert.True(t, current.LoggedIn())
}

func TestLoginFailureLeavesNoSession(t *testing.T) {
	app, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(store.LoginResponse{
			Success: false,
			Message: "Invalid credentials",
		})
	})

	_, err := app.Login(context.Background(), "jane@example.com", "wrong")
	require.Error(t, err)
	assert.False(t, app.Sessions.Current().LoggedIn())
}

// An expired token on any backend clears the session and redirects to
// the login view exactly once.
func TestExpiredSessionClearedAndRedirected(t *testing.T) {
	app, nav := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	require.NoError(t, app.Sessions.Establish("jane@example.com", "stale-token", 7))

	_, err := app.Delivery.MyDeliveries(context.Background())
	require.Error(t, err)

	assert.False(t, app.Sessions.Current().LoggedIn())
	assert.Equal(t, guard.DefaultLoginRoute, nav.Current())
}

func TestLogout(t *testing.T) {
	app, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(store.LoginResponse{
			Success: true,
			Token:   "jwt-token",
			Email:   "jane@example.com",
			UserID:  7,
		})
	})

	_, err := app.Login(context.Background(), "jane@example.com", "s3cret")
	require.NoError(t, err)

	app.Logout()
	assert.False(t, app.Sessions.Current().LoggedIn())
	assert.Empty(t, app.Sessions.Token())
}
