// Package app wires the storefront client together: one session store,
// one guard, and one configured client per backend, all sharing the same
// session and error pathway.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/swiftmart/storefront/internal/backend"
	"github.com/swiftmart/storefront/internal/backend/bank"
	"github.com/swiftmart/storefront/internal/backend/delivery"
	"github.com/swiftmart/storefront/internal/backend/email"
	"github.com/swiftmart/storefront/internal/backend/store"
	"github.com/swiftmart/storefront/internal/config"
	"github.com/swiftmart/storefront/internal/guard"
	"github.com/swiftmart/storefront/internal/session"
)

// App holds the long-lived client components. Each backend client is
// constructed once and reused for the process lifetime.
type App struct {
	Sessions *session.Store
	Guard    *guard.Guard
	Store    *store.Client
	Delivery *delivery.Client
	Email    *email.Client
	Bank     *bank.Client
}

// New builds the component graph. The session store is initialized
// before any client can run a request.
func New(cfg *config.Config, persister session.Persister, nav guard.Navigator, log zerolog.Logger) (*App, error) {
	sessions := session.NewStore(persister, log)
	sessions.Initialize()

	g := guard.New(sessions, nav, log)

	newClient := func(name string, ep config.Endpoint) (*backend.Client, error) {
		client, err := backend.NewClient(backend.Config{
			BaseURL:    ep.BaseURL,
			Timeout:    ep.Timeout(),
			AttachAuth: ep.AttachAuth,
		}, sessions, g, log.With().Str("backend", name).Logger())
		if err != nil {
			return nil, fmt.Errorf("configure %s backend: %w", name, err)
		}
		return client, nil
	}

	storeAPI, err := newClient("store", cfg.Store)
	if err != nil {
		return nil, err
	}
	deliveryAPI, err := newClient("delivery", cfg.Delivery)
	if err != nil {
		return nil, err
	}
	emailAPI, err := newClient("email", cfg.Email)
	if err != nil {
		return nil, err
	}
	bankAPI, err := newClient("bank", cfg.Bank)
	if err != nil {
		return nil, err
	}

	return &App{
		Sessions: sessions,
		Guard:    g,
		Store:    store.New(storeAPI),
		Delivery: delivery.New(deliveryAPI),
		Email:    email.New(emailAPI),
		Bank:     bank.New(bankAPI),
	}, nil
}

// Login authenticates against the store service and establishes the
// session on success.
func (a *App) Login(ctx context.Context, address, password string) (*store.LoginResponse, error) {
	resp, err := a.Store.Login(ctx, store.LoginRequest{Email: address, Password: password})
	if err != nil {
		return nil, err
	}
	if !resp.Success || resp.Token == "" {
		return resp, fmt.Errorf("login failed: %s", resp.Message)
	}

	if err := a.Sessions.Establish(resp.Email, resp.Token, resp.UserID); err != nil {
		return resp, err
	}
	return resp, nil
}

// Logout clears the session.
func (a *App) Logout() {
	a.Sessions.Clear()
}
