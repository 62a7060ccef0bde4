// Package backend provides the shared HTTP pathway used by every
// storefront backend client: one configured client per service origin,
// bearer-token injection from the session store, and normalization of
// every failure into the canonical error shape.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/swiftmart/storefront/internal/apierr"
)

// TokenSource supplies the current session token, if any. Requests are
// never blocked waiting for a token: when none is present the request
// goes out unauthenticated and the backend rejects it if it must.
type TokenSource interface {
	Token() string
}

// Guard reacts to an unauthenticated response from any backend.
type Guard interface {
	OnUnauthenticated()
}

// Config describes one backend endpoint. Immutable after construction.
type Config struct {
	BaseURL string
	// Timeout defaults to 10 seconds.
	Timeout time.Duration
	// AttachAuth controls whether the session token is sent as a
	// bearer credential.
	AttachAuth bool
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// Client is the request pathway for one backend. One instance exists per
// backend origin, configured once at startup and reused for the process
// lifetime.
type Client struct {
	baseURL    string
	attachAuth bool
	httpClient *http.Client
	tokens     TokenSource
	guard      Guard
	log        zerolog.Logger
}

// NewClient creates a configured backend client. tokens and g may be nil
// for backends that never authenticate.
func NewClient(cfg Config, tokens TokenSource, g Guard, log zerolog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("BaseURL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		attachAuth: cfg.AttachAuth,
		httpClient: httpClient,
		tokens:     tokens,
		guard:      g,
		log:        log,
	}, nil
}

// Get performs a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

// do executes one request. Every failure path returns an *apierr.Error;
// callers never see any other error shape.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return apierr.FromRequest(fmt.Errorf("marshal request body: %w", err))
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return apierr.FromRequest(fmt.Errorf("create request: %w", err))
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	// Token is read just before send so concurrent logins/logouts are
	// reflected without queueing.
	if c.attachAuth && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.log.Debug().Str("method", method).Str("url", c.baseURL+path).Msg("sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("url", c.baseURL+path).Msg("request failed without response")
		return apierr.FromTransport(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apierr.FromTransport(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode >= 400 {
		apiErr := apierr.FromResponse(resp.StatusCode, data)
		c.log.Warn().
			Int("status", resp.StatusCode).
			Str("classification", string(apiErr.Classification)).
			Str("url", c.baseURL+path).
			Msg("request rejected")

		if apiErr.Classification == apierr.ClassUnauthenticated && c.guard != nil {
			c.guard.OnUnauthenticated()
		}
		return apiErr
	}

	c.log.Debug().Int("status", resp.StatusCode).Str("url", c.baseURL+path).Msg("received response")

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apierr.FromRequest(fmt.Errorf("decode response: %w", err))
	}
	return nil
}
