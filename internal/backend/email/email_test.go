package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftmart/storefront/internal/backend"
)

func newTestEmail(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	api, err := backend.NewClient(backend.Config{
		BaseURL: server.URL,
	}, nil, nil, zerolog.Nop())
	require.NoError(t, err)
	return New(api)
}

func TestSendVerificationCode(t *testing.T) {
	client := newTestEmail(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/email/send-verification", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"), "email endpoints run pre-login")

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "jane@example.com", body["email"])

		json.NewEncoder(w).Encode(Response{Success: true, Message: "Code sent"})
	})

	resp, err := client.SendVerificationCode(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestVerifyCode(t *testing.T) {
	client := newTestEmail(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/email/verify-code", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "123456", body["code"])

		json.NewEncoder(w).Encode(Response{Success: true})
	})

	resp, err := client.VerifyCode(context.Background(), "jane@example.com", "123456")
	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestCheckVerified(t *testing.T) {
	client := newTestEmail(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/email/check-verified/jane@example.com", r.URL.Path)
		json.NewEncoder(w).Encode(Response{Success: false, Message: "Not verified"})
	})

	resp, err := client.CheckVerified(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.False(t, resp.Success)
}
