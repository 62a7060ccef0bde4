package bank

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftmart/storefront/internal/backend"
)

func newTestBank(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	api, err := backend.NewClient(backend.Config{
		BaseURL:    server.URL,
		AttachAuth: true,
	}, nil, nil, zerolog.Nop())
	require.NoError(t, err)
	return New(api)
}

func TestMyAccount(t *testing.T) {
	client := newTestBank(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bank/account/me", r.URL.Path)
		json.NewEncoder(w).Encode(Account{Success: true, AccountNumber: "ACC-0007"})
	})

	acct, err := client.MyAccount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ACC-0007", acct.AccountNumber)
}

func TestBalance(t *testing.T) {
	client := newTestBank(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bank/account/ACC-0007/balance", r.URL.Path)
		json.NewEncoder(w).Encode(BalanceResponse{Success: true, Balance: 120.5})
	})

	resp, err := client.Balance(context.Background(), "ACC-0007")
	require.NoError(t, err)
	assert.Equal(t, 120.5, resp.Balance)
}

func TestAddMoneyTransfersFromSystem(t *testing.T) {
	client := newTestBank(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bank/transfer", r.URL.Path)

		var req TransferRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, SystemAccount, req.FromAccount)
		assert.Equal(t, "ACC-0007", req.ToAccount)
		assert.Equal(t, 50.0, req.Amount)
		assert.True(t, strings.HasPrefix(req.TransactionRef, "DEPOSIT-"),
			"transaction ref %q should carry the deposit prefix", req.TransactionRef)

		json.NewEncoder(w).Encode(TransferResponse{Success: true, TransactionID: "tx-1"})
	})

	resp, err := client.AddMoney(context.Background(), "ACC-0007", 50)
	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestTransferGeneratesRefWhenMissing(t *testing.T) {
	client := newTestBank(t, func(w http.ResponseWriter, r *http.Request) {
		var req TransferRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, strings.HasPrefix(req.TransactionRef, "TRANSFER-"))
		json.NewEncoder(w).Encode(TransferResponse{Success: true})
	})

	_, err := client.Transfer(context.Background(), TransferRequest{
		FromAccount: "ACC-0007",
		ToAccount:   "ACC-0008",
		Amount:      10,
	})
	require.NoError(t, err)
}

func TestTransferKeepsCallerRef(t *testing.T) {
	client := newTestBank(t, func(w http.ResponseWriter, r *http.Request) {
		var req TransferRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ORDER-42", req.TransactionRef)
		json.NewEncoder(w).Encode(TransferResponse{Success: true})
	})

	_, err := client.Transfer(context.Background(), TransferRequest{
		FromAccount:    "ACC-0007",
		ToAccount:      "ACC-0008",
		Amount:         10,
		TransactionRef: "ORDER-42",
	})
	require.NoError(t, err)
}
