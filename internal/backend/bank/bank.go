// Package bank provides the client for the bank service: account
// provisioning, balance queries, and fund transfers. Top-ups are modeled
// as transfers from the bank's SYSTEM account.
package bank

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"github.com/swiftmart/storefront/internal/backend"
)

// SystemAccount is the bank-side source account used for top-ups.
const SystemAccount = "SYSTEM"

// Client calls the bank service. All operations require a session.
type Client struct {
	api *backend.Client
}

// New creates a bank client on top of a configured backend client.
func New(api *backend.Client) *Client {
	return &Client{api: api}
}

// Account is the caller's bank account.
type Account struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	AccountNumber string `json:"accountNumber"`
}

// BalanceResponse is the balance query result.
type BalanceResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Balance float64 `json:"balance"`
}

// TransferRequest moves funds between two accounts. TransactionRef makes
// the transfer idempotent on the bank side.
type TransferRequest struct {
	FromAccount    string  `json:"fromAccount"`
	ToAccount      string  `json:"toAccount"`
	Amount         float64 `json:"amount"`
	TransactionRef string  `json:"transactionRef"`
}

// TransferResponse is the transfer result.
type TransferResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TransactionID string `json:"transactionId"`
}

// MyAccount returns the caller's account, creating it on first use. The
// user is identified by the session token.
func (c *Client) MyAccount(ctx context.Context) (*Account, error) {
	var resp Account
	if err := c.api.Get(ctx, "/bank/account/me", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Balance returns the balance of an account.
func (c *Client) Balance(ctx context.Context, accountNumber string) (*BalanceResponse, error) {
	var resp BalanceResponse
	path := "/bank/account/" + url.PathEscape(accountNumber) + "/balance"
	if err := c.api.Get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddMoney tops up an account by transferring from the SYSTEM account.
func (c *Client) AddMoney(ctx context.Context, toAccount string, amount float64) (*TransferResponse, error) {
	return c.Transfer(ctx, TransferRequest{
		FromAccount:    SystemAccount,
		ToAccount:      toAccount,
		Amount:         amount,
		TransactionRef: "DEPOSIT-" + uuid.NewString(),
	})
}

// Transfer moves funds between accounts. A transaction reference is
// generated when the request does not carry one.
func (c *Client) Transfer(ctx context.Context, req TransferRequest) (*TransferResponse, error) {
	if req.TransactionRef == "" {
		req.TransactionRef = "TRANSFER-" + uuid.NewString()
	}

	var resp TransferResponse
	if err := c.api.Post(ctx, "/bank/transfer", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
