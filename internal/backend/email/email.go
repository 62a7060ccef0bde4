// Package email provides the client for the email service's
// verification-code endpoints. None of them require a session.
package email

import (
	"context"
	"net/url"

	"github.com/swiftmart/storefront/internal/backend"
)

// Client calls the email service.
type Client struct {
	api *backend.Client
}

// New creates an email client on top of a configured backend client.
func New(api *backend.Client) *Client {
	return &Client{api: api}
}

// Response is the success/message envelope used by the email endpoints.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SendVerificationCode emails a verification code to the address.
func (c *Client) SendVerificationCode(ctx context.Context, address string) (*Response, error) {
	var resp Response
	body := map[string]string{"email": address}
	if err := c.api.Post(ctx, "/email/send-verification", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyCode checks a verification code against the one sent.
func (c *Client) VerifyCode(ctx context.Context, address, code string) (*Response, error) {
	var resp Response
	body := map[string]string{"email": address, "code": code}
	if err := c.api.Post(ctx, "/email/verify-code", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckVerified reports whether the address has been verified.
func (c *Client) CheckVerified(ctx context.Context, address string) (*Response, error) {
	var resp Response
	if err := c.api.Get(ctx, "/email/check-verified/"+url.PathEscape(address), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
