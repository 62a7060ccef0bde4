package store

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

func newTestStore(t *testing.T, handler http.HandlerFunc) *Client {
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

func TestLogin(t *testing.T) {
	client := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/user/login", r.URL.Path)

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "jane@example.com", req.Email)
		assert.Equal(t, "s3cret", req.Password)

		json.NewEncoder(w).Encode(LoginResponse{
			Success: true,
			Token:   "jwt-token",
			Email:   req.Email,
			UserID:  7,
		})
	})

	resp, err := client.Login(context.Background(), LoginRequest{
		Email:    "jane@example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "jwt-token", resp.Token)
	assert.Equal(t, int64(7), resp.UserID)
}

func TestCheckEmailVerifiedEscapesPath(t *testing.T) {
	client := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/check-verified/jane@example.com", r.URL.Path)
		json.NewEncoder(w).Encode(AccountResponse{Success: true})
	})

	resp, err := client.CheckEmailVerified(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestProductsUnwrapsEnvelope(t *testing.T) {
	client := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		w.Write([]byte(`{"products":[{"id":1,"name":"Mug","price":9.5,"stockQuantity":3}]}`))
	})

	products, err := client.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Mug", products[0].Name)
	assert.Equal(t, 3, products[0].StockQuantity)
}

func TestSearchProductsEncodesQuery(t *testing.T) {
	client := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/search", r.URL.Path)
		assert.Equal(t, "coffee mug", r.URL.Query().Get("name"))
		w.Write([]byte(`{"products":[]}`))
	})

	products, err := client.SearchProducts(context.Background(), "coffee mug")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestCheckout(t *testing.T) {
	client := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/store/orders/create-with-payment", r.URL.Path)

		var req CheckoutRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(7), req.UserID)
		require.Len(t, req.OrderItems, 1)
		assert.Equal(t, int64(3), req.OrderItems[0].ProductID)

		json.NewEncoder(w).Encode(OrderResponse{
			Success: true,
			Order:   &Order{ID: 11, Status: "PAID"},
		})
	})

	resp, err := client.Checkout(context.Background(), CheckoutRequest{
		UserID:     7,
		OrderItems: []OrderItem{{ProductID: 3, Quantity: 2}},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Order)
	assert.Equal(t, int64(11), resp.Order.ID)
}

func TestUserOrdersWithPayment(t *testing.T) {
	client := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/store/orders/user/7/with-payment", r.URL.Path)
		w.Write([]byte(`[{"order":{"id":11,"status":"PAID"},"payment":{"paymentId":5,"orderId":11,"status":"COMPLETED","amount":19.0}}]`))
	})

	orders, err := client.UserOrdersWithPayment(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "PAID", orders[0].Order.Status)
	assert.Equal(t, "COMPLETED", orders[0].Payment.Status)
}

func TestCancelOrder(t *testing.T) {
	client := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/store/orders/11/cancel", r.URL.Path)
		json.NewEncoder(w).Encode(OrderResponse{Success: true, Message: "Order cancelled"})
	})

	resp, err := client.CancelOrder(context.Background(), 11)
	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestRefundPaymentDefaultsReason(t *testing.T) {
	client := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/11/refund", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Customer requested refund", body["reason"])

		json.NewEncoder(w).Encode(PaymentResponse{Success: true})
	})

	resp, err := client.RefundPayment(context.Background(), 11, "")
	require.NoError(t, err)
	assert.True(t, resp.Success)
}
