package razorpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateOrder(t *testing.T) {
	var received OrderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test", user)
		assert.Equal(t, "secret", pass)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_1","entity":"order","amount":28600,"currency":"INR","receipt":"ord_x","status":"created"}`))
	}))
	defer server.Close()

	client, err := NewRazorpayClient(server.URL, "rzp_test", "secret", server.Client())
	require.NoError(t, err)

	order, err := client.CreateOrder(context.Background(), OrderRequest{Amount: 28600, Currency: "INR", Receipt: "ord_x", Notes: map[string]string{"itemCount": "2"}})
	require.NoError(t, err)
	assert.Equal(t, "order_1", order.ID)
	assert.EqualValues(t, 28600, order.Amount)
	assert.EqualValues(t, 28600, received.Amount)
	assert.Equal(t, "2", received.Notes["itemCount"])
	assert.Equal(t, "rzp_test", client.KeyID())
}

func TestClient_FetchOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path != "/v1/orders/order_1" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"The id provided does not exist"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"order_1","amount":16800,"amount_paid":16800,"currency":"INR","status":"paid"}`))
	}))
	defer server.Close()

	client, err := NewRazorpayClient(server.URL, "rzp_test", "secret", nil)
	require.NoError(t, err)

	order, err := client.FetchOrder(context.Background(), "order_1")
	require.NoError(t, err)
	assert.Equal(t, "paid", order.Status)
	assert.EqualValues(t, 16800, order.AmountPaid)

	_, err = client.FetchOrder(context.Background(), "order_missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestClient_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount must be at least INR 1.00"}}`))
	}))
	defer server.Close()

	client, err := NewRazorpayClient(server.URL, "rzp_test", "secret", nil)
	require.NoError(t, err)

	_, err = client.CreateOrder(context.Background(), OrderRequest{Amount: 50, Currency: "INR"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount must be at least")

	_, err = client.CreateOrder(context.Background(), OrderRequest{Amount: 0})
	assert.Error(t, err)

	_, err = NewRazorpayClient(server.URL, "", "secret", nil)
	assert.Error(t, err)
}
