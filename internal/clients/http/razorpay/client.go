package razorpay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public gateway API.
const DefaultBaseURL = "https://api.razorpay.com"

// ErrNotFound is returned when the gateway does not know an order.
var ErrNotFound = errors.New("razorpay order not found")

// Client wraps ClientWithResponses with key authentication.
type Client struct {
	api   *ClientWithResponses
	keyID string
}

// NewRazorpayClient builds an authenticated client. An empty baseURL uses DefaultBaseURL.
func NewRazorpayClient(baseURL, keyID, keySecret string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	keyID, keySecret = strings.TrimSpace(keyID), strings.TrimSpace(keySecret)
	if keyID == "" || keySecret == "" {
		return nil, errors.New("razorpay key id and secret are required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	auth := func(_ context.Context, req *http.Request) error {
		req.SetBasicAuth(keyID, keySecret)
		return nil
	}
	api, err := NewClientWithResponses(baseURL, WithHTTPClient(httpClient), WithRequestEditorFn(auth))
	if err != nil {
		return nil, fmt.Errorf("build razorpay client: %w", err)
	}
	return &Client{api: api, keyID: keyID}, nil
}

// KeyID returns the public key id.
func (c *Client) KeyID() string {
	if c == nil {
		return ""
	}
	return c.keyID
}

// CreateOrder opens a gateway order for amount minor units.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if c == nil || c.api == nil {
		return nil, errors.New("razorpay client not configured")
	}
	if req.Amount <= 0 {
		return nil, errors.New("razorpay order amount must be positive")
	}
	resp, err := c.api.CreateOrderWithResponse(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call razorpay API: %w", err)
	}
	return orderResult(resp)
}

// FetchOrder loads an existing gateway order.
func (c *Client) FetchOrder(ctx context.Context, id string) (*Order, error) {
	if c == nil || c.api == nil {
		return nil, errors.New("razorpay client not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("razorpay order id is required")
	}
	resp, err := c.api.FetchOrderWithResponse(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("call razorpay API: %w", err)
	}
	return orderResult(resp)
}

func orderResult(resp *OrderResponse) (*Order, error) {
	if resp == nil || resp.StatusCode() == 0 {
		return nil, errors.New("razorpay API returned an empty response")
	}
	status := resp.StatusCode()
	switch {
	case status == http.StatusOK && resp.JSON200 != nil:
		return resp.JSON200, nil
	case status == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, errorMessage(resp.JSON4XX, resp.Status()))
	case status >= http.StatusInternalServerError:
		return nil, fmt.Errorf("razorpay API error: %s", errorMessage(resp.JSON5XX, resp.Status()))
	case status >= http.StatusBadRequest:
		return nil, fmt.Errorf("razorpay API rejected request: %s", errorMessage(resp.JSON4XX, resp.Status()))
	default:
		return nil, fmt.Errorf("razorpay API unexpected status: %s", resp.Status())
	}
}

func errorMessage(body *ErrorBody, fallback string) string {
	if body == nil || body.Error == nil {
		return fallback
	}
	if body.Error.Description != nil {
		if msg := strings.TrimSpace(*body.Error.Description); msg != "" {
			return msg
		}
	}
	if body.Error.Code != nil {
		if msg := strings.TrimSpace(*body.Error.Code); msg != "" {
			return msg
		}
	}
	return fallback
}
