package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"
)

// OrderRequest is the body of POST /v1/orders.
type OrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt,omitempty"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Order is the gateway order entity.
type Order struct {
	ID         string            `json:"id"`
	Entity     string            `json:"entity"`
	Amount     int64             `json:"amount"`
	AmountPaid int64             `json:"amount_paid"`
	AmountDue  int64             `json:"amount_due"`
	Currency   string            `json:"currency"`
	Receipt    string            `json:"receipt"`
	Status     string            `json:"status"`
	Attempts   int               `json:"attempts"`
	Notes      map[string]string `json:"notes"`
	CreatedAt  int64             `json:"created_at"`
}

// ErrorBody wraps a gateway error response.
type ErrorBody struct {
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail describes a rejected request.
type ErrorDetail struct {
	Code        *string `json:"code,omitempty"`
	Description *string `json:"description,omitempty"`
	Field       *string `json:"field,omitempty"`
}

// HttpRequestDoer performs HTTP requests.
type HttpRequestDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestEditorFn mutates an outgoing request, e.g. to add credentials.
type RequestEditorFn func(ctx context.Context, req *http.Request) error

// APIClient issues raw requests against the gateway REST API.
type APIClient struct {
	Server         string
	Client         HttpRequestDoer
	RequestEditors []RequestEditorFn
}

// ClientOption configures an APIClient.
type ClientOption func(*APIClient) error

func NewAPIClient(server string, opts ...ClientOption) (*APIClient, error) {
	client := APIClient{Server: server}
	for _, o := range opts {
		if err := o(&client); err != nil {
			return nil, err
		}
	}
	if !strings.HasSuffix(client.Server, "/") {
		client.Server += "/"
	}
	if client.Client == nil {
		client.Client = &http.Client{}
	}
	return &client, nil
}

// WithHTTPClient overrides the transport.
func WithHTTPClient(doer HttpRequestDoer) ClientOption {
	return func(c *APIClient) error {
		c.Client = doer
		return nil
	}
}

// WithRequestEditorFn appends a request editor applied to every call.
func WithRequestEditorFn(fn RequestEditorFn) ClientOption {
	return func(c *APIClient) error {
		c.RequestEditors = append(c.RequestEditors, fn)
		return nil
	}
}

func (c *APIClient) CreateOrder(ctx context.Context, body OrderRequest, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewCreateOrderRequest(c.Server, body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req, reqEditors)
}

func (c *APIClient) FetchOrder(ctx context.Context, id string, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewFetchOrderRequest(c.Server, id)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req, reqEditors)
}

func (c *APIClient) do(ctx context.Context, req *http.Request, additional []RequestEditorFn) (*http.Response, error) {
	req = req.WithContext(ctx)
	for _, editors := range [][]RequestEditorFn{c.RequestEditors, additional} {
		for _, fn := range editors {
			if err := fn(ctx, req); err != nil {
				return nil, err
			}
		}
	}
	return c.Client.Do(req)
}

// NewCreateOrderRequest builds POST /v1/orders.
func NewCreateOrderRequest(server string, body OrderRequest) (*http.Request, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	queryURL, err := resolve(server, "v1/orders")
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, queryURL.String(), bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/json")
	return req, nil
}

// NewFetchOrderRequest builds GET /v1/orders/{id}.
func NewFetchOrderRequest(server string, id string) (*http.Request, error) {
	pathParam, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, id)
	if err != nil {
		return nil, err
	}
	queryURL, err := resolve(server, fmt.Sprintf("v1/orders/%s", pathParam))
	if err != nil {
		return nil, err
	}
	return http.NewRequest(http.MethodGet, queryURL.String(), nil)
}

func resolve(server, path string) (*url.URL, error) {
	serverURL, err := url.Parse(server)
	if err != nil {
		return nil, err
	}
	return serverURL.Parse(path)
}

// OrderResponse is a parsed order call result.
type OrderResponse struct {
	Body         []byte
	HTTPResponse *http.Response
	JSON200      *Order
	JSON4XX      *ErrorBody
	JSON5XX      *ErrorBody
}

// Status returns HTTPResponse.Status.
func (r OrderResponse) Status() string {
	if r.HTTPResponse != nil {
		return r.HTTPResponse.Status
	}
	return http.StatusText(0)
}

// StatusCode returns HTTPResponse.StatusCode.
func (r OrderResponse) StatusCode() int {
	if r.HTTPResponse != nil {
		return r.HTTPResponse.StatusCode
	}
	return 0
}

// ClientWithResponses parses responses into typed bodies.
type ClientWithResponses struct {
	api *APIClient
}

func NewClientWithResponses(server string, opts ...ClientOption) (*ClientWithResponses, error) {
	api, err := NewAPIClient(server, opts...)
	if err != nil {
		return nil, err
	}
	return &ClientWithResponses{api: api}, nil
}

func (c *ClientWithResponses) CreateOrderWithResponse(ctx context.Context, body OrderRequest, reqEditors ...RequestEditorFn) (*OrderResponse, error) {
	rsp, err := c.api.CreateOrder(ctx, body, reqEditors...)
	if err != nil {
		return nil, err
	}
	return ParseOrderResponse(rsp)
}

func (c *ClientWithResponses) FetchOrderWithResponse(ctx context.Context, id string, reqEditors ...RequestEditorFn) (*OrderResponse, error) {
	rsp, err := c.api.FetchOrder(ctx, id, reqEditors...)
	if err != nil {
		return nil, err
	}
	return ParseOrderResponse(rsp)
}

// ParseOrderResponse reads and decodes an order response.
func ParseOrderResponse(rsp *http.Response) (*OrderResponse, error) {
	bodyBytes, err := io.ReadAll(rsp.Body)
	defer func() { _ = rsp.Body.Close() }()
	if err != nil {
		return nil, err
	}
	response := &OrderResponse{Body: bodyBytes, HTTPResponse: rsp}
	if !strings.Contains(rsp.Header.Get("Content-Type"), "json") || len(bodyBytes) == 0 {
		return response, nil
	}
	switch {
	case rsp.StatusCode == http.StatusOK:
		var dest Order
		if err := json.Unmarshal(bodyBytes, &dest); err != nil {
			return nil, err
		}
		response.JSON200 = &dest
	case rsp.StatusCode >= 400 && rsp.StatusCode < 500:
		var dest ErrorBody
		if err := json.Unmarshal(bodyBytes, &dest); err != nil {
			return nil, err
		}
		response.JSON4XX = &dest
	case rsp.StatusCode >= 500:
		var dest ErrorBody
		if err := json.Unmarshal(bodyBytes, &dest); err != nil {
			return nil, err
		}
		response.JSON5XX = &dest
	}
	return response, nil
}
