// Package client is the admin console's view of the storefront API. It keeps
// local mirrors of orders and products that only change after the server
// acknowledges a write.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	catalogapp "github.com/prakruthi/storefront/internal/application/catalog"
	"github.com/prakruthi/storefront/internal/application/report"
	storeapp "github.com/prakruthi/storefront/internal/application/store"
	tradeapp "github.com/prakruthi/storefront/internal/application/trade"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Config configures the API client
type Config struct {
	BaseURL    string
	APIVersion string
	// Token is sent as a bearer token on every request
	Token   string
	Timeout time.Duration
}

// Client calls the storefront admin API. Failed requests are not retried.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	apiVersion string
	token      string
}

// NewClient creates a new Client
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "v1"
	}

	return &Client{
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.Timeout,
		},
		baseURL:    baseURL,
		apiVersion: cfg.APIVersion,
		token:      cfg.Token,
	}, nil
}

// APIError is a non-2xx answer from the API
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: %s: %s (status %d)", e.Code, e.Message, e.StatusCode)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"error"`
}

// do sends the request and decodes the data field into out. It reports
// whether the API answered with content; 204 leaves out untouched.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (bool, error) {
	u := c.baseURL.JoinPath("api", c.apiVersion, strings.TrimPrefix(path, "/"))
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("marshaling request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return false, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return false, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("reading response body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 300 {
			return false, &APIError{StatusCode: resp.StatusCode}
		}
		return false, fmt.Errorf("decoding response: %w", err)
	}
	if resp.StatusCode >= 300 || !env.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.RequestID = env.Error.RequestID
		}
		return false, apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return false, fmt.Errorf("decoding response data: %w", err)
		}
	}
	return true, nil
}

// ListOrders returns orders newest first; an empty status lists all
func (c *Client) ListOrders(ctx context.Context, status string) ([]tradeapp.OrderResponse, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	var orders []tradeapp.OrderResponse
	_, err := c.do(ctx, http.MethodGet, "/admin/orders", query, nil, &orders)
	return orders, err
}

// GetOrder fetches one order
func (c *Client) GetOrder(ctx context.Context, id uuid.UUID) (*tradeapp.OrderResponse, error) {
	return c.orderCall(ctx, http.MethodGet, "/admin/orders/"+id.String(), nil)
}

// UpdateOrder merges fields into an order. A missing order yields (nil, nil).
func (c *Client) UpdateOrder(ctx context.Context, id uuid.UUID, req tradeapp.UpdateOrderRequest) (*tradeapp.OrderResponse, error) {
	return c.orderCall(ctx, http.MethodPatch, "/admin/orders/"+id.String(), req)
}

// DeleteOrder removes an order
func (c *Client) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	_, err := c.do(ctx, http.MethodDelete, "/admin/orders/"+id.String(), nil, nil, nil)
	return err
}

// MarkOrderPaid sets the paid flag
func (c *Client) MarkOrderPaid(ctx context.Context, id uuid.UUID, paid bool) (*tradeapp.OrderResponse, error) {
	return c.orderCall(ctx, http.MethodPost, "/admin/orders/"+id.String()+"/paid", tradeapp.MarkPaidRequest{Paid: &paid})
}

// DeliverOrder moves a pending order to delivered
func (c *Client) DeliverOrder(ctx context.Context, id uuid.UUID) (*tradeapp.OrderResponse, error) {
	return c.orderCall(ctx, http.MethodPost, "/admin/orders/"+id.String()+"/deliver", nil)
}

// CancelOrder moves a pending order to cancelled
func (c *Client) CancelOrder(ctx context.Context, id uuid.UUID) (*tradeapp.OrderResponse, error) {
	return c.orderCall(ctx, http.MethodPost, "/admin/orders/"+id.String()+"/cancel", nil)
}

// SaveOrderItems replaces an order's item set
func (c *Client) SaveOrderItems(ctx context.Context, id uuid.UUID, items []tradeapp.OrderItemInput) (*tradeapp.OrderResponse, error) {
	return c.orderCall(ctx, http.MethodPut, "/admin/orders/"+id.String()+"/items", tradeapp.SaveItemsRequest{Items: items})
}

// UpdateOrderItemQuantity sets the quantity of one order line
func (c *Client) UpdateOrderItemQuantity(ctx context.Context, id uuid.UUID, key string, quantity int) (*tradeapp.OrderResponse, error) {
	return c.orderCall(ctx, http.MethodPatch, "/admin/orders/"+id.String()+"/items/"+url.PathEscape(key),
		tradeapp.UpdateItemQuantityRequest{Quantity: quantity})
}

// RemoveOrderItem drops one order line
func (c *Client) RemoveOrderItem(ctx context.Context, id uuid.UUID, key string) (*tradeapp.OrderResponse, error) {
	return c.orderCall(ctx, http.MethodDelete, "/admin/orders/"+id.String()+"/items/"+url.PathEscape(key), nil)
}

func (c *Client) orderCall(ctx context.Context, method, path string, body any) (*tradeapp.OrderResponse, error) {
	var order tradeapp.OrderResponse
	ok, err := c.do(ctx, method, path, nil, body, &order)
	if err != nil || !ok {
		return nil, err
	}
	return &order, nil
}

// ListProducts returns the catalog
func (c *Client) ListProducts(ctx context.Context, filter catalogapp.ProductListFilter) ([]catalogapp.ProductResponse, error) {
	query := url.Values{}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.Search != "" {
		query.Set("q", filter.Search)
	}
	if filter.BestSelling {
		query.Set("best_selling", "true")
	}
	var products []catalogapp.ProductResponse
	_, err := c.do(ctx, http.MethodGet, "/products", query, nil, &products)
	return products, err
}

// CreateProduct adds a product
func (c *Client) CreateProduct(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error) {
	return c.productCall(ctx, http.MethodPost, "/admin/products", req)
}

// UpdateProduct merges fields into a product. A missing product yields (nil, nil).
func (c *Client) UpdateProduct(ctx context.Context, id uuid.UUID, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error) {
	return c.productCall(ctx, http.MethodPut, "/admin/products/"+id.String(), req)
}

// UpdateVariantStock sets one variant's stock
func (c *Client) UpdateVariantStock(ctx context.Context, id uuid.UUID, variantID string, req catalogapp.UpdateVariantStockRequest) (*catalogapp.ProductResponse, error) {
	return c.productCall(ctx, http.MethodPut,
		"/admin/products/"+id.String()+"/variants/"+url.PathEscape(variantID)+"/stock", req)
}

// DeleteProduct removes a product
func (c *Client) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	_, err := c.do(ctx, http.MethodDelete, "/admin/products/"+id.String(), nil, nil, nil)
	return err
}

func (c *Client) productCall(ctx context.Context, method, path string, body any) (*catalogapp.ProductResponse, error) {
	var product catalogapp.ProductResponse
	ok, err := c.do(ctx, method, path, nil, body, &product)
	if err != nil || !ok {
		return nil, err
	}
	return &product, nil
}

// GetStore returns the store profile
func (c *Client) GetStore(ctx context.Context) (*storeapp.StoreResponse, error) {
	var profile storeapp.StoreResponse
	if _, err := c.do(ctx, http.MethodGet, "/store", nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateStore merges fields into the store profile
func (c *Client) UpdateStore(ctx context.Context, req storeapp.UpdateStoreRequest) (*storeapp.StoreResponse, error) {
	var profile storeapp.StoreResponse
	if _, err := c.do(ctx, http.MethodPut, "/admin/store", nil, req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Dashboard returns the staff dashboard summary
func (c *Client) Dashboard(ctx context.Context) (*report.DashboardResponse, error) {
	var summary report.DashboardResponse
	if _, err := c.do(ctx, http.MethodGet, "/admin/dashboard", nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
