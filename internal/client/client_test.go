package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	catalogapp "github.com/prakruthi/storefront/internal/application/catalog"
	tradeapp "github.com/prakruthi/storefront/internal/application/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)

	c, err := NewClient(Config{BaseURL: "http://localhost:8080"})
	require.NoError(t, err)
	assert.Equal(t, "v1", c.apiVersion)
}

func TestClient_Orders(t *testing.T) {
	orderID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer console-token", r.Header.Get("Authorization"))

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/admin/orders":
			assert.Equal(t, "pending", r.URL.Query().Get("status"))
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"data":    []map[string]any{{"id": orderID, "customer_name": "Asha", "status": "pending"}},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/admin/orders/"+orderID.String()+"/deliver":
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"success": false,
				"error":   map[string]any{"code": "ERR_INVALID_STATE", "message": "Cannot move order", "request_id": "req-1"},
			})
		case r.Method == http.MethodPatch:
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c, err := NewClient(Config{BaseURL: server.URL, Token: "console-token"})
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("lists", func(t *testing.T) {
		orders, err := c.ListOrders(ctx, "pending")
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, orderID, orders[0].ID)
		assert.Equal(t, "Asha", orders[0].CustomerName)
	})

	t.Run("decodes api errors", func(t *testing.T) {
		_, err := c.DeliverOrder(ctx, orderID)
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
		assert.Equal(t, "ERR_INVALID_STATE", apiErr.Code)
		assert.Equal(t, "req-1", apiErr.RequestID)
	})

	t.Run("no content yields nil", func(t *testing.T) {
		paid := true
		order, err := c.UpdateOrder(ctx, uuid.New(), tradeapp.UpdateOrderRequest{Paid: &paid})
		require.NoError(t, err)
		assert.Nil(t, order)
	})

	t.Run("non-envelope errors keep the status", func(t *testing.T) {
		_, err := c.GetOrder(ctx, uuid.New())
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	})
}

func TestClient_Products(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/products":
			assert.Equal(t, "Oils", r.URL.Query().Get("category"))
			assert.Equal(t, "true", r.URL.Query().Get("best_selling"))
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": []any{}})
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/admin/products":
			var req catalogapp.CreateProductRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			writeJSON(w, http.StatusCreated, map[string]any{
				"success": true,
				"data":    map[string]any{"id": uuid.New(), "name": req.Name, "price": req.Price},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c, err := NewClient(Config{BaseURL: server.URL})
	require.NoError(t, err)
	ctx := context.Background()

	products, err := c.ListProducts(ctx, catalogapp.ProductListFilter{Category: "Oils", BestSelling: true})
	require.NoError(t, err)
	assert.Empty(t, products)

	created, err := c.CreateProduct(ctx, catalogapp.CreateProductRequest{Name: "Ghee", Price: 600})
	require.NoError(t, err)
	assert.Equal(t, "Ghee", created.Name)
	assert.Equal(t, int64(600), created.Price)
}
