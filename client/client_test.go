package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginStoresToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "shopper@example.com", body["email"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"token": "session-token",
			"user":  map[string]string{"id": "1", "name": "Shopper", "email": body["email"]},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	user, err := c.Login("shopper@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "Shopper", user.Name)
	assert.Equal(t, "session-token", c.Token())
}

func TestRequestsCarryAuthHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "session-token", r.Header.Get("x-auth-token"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []interface{}{}, "subtotal": 0, "itemCount": 0,
		})
	}))
	defer server.Close()

	c := New(server.URL)
	c.SetToken("session-token")

	cart, err := c.GetCart()
	require.NoError(t, err)
	assert.Zero(t, cart.ItemCount)
}

func TestUnauthorizedClearsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Token is not valid"})
	}))
	defer server.Close()

	c := New(server.URL)
	c.SetToken("expired-token")

	_, err := c.GetProfile()
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Token is not valid", apiErr.Message)

	// Session is gone after a 401
	assert.Empty(t, c.Token())
}

func TestAPIErrorMessageSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "Cannot delete default address"})
	}))
	defer server.Close()

	c := New(server.URL)
	c.SetToken("session-token")

	_, err := c.DeleteAddress("abc123")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "default address")
	// A non-401 failure keeps the session
	assert.Equal(t, "session-token", c.Token())
}

func TestListProductsQueryString(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "tshirts", r.URL.Query().Get("category"))
		assert.Equal(t, "price-asc", r.URL.Query().Get("sort"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"products": []interface{}{},
			"pagination": map[string]interface{}{
				"totalProducts": 0, "totalPages": 0, "currentPage": 1,
				"hasNextPage": false, "hasPrevPage": false, "limit": 10,
			},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	page, err := c.ListProducts(map[string]string{"category": "tshirts", "sort": "price-asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Pagination.CurrentPage)
}
