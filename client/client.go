// Package client is a Go wrapper over the storefront REST API. The session
// token lives on the Client with a defined lifecycle: set by Login/Register,
// cleared by Logout or any 401 response, never read from ambient state.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/weavewear/weavewear-backend-go/models"
)

// APIError carries the server's {message} body and HTTP status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Token returns the current session token, empty when logged out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken installs a session token (e.g. one restored from disk).
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Logout clears the session.
func (c *Client) Logout() {
	c.SetToken("")
}

func (c *Client) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("x-auth-token", token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		if resp.StatusCode == http.StatusUnauthorized {
			// Session is no longer valid; drop it
			c.Logout()
		}
		var apiErr struct {
			Message string `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Message}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ==== AUTH ====

type SessionUser struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

func (c *Client) Register(name, email, password string) (*SessionUser, error) {
	var resp authResponse
	err := c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp.User, nil
}

func (c *Client) Login(email, password string) (*SessionUser, error) {
	var resp authResponse
	err := c.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp.User, nil
}

func (c *Client) GoogleLogin(tokenID string) (*SessionUser, error) {
	var resp authResponse
	err := c.do(http.MethodPost, "/api/auth/google", map[string]string{"tokenId": tokenID}, &resp)
	if err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp.User, nil
}

// ==== USER ====

func (c *Client) GetProfile() (*models.User, error) {
	var user models.User
	if err := c.do(http.MethodGet, "/api/user/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetAddresses() ([]models.Address, error) {
	var addresses []models.Address
	if err := c.do(http.MethodGet, "/api/user/addresses", nil, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (c *Client) AddAddress(address models.Address) ([]models.Address, error) {
	var addresses []models.Address
	if err := c.do(http.MethodPost, "/api/user/addresses", address, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (c *Client) DeleteAddress(id string) ([]models.Address, error) {
	var addresses []models.Address
	if err := c.do(http.MethodDelete, "/api/user/addresses/"+id, nil, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (c *Client) SetDefaultAddress(id string) ([]models.Address, error) {
	var addresses []models.Address
	if err := c.do(http.MethodPut, "/api/user/addresses/"+id+"/default", nil, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (c *Client) GetPaymentMethods() ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	if err := c.do(http.MethodGet, "/api/user/payment-methods", nil, &methods); err != nil {
		return nil, err
	}
	return methods, nil
}

// ==== CATALOG ====

type ProductPage struct {
	Products   []models.Product `json:"products"`
	Pagination struct {
		TotalProducts int64 `json:"totalProducts"`
		TotalPages    int64 `json:"totalPages"`
		CurrentPage   int64 `json:"currentPage"`
		HasNextPage   bool  `json:"hasNextPage"`
		HasPrevPage   bool  `json:"hasPrevPage"`
		Limit         int64 `json:"limit"`
	} `json:"pagination"`
}

// ListProducts queries the catalog; params maps directly to the endpoint's
// query string (category, minPrice, sizes, sort, page, limit, search...).
func (c *Client) ListProducts(params map[string]string) (*ProductPage, error) {
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	path := "/api/products"
	if len(values) > 0 {
		path += "?" + values.Encode()
	}

	var page ProductPage
	if err := c.do(http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetProduct(id string) (*models.Product, error) {
	var product models.Product
	if err := c.do(http.MethodGet, "/api/products/"+id, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) SearchProducts(q string) ([]models.Product, error) {
	var products []models.Product
	path := "/api/products/search?q=" + url.QueryEscape(q)
	if err := c.do(http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ==== CART ====

type CartView struct {
	Items     []models.CartItem `json:"items"`
	Subtotal  float64           `json:"subtotal"`
	ItemCount int               `json:"itemCount"`
}

func (c *Client) GetCart() (*CartView, error) {
	var cart CartView
	if err := c.do(http.MethodGet, "/api/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) AddToCart(productID string, quantity int, size, color string) (*CartView, error) {
	var cart CartView
	err := c.do(http.MethodPost, "/api/cart", map[string]interface{}{
		"productId": productID,
		"quantity":  quantity,
		"size":      size,
		"color":     color,
	}, &cart)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) UpdateCartItem(itemID string, quantity int) (*CartView, error) {
	var cart CartView
	err := c.do(http.MethodPut, "/api/cart/"+itemID, map[string]int{"quantity": quantity}, &cart)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) RemoveCartItem(itemID string) (*CartView, error) {
	var cart CartView
	if err := c.do(http.MethodDelete, "/api/cart/"+itemID, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// ==== ORDERS ====

type CheckoutRequest struct {
	Items           []models.OrderItem  `json:"items"`
	ShippingAddress models.OrderAddress `json:"shippingAddress"`
	BillingAddress  models.OrderAddress `json:"billingAddress"`
	PaymentMethod   string              `json:"paymentMethod"`
	Subtotal        float64             `json:"subtotal"`
	ShippingCost    float64             `json:"shippingCost"`
	Discount        float64             `json:"discount"`
	Tax             float64             `json:"tax"`
	Total           float64             `json:"total"`
}

func (c *Client) CreateOrder(req CheckoutRequest) (*models.Order, error) {
	var order models.Order
	if err := c.do(http.MethodPost, "/api/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) GetOrder(id string) (*models.Order, error) {
	var order models.Order
	if err := c.do(http.MethodGet, "/api/orders/"+id, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ==== WISHLIST ====

type WishlistView struct {
	Items []json.RawMessage `json:"items"`
	Count int               `json:"count"`
}

func (c *Client) GetWishlist() (*WishlistView, error) {
	var view WishlistView
	if err := c.do(http.MethodGet, "/api/wishlist", nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) AddToWishlist(productID string) (*WishlistView, error) {
	var view WishlistView
	err := c.do(http.MethodPost, "/api/wishlist", map[string]string{"productId": productID}, &view)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) RemoveFromWishlist(productID string) (*WishlistView, error) {
	var view WishlistView
	if err := c.do(http.MethodDelete, "/api/wishlist/"+productID, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}
