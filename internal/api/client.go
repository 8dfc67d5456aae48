package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role selects the auth endpoint family and the durable token key.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
)

// Error is a server-rejected operation: the request made it to the
// backend and came back with success=false or a 4xx/5xx status. The
// Message is the server-supplied text when present.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request rejected with status %d", e.Status)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(backendURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(backendURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type envelope struct {
	Success           bool           `json:"success"`
	Message           string         `json:"message"`
	Token             string         `json:"token"`
	OrderID           string         `json:"order_id"`
	NeedsTrackingLink bool           `json:"needs_tracking_link"`
	Notifications     []Notification `json:"notifications"`
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var env envelope
		_ = json.NewDecoder(resp.Body).Decode(&env)
		return &Error{Status: resp.StatusCode, Message: env.Message}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// action is do plus the success flag check used by every mutating
// endpoint. A success=false body becomes an *Error carrying the server
// message verbatim.
func (c *Client) action(ctx context.Context, method, path, token string, body any) (*envelope, error) {
	var env envelope
	if err := c.do(ctx, method, path, token, body, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, &Error{Status: http.StatusOK, Message: env.Message}
	}
	return &env, nil
}

// --- catalogue and settings ---

func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/api/products", "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) Settings(ctx context.Context) (*Settings, error) {
	var s Settings
	if err := c.do(ctx, http.MethodGet, "/api/settings", "", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// --- auth family ---

type LoginResult struct {
	Token             string
	NeedsTrackingLink bool
}

func (c *Client) Login(ctx context.Context, role Role, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	env, err := c.action(ctx, http.MethodPost, fmt.Sprintf("/api/%s/login", role), "", body)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: env.Token, NeedsTrackingLink: env.NeedsTrackingLink}, nil
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	OTP      string `json:"otp"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	env, err := c.action(ctx, http.MethodPost, "/api/customer/register", "", req)
	if err != nil {
		return "", err
	}
	return env.Token, nil
}

func (c *Client) SendOTP(ctx context.Context, email string) error {
	_, err := c.action(ctx, http.MethodPost, "/api/customer/send-otp", "", map[string]string{"email": email})
	return err
}

func (c *Client) VerifyOTP(ctx context.Context, email, code string) error {
	body := map[string]string{"email": email, "otp": code}
	_, err := c.action(ctx, http.MethodPost, "/api/customer/verify-otp", "", body)
	return err
}

func (c *Client) ForgotPassword(ctx context.Context, role Role, email string) error {
	_, err := c.action(ctx, http.MethodPost, fmt.Sprintf("/api/%s/forgot-password", role), "", map[string]string{"email": email})
	return err
}

func (c *Client) ResetPassword(ctx context.Context, role Role, email, code, newPassword string) error {
	body := map[string]string{"email": email, "otp": code, "password": newPassword}
	_, err := c.action(ctx, http.MethodPost, fmt.Sprintf("/api/%s/reset-password", role), "", body)
	return err
}

func (c *Client) CustomerProfile(ctx context.Context, token string) (*CustomerProfile, error) {
	var p CustomerProfile
	if err := c.do(ctx, http.MethodGet, "/api/customer/profile", token, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) StaffProfile(ctx context.Context, token string) (*StaffProfile, error) {
	var p StaffProfile
	if err := c.do(ctx, http.MethodGet, "/api/staff/profile", token, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) SetTrackingLink(ctx context.Context, token, link string) error {
	_, err := c.action(ctx, http.MethodPut, "/api/staff/tracking-link", token, map[string]string{"tracking_link": link})
	return err
}

// --- orders ---

func (c *Client) Orders(ctx context.Context, token string) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) PlaceOrder(ctx context.Context, token string, req CreateOrderRequest) (string, error) {
	env, err := c.action(ctx, http.MethodPost, "/api/orders", token, req)
	if err != nil {
		return "", err
	}
	return env.OrderID, nil
}

func (c *Client) ClaimOrder(ctx context.Context, token string, id uint) error {
	_, err := c.action(ctx, http.MethodPost, fmt.Sprintf("/api/orders/%d/claim", id), token, nil)
	return err
}

func (c *Client) UnclaimOrder(ctx context.Context, token string, id uint) error {
	_, err := c.action(ctx, http.MethodPost, fmt.Sprintf("/api/orders/%d/unclaim", id), token, nil)
	return err
}

// RequestPayment asks the backend to send an STK push to the given phone.
func (c *Client) RequestPayment(ctx context.Context, token string, id uint, phone string) error {
	_, err := c.action(ctx, http.MethodPost, fmt.Sprintf("/api/orders/%d/payment", id), token, map[string]string{"phone": phone})
	return err
}

func (c *Client) MarkPaid(ctx context.Context, token string, id uint) error {
	_, err := c.action(ctx, http.MethodPost, fmt.Sprintf("/api/orders/%d/mark-paid", id), token, nil)
	return err
}

func (c *Client) DeliverOrder(ctx context.Context, token string, id uint) error {
	_, err := c.action(ctx, http.MethodPost, fmt.Sprintf("/api/orders/%d/deliver", id), token, nil)
	return err
}

func (c *Client) OrderTracking(ctx context.Context, id uint) (*TrackingInfo, error) {
	var t TrackingInfo
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/orders/%d/tracking", id), "", nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// --- server-side cart ---

func (c *Client) AddCartLine(ctx context.Context, token string, productID uint, quantity int) error {
	body := map[string]any{"product_id": productID, "quantity": quantity}
	_, err := c.action(ctx, http.MethodPost, "/api/customer/cart", token, body)
	return err
}

// --- notifications ---

func (c *Client) Notifications(ctx context.Context, token string) ([]Notification, error) {
	env, err := c.action(ctx, http.MethodGet, "/api/customer/notifications", token, nil)
	if err != nil {
		return nil, err
	}
	return env.Notifications, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, token string, id uint) error {
	_, err := c.action(ctx, http.MethodPost, fmt.Sprintf("/api/customer/notifications/%d/read", id), token, nil)
	return err
}
