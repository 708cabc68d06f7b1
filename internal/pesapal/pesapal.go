// Package pesapal is the client for the Pesapal v3 API: token exchange,
// hosted payment session creation and transaction status lookup.
package pesapal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"storefront-service/internal/apperr"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	CallbackURL    string
	CancelURL      string
	NotificationID string
}

// Client talks to Pesapal and owns the cached bearer token. The token is
// shared by all concurrent callers; refresh replaces it wholesale under the
// mutex, so racing refreshes are harmless.
type Client struct {
	cfg  Config
	http *http.Client

	mu     sync.Mutex
	token  string
	expiry time.Time
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// Token returns the cached bearer token while its expiry is strictly in the
// future, otherwise requests a fresh one. A failed refresh never clears a
// token that is still valid.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.expiry) {
		return c.token, nil
	}
	return c.refreshLocked(ctx)
}

// ForceRefresh discards the cached token and fetches a new one.
func (c *Client) ForceRefresh(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = ""
	c.expiry = time.Time{}
	return c.refreshLocked(ctx)
}

func (c *Client) refreshLocked(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{
		"consumer_key":    c.cfg.ConsumerKey,
		"consumer_secret": c.cfg.ConsumerSecret,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrUpstreamAuth, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/Auth/RequestToken", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrUpstreamAuth, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error().Err(err).Msg("Pesapal auth request failed")
		return "", fmt.Errorf("%w: %v", apperr.ErrUpstreamAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error().Int("status", resp.StatusCode).Msg("Pesapal auth rejected")
		return "", fmt.Errorf("%w: status %d", apperr.ErrUpstreamAuth, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrUpstreamAuth, err)
	}
	if tr.Token == "" {
		return "", fmt.Errorf("%w: empty token", apperr.ErrUpstreamAuth)
	}

	c.token = tr.Token
	c.expiry = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	return c.token, nil
}

type BillingAddress struct {
	EmailAddress string `json:"email_address"`
	FirstName    string `json:"first_name"`
	PhoneNumber  string `json:"phone_number"`
	CountryCode  string `json:"country_code"`
}

// OrderRequest is the SubmitOrderRequest payload. ID is the merchant
// reference and must be unique per checkout attempt.
type OrderRequest struct {
	ID              string         `json:"id"`
	Currency        string         `json:"currency"`
	Amount          float64        `json:"amount"`
	Description     string         `json:"description"`
	CallbackURL     string         `json:"callback_url"`
	CancellationURL string         `json:"cancellation_url"`
	NotificationID  string         `json:"notification_id"`
	BillingAddress  BillingAddress `json:"billing_address"`
}

type OrderResponse struct {
	OrderTrackingID string `json:"order_tracking_id"`
	MerchantRef     string `json:"merchant_reference"`
	RedirectURL     string `json:"redirect_url"`
	Status          string `json:"status"`
}

// SubmitOrder creates a hosted payment session and returns the tracking id
// plus the URL the buyer is redirected to.
func (c *Client) SubmitOrder(ctx context.Context, order OrderRequest) (*OrderResponse, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	// The callback/cancel/IPN endpoints are deployment config, not
	// per-order data, so the client fills them in.
	if order.CallbackURL == "" {
		order.CallbackURL = c.cfg.CallbackURL
	}
	if order.CancellationURL == "" {
		order.CancellationURL = c.cfg.CancelURL
	}
	if order.NotificationID == "" {
		order.NotificationID = c.cfg.NotificationID
	}

	body, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrPaymentSession, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/Transactions/SubmitOrderRequest", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrPaymentSession, err)
	}
	c.setHeaders(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error().Err(err).Str("merchant_ref", order.ID).Msg("Pesapal submit order failed")
		return nil, fmt.Errorf("%w: %v", apperr.ErrPaymentSession, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error().Int("status", resp.StatusCode).Str("merchant_ref", order.ID).Msg("Pesapal rejected order request")
		return nil, fmt.Errorf("%w: status %d", apperr.ErrPaymentSession, resp.StatusCode)
	}

	var or OrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrPaymentSession, err)
	}
	if or.OrderTrackingID == "" || or.RedirectURL == "" {
		return nil, fmt.Errorf("%w: incomplete response", apperr.ErrPaymentSession)
	}

	return &or, nil
}

// TransactionStatus is the provider's authoritative view of a payment
// session, returned raw to callers. PaymentStatusDescription is the only
// field this service interprets.
type TransactionStatus struct {
	PaymentMethod            string  `json:"payment_method"`
	Amount                   float64 `json:"amount"`
	CreatedDate              string  `json:"created_date"`
	ConfirmationCode         string  `json:"confirmation_code"`
	PaymentStatusDescription string  `json:"payment_status_description"`
	Description              string  `json:"description"`
	Message                  string  `json:"message"`
	PaymentAccount           string  `json:"payment_account"`
	CallBackURL              string  `json:"call_back_url"`
	StatusCode               int     `json:"status_code"`
	MerchantReference        string  `json:"merchant_reference"`
	Currency                 string  `json:"currency"`
}

// Provider vocabulary for payment_status_description, as reported by the
// live status endpoint.
const (
	StatusCompleted = "Completed"
	StatusFailed    = "Failed"
)

// GetTransactionStatus fetches the live status for a tracking id.
func (c *Client) GetTransactionStatus(ctx context.Context, trackingID string) (*TransactionStatus, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	u := c.cfg.BaseURL + "/api/Transactions/GetTransactionStatus?orderTrackingId=" + url.QueryEscape(trackingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUpstreamStatus, err)
	}
	c.setHeaders(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error().Err(err).Str("tracking_id", trackingID).Msg("Pesapal status fetch failed")
		return nil, fmt.Errorf("%w: %v", apperr.ErrUpstreamStatus, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error().Int("status", resp.StatusCode).Str("tracking_id", trackingID).Msg("Pesapal status fetch rejected")
		return nil, fmt.Errorf("%w: status %d", apperr.ErrUpstreamStatus, resp.StatusCode)
	}

	var ts TransactionStatus
	if err := json.NewDecoder(resp.Body).Decode(&ts); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUpstreamStatus, err)
	}

	return &ts, nil
}

func (c *Client) setHeaders(req *http.Request, token string) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
}
