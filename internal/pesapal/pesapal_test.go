package pesapal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/apperr"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(Config{
		BaseURL:        srv.URL,
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		CallbackURL:    "http://localhost/callback",
		CancelURL:      "http://localhost/cancel",
		NotificationID: "ipn-1",
	})
	return c, srv
}

func TestTokenCachedWithinLifetime(t *testing.T) {
	var authCalls int64

	mux := http.NewServeMux()
	mux.HandleFunc("/api/Auth/RequestToken", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&authCalls, 1)

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "key", creds["consumer_key"])
		assert.Equal(t, "secret", creds["consumer_secret"])

		json.NewEncoder(w).Encode(map[string]any{"token": "tok-1", "expires_in": 300})
	})

	c, _ := newTestClient(t, mux)
	ctx := context.Background()

	tok, err := c.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	tok, err = c.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	assert.Equal(t, int64(1), atomic.LoadInt64(&authCalls), "second call within lifetime must not hit the provider")
}

func TestTokenRefreshedAfterExpiry(t *testing.T) {
	var authCalls int64

	mux := http.NewServeMux()
	mux.HandleFunc("/api/Auth/RequestToken", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&authCalls, 1)
		json.NewEncoder(w).Encode(map[string]any{"token": "tok-" + string(rune('0'+n)), "expires_in": 300})
	})

	c, _ := newTestClient(t, mux)
	ctx := context.Background()

	_, err := c.Token(ctx)
	require.NoError(t, err)

	// simulate an expired token
	c.mu.Lock()
	c.expiry = time.Now().Add(-time.Second)
	c.mu.Unlock()

	tok, err := c.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", tok)
	assert.Equal(t, int64(2), atomic.LoadInt64(&authCalls))
}

func TestTokenAuthFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/Auth/RequestToken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	c, _ := newTestClient(t, mux)

	_, err := c.Token(context.Background())
	require.ErrorIs(t, err, apperr.ErrUpstreamAuth)
}

func TestForceRefreshDiscardsCachedToken(t *testing.T) {
	var authCalls int64

	mux := http.NewServeMux()
	mux.HandleFunc("/api/Auth/RequestToken", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&authCalls, 1)
		json.NewEncoder(w).Encode(map[string]any{"token": "tok", "expires_in": 300})
	})

	c, _ := newTestClient(t, mux)
	ctx := context.Background()

	_, err := c.Token(ctx)
	require.NoError(t, err)
	_, err = c.ForceRefresh(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), atomic.LoadInt64(&authCalls))
}

func TestSubmitOrder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/Auth/RequestToken", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"token": "tok", "expires_in": 300})
	})
	mux.HandleFunc("/api/Transactions/SubmitOrderRequest", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var req OrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "KES", req.Currency)
		assert.Equal(t, 25.5, req.Amount)
		assert.Equal(t, "0700000000", req.BillingAddress.PhoneNumber)

		json.NewEncoder(w).Encode(map[string]any{
			"order_tracking_id": "track-1",
			"redirect_url":      "https://pay.example/redirect/track-1",
		})
	})

	c, _ := newTestClient(t, mux)

	resp, err := c.SubmitOrder(context.Background(), OrderRequest{
		ID:       "ref-1",
		Currency: "KES",
		Amount:   25.5,
		BillingAddress: BillingAddress{
			EmailAddress: "jane@example.com",
			FirstName:    "Jane",
			PhoneNumber:  "0700000000",
			CountryCode:  "KE",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "track-1", resp.OrderTrackingID)
	assert.Equal(t, "https://pay.example/redirect/track-1", resp.RedirectURL)
}

func TestSubmitOrderRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/Auth/RequestToken", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"token": "tok", "expires_in": 300})
	})
	mux.HandleFunc("/api/Transactions/SubmitOrderRequest", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	c, _ := newTestClient(t, mux)

	_, err := c.SubmitOrder(context.Background(), OrderRequest{ID: "ref-1"})
	require.ErrorIs(t, err, apperr.ErrPaymentSession)
}

func TestGetTransactionStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/Auth/RequestToken", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"token": "tok", "expires_in": 300})
	})
	mux.HandleFunc("/api/Transactions/GetTransactionStatus", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "track-1", r.URL.Query().Get("orderTrackingId"))
		json.NewEncoder(w).Encode(map[string]any{
			"payment_status_description": "Completed",
			"confirmation_code":          "ABC123",
			"amount":                     25.5,
		})
	})

	c, _ := newTestClient(t, mux)

	st, err := c.GetTransactionStatus(context.Background(), "track-1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, st.PaymentStatusDescription)
	assert.Equal(t, "ABC123", st.ConfirmationCode)
}
