package payout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dropcart/dropcart/internal/models"
	"github.com/dropcart/dropcart/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payoutReq() provider.PayoutRequest {
	return provider.PayoutRequest{
		Recipient:      "seller@pay",
		Amount:         27,
		Currency:       "USD",
		Note:           "net profit for sale abc",
		IdempotencyTag: "sale-abc-user",
		AccountLabel:   "payout-1",
	}
}

func TestClient_SendPayout(t *testing.T) {
	var gotBody sendPayoutRequest
	var gotIdempotencyKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/payouts", r.URL.Path)
		gotIdempotencyKey = r.Header.Get("Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(sendPayoutResponse{ReferenceID: "REF-1"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "primary")
	result, err := client.SendPayout(context.Background(), payoutReq())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "REF-1", result.ReferenceID)

	assert.Equal(t, "sale-abc-user", gotIdempotencyKey)
	assert.Equal(t, "seller@pay", gotBody.Recipient)
	assert.Equal(t, 27.0, gotBody.Amount)
	assert.Equal(t, "payout-1", gotBody.Account)
}

func TestClient_SendPayoutInsufficientBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(sendPayoutResponse{Error: "insufficient balance"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "primary")
	result, err := client.SendPayout(context.Background(), payoutReq())
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "insufficient balance", result.ErrorText)
}

func TestClient_SendPayoutRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "10")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "primary")
	_, err := client.SendPayout(context.Background(), payoutReq())

	var tooMany models.TooManyRequestsError
	require.True(t, errors.As(err, &tooMany))
	assert.Equal(t, 10*time.Second, tooMany.RetryAfter)
}

func TestClient_SendPayoutServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "primary")
	_, err := client.SendPayout(context.Background(), payoutReq())
	assert.ErrorIs(t, err, models.ErrInternalError)
}

func TestClient_RealAvailableBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/balance", r.URL.Path)
		json.NewEncoder(w).Encode(balanceResponse{Available: 123.45})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "primary")
	got, err := client.RealAvailableBalance(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 123.45, got)
}

func TestClient_RealAvailableBalanceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "primary")
	_, err := client.RealAvailableBalance(context.Background())
	assert.ErrorIs(t, err, models.ErrInternalError)
}

func TestClient_Name(t *testing.T) {
	assert.Equal(t, "alternate", NewClient("http://localhost", "alternate").Name())
}
