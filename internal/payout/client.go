package payout

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dropcart/dropcart/internal/models"
	"github.com/dropcart/dropcart/internal/provider"
)

// default time of retry after
const delaySeconds = 60

// Client represents the HTTP client for one payout provider
type Client struct {
	client  *http.Client
	baseURL string
	name    string
}

// NewClient creates new payout Client instance
func NewClient(baseURL, name string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		name:    name,
	}
}

// Name returns the provider name used in configuration and logs
func (c *Client) Name() string {
	return c.name
}

type sendPayoutRequest struct {
	Recipient string  `json:"recipient"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Note      string  `json:"note,omitempty"`
	Account   string  `json:"account,omitempty"`
}

type sendPayoutResponse struct {
	ReferenceID string `json:"reference_id"`
	Error       string `json:"error,omitempty"`
}

// SendPayout sends one payout leg. The idempotency tag travels in the
// Idempotency-Key header so a replayed request never pays twice.
// 200 — payout accepted, body carries the provider reference id.
// 402 — insufficient provider balance.
// 429 — provider rate limit, Retry-After honored.
// 500 — provider internal error.
func (c *Client) SendPayout(ctx context.Context, req provider.PayoutRequest) (*provider.PayoutResult, error) {
	u, err := url.JoinPath(c.baseURL, "api", "v1", "payouts")
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(sendPayoutRequest{
		Recipient: req.Recipient,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Note:      req.Note,
		Account:   req.AccountLabel,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", req.IdempotencyTag)

	resp, err := c.client.Do(httpReq)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		payoutResp := sendPayoutResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&payoutResp); err != nil {
			return nil, err
		}
		return &provider.PayoutResult{
			Success:     payoutResp.ReferenceID != "",
			ReferenceID: payoutResp.ReferenceID,
			ErrorText:   payoutResp.Error,
		}, nil
	case http.StatusPaymentRequired:
		payoutResp := sendPayoutResponse{}
		_ = json.NewDecoder(resp.Body).Decode(&payoutResp)
		return &provider.PayoutResult{Success: false, ErrorText: payoutResp.Error}, nil
	case http.StatusTooManyRequests:
		t := delaySeconds
		if val := resp.Header.Get("Retry-After"); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil {
				t = parsed
			}
		}
		return nil, models.NewTooManyRequestsError(time.Duration(t) * time.Second)
	case http.StatusInternalServerError:
		return nil, models.ErrInternalError
	default:
		return nil, models.ErrInternalError
	}
}

type balanceResponse struct {
	Available float64 `json:"available"`
}

// RealAvailableBalance returns the provider's available balance
func (c *Client) RealAvailableBalance(ctx context.Context) (float64, error) {
	u, err := url.JoinPath(c.baseURL, "api", "v1", "balance")
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return 0, err
	}

	if resp.StatusCode != http.StatusOK {
		return 0, models.ErrInternalError
	}

	balResp := balanceResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&balResp); err != nil {
		return 0, err
	}

	return balResp.Available, nil
}
