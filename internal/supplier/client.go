package supplier

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dropcart/dropcart/internal/models"
	"github.com/dropcart/dropcart/internal/provider"
)

// default time of retry after
const delaySeconds = 60

// simulated order id prefix used by sandbox providers
const simulatedPrefix = "SIM-"

// Client represents the HTTP client for supplier checkout requests
type Client struct {
	client  *http.Client
	baseURL string
	name    string
}

// NewClient creates new supplier Client instance
func NewClient(baseURL, name string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: baseURL,
		name:    name,
	}
}

type placeOrderRequest struct {
	ProductURL   string  `json:"product_url"`
	Quantity     int     `json:"quantity"`
	PriceCeiling float64 `json:"price_ceiling"`
	Name         string  `json:"name"`
	Line1        string  `json:"line1"`
	City         string  `json:"city"`
	Zip          string  `json:"zip"`
	Country      string  `json:"country"`
	Account      string  `json:"account,omitempty"`
}

type placeOrderResponse struct {
	OrderID   string `json:"order_id"`
	Simulated bool   `json:"simulated,omitempty"`
	Error     string `json:"error,omitempty"`
}

// PlaceOrder performs supplier checkout for one product
// 200 — order placed, body carries the supplier order id.
// 402 — price ceiling exceeded or product unavailable.
// 429 — supplier rate limit, Retry-After honored.
// 500 — supplier internal error.
func (c *Client) PlaceOrder(ctx context.Context, req provider.PurchaseRequest) (*provider.PurchaseResult, error) {
	u, err := url.JoinPath(c.baseURL, "api", "v1", "orders")
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(placeOrderRequest{
		ProductURL:   req.ProductURL,
		Quantity:     req.Quantity,
		PriceCeiling: req.PriceCeiling,
		Name:         req.Shipping.Name,
		Line1:        req.Shipping.Line1,
		City:         req.Shipping.City,
		Zip:          req.Shipping.Zip,
		Country:      req.Shipping.Country,
		Account:      req.AccountLabel,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		orderResp := placeOrderResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&orderResp); err != nil {
			return nil, err
		}
		simulated := orderResp.Simulated || strings.HasPrefix(orderResp.OrderID, simulatedPrefix)
		return &provider.PurchaseResult{
			Success:         orderResp.OrderID != "" && !simulated,
			SupplierOrderID: orderResp.OrderID,
			Simulated:       simulated,
			ErrorText:       orderResp.Error,
		}, nil
	case http.StatusPaymentRequired:
		orderResp := placeOrderResponse{}
		_ = json.NewDecoder(resp.Body).Decode(&orderResp)
		return &provider.PurchaseResult{Success: false, ErrorText: orderResp.Error}, nil
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
