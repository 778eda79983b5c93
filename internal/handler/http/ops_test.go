package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dropcart/dropcart/internal/handler/http/mocks"
	"github.com/dropcart/dropcart/internal/models"
	"github.com/dropcart/dropcart/internal/service"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpsHandler_AccountsHealth(t *testing.T) {
	tests := []struct {
		name           string
		setup          func(t *testing.T) *mocks.MockAccountHealthService
		wantStatusCode int
		wantBody       []accountHealthResponse
	}{
		{
			name: "valid_request_return_200",
			setup: func(t *testing.T) *mocks.MockAccountHealthService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockAccountHealthService(ctrl)
				svcMock.EXPECT().Health(gomock.Any()).Return([]models.AccountHealth{
					{Category: models.AccountCategoryPayout, Healthy: 2, Blocked: 1, Total: 3},
				}, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantBody: []accountHealthResponse{
				{Category: models.AccountCategoryPayout, Healthy: 2, Blocked: 1, Total: 3},
			},
		},
		{
			name: "no_accounts_return_empty_list",
			setup: func(t *testing.T) *mocks.MockAccountHealthService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockAccountHealthService(ctrl)
				svcMock.EXPECT().Health(gomock.Any()).Return(nil, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantBody:       []accountHealthResponse{},
		},
		{
			name: "internal_error_return_500",
			setup: func(t *testing.T) *mocks.MockAccountHealthService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockAccountHealthService(ctrl)
				svcMock.EXPECT().Health(gomock.Any()).Return(nil, errors.New("db down")).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/accounts/health", nil)
			w := httptest.NewRecorder()

			h := NewOpsHandler(tt.setup(t), nil, nil).AccountsHealth()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			if tt.wantBody != nil {
				var got []accountHealthResponse
				require.NoError(t, json.NewDecoder(res.Body).Decode(&got))

				if diff := cmp.Diff(tt.wantBody, got); diff != "" {
					t.Errorf("mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestOpsHandler_Capital(t *testing.T) {
	tests := []struct {
		name           string
		setup          func(t *testing.T) *mocks.MockCapitalService
		wantStatusCode int
		wantBody       *capitalResponse
	}{
		{
			name: "valid_request_return_200",
			setup: func(t *testing.T) *mocks.MockCapitalService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockCapitalService(ctrl)
				svcMock.EXPECT().Snapshot(gomock.Any()).Return(service.CapitalSnapshot{
					Balance:   100,
					Committed: 60,
					Free:      40,
				}, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantBody:       &capitalResponse{Balance: 100, Committed: 60, Free: 40},
		},
		{
			name: "balance_provider_outage_return_500",
			setup: func(t *testing.T) *mocks.MockCapitalService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockCapitalService(ctrl)
				svcMock.EXPECT().Snapshot(gomock.Any()).Return(service.CapitalSnapshot{}, errors.New("balance api down")).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/capital", nil)
			w := httptest.NewRecorder()

			h := NewOpsHandler(nil, tt.setup(t), nil).Capital()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			if tt.wantBody != nil {
				var got capitalResponse
				require.NoError(t, json.NewDecoder(res.Body).Decode(&got))

				if diff := cmp.Diff(*tt.wantBody, got); diff != "" {
					t.Errorf("mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestOpsHandler_SuggestPrice(t *testing.T) {
	productID := uuid.New()

	tests := []struct {
		name           string
		query          string
		setup          func(t *testing.T) *mocks.MockPricingService
		wantStatusCode int
	}{
		{
			name:  "valid_request_return_200",
			query: "product=" + productID.String() + "&supplier_cost=20&tax=1&shipping=2",
			setup: func(t *testing.T) *mocks.MockPricingService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockPricingService(ctrl)
				svcMock.EXPECT().Suggest(gomock.Any(), productID, 20.0, 1.0, 2.0).Return(service.PricingSuggestion{
					ProductID: productID,
					Suggested: 43.64,
					Floor:     27.2,
				}, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:  "missing_product_return_400",
			query: "supplier_cost=20",
			setup: func(t *testing.T) *mocks.MockPricingService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockPricingService(ctrl)
				svcMock.EXPECT().Suggest(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:  "missing_supplier_cost_return_400",
			query: "product=" + productID.String(),
			setup: func(t *testing.T) *mocks.MockPricingService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockPricingService(ctrl)
				svcMock.EXPECT().Suggest(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:  "source_error_return_500",
			query: "product=" + productID.String() + "&supplier_cost=20",
			setup: func(t *testing.T) *mocks.MockPricingService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockPricingService(ctrl)
				svcMock.EXPECT().Suggest(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(service.PricingSuggestion{}, errors.New("scrape failed")).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/pricing/suggest?"+tt.query, nil)
			w := httptest.NewRecorder()

			h := NewOpsHandler(nil, nil, tt.setup(t)).SuggestPrice()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}
