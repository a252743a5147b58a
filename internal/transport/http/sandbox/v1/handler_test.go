package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/merchant-payout/internal/model"
	"github.com/you-humble/merchant-payout/internal/service/sandbox"
	payoutv1 "github.com/you-humble/merchant-payout/pkg/api/payout/v1"
)

func TestCreatePayout(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Post(payoutv1.CreatePayoutPath, NewSandboxHandler(sandbox.NewSandboxService()).CreatePayout)

	type testCase struct {
		name       string
		body       string
		wantStatus int
		wantError  string
		wantPayout string
	}

	tests := []testCase{
		{
			name:       "completed",
			body:       `{"amount":40000,"currency":"GBP","iban":"GB29NWBK60161331926819","device_id":"d-1"}`,
			wantStatus: http.StatusOK,
			wantPayout: "completed",
		},
		{
			name:       "ends in 99 fails",
			body:       `{"amount":1099,"currency":"EUR","iban":"DE89370400440532013000"}`,
			wantStatus: http.StatusOK,
			wantPayout: "failed",
		},
		{
			name:       "insufficient funds",
			body:       `{"amount":88888,"currency":"GBP","iban":"GB29NWBK60161331926819"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Insufficient funds",
		},
		{
			name:       "service unavailable",
			body:       `{"amount":99999,"currency":"GBP","iban":"GB29NWBK60161331926819"}`,
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "Service temporarily unavailable",
		},
		{
			name:       "malformed json",
			body:       `{"amount":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request body",
		},
		{
			name:       "unsupported currency",
			body:       `{"amount":100,"currency":"USD","iban":"GB29"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid payout request",
		},
		{
			name:       "non-positive amount",
			body:       `{"amount":-5,"currency":"GBP","iban":"GB29"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid payout request",
		},
		{
			name:       "blank iban",
			body:       `{"amount":100,"currency":"GBP","iban":"   "}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid payout request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, payoutv1.CreatePayoutPath, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			if tt.wantError != "" {
				var body payoutv1.ErrorResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, tt.wantError, body.Error)
				return
			}

			var body payoutv1.PayoutResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantPayout, body.Status)
			assert.NotEmpty(t, body.ID)
			assert.False(t, body.CreatedAt.IsZero())
		})
	}
}

func TestActivity(t *testing.T) {
	t.Parallel()

	svc := sandbox.NewSandboxService()
	require.NoError(t, svc.RecordPayoutCreated(context.Background(), model.PayoutCreated{
		EventID:  uuid.New(),
		PayoutID: "payout-1",
		Status:   model.PayoutStatusCompleted,
		Amount:   40000,
		Currency: model.CurrencyGBP,
	}))

	r := chi.NewRouter()
	r.Get(payoutv1.ActivityPath, NewSandboxHandler(svc).Activity)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, payoutv1.ActivityPath, nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body payoutv1.ActivityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Events, 1)
	assert.Equal(t, "payout-1", body.Events[0].PayoutID)
	assert.Equal(t, int64(40000), body.Events[0].Amount)
}
