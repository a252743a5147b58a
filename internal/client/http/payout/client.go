package payoutclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/you-humble/merchant-payout/internal/converter"
	"github.com/you-humble/merchant-payout/internal/model"
	"github.com/you-humble/merchant-payout/platform/logger"
	payoutv1 "github.com/you-humble/merchant-payout/pkg/api/payout/v1"
)

// maxErrorBody bounds how much of a failed response is read for the error message.
const maxErrorBody = 64 << 10

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type client struct {
	baseURL string
	http    HTTPDoer
}

func NewClient(baseURL string, httpClient HTTPDoer) *client {
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// CreatePayout issues exactly one POST /api/payouts. It never retries.
func (c *client) CreatePayout(ctx context.Context, params model.CreatePayoutParams) (*model.Payout, error) {
	const op = "payoutclient.CreatePayout"
	log := logger.With(
		logger.Int64("amount", params.Amount),
		logger.String("currency", params.Currency.String()),
		logger.Bool("has_device_id", params.DeviceID != ""),
	)

	body, err := json.Marshal(converter.CreatePayoutParamsToRequest(params))
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+payoutv1.CreatePayoutPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Error(ctx, "payout request failed", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, &model.GatewayError{
			Message: model.MsgNetworkFailure,
			Err:     err,
		})
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Warn(ctx, "close response body", logger.ErrorF(cerr))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		gwErr := model.NewGatewayStatusError(resp.StatusCode, readErrorMessage(resp.Body))
		log.Warn(ctx, "payout rejected",
			logger.Int("status_code", resp.StatusCode),
			logger.String("message", gwErr.Message),
		)
		return nil, fmt.Errorf("%s: %w", op, gwErr)
	}

	var out payoutv1.PayoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Error(ctx, "decode payout response", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, &model.GatewayError{
			StatusCode: resp.StatusCode,
			Message:    model.MsgServiceUnavailable,
			Err:        err,
		})
	}

	log.Info(ctx, "payout created",
		logger.String("payout_id", out.ID),
		logger.String("status", out.Status),
	)

	return converter.PayoutResponseToModel(out), nil
}

func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var body payoutv1.ErrorResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}

	return strings.TrimSpace(body.Error)
}
