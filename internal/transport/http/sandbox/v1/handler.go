package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/you-humble/merchant-payout/internal/converter"
	"github.com/you-humble/merchant-payout/internal/model"
	"github.com/you-humble/merchant-payout/platform/logger"
	payoutv1 "github.com/you-humble/merchant-payout/pkg/api/payout/v1"
)

const maxRequestBody = 1 << 20

type SandboxService interface {
	Create(ctx context.Context, params model.CreatePayoutParams) (*model.Payout, error)
	Activity(ctx context.Context) []model.PayoutCreated
}

type handler struct {
	svc      SandboxService
	validate *validator.Validate
}

func NewSandboxHandler(service SandboxService) *handler {
	return &handler{
		svc:      service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *handler) CreatePayout(w http.ResponseWriter, r *http.Request) {
	var req payoutv1.CreatePayoutRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		logger.Warn(r.Context(), "validate payout request", logger.ErrorF(err))
		writeError(w, r, http.StatusBadRequest, "Invalid payout request")
		return
	}

	res, err := h.svc.Create(r.Context(), converter.CreatePayoutRequestToParams(req))
	if err != nil {
		status, msg := mapError(err)
		writeError(w, r, status, msg)
		return
	}

	writeJSON(w, r, http.StatusOK, converter.PayoutToResponse(res))
}

func (h *handler) Activity(w http.ResponseWriter, r *http.Request) {
	events := h.svc.Activity(r.Context())

	res := payoutv1.ActivityResponse{Events: make([]payoutv1.PayoutCreatedEvent, 0, len(events))}
	for _, e := range events {
		res.Events = append(res.Events, converter.PayoutCreatedToEvent(e))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest, "Invalid payout request"
	case errors.Is(err, model.ErrInsufficientFunds):
		return http.StatusBadRequest, "Insufficient funds"
	case errors.Is(err, model.ErrServiceUnavailable):
		return http.StatusServiceUnavailable, "Service temporarily unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, payoutv1.ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error(r.Context(), "write response", logger.ErrorF(err))
	}
}
