package sandbox

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/you-humble/merchant-payout/internal/model"
	"github.com/you-humble/merchant-payout/platform/logger"
)

// Amounts with fixed outcomes.
const (
	AmountInsufficientFunds  int64 = 88888
	AmountServiceUnavailable int64 = 99999
)

// ActivityLimit bounds the recorded payout events, newest first.
const ActivityLimit = 50

type service struct {
	now   func() time.Time
	newID func() string

	mu       sync.RWMutex
	activity []model.PayoutCreated
}

func NewSandboxService() *service {
	return &service{
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Create settles a payout deterministically from its amount:
// 88888 has insufficient funds, 99999 finds the service unavailable,
// amounts ending in 99 minor units fail and everything else completes.
func (svc *service) Create(ctx context.Context, params model.CreatePayoutParams) (*model.Payout, error) {
	const op string = "sandbox.service.Create"
	log := logger.With(
		logger.Int64("amount", params.Amount),
		logger.String("currency", params.Currency.String()),
		logger.String("device_id", params.DeviceID),
	)

	iban := strings.TrimSpace(params.IBAN)
	if err := validate(params.Amount, params.Currency, iban); err != nil {
		log.Warn(ctx, "invalid payout", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	switch params.Amount {
	case AmountInsufficientFunds:
		log.Info(ctx, "payout rejected", logger.String("reason", "insufficient funds"))
		return nil, fmt.Errorf("%s: %w", op, model.ErrInsufficientFunds)
	case AmountServiceUnavailable:
		log.Info(ctx, "payout rejected", logger.String("reason", "service unavailable"))
		return nil, fmt.Errorf("%s: %w", op, model.ErrServiceUnavailable)
	}

	status := model.PayoutStatusCompleted
	if params.Amount%100 == 99 {
		status = model.PayoutStatusFailed
	}

	payout := &model.Payout{
		ID:        svc.newID(),
		Status:    status,
		Amount:    params.Amount,
		Currency:  params.Currency,
		IBAN:      iban,
		CreatedAt: svc.now().UTC(),
	}

	log.Info(ctx, "payout settled",
		logger.String("payout_id", payout.ID),
		logger.String("status", string(status)),
	)

	return payout, nil
}

func validate(amount int64, currency model.Currency, iban string) error {
	switch {
	case amount <= 0:
		return errors.Join(model.ErrValidation, errors.New("amount must be a positive integer"))
	case !currency.Valid():
		return errors.Join(model.ErrValidation, fmt.Errorf("unsupported currency %q", currency))
	case iban == "":
		return errors.Join(model.ErrValidation, errors.New("iban is required"))
	}
	return nil
}

// RecordPayoutCreated adds event to the activity feed. Redelivered events are ignored.
func (svc *service) RecordPayoutCreated(ctx context.Context, event model.PayoutCreated) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if slices.ContainsFunc(svc.activity, func(e model.PayoutCreated) bool { return e.EventID == event.EventID }) {
		logger.Debug(ctx, "duplicate payout event", logger.String("event_id", event.EventID.String()))
		return nil
	}

	svc.activity = slices.Insert(svc.activity, 0, event)
	if len(svc.activity) > ActivityLimit {
		svc.activity = svc.activity[:ActivityLimit]
	}

	return nil
}

func (svc *service) Activity(_ context.Context) []model.PayoutCreated {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	return slices.Clone(svc.activity)
}
