package submission

import (
	"context"
	"fmt"
	"sync"

	"github.com/you-humble/merchant-payout/internal/model"
	"github.com/you-humble/merchant-payout/platform/logger"
)

type Gateway interface {
	CreatePayout(ctx context.Context, params model.CreatePayoutParams) (*model.Payout, error)
}

type PayoutCreatedSender interface {
	SendPayoutCreated(ctx context.Context, payout model.Payout) error
}

// Tracker owns the outcome of the latest create-payout call.
// Results of an attempt superseded by Reset are dropped.
type Tracker struct {
	gateway Gateway
	sender  PayoutCreatedSender

	mu      sync.Mutex
	attempt uint64
	current model.Submission
}

func NewTracker(gateway Gateway, sender PayoutCreatedSender) *Tracker {
	return &Tracker{gateway: gateway, sender: sender}
}

// Submit calls the gateway exactly once and records the result.
// Errors are captured in the snapshot, never returned.
func (t *Tracker) Submit(ctx context.Context, params model.CreatePayoutParams) model.Submission {
	const op string = "submission.tracker.Submit"
	log := logger.With(
		logger.Int64("amount", params.Amount),
		logger.String("currency", params.Currency.String()),
	)

	t.mu.Lock()
	t.attempt++
	attempt := t.attempt
	t.current = model.Submission{Status: model.SubmissionPending}
	t.mu.Unlock()

	payout, err := t.gateway.CreatePayout(ctx, params)

	t.mu.Lock()
	if attempt != t.attempt {
		snapshot := t.current
		t.mu.Unlock()
		log.Debug(ctx, "stale submission result dropped", logger.Int64("attempt", int64(attempt)))
		return snapshot
	}
	if err != nil {
		t.current = model.Submission{Status: model.SubmissionError, Err: fmt.Errorf("%s: %w", op, err)}
	} else {
		t.current = model.Submission{Status: model.SubmissionSuccess, Payout: payout}
	}
	snapshot := t.current
	t.mu.Unlock()

	if err != nil {
		log.Warn(ctx, "create payout", logger.ErrorF(err))
		return snapshot
	}

	log.Info(ctx, "payout created",
		logger.String("payout_id", payout.ID),
		logger.String("status", string(payout.Status)),
	)

	if t.sender != nil {
		if err := t.sender.SendPayoutCreated(ctx, *payout); err != nil {
			log.Error(ctx, "send payout created", logger.ErrorF(err))
		}
	}

	return snapshot
}

// Fail records err as the outcome without calling the gateway.
func (t *Tracker) Fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.attempt++
	t.current = model.Submission{Status: model.SubmissionError, Err: err}
}

// Reset returns the tracker to idle and discards any in-flight result.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.attempt++
	t.current = model.Submission{}
}

func (t *Tracker) Snapshot() model.Submission {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.current
}
