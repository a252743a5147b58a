package payout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/you-humble/merchant-payout/internal/model"
	"github.com/you-humble/merchant-payout/platform/logger"
)

type Authenticator interface {
	Authenticate(ctx context.Context) (bool, error)
}

type DeviceIDProvider interface {
	DeviceID(ctx context.Context) (string, error)
}

type Submitter interface {
	Submit(ctx context.Context, params model.CreatePayoutParams) model.Submission
	Fail(err error)
	Reset()
	Snapshot() model.Submission
}

type Listener func(View)

var errUnchanged = errors.New("unchanged")

// Flow drives a payout from the validated form through confirmation,
// the biometric gate and submission. It is safe for concurrent use.
type Flow struct {
	auth      Authenticator
	device    DeviceIDProvider
	submitter Submitter

	mu        sync.Mutex
	state     FlowState
	stage     stage
	listeners map[int]Listener
	nextID    int
}

func NewFlow(auth Authenticator, device DeviceIDProvider, submitter Submitter) *Flow {
	return &Flow{
		auth:      auth,
		device:    device,
		submitter: submitter,
		listeners: make(map[int]Listener),
	}
}

// SubmitForm stages p and shows the confirmation.
func (f *Flow) SubmitForm(p model.PendingPayout) error {
	const op string = "payout.flow.SubmitForm"

	return f.update(func(v View) error {
		if v.Phase != PhaseForm && v.Phase != PhaseConfirming {
			return fmt.Errorf("%s: %w: phase %s", op, model.ErrInvalidTransition, v.Phase)
		}
		f.state = reduce(f.state, action{typ: actionSubmitForm, payout: p})
		return nil
	})
}

// CancelConfirmation hides the confirmation and keeps the staged payout.
func (f *Flow) CancelConfirmation() {
	_ = f.update(func(View) error {
		f.state = reduce(f.state, action{typ: actionCancelConfirmation})
		return nil
	})
}

// ConfirmPayout authenticates when required and submits the staged payout
// exactly once. Failures are recorded in the view, never returned.
// It does nothing unless a payout is staged and the flow is idle.
func (f *Flow) ConfirmPayout(ctx context.Context) {
	const op string = "payout.flow.ConfirmPayout"

	var pending model.PendingPayout
	if err := f.update(func(v View) error {
		if f.stage != stageIdle || v.IsSubmitting || v.Phase.Terminal() || f.state.PendingPayout == nil {
			return errUnchanged
		}
		pending = *f.state.PendingPayout
		f.state = reduce(f.state, action{typ: actionConfirmSettled})
		if needsBiometric(pending.Amount) {
			f.stage = stageAuthenticating
		} else {
			f.stage = stageSubmitting
		}
		return nil
	}); err != nil {
		return
	}

	log := logger.With(
		logger.Int64("amount", pending.Amount),
		logger.String("currency", pending.Currency.String()),
	)

	if needsBiometric(pending.Amount) {
		ok, err := f.auth.Authenticate(ctx)
		if err != nil || !ok {
			msg := authFailureMessage(ok, err)
			log.Warn(ctx, "biometric authentication", logger.String("reason", msg))
			_ = f.update(func(View) error {
				f.stage = stageIdle
				f.state = reduce(f.state, action{typ: actionBiometricFailed, message: msg})
				return nil
			})
			return
		}

		_ = f.update(func(View) error {
			f.stage = stageSubmitting
			return nil
		})
	}

	deviceID, err := f.device.DeviceID(ctx)
	if err != nil {
		log.Error(ctx, "device id", logger.ErrorF(err))
		f.submitter.Fail(fmt.Errorf("%s: %w", op, err))
		f.settle()
		return
	}

	f.submitter.Submit(ctx, pending.WithDeviceID(deviceID))
	f.settle()
}

// CreateAnother clears the settled flow and starts a fresh form.
func (f *Flow) CreateAnother() error {
	const op string = "payout.flow.CreateAnother"

	return f.update(func(v View) error {
		if !v.Phase.Terminal() {
			return fmt.Errorf("%s: %w: phase %s", op, model.ErrInvalidTransition, v.Phase)
		}
		f.submitter.Reset()
		f.state = reduce(f.state, action{typ: actionResetForm})
		return nil
	})
}

// TryAgain clears the error and returns to the form with the staged payout kept.
func (f *Flow) TryAgain() error {
	const op string = "payout.flow.TryAgain"

	return f.update(func(v View) error {
		if v.Phase != PhaseError {
			return fmt.Errorf("%s: %w: phase %s", op, model.ErrInvalidTransition, v.Phase)
		}
		f.submitter.Reset()
		f.state = reduce(f.state, action{typ: actionClearBiometricError})
		return nil
	})
}

func (f *Flow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()

	state := f.state
	if state.PendingPayout != nil {
		p := *state.PendingPayout
		state.PendingPayout = &p
	}
	return state
}

func (f *Flow) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.viewLocked()
}

// Subscribe registers fn for every view change. The returned func removes it.
func (f *Flow) Subscribe(fn Listener) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.listeners[id] = fn

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.listeners, id)
	}
}

// Close detaches every listener. Submissions settling afterwards still
// update the state but notify nobody.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	clear(f.listeners)
}

func (f *Flow) settle() {
	_ = f.update(func(View) error {
		f.stage = stageIdle
		return nil
	})
}

func (f *Flow) viewLocked() View {
	return deriveView(f.state, f.submitter.Snapshot(), f.stage)
}

// update applies fn under the lock and notifies listeners outside of it
// when fn succeeds.
func (f *Flow) update(fn func(View) error) error {
	f.mu.Lock()
	if err := fn(f.viewLocked()); err != nil {
		f.mu.Unlock()
		return err
	}
	view := f.viewLocked()
	listeners := make([]Listener, 0, len(f.listeners))
	for _, l := range f.listeners {
		listeners = append(listeners, l)
	}
	f.mu.Unlock()

	for _, l := range listeners {
		l(view)
	}
	return nil
}
