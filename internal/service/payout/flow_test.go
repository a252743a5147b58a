package payout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/merchant-payout/internal/model"
	"github.com/you-humble/merchant-payout/internal/service/payout/mocks"
	"github.com/you-humble/merchant-payout/internal/service/submission"
	submocks "github.com/you-humble/merchant-payout/internal/service/submission/mocks"
)

const testIBAN = "GB29NWBK60161331926819"

type deps struct {
	auth    *mocks.MockAuthenticator
	device  *mocks.MockDeviceIDProvider
	gateway *submocks.MockGateway
}

func newDeps(t *testing.T) deps {
	return deps{
		auth:    mocks.NewMockAuthenticator(t),
		device:  mocks.NewMockDeviceIDProvider(t),
		gateway: submocks.NewMockGateway(t),
	}
}

func newFlow(d deps) *Flow {
	return NewFlow(d.auth, d.device, submission.NewTracker(d.gateway, nil))
}

func pendingPayout(amount int64) model.PendingPayout {
	return model.PendingPayout{Amount: amount, Currency: model.CurrencyGBP, IBAN: testIBAN}
}

func payoutFor(p model.PendingPayout, status model.PayoutStatus) *model.Payout {
	return &model.Payout{
		ID:        gofakeit.UUID(),
		Status:    status,
		Amount:    p.Amount,
		Currency:  p.Currency,
		IBAN:      p.IBAN,
		CreatedAt: time.Now().UTC(),
	}
}

func TestFlowConfirmPayout(t *testing.T) {
	t.Parallel()

	deviceID := gofakeit.UUID()

	type testCase struct {
		name    string
		pending model.PendingPayout
		setup   func(d deps, p model.PendingPayout)
		assert  func(t *testing.T, v View, d deps)
	}

	expectGateway := func(d deps, p model.PendingPayout, status model.PayoutStatus) {
		d.device.On("DeviceID", mock.Anything).Return(deviceID, nil).Once()
		d.gateway.On("CreatePayout", mock.Anything, p.WithDeviceID(deviceID)).
			Return(payoutFor(p, status), nil).
			Once()
	}

	authFailure := func(msg string) func(t *testing.T, v View, d deps) {
		return func(t *testing.T, v View, d deps) {
			assert.Equal(t, PhaseError, v.Phase)
			assert.True(t, v.IsError)
			assert.False(t, v.IsSuccess)
			assert.Equal(t, msg, v.ErrorMessage)
			assert.Equal(t, TitleTerminal, v.Title)
			require.NotNil(t, v.PendingPayout)

			d.device.AssertNotCalled(t, "DeviceID", mock.Anything)
			d.gateway.AssertNotCalled(t, "CreatePayout", mock.Anything, mock.Anything)
		}
	}

	tests := []testCase{
		{
			name:    "amount at threshold skips biometric",
			pending: pendingPayout(BiometricThreshold),
			setup: func(d deps, p model.PendingPayout) {
				expectGateway(d, p, model.PayoutStatusCompleted)
			},
			assert: func(t *testing.T, v View, d deps) {
				assert.Equal(t, PhaseSuccess, v.Phase)
				assert.True(t, v.IsSuccess)
				assert.False(t, v.IsError)
				assert.Empty(t, v.ErrorMessage)
				assert.Equal(t, TitleTerminal, v.Title)
				require.NotNil(t, v.Payout)
				assert.Equal(t, model.PayoutStatusCompleted, v.Payout.Status)

				d.auth.AssertNotCalled(t, "Authenticate", mock.Anything)
			},
		},
		{
			name:    "amount above threshold authenticates first",
			pending: pendingPayout(BiometricThreshold + 1),
			setup: func(d deps, p model.PendingPayout) {
				d.auth.On("Authenticate", mock.Anything).Return(true, nil).Once()
				expectGateway(d, p, model.PayoutStatusCompleted)
			},
			assert: func(t *testing.T, v View, d deps) {
				assert.Equal(t, PhaseSuccess, v.Phase)
			},
		},
		{
			name:    "biometric cancelled",
			pending: pendingPayout(500000),
			setup: func(d deps, _ model.PendingPayout) {
				d.auth.On("Authenticate", mock.Anything).
					Return(false, model.NewBiometricError(model.BiometricCancelled)).
					Once()
			},
			assert: authFailure(model.MsgBiometricCancelled),
		},
		{
			name:    "biometric fallback reads as cancelled",
			pending: pendingPayout(500000),
			setup: func(d deps, _ model.PendingPayout) {
				d.auth.On("Authenticate", mock.Anything).
					Return(false, model.NewBiometricError(model.BiometricFallback)).
					Once()
			},
			assert: authFailure(model.MsgBiometricCancelled),
		},
		{
			name:    "biometric not enrolled",
			pending: pendingPayout(500000),
			setup: func(d deps, _ model.PendingPayout) {
				d.auth.On("Authenticate", mock.Anything).
					Return(false, model.NewBiometricError(model.BiometricNotEnrolled)).
					Once()
			},
			assert: authFailure(model.MsgBiometricNotEnrolled),
		},
		{
			name:    "biometric unavailable",
			pending: pendingPayout(500000),
			setup: func(d deps, _ model.PendingPayout) {
				d.auth.On("Authenticate", mock.Anything).
					Return(false, model.NewBiometricError(model.BiometricUnavailable)).
					Once()
			},
			assert: authFailure(model.MsgBiometricUnavailable),
		},
		{
			name:    "biometric resolved false",
			pending: pendingPayout(500000),
			setup: func(d deps, _ model.PendingPayout) {
				d.auth.On("Authenticate", mock.Anything).Return(false, nil).Once()
			},
			assert: authFailure(model.MsgBiometricFailed),
		},
		{
			name:    "untyped biometric error uses its message",
			pending: pendingPayout(500000),
			setup: func(d deps, _ model.PendingPayout) {
				d.auth.On("Authenticate", mock.Anything).Return(false, errors.New("sensor locked")).Once()
			},
			assert: authFailure("sensor locked"),
		},
		{
			name:    "failed payout status",
			pending: pendingPayout(9999),
			setup: func(d deps, p model.PendingPayout) {
				expectGateway(d, p, model.PayoutStatusFailed)
			},
			assert: func(t *testing.T, v View, d deps) {
				assert.Equal(t, PhaseError, v.Phase)
				assert.True(t, v.IsError)
				assert.False(t, v.IsSuccess)
				assert.Equal(t, model.MsgServiceUnavailable, v.ErrorMessage)
				assert.Equal(t, TitleTerminal, v.Title)
			},
		},
		{
			name:    "gateway error message is shown",
			pending: pendingPayout(88888),
			setup: func(d deps, p model.PendingPayout) {
				d.device.On("DeviceID", mock.Anything).Return(deviceID, nil).Once()
				d.gateway.On("CreatePayout", mock.Anything, p.WithDeviceID(deviceID)).
					Return(nil, model.NewGatewayStatusError(400, "Insufficient funds")).
					Once()
			},
			assert: func(t *testing.T, v View, d deps) {
				assert.Equal(t, PhaseError, v.Phase)
				assert.Equal(t, "Insufficient funds", v.ErrorMessage)
				assert.Nil(t, v.Payout)
			},
		},
		{
			name:    "device id failure skips the gateway",
			pending: pendingPayout(40000),
			setup: func(d deps, _ model.PendingPayout) {
				d.device.On("DeviceID", mock.Anything).
					Return("", errors.Join(model.ErrDeviceID, errors.New("keychain locked"))).
					Once()
			},
			assert: func(t *testing.T, v View, d deps) {
				assert.Equal(t, PhaseError, v.Phase)
				assert.Equal(t, model.MsgDeviceIDFailure, v.ErrorMessage)

				d.gateway.AssertNotCalled(t, "CreatePayout", mock.Anything, mock.Anything)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newDeps(t)
			tt.setup(d, tt.pending)

			flow := newFlow(d)
			require.NoError(t, flow.SubmitForm(tt.pending))
			require.Equal(t, PhaseConfirming, flow.View().Phase)

			flow.ConfirmPayout(context.Background())

			v := flow.View()
			assert.False(t, v.ConfirmationVisible)
			assert.False(t, v.IsSubmitting)
			tt.assert(t, v, d)
		})
	}
}

func TestFlowConfirmWithoutPendingIsNoop(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	flow := newFlow(d)

	calls := 0
	flow.Subscribe(func(View) { calls++ })

	flow.ConfirmPayout(context.Background())

	assert.Equal(t, PhaseForm, flow.View().Phase)
	assert.Zero(t, calls)
	d.gateway.AssertNotCalled(t, "CreatePayout", mock.Anything, mock.Anything)
}

func TestFlowCancelConfirmationKeepsPending(t *testing.T) {
	t.Parallel()

	flow := newFlow(newDeps(t))
	p := pendingPayout(1250)

	require.NoError(t, flow.SubmitForm(p))
	flow.CancelConfirmation()

	state := flow.State()
	assert.False(t, state.ConfirmationVisible)
	require.NotNil(t, state.PendingPayout)
	assert.Equal(t, p, *state.PendingPayout)
	assert.Equal(t, PhaseForm, flow.View().Phase)
	assert.Equal(t, TitleDefault, flow.View().Title)
}

func TestFlowSecondConfirmWhileInFlightIsNoop(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	p := pendingPayout(40000)
	release := make(chan struct{})
	entered := make(chan struct{})

	d.device.On("DeviceID", mock.Anything).Return("device-1", nil).Once()
	d.gateway.On("CreatePayout", mock.Anything, p.WithDeviceID("device-1")).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(payoutFor(p, model.PayoutStatusCompleted), nil).
		Once()

	flow := newFlow(d)
	require.NoError(t, flow.SubmitForm(p))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		flow.ConfirmPayout(context.Background())
	}()

	<-entered
	v := flow.View()
	assert.True(t, v.IsSubmitting)
	assert.Equal(t, PhaseSubmitting, v.Phase)

	flow.ConfirmPayout(context.Background())
	assert.ErrorIs(t, flow.SubmitForm(p), model.ErrInvalidTransition)

	close(release)
	wg.Wait()

	assert.Equal(t, PhaseSuccess, flow.View().Phase)
	d.gateway.AssertNumberOfCalls(t, "CreatePayout", 1)
}

func TestFlowAuthenticatingPhase(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	p := pendingPayout(250000)

	flow := newFlow(d)
	d.auth.On("Authenticate", mock.Anything).
		Return(func(context.Context) (bool, error) {
			assert.Equal(t, PhaseAuthenticating, flow.View().Phase)
			return false, model.NewBiometricError(model.BiometricCancelled)
		}).
		Once()

	require.NoError(t, flow.SubmitForm(p))
	flow.ConfirmPayout(context.Background())

	assert.Equal(t, PhaseError, flow.View().Phase)
}

func TestFlowCreateAnother(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	p := pendingPayout(40000)
	d.device.On("DeviceID", mock.Anything).Return("device-1", nil).Once()
	d.gateway.On("CreatePayout", mock.Anything, mock.Anything).
		Return(payoutFor(p, model.PayoutStatusCompleted), nil).
		Once()

	flow := newFlow(d)

	require.ErrorIs(t, flow.CreateAnother(), model.ErrInvalidTransition)

	require.NoError(t, flow.SubmitForm(p))
	flow.ConfirmPayout(context.Background())
	require.Equal(t, PhaseSuccess, flow.View().Phase)

	require.ErrorIs(t, flow.TryAgain(), model.ErrInvalidTransition)
	require.NoError(t, flow.CreateAnother())

	v := flow.View()
	assert.Equal(t, PhaseForm, v.Phase)
	assert.Nil(t, v.PendingPayout)
	assert.Nil(t, v.Payout)
	assert.Equal(t, 1, v.FormGeneration)
	assert.False(t, v.IsSuccess)
	assert.False(t, v.IsError)
	assert.Empty(t, v.ErrorMessage)
	assert.Equal(t, TitleDefault, v.Title)
}

func TestFlowTryAgainKeepsPending(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	p := pendingPayout(88888)
	d.device.On("DeviceID", mock.Anything).Return("device-1", nil).Twice()
	d.gateway.On("CreatePayout", mock.Anything, p.WithDeviceID("device-1")).
		Return(nil, model.NewGatewayStatusError(400, "Insufficient funds")).
		Once()
	d.gateway.On("CreatePayout", mock.Anything, p.WithDeviceID("device-1")).
		Return(payoutFor(p, model.PayoutStatusCompleted), nil).
		Once()

	flow := newFlow(d)
	require.NoError(t, flow.SubmitForm(p))
	flow.ConfirmPayout(context.Background())
	require.Equal(t, PhaseError, flow.View().Phase)

	require.NoError(t, flow.TryAgain())

	v := flow.View()
	assert.Equal(t, PhaseForm, v.Phase)
	assert.False(t, v.IsError)
	assert.Empty(t, v.ErrorMessage)
	require.NotNil(t, v.PendingPayout)
	assert.Equal(t, p, *v.PendingPayout)
	assert.Zero(t, v.FormGeneration)

	flow.ConfirmPayout(context.Background())
	assert.Equal(t, PhaseSuccess, flow.View().Phase)
	d.gateway.AssertNumberOfCalls(t, "CreatePayout", 2)
}

func TestFlowTryAgainAfterBiometricFailure(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	d.auth.On("Authenticate", mock.Anything).Return(false, nil).Once()

	flow := newFlow(d)
	require.NoError(t, flow.SubmitForm(pendingPayout(150000)))
	flow.ConfirmPayout(context.Background())
	require.Equal(t, model.MsgBiometricFailed, flow.View().ErrorMessage)

	require.NoError(t, flow.TryAgain())
	assert.Empty(t, flow.State().AuthFailure)
	assert.NotNil(t, flow.State().PendingPayout)
}

func TestFlowSubscribeAndClose(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	p := pendingPayout(40000)
	d.device.On("DeviceID", mock.Anything).Return("device-1", nil).Once()
	d.gateway.On("CreatePayout", mock.Anything, mock.Anything).
		Return(payoutFor(p, model.PayoutStatusCompleted), nil).
		Once()

	flow := newFlow(d)

	var phases []Phase
	unsubscribe := flow.Subscribe(func(v View) { phases = append(phases, v.Phase) })

	require.NoError(t, flow.SubmitForm(p))
	flow.ConfirmPayout(context.Background())

	assert.Equal(t, []Phase{PhaseConfirming, PhaseSubmitting, PhaseSuccess}, phases)

	unsubscribe()
	require.NoError(t, flow.CreateAnother())
	assert.Len(t, phases, 3)

	late := 0
	flow.Subscribe(func(View) { late++ })
	flow.Close()
	require.NoError(t, flow.SubmitForm(p))

	assert.Zero(t, late)
	assert.Equal(t, PhaseConfirming, flow.View().Phase)
}

func TestReduceFormGenerationNeverDecreases(t *testing.T) {
	t.Parallel()

	actions := []action{
		{typ: actionSubmitForm, payout: pendingPayout(100)},
		{typ: actionResetForm},
		{typ: actionCancelConfirmation},
		{typ: actionBiometricFailed, message: model.MsgBiometricFailed},
		{typ: actionClearBiometricError},
		{typ: actionSubmitForm, payout: pendingPayout(200)},
		{typ: actionConfirmSettled},
		{typ: actionResetForm},
	}

	var state FlowState
	prev := state.FormGeneration
	for _, a := range actions {
		state = reduce(state, a)
		assert.GreaterOrEqual(t, state.FormGeneration, prev)
		if state.ConfirmationVisible {
			assert.NotNil(t, state.PendingPayout)
		}
		prev = state.FormGeneration
	}

	assert.Equal(t, 2, state.FormGeneration)
	assert.Nil(t, state.PendingPayout)
}
