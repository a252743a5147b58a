package payout

import "github.com/you-humble/merchant-payout/internal/model"

// BiometricThreshold is the amount in minor units above which a payout
// requires biometric authentication.
const BiometricThreshold int64 = 100000

// FlowState is owned by Flow and changed only through reduce.
type FlowState struct {
	ConfirmationVisible bool
	PendingPayout       *model.PendingPayout
	FormGeneration      int
	// AuthFailure is empty when the last authentication did not fail.
	AuthFailure string
}

type actionType int

const (
	actionSubmitForm actionType = iota
	actionCancelConfirmation
	actionConfirmSettled
	actionResetForm
	actionBiometricFailed
	actionClearBiometricError
)

type action struct {
	typ     actionType
	payout  model.PendingPayout
	message string
}

func reduce(state FlowState, a action) FlowState {
	switch a.typ {
	case actionSubmitForm:
		p := a.payout
		state.PendingPayout = &p
		state.ConfirmationVisible = true
	case actionCancelConfirmation, actionConfirmSettled:
		state.ConfirmationVisible = false
	case actionResetForm:
		state.PendingPayout = nil
		state.ConfirmationVisible = false
		state.FormGeneration++
		state.AuthFailure = ""
	case actionBiometricFailed:
		state.AuthFailure = a.message
	case actionClearBiometricError:
		state.AuthFailure = ""
	}
	return state
}

func needsBiometric(amount int64) bool { return amount > BiometricThreshold }
