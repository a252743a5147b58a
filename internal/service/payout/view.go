package payout

import (
	"errors"

	"github.com/you-humble/merchant-payout/internal/model"
)

type Phase int

const (
	PhaseForm Phase = iota
	PhaseConfirming
	PhaseAuthenticating
	PhaseSubmitting
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseConfirming:
		return "confirming"
	case PhaseAuthenticating:
		return "authenticating"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "form"
	}
}

func (p Phase) Terminal() bool { return p == PhaseSuccess || p == PhaseError }

const (
	TitleTerminal = "Payout"
	TitleDefault  = "Send Payout"
)

// View is the presentation snapshot derived from the flow state and the
// latest submission. It is recomputed on every read.
type View struct {
	Title               string
	Phase               Phase
	IsSuccess           bool
	IsError             bool
	ErrorMessage        string
	IsSubmitting        bool
	ConfirmationVisible bool
	PendingPayout       *model.PendingPayout
	FormGeneration      int
	Payout              *model.Payout
}

type stage int

const (
	stageIdle stage = iota
	stageAuthenticating
	stageSubmitting
)

func deriveView(state FlowState, sub model.Submission, st stage) View {
	isSuccess := sub.Payout.Completed()
	isError := sub.Status == model.SubmissionError || sub.Payout.Failed() || state.AuthFailure != ""
	isSubmitting := st == stageSubmitting || sub.Pending()

	var phase Phase
	switch {
	case isSuccess:
		phase = PhaseSuccess
	case isError:
		phase = PhaseError
	case isSubmitting:
		phase = PhaseSubmitting
	case st == stageAuthenticating:
		phase = PhaseAuthenticating
	case state.ConfirmationVisible:
		phase = PhaseConfirming
	default:
		phase = PhaseForm
	}

	title := TitleDefault
	if phase.Terminal() {
		title = TitleTerminal
	}

	var pending *model.PendingPayout
	if state.PendingPayout != nil {
		p := *state.PendingPayout
		pending = &p
	}

	return View{
		Title:               title,
		Phase:               phase,
		IsSuccess:           isSuccess,
		IsError:             isError,
		ErrorMessage:        errorMessage(state, sub),
		IsSubmitting:        isSubmitting,
		ConfirmationVisible: state.ConfirmationVisible,
		PendingPayout:       pending,
		FormGeneration:      state.FormGeneration,
		Payout:              sub.Payout,
	}
}

func errorMessage(state FlowState, sub model.Submission) string {
	if state.AuthFailure != "" {
		return state.AuthFailure
	}

	if sub.Err != nil {
		var gwErr *model.GatewayError
		switch {
		case errors.As(sub.Err, &gwErr):
			return gwErr.Message
		case errors.Is(sub.Err, model.ErrDeviceID):
			return model.MsgDeviceIDFailure
		default:
			return model.MsgServiceUnavailable
		}
	}

	if sub.Payout.Failed() {
		return model.MsgServiceUnavailable
	}

	return ""
}

func authFailureMessage(ok bool, err error) string {
	if err == nil && !ok {
		return model.MsgBiometricFailed
	}

	var bioErr *model.BiometricError
	if errors.As(err, &bioErr) {
		return bioErr.Cause.Message()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return model.MsgBiometricFailed
}
