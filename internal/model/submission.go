package model

type SubmissionStatus int

const (
	SubmissionIdle SubmissionStatus = iota
	SubmissionPending
	SubmissionSuccess
	SubmissionError
)

func (s SubmissionStatus) String() string {
	switch s {
	case SubmissionPending:
		return "pending"
	case SubmissionSuccess:
		return "success"
	case SubmissionError:
		return "error"
	default:
		return "idle"
	}
}

// Submission is the outcome slot of the latest create-payout attempt.
// Success carries the payout even when its status is failed.
type Submission struct {
	Status SubmissionStatus
	Payout *Payout
	Err    error
}

func (s Submission) Pending() bool { return s.Status == SubmissionPending }
