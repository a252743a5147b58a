// Package payoutv1 holds the JSON contract of the merchant payout API.
package payoutv1

import "time"

const (
	CreatePayoutPath = "/api/payouts"
	ActivityPath     = "/api/activity"
)

// CreatePayoutRequest is the body of POST /api/payouts. Amount is in minor units.
type CreatePayoutRequest struct {
	Amount   int64  `json:"amount" validate:"gt=0"`
	Currency string `json:"currency" validate:"required,oneof=GBP EUR"`
	IBAN     string `json:"iban" validate:"required"`
	DeviceID string `json:"device_id,omitempty"`
}

// PayoutResponse is returned with any 2xx status.
type PayoutResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	IBAN      string    `json:"iban"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrorResponse is the optional body of a non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PayoutCreatedEvent is published after a payout has been accepted.
type PayoutCreatedEvent struct {
	EventID   string    `json:"event_id"`
	PayoutID  string    `json:"payout_id"`
	Status    string    `json:"status"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

// ActivityResponse lists recently created payouts, newest first.
type ActivityResponse struct {
	Events []PayoutCreatedEvent `json:"events"`
}
