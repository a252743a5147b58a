package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type (
	Currency     string
	PayoutStatus string
)

const (
	CurrencyGBP Currency = "GBP"
	CurrencyEUR Currency = "EUR"
)

const (
	PayoutStatusCompleted PayoutStatus = "completed"
	PayoutStatusFailed    PayoutStatus = "failed"
)

// DefaultCurrency is preselected in the payout form.
const DefaultCurrency = CurrencyGBP

var Currencies = []Currency{CurrencyGBP, CurrencyEUR}

func (c Currency) Valid() bool { return lo.Contains(Currencies, c) }

func (c Currency) String() string { return string(c) }

// PendingPayout is a validated payout staged for confirmation.
type PendingPayout struct {
	// Amount in minor units (pence/cents), always > 0.
	Amount   int64
	Currency Currency
	// Destination account, trimmed and non-empty.
	IBAN string
}

type CreatePayoutParams struct {
	Amount   int64
	Currency Currency
	IBAN     string
	DeviceID string
}

func (p PendingPayout) WithDeviceID(deviceID string) CreatePayoutParams {
	return CreatePayoutParams{
		Amount:   p.Amount,
		Currency: p.Currency,
		IBAN:     p.IBAN,
		DeviceID: deviceID,
	}
}

// Payout is the gateway's view of a created payout.
type Payout struct {
	ID        string
	Status    PayoutStatus
	Amount    int64
	Currency  Currency
	IBAN      string
	CreatedAt time.Time
}

func (p *Payout) Completed() bool { return p != nil && p.Status == PayoutStatusCompleted }

func (p *Payout) Failed() bool { return p != nil && p.Status == PayoutStatusFailed }

type PayoutCreated struct {
	EventID   uuid.UUID
	PayoutID  string
	Status    PayoutStatus
	Amount    int64
	Currency  Currency
	CreatedAt time.Time
}
