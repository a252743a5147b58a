package form

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/you-humble/merchant-payout/internal/model"
)

var (
	hundred     = decimal.NewFromInt(100)
	maxMinorAmt = decimal.NewFromInt(math.MaxInt64)
)

// ParseAmount converts user-entered major-unit text ("12.50") into minor units (1250).
func ParseAmount(text string) (int64, error) {
	const op = "form.ParseAmount"

	text = strings.TrimSpace(text)
	if text == "" {
		return 0, fmt.Errorf("%s: %w", op, errors.Join(model.ErrValidation, errors.New("amount is required")))
	}

	value, err := decimal.NewFromString(text)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, errors.Join(model.ErrValidation, fmt.Errorf("amount %q is not a number", text)))
	}

	if !value.IsPositive() {
		return 0, fmt.Errorf("%s: %w", op, errors.Join(model.ErrValidation, errors.New("amount must be greater than zero")))
	}

	minor := value.Mul(hundred).Round(0)
	if !minor.IsPositive() {
		return 0, fmt.Errorf("%s: %w", op, errors.Join(model.ErrValidation, errors.New("amount is below the smallest currency unit")))
	}
	if minor.GreaterThan(maxMinorAmt) {
		return 0, fmt.Errorf("%s: %w", op, errors.Join(model.ErrValidation, errors.New("amount is too large")))
	}

	return minor.IntPart(), nil
}

// Validate builds a PendingPayout from raw form input.
func Validate(amountText string, currency model.Currency, iban string) (model.PendingPayout, error) {
	const op = "form.Validate"

	amount, err := ParseAmount(amountText)
	if err != nil {
		return model.PendingPayout{}, err
	}

	if !currency.Valid() {
		return model.PendingPayout{}, fmt.Errorf("%s: %w", op,
			errors.Join(model.ErrValidation, fmt.Errorf("unsupported currency %q", currency)))
	}

	iban = strings.TrimSpace(iban)
	if iban == "" {
		return model.PendingPayout{}, fmt.Errorf("%s: %w", op,
			errors.Join(model.ErrValidation, errors.New("destination account is required")))
	}

	return model.PendingPayout{
		Amount:   amount,
		Currency: currency,
		IBAN:     iban,
	}, nil
}

// Form keeps the editable payout fields. A zero Form is not usable; call New.
type Form struct {
	mu       sync.RWMutex
	amount   string
	currency model.Currency
	iban     string
}

func New() *Form {
	return &Form{currency: model.DefaultCurrency}
}

func (f *Form) SetAmount(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.amount = text
}

func (f *Form) SetIBAN(iban string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.iban = iban
}

// SetCurrency switches the picker. Unknown codes are rejected and leave the selection unchanged.
func (f *Form) SetCurrency(c model.Currency) error {
	if !c.Valid() {
		return fmt.Errorf("form.SetCurrency: %w", errors.Join(model.ErrValidation, fmt.Errorf("unsupported currency %q", c)))
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.currency = c
	return nil
}

func (f *Form) Amount() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.amount
}

func (f *Form) Currency() model.Currency {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.currency
}

func (f *Form) IBAN() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.iban
}

// IsValid reports whether Submit would succeed; the submit action stays disabled otherwise.
func (f *Form) IsValid() bool {
	_, err := f.Submit()
	return err == nil
}

func (f *Form) Submit() (model.PendingPayout, error) {
	f.mu.RLock()
	amount, currency, iban := f.amount, f.currency, f.iban
	f.mu.RUnlock()

	return Validate(amount, currency, iban)
}
