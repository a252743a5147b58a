package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/you-humble/merchant-payout/internal/model"
	"github.com/you-humble/merchant-payout/internal/service/form"
	"github.com/you-humble/merchant-payout/internal/service/payout"
	"github.com/you-humble/merchant-payout/platform/logger"
)

type PayoutFlow interface {
	SubmitForm(p model.PendingPayout) error
	CancelConfirmation()
	ConfirmPayout(ctx context.Context)
	CreateAnother() error
	TryAgain() error
	View() payout.View
	Subscribe(fn payout.Listener) func()
}

var (
	titleColor   = color.New(color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	hintColor    = color.New(color.Faint)
)

type console struct {
	flow PayoutFlow
	in   *bufio.Scanner
	out  io.Writer

	form    *form.Form
	formGen int
}

func NewConsole(flow PayoutFlow, in io.Reader, out io.Writer) *console {
	return &console{
		flow: flow,
		in:   bufio.NewScanner(in),
		out:  out,
		form: form.New(),
	}
}

// Run drives the payout flow until the input ends, the user quits or ctx is done.
func (c *console) Run(ctx context.Context) error {
	unsubscribe := c.flow.Subscribe(c.onChange)
	defer unsubscribe()

	for {
		if ctx.Err() != nil {
			return nil
		}

		var err error
		v := c.flow.View()
		switch v.Phase {
		case payout.PhaseForm:
			err = c.fillForm(ctx, v)
		case payout.PhaseConfirming:
			err = c.confirm(ctx, v)
		case payout.PhaseSuccess:
			err = c.success(v)
		case payout.PhaseError:
			err = c.failure(v)
		default:
			// Authenticating and submitting settle inside ConfirmPayout.
			continue
		}

		switch {
		case errors.Is(err, errQuit), errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}
	}
}

var errQuit = errors.New("quit")

func (c *console) onChange(v payout.View) {
	switch v.Phase {
	case payout.PhaseAuthenticating:
		c.hint("Authentication required for payouts over " +
			FormatAmount(payout.BiometricThreshold, pendingCurrency(v)) + ".")
	case payout.PhaseSubmitting:
		c.hint("Processing payout...")
	}
}

func (c *console) fillForm(ctx context.Context, v payout.View) error {
	if v.FormGeneration != c.formGen {
		c.form = form.New()
		c.formGen = v.FormGeneration
	}

	c.title(v.Title)

	for {
		text, err := c.ask("Amount", c.form.Amount())
		if err != nil {
			return err
		}
		if _, err := form.ParseAmount(text); err != nil {
			c.problem("Enter an amount greater than zero, e.g. 12.50.")
			continue
		}
		c.form.SetAmount(text)
		break
	}

	for {
		text, err := c.ask("Currency (GBP/EUR)", c.form.Currency().String())
		if err != nil {
			return err
		}
		if err := c.form.SetCurrency(model.Currency(strings.ToUpper(strings.TrimSpace(text)))); err != nil {
			c.problem("Choose GBP or EUR.")
			continue
		}
		break
	}

	for {
		text, err := c.ask("Destination IBAN", c.form.IBAN())
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			c.problem("Enter the destination account.")
			continue
		}
		c.form.SetIBAN(text)
		break
	}

	p, err := c.form.Submit()
	if err != nil {
		logger.Warn(ctx, "submit payout form", logger.ErrorF(err))
		c.problem("Check the payout details and try again.")
		return nil
	}

	return c.flow.SubmitForm(p)
}

func (c *console) confirm(ctx context.Context, v payout.View) error {
	p := v.PendingPayout

	c.title("Confirm Payout")
	c.printf("  Amount:       %s\n", FormatAmount(p.Amount, p.Currency))
	c.printf("  Currency:     %s\n", p.Currency)
	c.printf("  Destination:  %s\n", MaskIBAN(p.IBAN))
	if p.Amount > payout.BiometricThreshold {
		c.hint("You will be asked to authenticate.")
	}

	ok, err := c.yesNo("Confirm payout?", false)
	if err != nil {
		return err
	}
	if !ok {
		c.flow.CancelConfirmation()
		return nil
	}

	c.flow.ConfirmPayout(ctx)
	return nil
}

func (c *console) success(v payout.View) error {
	c.title(v.Title)
	successColor.Fprintln(c.out, "✓ Payout Completed")
	if v.Payout != nil {
		c.printf("Your payout of %s has been processed successfully.\n",
			FormatAmount(v.Payout.Amount, v.Payout.Currency))
		c.hint("Reference " + v.Payout.ID)
	}

	ok, err := c.yesNo("Create another payout?", false)
	if err != nil {
		return err
	}
	if !ok {
		return errQuit
	}
	return c.flow.CreateAnother()
}

func (c *console) failure(v payout.View) error {
	c.title(v.Title)
	errorColor.Fprintln(c.out, "✕ Unable to Process Payout")
	msg := v.ErrorMessage
	if msg == "" {
		msg = "Something went wrong. Please try again."
	}
	errorColor.Fprintln(c.out, msg)

	ok, err := c.yesNo("Try again?", true)
	if err != nil {
		return err
	}
	if !ok {
		return errQuit
	}
	return c.flow.TryAgain()
}

func (c *console) ask(label, current string) (string, error) {
	if current != "" {
		c.printf("%s [%s]: ", label, current)
	} else {
		c.printf("%s: ", label)
	}

	line, err := c.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return current, nil
	}
	return line, nil
}

func (c *console) yesNo(question string, def bool) (bool, error) {
	choice := "y/N"
	if def {
		choice = "Y/n"
	}
	c.printf("%s [%s]: ", question, choice)

	line, err := c.readLine()
	if err != nil {
		return false, err
	}

	switch strings.ToLower(line) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (c *console) readLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *console) title(s string) {
	c.printf("\n")
	titleColor.Fprintln(c.out, s)
}

func (c *console) hint(s string) { hintColor.Fprintln(c.out, s) }

func (c *console) problem(s string) { errorColor.Fprintln(c.out, s) }

func (c *console) printf(format string, args ...any) { fmt.Fprintf(c.out, format, args...) }

func pendingCurrency(v payout.View) model.Currency {
	if v.PendingPayout != nil {
		return v.PendingPayout.Currency
	}
	return model.DefaultCurrency
}
