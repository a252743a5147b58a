package biometric

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/you-humble/merchant-payout/internal/model"
	"github.com/you-humble/merchant-payout/platform/logger"
)

const promptReason = "Authenticate to complete the payout"

type Terminal interface {
	IsTerminal() bool
	ReadSecret(prompt string) (string, error)
}

type stdTerminal struct {
	in  *os.File
	out io.Writer
}

// NewStdTerminal reads secrets from in without echo.
func NewStdTerminal(in *os.File, out io.Writer) *stdTerminal {
	return &stdTerminal{in: in, out: out}
}

func (t *stdTerminal) IsTerminal() bool { return term.IsTerminal(int(t.in.Fd())) }

func (t *stdTerminal) ReadSecret(prompt string) (string, error) {
	if _, err := fmt.Fprint(t.out, prompt); err != nil {
		return "", err
	}
	secret, err := term.ReadPassword(int(t.in.Fd()))
	_, _ = fmt.Fprintln(t.out)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}

// prompt gates a payout behind the device passcode entered on an interactive terminal.
type prompt struct {
	term     Terminal
	passcode string
}

func NewPrompt(t Terminal, passcode string) *prompt {
	return &prompt{term: t, passcode: passcode}
}

func (p *prompt) Authenticate(ctx context.Context) (bool, error) {
	if p.passcode == "" {
		return false, model.NewBiometricError(model.BiometricNotEnrolled)
	}
	if !p.term.IsTerminal() {
		return false, model.NewBiometricError(model.BiometricUnavailable)
	}
	if ctx.Err() != nil {
		return false, model.NewBiometricError(model.BiometricCancelled)
	}

	secret, err := p.term.ReadSecret(promptReason + " (leave empty to cancel): ")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, model.NewBiometricError(model.BiometricCancelled)
		}
		logger.Error(ctx, "read passcode", logger.ErrorF(err))
		return false, model.NewBiometricError(model.BiometricFailed)
	}

	secret = strings.TrimSpace(secret)
	if secret == "" {
		return false, model.NewBiometricError(model.BiometricCancelled)
	}

	return subtle.ConstantTimeCompare([]byte(secret), []byte(p.passcode)) == 1, nil
}
