package envconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// ======= Gateway =======

type gatewayEnv struct {
	BaseURL string        `env:"PAYOUT_API_BASE_URL" envDefault:"http://localhost:8080"`
	Timeout time.Duration `env:"PAYOUT_API_TIMEOUT" envDefault:"15s"`
}

type gateway struct {
	raw gatewayEnv
}

func NewGatewayConfig() (*gateway, error) {
	var raw gatewayEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &gateway{raw: raw}, nil
}

func (cfg *gateway) BaseURL() string        { return strings.TrimRight(cfg.raw.BaseURL, "/") }
func (cfg *gateway) Timeout() time.Duration { return cfg.raw.Timeout }

// ======= Device =======

type deviceEnv struct {
	ServiceName  string `env:"DEVICE_KEYRING_SERVICE" envDefault:"merchant-payout"`
	FileDir      string `env:"DEVICE_KEYRING_DIR" envDefault:"~/.merchant-payout/keyring"`
	FilePassword string `env:"DEVICE_KEYRING_PASSWORD"`
}

type device struct {
	raw deviceEnv
}

func NewDeviceConfig() (*device, error) {
	var raw deviceEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &device{raw: raw}, nil
}

func (cfg *device) ServiceName() string  { return cfg.raw.ServiceName }
func (cfg *device) FileDir() string      { return cfg.raw.FileDir }
func (cfg *device) FilePassword() string { return cfg.raw.FilePassword }

// ======= Biometric =======

const (
	BiometricModePrompt   = "prompt"
	BiometricModeFallback = "fallback"
)

type biometricEnv struct {
	Mode     string `env:"BIOMETRIC_MODE" envDefault:"prompt"`
	Passcode string `env:"BIOMETRIC_PASSCODE"`
}

type biometric struct {
	raw biometricEnv
}

func NewBiometricConfig() (*biometric, error) {
	var raw biometricEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	switch raw.Mode {
	case BiometricModePrompt, BiometricModeFallback:
	default:
		return nil, fmt.Errorf("BIOMETRIC_MODE: unsupported value %q", raw.Mode)
	}
	return &biometric{raw: raw}, nil
}

func (cfg *biometric) Mode() string     { return cfg.raw.Mode }
func (cfg *biometric) Passcode() string { return cfg.raw.Passcode }
