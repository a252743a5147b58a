package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	envconfig "github.com/you-humble/merchant-payout/internal/config/env"
)

var cfg *config

type config struct {
	Logger    Logger
	Gateway   Gateway
	Device    Device
	Biometric Biometric
	Kafka     Kafka
	Server    Server
}

func Load(path ...string) error {
	const op = "config.Load"

	if shouldLoadDotenv() {
		if err := godotenv.Load(path...); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: load .env: %w", op, err)
		}
	}

	loggerCfg, err := envconfig.NewLoggerConfig()
	if err != nil {
		return fmt.Errorf("%s Logger: %w", op, err)
	}

	gatewayCfg, err := envconfig.NewGatewayConfig()
	if err != nil {
		return fmt.Errorf("%s Gateway: %w", op, err)
	}

	deviceCfg, err := envconfig.NewDeviceConfig()
	if err != nil {
		return fmt.Errorf("%s Device: %w", op, err)
	}

	biometricCfg, err := envconfig.NewBiometricConfig()
	if err != nil {
		return fmt.Errorf("%s Biometric: %w", op, err)
	}

	kafkaCfg, err := envconfig.NewKafkaConfig()
	if err != nil {
		return fmt.Errorf("%s Kafka: %w", op, err)
	}

	serverCfg, err := envconfig.NewHTTPServerConfig()
	if err != nil {
		return fmt.Errorf("%s Server: %w", op, err)
	}

	cfg = &config{
		Logger:    loggerCfg,
		Gateway:   gatewayCfg,
		Device:    deviceCfg,
		Biometric: biometricCfg,
		Kafka:     kafkaCfg,
		Server:    serverCfg,
	}

	return nil
}

func C() *config { return cfg }

func shouldLoadDotenv() bool {
	return os.Getenv("APP_ENV") == "local"
}
