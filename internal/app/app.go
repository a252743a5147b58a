package app

import (
	"context"

	"github.com/you-humble/merchant-payout/internal/config"
	"github.com/you-humble/merchant-payout/platform/closer"
	"github.com/you-humble/merchant-payout/platform/logger"
)

// app is the interactive payout console.
type app struct {
	di *di
}

func New(ctx context.Context) (*app, error) {
	a := &app{}

	if err := a.init(ctx); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *app) Run(ctx context.Context) error { return a.run(ctx) }

func (a *app) init(ctx context.Context) error {
	return runInits(ctx,
		initConfig,
		initLogger,
		initCloser,
		a.initDI,
		a.initFlow,
	)
}

func (a *app) initDI(_ context.Context) error {
	a.di = NewDI()
	return nil
}

func (a *app) initFlow(ctx context.Context) error {
	a.di.PayoutFlow(ctx)
	return nil
}

func (a *app) run(ctx context.Context) error {
	defer gracefulShutdown()

	logger.Info(ctx,
		"🚀 payout console started",
		logger.String("payout_api", config.C().Gateway.BaseURL()),
		logger.String("biometric_mode", config.C().Biometric.Mode()),
	)

	return a.di.Console(ctx).Run(ctx)
}

func runInits(ctx context.Context, inits ...func(context.Context) error) error {
	for _, initFn := range inits {
		if err := initFn(ctx); err != nil {
			return err
		}
	}
	return nil
}

func initConfig(_ context.Context) error {
	return config.Load()
}

func initLogger(_ context.Context) error {
	return logger.Init(
		config.C().Logger.Level(),
		config.C().Logger.AsJSON(),
	)
}

func initCloser(_ context.Context) error {
	closer.SetLogger(logger.L())
	return nil
}

//nolint:contextcheck
func gracefulShutdown() {
	ctx, cancel := context.WithTimeout(
		context.Background(), // do not inherit cancellation from ctx
		config.C().Server.ShutdownTimeout(),
	)
	defer cancel()

	err := closer.CloseAll(ctx)
	if err != nil {
		logger.Error(ctx, "❌ Error during shutdown", logger.ErrorF(err))
		logger.Error(ctx, "❌😵‍💫 Stopped")
		return
	}
	logger.Info(ctx, "✅ Stopped")
}
