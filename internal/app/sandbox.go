package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/you-humble/merchant-payout/internal/config"
	"github.com/you-humble/merchant-payout/internal/transport/http/health"
	"github.com/you-humble/merchant-payout/platform/closer"
	"github.com/you-humble/merchant-payout/platform/logger"
	payoutv1 "github.com/you-humble/merchant-payout/pkg/api/payout/v1"
)

// sandboxApp serves the payout API with deterministic outcomes for local runs.
type sandboxApp struct {
	di     *di
	server *http.Server
}

func NewSandbox(ctx context.Context) (*sandboxApp, error) {
	a := &sandboxApp{}

	if err := a.init(ctx); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *sandboxApp) Run(ctx context.Context) error { return a.run(ctx) }

func (a *sandboxApp) init(ctx context.Context) error {
	return runInits(ctx,
		initConfig,
		initLogger,
		initCloser,
		a.initDI,
		a.initServer,
	)
}

func (a *sandboxApp) initDI(_ context.Context) error {
	a.di = NewDI()
	return nil
}

func (a *sandboxApp) initServer(ctx context.Context) error {
	cfg := config.C()

	r := a.di.Router(ctx)
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Post(payoutv1.CreatePayoutPath, a.di.SandboxHandler(ctx).CreatePayout)
	r.Get(payoutv1.ActivityPath, a.di.SandboxHandler(ctx).Activity)
	r.HandleFunc("/health", health.HealthCheck)

	a.server = &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           r,
		ReadHeaderTimeout: cfg.Server.ReadTimeout(),
	}

	closer.AddNamed("HTTP server", func(ctx context.Context) error {
		return a.server.Shutdown(ctx)
	})

	return nil
}

func (a *sandboxApp) run(ctx context.Context) error {
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		logger.Info(egCtx,
			"🚀 payout sandbox listening",
			logger.String("address", config.C().Server.Address()),
		)
		err := a.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	if config.C().Kafka.Enabled() {
		eg.Go(func() error {
			logger.Info(egCtx,
				"🚀 payout activity consumer running",
				logger.String("topic", config.C().Kafka.PayoutCreatedTopic()),
			)
			err := a.di.PayoutConsumer(egCtx).RunPayoutCreatedConsume(egCtx)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			return nil
		})
	}

	eg.Go(func() error {
		<-egCtx.Done()
		gracefulShutdown()
		return nil
	})

	if err := eg.Wait(); err != nil {
		return err
	}
	return nil
}
