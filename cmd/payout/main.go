package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/you-humble/merchant-payout/internal/app"
	"github.com/you-humble/merchant-payout/platform/logger"
)

func main() {
	ctx, quit := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT, syscall.SIGTERM,
	)
	defer quit()

	// Input is read synchronously; restore default signal handling so a
	// second interrupt terminates a blocked prompt.
	go func() {
		<-ctx.Done()
		quit()
	}()

	a, err := app.New(ctx)
	if err != nil {
		logger.Error(ctx,
			"❌ Failed to create an application",
			logger.ErrorF(err),
		)
		return
	}

	if err := a.Run(ctx); err != nil {
		logger.Error(ctx, "❌ Payout console error", logger.ErrorF(err))
	}
}
