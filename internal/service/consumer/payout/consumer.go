package payoutconsumer

import (
	"context"
	"fmt"

	"github.com/you-humble/merchant-payout/internal/model"
	"github.com/you-humble/merchant-payout/platform/kafka"
	"github.com/you-humble/merchant-payout/platform/logger"
)

type Converter interface {
	PayloadToPayoutCreated(data []byte) (model.PayoutCreated, error)
}

type Service interface {
	RecordPayoutCreated(ctx context.Context, event model.PayoutCreated) error
}

type service struct {
	consumer kafka.Consumer
	conv     Converter
	svc      Service
}

func NewPayoutConsumer(
	consumer kafka.Consumer,
	conv Converter,
	svc Service,
) *service {
	return &service{consumer: consumer, conv: conv, svc: svc}
}

func (s *service) RunPayoutCreatedConsume(ctx context.Context) error {
	logger.Info(ctx, "Starting payout created consumer")

	if err := s.consumer.Consume(ctx, s.payoutCreatedHandler); err != nil {
		logger.Error(ctx, "Consume from payout.created topic error", logger.ErrorF(err))
		return err
	}

	return nil
}

func (s *service) payoutCreatedHandler(ctx context.Context, msg kafka.Message) error {
	event, err := s.conv.PayloadToPayoutCreated(msg.Value)
	if err != nil {
		logger.Error(ctx, "Failed to decode PayoutCreatedEvent", logger.ErrorF(err))
		return fmt.Errorf("converter payload_to_payout_created error: %w", err)
	}

	if err := s.svc.RecordPayoutCreated(ctx, event); err != nil {
		logger.Error(ctx, "consumer.RecordPayoutCreated", logger.ErrorF(err))
		return err
	}

	return nil
}
