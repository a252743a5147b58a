package payoutproducer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/you-humble/merchant-payout/internal/model"
	"github.com/you-humble/merchant-payout/platform/kafka"
)

type Converter interface {
	PayoutCreatedToPayload(m model.PayoutCreated) ([]byte, error)
}

type service struct {
	producer kafka.Producer
	conv     Converter
}

func NewPayoutProducer(producer kafka.Producer, conv Converter) *service {
	return &service{producer: producer, conv: conv}
}

func (s *service) SendPayoutCreated(ctx context.Context, payout model.Payout) error {
	createdAt := payout.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	event := model.PayoutCreated{
		EventID:   uuid.New(),
		PayoutID:  payout.ID,
		Status:    payout.Status,
		Amount:    payout.Amount,
		Currency:  payout.Currency,
		CreatedAt: createdAt,
	}

	payload, err := s.conv.PayoutCreatedToPayload(event)
	if err != nil {
		return fmt.Errorf("converter payout_created_to_payload error: %w", err)
	}

	if err := s.producer.Send(ctx, kafka.Message{
		Key:   []byte(payout.ID),
		Value: payload,
		Headers: map[string][]byte{
			"event_id": []byte(event.EventID.String()),
		},
	}); err != nil {
		return fmt.Errorf("producer to payout.created topic error: %w", err)
	}

	return nil
}
