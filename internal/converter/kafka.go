package converter

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/you-humble/merchant-payout/internal/model"
	payoutv1 "github.com/you-humble/merchant-payout/pkg/api/payout/v1"
)

type kafkaConverter struct{}

func NewKafkaConverter() *kafkaConverter { return &kafkaConverter{} }

func (c *kafkaConverter) PayoutCreatedToPayload(m model.PayoutCreated) ([]byte, error) {
	payload, err := json.Marshal(PayoutCreatedToEvent(m))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payout created event: %w", err)
	}

	return payload, nil
}

func (c *kafkaConverter) PayloadToPayoutCreated(data []byte) (model.PayoutCreated, error) {
	var event payoutv1.PayoutCreatedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return model.PayoutCreated{}, fmt.Errorf("failed to unmarshal payout created event: %w", err)
	}

	eventID, err := uuid.Parse(event.EventID)
	if err != nil {
		return model.PayoutCreated{}, fmt.Errorf("invalid event_id %q: %w", event.EventID, err)
	}

	return model.PayoutCreated{
		EventID:   eventID,
		PayoutID:  event.PayoutID,
		Status:    model.PayoutStatus(event.Status),
		Amount:    event.Amount,
		Currency:  model.Currency(event.Currency),
		CreatedAt: event.CreatedAt,
	}, nil
}
