package payoutproducer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/merchant-payout/internal/converter"
	"github.com/you-humble/merchant-payout/internal/model"
	"github.com/you-humble/merchant-payout/internal/service/producer/payout/mocks"
	payoutv1 "github.com/you-humble/merchant-payout/pkg/api/payout/v1"
	"github.com/you-humble/merchant-payout/platform/kafka"
)

func TestSendPayoutCreated(t *testing.T) {
	t.Parallel()

	payout := model.Payout{
		ID:        gofakeit.UUID(),
		Status:    model.PayoutStatusCompleted,
		Amount:    40000,
		Currency:  model.CurrencyGBP,
		IBAN:      "GB29NWBK60161331926819",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	t.Run("publishes event keyed by payout id", func(t *testing.T) {
		t.Parallel()

		producer := mocks.NewMockProducer(t)
		producer.On("Send", mock.Anything, mock.MatchedBy(func(msg kafka.Message) bool {
			if string(msg.Key) != payout.ID {
				return false
			}
			var event payoutv1.PayoutCreatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return false
			}
			return event.PayoutID == payout.ID &&
				event.Status == "completed" &&
				event.Amount == 40000 &&
				event.Currency == "GBP" &&
				string(msg.Headers["event_id"]) == event.EventID
		})).Return(nil).Once()

		err := NewPayoutProducer(producer, converter.NewKafkaConverter()).SendPayoutCreated(context.Background(), payout)
		require.NoError(t, err)
	})

	t.Run("producer error is wrapped", func(t *testing.T) {
		t.Parallel()

		sendErr := errors.New("out of brokers")
		producer := mocks.NewMockProducer(t)
		producer.On("Send", mock.Anything, mock.Anything).Return(sendErr).Once()

		err := NewPayoutProducer(producer, converter.NewKafkaConverter()).SendPayoutCreated(context.Background(), payout)
		require.Error(t, err)
		assert.ErrorIs(t, err, sendErr)
	})
}
