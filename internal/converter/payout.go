package converter

import (
	"github.com/you-humble/merchant-payout/internal/model"
	payoutv1 "github.com/you-humble/merchant-payout/pkg/api/payout/v1"
)

func CreatePayoutParamsToRequest(params model.CreatePayoutParams) payoutv1.CreatePayoutRequest {
	return payoutv1.CreatePayoutRequest{
		Amount:   params.Amount,
		Currency: params.Currency.String(),
		IBAN:     params.IBAN,
		DeviceID: params.DeviceID,
	}
}

func CreatePayoutRequestToParams(req payoutv1.CreatePayoutRequest) model.CreatePayoutParams {
	return model.CreatePayoutParams{
		Amount:   req.Amount,
		Currency: model.Currency(req.Currency),
		IBAN:     req.IBAN,
		DeviceID: req.DeviceID,
	}
}

func PayoutResponseToModel(res payoutv1.PayoutResponse) *model.Payout {
	return &model.Payout{
		ID:        res.ID,
		Status:    model.PayoutStatus(res.Status),
		Amount:    res.Amount,
		Currency:  model.Currency(res.Currency),
		IBAN:      res.IBAN,
		CreatedAt: res.CreatedAt,
	}
}

func PayoutToResponse(p *model.Payout) payoutv1.PayoutResponse {
	return payoutv1.PayoutResponse{
		ID:        p.ID,
		Status:    string(p.Status),
		Amount:    p.Amount,
		Currency:  p.Currency.String(),
		IBAN:      p.IBAN,
		CreatedAt: p.CreatedAt,
	}
}

func PayoutCreatedToEvent(m model.PayoutCreated) payoutv1.PayoutCreatedEvent {
	return payoutv1.PayoutCreatedEvent{
		EventID:   m.EventID.String(),
		PayoutID:  m.PayoutID,
		Status:    string(m.Status),
		Amount:    m.Amount,
		Currency:  m.Currency.String(),
		CreatedAt: m.CreatedAt,
	}
}
