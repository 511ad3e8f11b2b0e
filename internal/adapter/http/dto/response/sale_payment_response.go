package response

import (
	"sales_capture/internal/domain/entities"
	"time"
)

type SalePaymentResponse struct {
	PaymentID  string    `json:"payment_id"`
	ID         string    `json:"id"`
	SaleID     string    `json:"sale_id"`
	SaleNumber string    `json:"sale_number"`
	Amount     string    `json:"amount"`
	Date       time.Time `json:"date"`
	Status     string    `json:"status"`

	MPPayloadRaw string                 `json:"mp_payload_raw,omitempty"`
	MPPayload    map[string]interface{} `json:"mp_payload,omitempty"`
}

func FromSalePayment(p entities.SalePayment) SalePaymentResponse {
	return SalePaymentResponse{
		PaymentID:    p.ID,
		ID:           p.ID,
		SaleID:       p.SaleID,
		SaleNumber:   p.SaleNumber,
		Amount:       p.Amount.StringFixed(2),
		Date:         p.Date,
		Status:       string(p.Status),
		MPPayloadRaw: string(p.MPPayloadRaw),
		MPPayload:    p.MPPayload,
	}
}

func FromSalePayments(ps []entities.SalePayment) []SalePaymentResponse {
	out := make([]SalePaymentResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, FromSalePayment(p))
	}
	return out
}
