package entities

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusDenied   PaymentStatus = "denied"
)

// SalePayment is the charge of a finalized sale.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (sale_id-index): sale_id
//
// MPPayloadRaw keeps the provider response for traceability; MPPayload is the
// parsed form.
type SalePayment struct {
	ID         string          `json:"id"`
	SaleID     string          `json:"sale_id"`
	SaleNumber string          `json:"sale_number"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	Status     PaymentStatus   `json:"status"`

	MPPayloadRaw json.RawMessage        `json:"mp_payload_raw,omitempty"`
	MPPayload    map[string]interface{} `json:"mp_payload,omitempty"`
}
