package request

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingUnitPrice = errors.New("unit_price is required")
	ErrMissingQuantity  = errors.New("quantity is required")
)

type CreateSaleRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
	BranchID   string `json:"branch_id" binding:"required"`
	BranchCode string `json:"branch_code" binding:"required"`
}

// AddItemRequest accepts unit_price either as a JSON number or as a decimal
// string ("12.50"); strings avoid float rounding on the client side.
type AddItemRequest struct {
	ProductID string           `json:"product_id" binding:"required"`
	Quantity  *int             `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

func (r AddItemRequest) Resolve() (productID string, quantity int, unitPrice decimal.Decimal, err error) {
	if r.Quantity == nil {
		return "", 0, decimal.Decimal{}, ErrMissingQuantity
	}
	if r.UnitPrice == nil {
		return "", 0, decimal.Decimal{}, ErrMissingUnitPrice
	}
	return strings.TrimSpace(r.ProductID), *r.Quantity, *r.UnitPrice, nil
}

type UpdateItemQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (r UpdateItemQuantityRequest) Resolve() (int, error) {
	if r.Quantity == nil {
		return 0, ErrMissingQuantity
	}
	return *r.Quantity, nil
}

// VoidSaleRequest is optional; an empty body voids with the default reason.
type VoidSaleRequest struct {
	Reason string `json:"reason"`
}

// SalePaymentCreateRequest documents the wrapped form of the payment body.
// The handler also accepts the Mercado Pago payload unwrapped.
type SalePaymentCreateRequest struct {
	MPPayload json.RawMessage `json:"mp_payload"`
}
