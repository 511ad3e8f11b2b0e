package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// SaleItem is one product line of a Sale.
//
// Items are owned by their Sale: they are created by Sale.AddItem, removed by
// Sale.RemoveItem, and only the Sale can change their quantity or discount.
// Values handed out by Sale.Items are copies.
type SaleItem struct {
	id                 string
	productID          string
	quantity           int
	unitPrice          decimal.Decimal
	discountPercentage decimal.Decimal
	createdAt          time.Time
}

// SaleItemSnapshot is the persisted shape of a SaleItem.
type SaleItemSnapshot struct {
	ID                 string
	ProductID          string
	Quantity           int
	UnitPrice          decimal.Decimal
	DiscountPercentage decimal.Decimal
	CreatedAt          time.Time
}

func newSaleItem(productID string, quantity int, unitPrice, discountPercentage decimal.Decimal) (*SaleItem, error) {
	return buildSaleItem(SaleItemSnapshot{
		ID:                 uuid.NewString(),
		ProductID:          productID,
		Quantity:           quantity,
		UnitPrice:          unitPrice,
		DiscountPercentage: discountPercentage,
		CreatedAt:          time.Now().UTC(),
	})
}

func buildSaleItem(snap SaleItemSnapshot) (*SaleItem, error) {
	if strings.TrimSpace(snap.ID) == "" {
		return nil, newValidationError("item_id", "must not be empty")
	}
	productID := strings.TrimSpace(snap.ProductID)
	if productID == "" {
		return nil, newValidationError("product_id", "must not be empty")
	}
	if snap.Quantity <= 0 {
		return nil, newValidationError("quantity", "must be greater than zero")
	}
	if snap.UnitPrice.IsNegative() {
		return nil, newValidationError("unit_price", "must not be negative")
	}
	if !validDiscount(snap.DiscountPercentage) {
		return nil, newValidationError("discount_percentage", "must be between 0 and 100")
	}
	return &SaleItem{
		id:                 snap.ID,
		productID:          productID,
		quantity:           snap.Quantity,
		unitPrice:          snap.UnitPrice,
		discountPercentage: snap.DiscountPercentage,
		createdAt:          snap.CreatedAt,
	}, nil
}

func validDiscount(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(hundred)
}

func (i SaleItem) ID() string                          { return i.id }
func (i SaleItem) ProductID() string                   { return i.productID }
func (i SaleItem) Quantity() int                       { return i.quantity }
func (i SaleItem) UnitPrice() decimal.Decimal          { return i.unitPrice }
func (i SaleItem) DiscountPercentage() decimal.Decimal { return i.discountPercentage }
func (i SaleItem) CreatedAt() time.Time                { return i.createdAt }

// Subtotal is quantity × unit price, before discount.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.unitPrice.Mul(decimal.NewFromInt(int64(i.quantity)))
}

func (i SaleItem) DiscountAmount() decimal.Decimal {
	return i.Subtotal().Mul(i.discountPercentage).Div(hundred)
}

// LineTotal is the subtotal minus the discount amount.
func (i SaleItem) LineTotal() decimal.Decimal {
	return i.Subtotal().Sub(i.DiscountAmount())
}

func (i SaleItem) HasDiscount() bool {
	return i.discountPercentage.IsPositive()
}

func (i SaleItem) Snapshot() SaleItemSnapshot {
	return SaleItemSnapshot{
		ID:                 i.id,
		ProductID:          i.productID,
		Quantity:           i.quantity,
		UnitPrice:          i.unitPrice,
		DiscountPercentage: i.discountPercentage,
		CreatedAt:          i.createdAt,
	}
}

func (i *SaleItem) setQuantity(n int) error {
	if n <= 0 {
		return newValidationError("quantity", "must be greater than zero")
	}
	i.quantity = n
	return nil
}

func (i *SaleItem) setDiscountPercentage(p decimal.Decimal) error {
	if !validDiscount(p) {
		return newValidationError("discount_percentage", "must be between 0 and 100")
	}
	i.discountPercentage = p
	return nil
}
