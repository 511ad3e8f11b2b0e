package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleStatus represents the lifecycle of a sale (cart).
//
// open -> finalized | voided. Finalized and voided are terminal.
type SaleStatus string

const (
	SaleStatusOpen      SaleStatus = "open"
	SaleStatusFinalized SaleStatus = "finalized"
	SaleStatusVoided    SaleStatus = "voided"
)

func (s SaleStatus) Valid() bool {
	switch s {
	case SaleStatusOpen, SaleStatusFinalized, SaleStatusVoided:
		return true
	}
	return false
}

// DefaultVoidReason is stored when a sale is voided without a reason.
const DefaultVoidReason = "no reason provided"

// Sale is the cart aggregate root.
//
// All item mutation goes through the Sale. After every successful call:
//   - the summed quantity of each product is at most MaxQuantityPerProduct
//   - every item of a product carries DiscountPercentage(summed quantity)
//   - totalAmount equals the sum of the items' line totals
//
// A Sale is not safe for concurrent use; callers serialize access per sale id
// through the repository version (see Version).
type Sale struct {
	id          string
	saleNumber  string
	customerID  string
	branchID    string
	status      SaleStatus
	items       []*SaleItem
	totalAmount decimal.Decimal
	voidReason  string
	createdAt   time.Time
	updatedAt   time.Time
	finalizedAt *time.Time
	voidedAt    *time.Time
	version     int64
}

// SaleSnapshot is the persisted shape of a Sale.
type SaleSnapshot struct {
	ID          string
	SaleNumber  string
	CustomerID  string
	BranchID    string
	Status      SaleStatus
	Items       []SaleItemSnapshot
	TotalAmount decimal.Decimal
	VoidReason  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	FinalizedAt *time.Time
	VoidedAt    *time.Time
	Version     int64
}

// NewSale opens an empty sale. Every argument is required.
func NewSale(customerID, branchID, saleNumber string) (*Sale, error) {
	customerID = strings.TrimSpace(customerID)
	branchID = strings.TrimSpace(branchID)
	saleNumber = strings.TrimSpace(saleNumber)

	if customerID == "" {
		return nil, newValidationError("customer_id", "must not be empty")
	}
	if branchID == "" {
		return nil, newValidationError("branch_id", "must not be empty")
	}
	if saleNumber == "" {
		return nil, newValidationError("sale_number", "must not be empty")
	}

	now := time.Now().UTC()
	return &Sale{
		id:          uuid.NewString(),
		saleNumber:  saleNumber,
		customerID:  customerID,
		branchID:    branchID,
		status:      SaleStatusOpen,
		totalAmount: decimal.Zero,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// RestoreSale rebuilds a Sale from persisted state.
func RestoreSale(snap SaleSnapshot) (*Sale, error) {
	if strings.TrimSpace(snap.ID) == "" {
		return nil, newValidationError("id", "must not be empty")
	}
	if !snap.Status.Valid() {
		return nil, newValidationError("status", fmt.Sprintf("unknown status %q", snap.Status))
	}

	items := make([]*SaleItem, 0, len(snap.Items))
	for _, is := range snap.Items {
		it, err := buildSaleItem(is)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	return &Sale{
		id:          snap.ID,
		saleNumber:  snap.SaleNumber,
		customerID:  snap.CustomerID,
		branchID:    snap.BranchID,
		status:      snap.Status,
		items:       items,
		totalAmount: snap.TotalAmount,
		voidReason:  snap.VoidReason,
		createdAt:   snap.CreatedAt,
		updatedAt:   snap.UpdatedAt,
		finalizedAt: copyTime(snap.FinalizedAt),
		voidedAt:    copyTime(snap.VoidedAt),
		version:     snap.Version,
	}, nil
}

// Snapshot returns a deep copy of the sale state for persistence.
func (s *Sale) Snapshot() SaleSnapshot {
	items := make([]SaleItemSnapshot, 0, len(s.items))
	for _, it := range s.items {
		items = append(items, it.Snapshot())
	}
	return SaleSnapshot{
		ID:          s.id,
		SaleNumber:  s.saleNumber,
		CustomerID:  s.customerID,
		BranchID:    s.branchID,
		Status:      s.status,
		Items:       items,
		TotalAmount: s.totalAmount,
		VoidReason:  s.voidReason,
		CreatedAt:   s.createdAt,
		UpdatedAt:   s.updatedAt,
		FinalizedAt: copyTime(s.finalizedAt),
		VoidedAt:    copyTime(s.voidedAt),
		Version:     s.version,
	}
}

func (s *Sale) ID() string                   { return s.id }
func (s *Sale) SaleNumber() string           { return s.saleNumber }
func (s *Sale) CustomerID() string           { return s.customerID }
func (s *Sale) BranchID() string             { return s.branchID }
func (s *Sale) Status() SaleStatus           { return s.status }
func (s *Sale) TotalAmount() decimal.Decimal { return s.totalAmount }
func (s *Sale) VoidReason() string           { return s.voidReason }
func (s *Sale) CreatedAt() time.Time         { return s.createdAt }
func (s *Sale) UpdatedAt() time.Time         { return s.updatedAt }
func (s *Sale) FinalizedAt() *time.Time      { return copyTime(s.finalizedAt) }
func (s *Sale) VoidedAt() *time.Time         { return copyTime(s.voidedAt) }
func (s *Sale) IsOpen() bool                 { return s.status == SaleStatusOpen }

// Version is the optimistic-concurrency stamp of the stored sale. Zero means
// the sale was never persisted.
func (s *Sale) Version() int64 { return s.version }

// Items returns copies of the sale items in insertion order. Unlike the
// mutators it is allowed in every status so finalized and voided sales can
// still be rendered.
func (s *Sale) Items() []SaleItem {
	out := make([]SaleItem, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, *it)
	}
	return out
}

func (s *Sale) Item(itemID string) (SaleItem, bool) {
	if i := s.indexOf(itemID); i >= 0 {
		return *s.items[i], true
	}
	return SaleItem{}, false
}

// AddItem appends a new line for productID. Lines of the same product are
// never merged, but the quantity cap and discount tier apply to their sum.
func (s *Sale) AddItem(productID string, quantity int, unitPrice decimal.Decimal) (SaleItem, error) {
	if err := s.ensureOpen(); err != nil {
		return SaleItem{}, err
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return SaleItem{}, newValidationError("product_id", "must not be empty")
	}
	if quantity <= 0 {
		return SaleItem{}, newValidationError("quantity", "must be greater than zero")
	}
	if !unitPrice.IsPositive() {
		return SaleItem{}, newValidationError("unit_price", "must be greater than zero")
	}

	existing := s.QuantityOf(productID)
	if existing+quantity > MaxQuantityPerProduct {
		return SaleItem{}, &QuantityLimitError{
			ProductID: productID,
			Current:   existing,
			Attempted: existing + quantity,
			Max:       MaxQuantityPerProduct,
		}
	}

	item, err := newSaleItem(productID, quantity, unitPrice, DiscountPercentage(existing+quantity))
	if err != nil {
		return SaleItem{}, err
	}
	s.items = append(s.items, item)
	s.totalAmount = s.totalAmount.Add(item.LineTotal())
	if err := s.recalculateProduct(productID); err != nil {
		return SaleItem{}, err
	}
	s.touch()
	return *item, nil
}

// RemoveItem drops an item and re-derives the discount of the remaining
// items of the same product.
func (s *Sale) RemoveItem(itemID string) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	i := s.indexOf(itemID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSaleItemNotFound, itemID)
	}

	removed := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.totalAmount = s.totalAmount.Sub(removed.LineTotal())
	if err := s.recalculateProduct(removed.productID); err != nil {
		return err
	}
	s.touch()
	return nil
}

// UpdateItemQuantity resizes an item. The cap is checked against the other
// items of the same product plus the new quantity.
func (s *Sale) UpdateItemQuantity(itemID string, quantity int) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if quantity <= 0 {
		return newValidationError("quantity", "must be greater than zero")
	}
	i := s.indexOf(itemID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSaleItemNotFound, itemID)
	}

	item := s.items[i]
	others := s.QuantityOf(item.productID) - item.quantity
	if others+quantity > MaxQuantityPerProduct {
		return &QuantityLimitError{
			ProductID: item.productID,
			Current:   others + item.quantity,
			Attempted: others + quantity,
			Max:       MaxQuantityPerProduct,
		}
	}

	before := item.LineTotal()
	if err := item.setQuantity(quantity); err != nil {
		return err
	}
	s.totalAmount = s.totalAmount.Add(item.LineTotal().Sub(before))
	if err := s.recalculateProduct(item.productID); err != nil {
		return err
	}
	s.touch()
	return nil
}

// Finalize closes the sale. The total is frozen from here on.
func (s *Sale) Finalize() error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if len(s.items) == 0 {
		return ErrSaleHasNoItems
	}
	now := time.Now().UTC()
	s.status = SaleStatusFinalized
	s.finalizedAt = &now
	s.updatedAt = now
	return nil
}

// Void cancels an open sale. An empty reason is replaced by DefaultVoidReason
// instead of being rejected.
func (s *Sale) Void(reason string) error {
	if s.status == SaleStatusVoided {
		return ErrSaleAlreadyVoided
	}
	if err := s.ensureOpen(); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultVoidReason
	}
	now := time.Now().UTC()
	s.status = SaleStatusVoided
	s.voidReason = reason
	s.voidedAt = &now
	s.updatedAt = now
	return nil
}

// Subtotal is the sum of line subtotals before discount.
func (s *Sale) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

func (s *Sale) TotalDiscount() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.DiscountAmount())
	}
	return total
}

// TotalItems is the sum of quantities across all items.
func (s *Sale) TotalItems() int {
	n := 0
	for _, it := range s.items {
		n += it.quantity
	}
	return n
}

func (s *Sale) DistinctProducts() int {
	seen := make(map[string]struct{}, len(s.items))
	for _, it := range s.items {
		seen[it.productID] = struct{}{}
	}
	return len(seen)
}

// QuantityOf sums the quantities of every item of productID.
func (s *Sale) QuantityOf(productID string) int {
	n := 0
	for _, it := range s.items {
		if it.productID == productID {
			n += it.quantity
		}
	}
	return n
}

// DiscountPercentageFor returns the current discount of productID, zero when
// the product is not in the sale.
func (s *Sale) DiscountPercentageFor(productID string) decimal.Decimal {
	for _, it := range s.items {
		if it.productID == productID {
			return it.discountPercentage
		}
	}
	return decimal.Zero
}

func (s *Sale) HasDiscount(productID string) bool {
	return s.DiscountPercentageFor(productID).IsPositive()
}

// DiscountsByProduct maps each product in the sale to its discount percentage.
func (s *Sale) DiscountsByProduct() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(s.items))
	for _, it := range s.items {
		out[it.productID] = it.discountPercentage
	}
	return out
}

// recalculateProduct applies the discount tier of the product's current summed
// quantity to all of its items and carries the delta into totalAmount.
func (s *Sale) recalculateProduct(productID string) error {
	pct := DiscountPercentage(s.QuantityOf(productID))
	for _, it := range s.items {
		if it.productID != productID {
			continue
		}
		before := it.LineTotal()
		if err := it.setDiscountPercentage(pct); err != nil {
			return err
		}
		s.totalAmount = s.totalAmount.Add(it.LineTotal().Sub(before))
	}
	return nil
}

func (s *Sale) ensureOpen() error {
	if s.status != SaleStatusOpen {
		return ErrSaleNotOpen
	}
	return nil
}

func (s *Sale) indexOf(itemID string) int {
	for i, it := range s.items {
		if it.id == itemID {
			return i
		}
	}
	return -1
}

func (s *Sale) touch() {
	s.updatedAt = time.Now().UTC()
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
