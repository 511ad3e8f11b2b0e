package response

import (
	"encoding/json"
	"testing"
	"time"

	"sales_capture/internal/domain/entities"

	"github.com/shopspring/decimal"
)

func TestFromSale(t *testing.T) {
	s, err := entities.NewSale("cust-1", "branch-1", "SP01000007")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.AddItem("p-1", 4, decimal.RequireFromString("19.90")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.AddItem("p-2", 1, decimal.RequireFromString("5")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := FromSale(s)
	if res.SaleNumber != "SP01000007" || res.Status != "open" {
		t.Fatalf("unexpected header: %+v", res)
	}
	if res.Subtotal != "84.60" || res.TotalDiscount != "7.96" || res.TotalAmount != "76.64" {
		t.Fatalf("unexpected totals subtotal=%s discount=%s total=%s", res.Subtotal, res.TotalDiscount, res.TotalAmount)
	}
	if res.TotalItems != 5 || res.DistinctProducts != 2 {
		t.Fatalf("unexpected counts: %+v", res)
	}
	if res.DiscountsByProduct["p-1"] != "10" || res.DiscountsByProduct["p-2"] != "0" {
		t.Fatalf("unexpected discounts: %+v", res.DiscountsByProduct)
	}
	if len(res.Items) != 2 || res.Items[0].LineTotal != "71.64" || !res.Items[0].HasDiscount || res.Items[1].HasDiscount {
		t.Fatalf("unexpected items: %+v", res.Items)
	}
	if res.FinalizedAt != nil || res.VoidedAt != nil {
		t.Fatalf("unexpected terminal timestamps: %+v", res)
	}

	b, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	if _, ok := m["void_reason"]; ok {
		t.Fatalf("void_reason should be omitted on an open sale")
	}
}

func TestFromSalePayment(t *testing.T) {
	now := time.Now().UTC()
	p := entities.SalePayment{
		ID:           "mp-1",
		SaleID:       "sale-1",
		SaleNumber:   "SP01000001",
		Amount:       decimal.RequireFromString("45"),
		Date:         now,
		Status:       entities.PaymentStatusApproved,
		MPPayloadRaw: json.RawMessage(`{"id":1}`),
		MPPayload:    map[string]interface{}{"id": 1.0},
	}

	res := FromSalePayment(p)
	if res.ID != "mp-1" || res.PaymentID != "mp-1" || res.SaleID != "sale-1" {
		t.Fatalf("unexpected ids: %+v", res)
	}
	if res.Amount != "45.00" || res.Status != "approved" || !res.Date.Equal(now) {
		t.Fatalf("unexpected fields: %+v", res)
	}
	if res.MPPayloadRaw != `{"id":1}` {
		t.Fatalf("unexpected raw payload: %s", res.MPPayloadRaw)
	}
	if got := FromSalePayments([]entities.SalePayment{p, p}); len(got) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(got))
	}
}
