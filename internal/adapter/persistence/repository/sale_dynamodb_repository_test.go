package repository

import (
	"testing"

	"sales_capture/internal/domain/entities"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/shopspring/decimal"
)

func TestSaleRecordMapping(t *testing.T) {
	sale, err := entities.NewSale("cust-1", "branch-1", "SP01000003")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := sale.AddItem("p", 4, decimal.RequireFromString("19.90")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sale.Finalize(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := sale.Snapshot()
	snap.Version = 5

	av, err := attributevalue.MarshalMap(toSaleRecord(snap))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, ok := av["voided_at"]; ok {
		t.Fatalf("expected voided_at to be omitted")
	}

	var rec saleRecord
	if err := attributevalue.UnmarshalMap(av, &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got, err := fromSaleRecord(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.ID != snap.ID || got.SaleNumber != snap.SaleNumber || got.Status != entities.SaleStatusFinalized || got.Version != 5 {
		t.Fatalf("unexpected header: %+v", got)
	}
	if !got.TotalAmount.Equal(decimal.RequireFromString("71.64")) {
		t.Fatalf("unexpected total: %s", got.TotalAmount)
	}
	if got.FinalizedAt == nil || !got.FinalizedAt.Equal(*snap.FinalizedAt) || got.VoidedAt != nil {
		t.Fatalf("unexpected transition timestamps: %+v", got)
	}
	if len(got.Items) != 1 || got.Items[0].Quantity != 4 || !got.Items[0].DiscountPercentage.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected items: %+v", got.Items)
	}

	if _, err := entities.RestoreSale(got); err != nil {
		t.Fatalf("restore: %v", err)
	}
}

func TestSaleRecordMapping_BadDecimal(t *testing.T) {
	_, err := fromSaleRecord(saleRecord{ID: "s", TotalAmount: "abc"})
	if err == nil {
		t.Fatalf("expected error for malformed total")
	}
}
