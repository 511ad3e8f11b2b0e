package entities

import (
	"fmt"
	"time"
)

// SaleSequence is the per-branch sale-number counter.
//
// Storage model:
//   - PK: branch_id
//   - last_issued starts at 1 on first issuance and never decreases
type SaleSequence struct {
	BranchID   string    `json:"branch_id"`
	LastIssued int64     `json:"last_issued"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FormatSaleNumber joins the branch code with the zero-padded sequence value,
// e.g. "SP01" + 42 -> "SP01000042".
func FormatSaleNumber(branchCode string, sequence int64) string {
	return fmt.Sprintf("%s%06d", branchCode, sequence)
}
