package interfaces

import "context"

// ISaleSequencer issues per-branch sale numbers.
//
// For one branch the issued values are exactly 1, 2, 3, ... with no repeats,
// whatever the interleaving of callers. Branches never serialize each other.
// A failure after the increment was attempted is reported wrapping
// entities.ErrSaleNumberOutcomeUnknown and must not be retried blindly.

type ISaleSequencer interface {
	NextNumber(ctx context.Context, branchID string) (int64, error)
}
