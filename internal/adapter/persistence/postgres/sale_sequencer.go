package postgres

import (
	"context"
	"fmt"

	"sales_capture/internal/domain/entities"
	"sales_capture/internal/usecase/interfaces"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SaleSequencer issues sale numbers from the "sale_sequences" table. The
// upsert takes the row lock for the branch, so concurrent callers for one
// branch serialize inside Postgres and each reads back its own value.
type SaleSequencer struct {
	pool *pgxpool.Pool
}

var _ interfaces.ISaleSequencer = (*SaleSequencer)(nil)

func NewSaleSequencer(pool *pgxpool.Pool) *SaleSequencer {
	return &SaleSequencer{pool: pool}
}

func (s *SaleSequencer) NextNumber(ctx context.Context, branchID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var next int64
	err := s.pool.QueryRow(ctx, `INSERT INTO sale_sequences (branch_id, last_issued, updated_at)
			VALUES ($1, 1, now())
			ON CONFLICT (branch_id) DO UPDATE SET last_issued = sale_sequences.last_issued + 1, updated_at = now()
			RETURNING last_issued`, branchID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("%w: branch %s: %v", entities.ErrSaleNumberOutcomeUnknown, branchID, err)
	}
	return next, nil
}
