package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sales_capture/internal/domain/entities"
	"sales_capture/internal/usecase/interfaces"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	uniqueViolation      = "23505"
	saleNumberConstraint = "sales_sale_number_key"
)

// SaleRepository stores the sale header in "sales" and its lines in
// "sale_items". Both are written in one transaction; the header update is
// conditional on the version read by the caller.
type SaleRepository struct {
	pool *pgxpool.Pool
}

var _ interfaces.ISaleRepository = (*SaleRepository)(nil)

func NewSaleRepository(pool *pgxpool.Pool) *SaleRepository {
	return &SaleRepository{pool: pool}
}

func (r *SaleRepository) Create(ctx context.Context, sale *entities.Sale) (*entities.Sale, error) {
	snap := sale.Snapshot()
	snap.Version = 1

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `INSERT INTO sales (id, sale_number, customer_id, branch_id, status, total_amount, void_reason, created_at, updated_at, finalized_at, voided_at, version)
			VALUES ($1,$2,$3,$4,$5,$6::text::numeric,$7,$8,$9,$10,$11,$12)`,
		snap.ID, snap.SaleNumber, snap.CustomerID, snap.BranchID, string(snap.Status), snap.TotalAmount.String(),
		snap.VoidReason, snap.CreatedAt, snap.UpdatedAt, snap.FinalizedAt, snap.VoidedAt, snap.Version)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == saleNumberConstraint {
			return nil, fmt.Errorf("%w: %s", entities.ErrSaleNumberConflict, snap.SaleNumber)
		}
		return nil, err
	}
	if err := writeItems(ctx, tx, snap); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return entities.RestoreSale(snap)
}

// GetByID reads the header and the items from one repeatable-read snapshot
// so a concurrent Update cannot pair one version's header with another's items.
func (r *SaleRepository) GetByID(ctx context.Context, id string) (*entities.Sale, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	snap, found, err := readSaleHeader(ctx, tx, id)
	if err != nil || !found {
		return nil, err
	}
	if snap.Items, err = readSaleItems(ctx, tx, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return entities.RestoreSale(snap)
}

func readSaleHeader(ctx context.Context, q pgx.Tx, id string) (entities.SaleSnapshot, bool, error) {
	var (
		snap   entities.SaleSnapshot
		status string
		total  string
	)
	err := q.QueryRow(ctx, `SELECT id, sale_number, customer_id, branch_id, status, total_amount::text, void_reason, created_at, updated_at, finalized_at, voided_at, version
			FROM sales WHERE id=$1`, id).
		Scan(&snap.ID, &snap.SaleNumber, &snap.CustomerID, &snap.BranchID, &status, &total, &snap.VoidReason,
			&snap.CreatedAt, &snap.UpdatedAt, &snap.FinalizedAt, &snap.VoidedAt, &snap.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entities.SaleSnapshot{}, false, nil
		}
		return entities.SaleSnapshot{}, false, err
	}
	snap.Status = entities.SaleStatus(status)
	if snap.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return entities.SaleSnapshot{}, false, fmt.Errorf("sale %s total_amount: %w", id, err)
	}
	snap.CreatedAt = snap.CreatedAt.UTC()
	snap.UpdatedAt = snap.UpdatedAt.UTC()
	return snap, true, nil
}

func readSaleItems(ctx context.Context, q pgx.Tx, id string) ([]entities.SaleItemSnapshot, error) {
	rows, err := q.Query(ctx, `SELECT id, product_id, quantity, unit_price::text, discount_percentage::text, created_at
			FROM sale_items WHERE sale_id=$1 ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []entities.SaleItemSnapshot
	for rows.Next() {
		var (
			it              entities.SaleItemSnapshot
			price, discount string
			createdAt       time.Time
		)
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Quantity, &price, &discount, &createdAt); err != nil {
			return nil, err
		}
		if it.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("sale %s item %s unit_price: %w", id, it.ID, err)
		}
		if it.DiscountPercentage, err = decimal.NewFromString(discount); err != nil {
			return nil, fmt.Errorf("sale %s item %s discount_percentage: %w", id, it.ID, err)
		}
		it.CreatedAt = createdAt.UTC()
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *SaleRepository) Update(ctx context.Context, sale *entities.Sale) (*entities.Sale, error) {
	snap := sale.Snapshot()
	expected := snap.Version
	snap.Version = expected + 1

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	ct, err := tx.Exec(ctx, `UPDATE sales SET status=$2, total_amount=$3::text::numeric, void_reason=$4, updated_at=$5, finalized_at=$6, voided_at=$7, version=$8
			WHERE id=$1 AND version=$9`,
		snap.ID, string(snap.Status), snap.TotalAmount.String(), snap.VoidReason, snap.UpdatedAt,
		snap.FinalizedAt, snap.VoidedAt, snap.Version, expected)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: sale %s at version %d", entities.ErrConcurrentModification, snap.ID, expected)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM sale_items WHERE sale_id=$1`, snap.ID); err != nil {
		return nil, err
	}
	if err := writeItems(ctx, tx, snap); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return entities.RestoreSale(snap)
}

func writeItems(ctx context.Context, tx pgx.Tx, snap entities.SaleSnapshot) error {
	if len(snap.Items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for pos, it := range snap.Items {
		batch.Queue(`INSERT INTO sale_items (sale_id, position, id, product_id, quantity, unit_price, discount_percentage, created_at)
				VALUES ($1,$2,$3,$4,$5,$6::text::numeric,$7::text::numeric,$8)`,
			snap.ID, pos, it.ID, it.ProductID, it.Quantity, it.UnitPrice.String(), it.DiscountPercentage.String(), it.CreatedAt)
	}
	return tx.SendBatch(ctx, batch).Close()
}
