package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"sales_capture/internal/domain/entities"
	"sales_capture/internal/usecase/interfaces"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type SalePaymentRepository struct {
	pool *pgxpool.Pool
}

var _ interfaces.ISalePaymentRepository = (*SalePaymentRepository)(nil)

func NewSalePaymentRepository(pool *pgxpool.Pool) *SalePaymentRepository {
	return &SalePaymentRepository{pool: pool}
}

func (r *SalePaymentRepository) Create(ctx context.Context, p entities.SalePayment) (entities.SalePayment, error) {
	var payload []byte
	if len(p.MPPayloadRaw) > 0 && json.Valid(p.MPPayloadRaw) {
		payload = p.MPPayloadRaw
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO sale_payments (id, sale_id, sale_number, amount, paid_at, status, mp_payload)
			VALUES ($1,$2,$3,$4::text::numeric,$5,$6,$7)`,
		p.ID, p.SaleID, p.SaleNumber, p.Amount.String(), p.Date, string(p.Status), payload)
	if err != nil {
		return entities.SalePayment{}, err
	}
	return p, nil
}

func (r *SalePaymentRepository) ListBySaleID(ctx context.Context, saleID string) ([]entities.SalePayment, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, sale_id, sale_number, amount::text, paid_at, status, mp_payload
			FROM sale_payments WHERE sale_id=$1 ORDER BY paid_at`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entities.SalePayment, 0)
	for rows.Next() {
		var (
			p       entities.SalePayment
			amount  string
			status  string
			payload []byte
		)
		if err := rows.Scan(&p.ID, &p.SaleID, &p.SaleNumber, &amount, &p.Date, &status, &payload); err != nil {
			return nil, err
		}
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("payment %s amount: %w", p.ID, err)
		}
		p.Status = entities.PaymentStatus(status)
		if len(payload) > 0 {
			p.MPPayloadRaw = json.RawMessage(payload)
			_ = json.Unmarshal(payload, &p.MPPayload)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
