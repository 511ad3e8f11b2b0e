package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the tables used by the postgres storage driver. Statements
// are idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS sales (
	id           TEXT PRIMARY KEY,
	sale_number  TEXT NOT NULL,
	customer_id  TEXT NOT NULL,
	branch_id    TEXT NOT NULL,
	status       TEXT NOT NULL,
	total_amount NUMERIC NOT NULL,
	void_reason  TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL,
	finalized_at TIMESTAMPTZ,
	voided_at    TIMESTAMPTZ,
	version      BIGINT NOT NULL,
	CONSTRAINT sales_sale_number_key UNIQUE (sale_number)
);

CREATE TABLE IF NOT EXISTS sale_items (
	sale_id             TEXT NOT NULL REFERENCES sales (id) ON DELETE CASCADE,
	position            INT NOT NULL,
	id                  TEXT NOT NULL,
	product_id          TEXT NOT NULL,
	quantity            INT NOT NULL CHECK (quantity > 0),
	unit_price          NUMERIC NOT NULL,
	discount_percentage NUMERIC NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (sale_id, id)
);

CREATE TABLE IF NOT EXISTS sale_sequences (
	branch_id   TEXT PRIMARY KEY,
	last_issued BIGINT NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS sale_payments (
	id          TEXT PRIMARY KEY,
	sale_id     TEXT NOT NULL,
	sale_number TEXT NOT NULL,
	amount      NUMERIC NOT NULL,
	paid_at     TIMESTAMPTZ NOT NULL,
	status      TEXT NOT NULL,
	mp_payload  JSONB
);

CREATE INDEX IF NOT EXISTS sale_payments_sale_id_idx ON sale_payments (sale_id);
`

func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, Schema)
	return err
}
