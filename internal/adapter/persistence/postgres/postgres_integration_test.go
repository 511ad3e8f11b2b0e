package postgres

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"sales_capture/internal/domain/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// These tests need a disposable database: TEST_DATABASE_URL=postgres://...
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, EnsureSchema(ctx, pool))
	return pool
}

func TestSaleSequencer_Concurrent(t *testing.T) {
	pool := testPool(t)
	seq := NewSaleSequencer(pool)
	branch := "it-" + uuid.NewString()

	const callers = 40
	var (
		mu   sync.Mutex
		seen = make(map[int64]bool, callers)
	)
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < callers; i++ {
		g.Go(func() error {
			n, err := seq.NextNumber(ctx, branch)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			seen[n] = true
			return nil
		})
	}
	require.NoError(t, g.Wait())
	for n := int64(1); n <= callers; n++ {
		assert.True(t, seen[n], "missing %d", n)
	}
}

func TestSaleRepository_RoundTripAndVersionCheck(t *testing.T) {
	pool := testPool(t)
	repo := NewSaleRepository(pool)
	ctx := context.Background()

	s, err := entities.NewSale("cust-1", "branch-1", "IT"+uuid.NewString()[:8])
	require.NoError(t, err)
	created, err := repo.Create(ctx, s)
	require.NoError(t, err)

	a, err := repo.GetByID(ctx, created.ID())
	require.NoError(t, err)
	b, err := repo.GetByID(ctx, created.ID())
	require.NoError(t, err)

	_, err = a.AddItem("p", 4, decimal.RequireFromString("19.90"))
	require.NoError(t, err)
	_, err = repo.Update(ctx, a)
	require.NoError(t, err)

	require.NoError(t, b.Void("stale"))
	_, err = repo.Update(ctx, b)
	assert.ErrorIs(t, err, entities.ErrConcurrentModification)

	got, err := repo.GetByID(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, entities.SaleStatusOpen, got.Status())
	assert.Equal(t, int64(2), got.Version())
	assert.True(t, got.TotalAmount().Equal(decimal.RequireFromString("71.64")), "total %s", got.TotalAmount())
	require.Len(t, got.Items(), 1)
	assert.True(t, got.Items()[0].DiscountPercentage().Equal(decimal.NewFromInt(10)))

	missing, err := repo.GetByID(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSaleRepository_SaleNumberConflict(t *testing.T) {
	pool := testPool(t)
	repo := NewSaleRepository(pool)
	ctx := context.Background()
	number := "IT" + uuid.NewString()[:8]

	first, err := entities.NewSale("cust-1", "branch-1", number)
	require.NoError(t, err)
	_, err = repo.Create(ctx, first)
	require.NoError(t, err)

	dup, err := entities.NewSale("cust-2", "branch-2", number)
	require.NoError(t, err)
	_, err = repo.Create(ctx, dup)
	assert.ErrorIs(t, err, entities.ErrSaleNumberConflict)

	missing, err := repo.GetByID(ctx, dup.ID())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSaleRepository_ReadSnapshotIgnoresConcurrentUpdate(t *testing.T) {
	pool := testPool(t)
	repo := NewSaleRepository(pool)
	ctx := context.Background()

	s, err := entities.NewSale("cust-1", "branch-1", "IT"+uuid.NewString()[:8])
	require.NoError(t, err)
	created, err := repo.Create(ctx, s)
	require.NoError(t, err)
	_, err = created.AddItem("p", 2, decimal.NewFromInt(100))
	require.NoError(t, err)
	stored, err := repo.Update(ctx, created)
	require.NoError(t, err)

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()

	header, found, err := readSaleHeader(ctx, tx, stored.ID())
	require.NoError(t, err)
	require.True(t, found)

	_, err = stored.AddItem("q", 1, decimal.NewFromInt(160))
	require.NoError(t, err)
	_, err = repo.Update(ctx, stored)
	require.NoError(t, err)

	header.Items, err = readSaleItems(ctx, tx, stored.ID())
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	got, err := entities.RestoreSale(header)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version())
	require.Len(t, got.Items(), 1)
	assert.True(t, got.TotalAmount().Equal(decimal.NewFromInt(200)), "total %s", got.TotalAmount())
	assert.True(t, got.Subtotal().Sub(got.TotalDiscount()).Equal(got.TotalAmount()))

	latest, err := repo.GetByID(ctx, stored.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(3), latest.Version())
	assert.True(t, latest.TotalAmount().Equal(decimal.NewFromInt(360)), "total %s", latest.TotalAmount())
}
