package memory

import (
	"context"
	"testing"

	"sales_capture/internal/domain/entities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoredSale(t *testing.T, repo *SaleMemoryRepository) *entities.Sale {
	t.Helper()
	s, err := entities.NewSale("cust-1", "branch-1", "SP01000001")
	require.NoError(t, err)
	created, err := repo.Create(context.Background(), s)
	require.NoError(t, err)
	return created
}

func TestSaleMemoryRepository_CreateAndGet(t *testing.T) {
	repo := NewSaleMemoryRepository()
	created := newStoredSale(t, repo)
	assert.Equal(t, int64(1), created.Version())

	got, err := repo.GetByID(context.Background(), created.ID())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.SaleNumber(), got.SaleNumber())

	_, err = repo.Create(context.Background(), created)
	assert.ErrorIs(t, err, ErrSaleAlreadyExists)

	missing, err := repo.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSaleMemoryRepository_StaleVersionIsRejected(t *testing.T) {
	repo := NewSaleMemoryRepository()
	ctx := context.Background()
	created := newStoredSale(t, repo)

	first, err := repo.GetByID(ctx, created.ID())
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, created.ID())
	require.NoError(t, err)

	_, err = first.AddItem("p", 3, decimal.NewFromInt(10))
	require.NoError(t, err)
	_, err = second.AddItem("p", 2, decimal.NewFromInt(10))
	require.NoError(t, err)

	saved, err := repo.Update(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, int64(2), saved.Version())

	_, err = repo.Update(ctx, second)
	assert.ErrorIs(t, err, entities.ErrConcurrentModification)

	got, err := repo.GetByID(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, 3, got.QuantityOf("p"))
	assert.True(t, got.TotalAmount().Equal(decimal.NewFromInt(30)))
}

func TestSaleMemoryRepository_ReturnedSalesDoNotAlias(t *testing.T) {
	repo := NewSaleMemoryRepository()
	ctx := context.Background()
	created := newStoredSale(t, repo)

	loaded, err := repo.GetByID(ctx, created.ID())
	require.NoError(t, err)
	_, err = loaded.AddItem("p", 1, decimal.NewFromInt(5))
	require.NoError(t, err)

	again, err := repo.GetByID(ctx, created.ID())
	require.NoError(t, err)
	assert.Empty(t, again.Items())
}

func TestSaleMemoryRepository_CancelledUpdateLeavesStateUntouched(t *testing.T) {
	repo := NewSaleMemoryRepository()
	created := newStoredSale(t, repo)

	loaded, err := repo.GetByID(context.Background(), created.ID())
	require.NoError(t, err)
	_, err = loaded.AddItem("p", 1, decimal.NewFromInt(5))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = repo.Update(ctx, loaded)
	assert.ErrorIs(t, err, context.Canceled)

	got, err := repo.GetByID(context.Background(), created.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version())
	assert.Empty(t, got.Items())
}

func TestSalePaymentMemoryRepository(t *testing.T) {
	repo := NewSalePaymentMemoryRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, entities.SalePayment{ID: "mp-1", SaleID: "sale-1", Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)
	_, err = repo.Create(ctx, entities.SalePayment{ID: "mp-2", SaleID: "sale-2"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, entities.SalePayment{ID: "mp-1", SaleID: "sale-1"})
	assert.Error(t, err)

	list, err := repo.ListBySaleID(ctx, "sale-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "mp-1", list[0].ID)
}

func TestSaleMemoryRepository_SaleNumberIsUnique(t *testing.T) {
	repo := NewSaleMemoryRepository()
	ctx := context.Background()
	first := newStoredSale(t, repo)

	dup, err := entities.NewSale("cust-2", "branch-2", first.SaleNumber())
	require.NoError(t, err)
	_, err = repo.Create(ctx, dup)
	assert.ErrorIs(t, err, entities.ErrSaleNumberConflict)

	missing, err := repo.GetByID(ctx, dup.ID())
	require.NoError(t, err)
	assert.Nil(t, missing)

	other, err := entities.NewSale("cust-2", "branch-2", "SP02000001")
	require.NoError(t, err)
	_, err = repo.Create(ctx, other)
	assert.NoError(t, err)
}
