package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"sales_capture/internal/adapter/persistence/memory"
	"sales_capture/internal/domain/entities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestSaleUseCase_ConcurrentCreateIssuesEveryNumberOnce(t *testing.T) {
	uc := NewSaleUseCase(memory.NewSaleMemoryRepository(), memory.NewSaleMemorySequencer())

	const callers = 50
	var (
		mu      sync.Mutex
		numbers = make(map[string]int, callers)
	)
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < callers; i++ {
		g.Go(func() error {
			s, err := uc.CreateSale(ctx, fmt.Sprintf("cust-%d", i), "branch-1", "SP01")
			if err != nil {
				return err
			}
			mu.Lock()
			numbers[s.SaleNumber()]++
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	require.Len(t, numbers, callers)
	for i := 1; i <= callers; i++ {
		assert.Equal(t, 1, numbers[entities.FormatSaleNumber("SP01", int64(i))])
	}
}

func TestSaleUseCase_ConcurrentAddItemWithRetryLosesNoUpdate(t *testing.T) {
	repo := memory.NewSaleMemoryRepository()
	uc := NewSaleUseCase(repo, memory.NewSaleMemorySequencer())
	ctx := context.Background()

	sale, err := uc.CreateSale(ctx, "cust-1", "branch-1", "SP01")
	require.NoError(t, err)

	const writers = 12
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < writers; i++ {
		g.Go(func() error {
			for {
				_, err := uc.AddItem(gctx, sale.ID(), "widget", 1, decimal.NewFromInt(10))
				if errors.Is(err, entities.ErrConcurrentModification) {
					continue
				}
				return err
			}
		})
	}
	require.NoError(t, g.Wait())

	got, err := uc.GetByID(ctx, sale.ID())
	require.NoError(t, err)
	assert.Equal(t, writers, got.QuantityOf("widget"))
	assert.Len(t, got.Items(), writers)
	assert.True(t, got.DiscountPercentageFor("widget").Equal(decimal.NewFromInt(20)))
	assert.True(t, got.TotalAmount().Equal(decimal.NewFromInt(96)), "total %s", got.TotalAmount())
	assert.Equal(t, int64(writers+1), got.Version())
}

func TestSaleUseCase_ConcurrentAddItemNeverBreaksTheCap(t *testing.T) {
	repo := memory.NewSaleMemoryRepository()
	uc := NewSaleUseCase(repo, memory.NewSaleMemorySequencer())
	ctx := context.Background()

	sale, err := uc.CreateSale(ctx, "cust-1", "branch-1", "SP01")
	require.NoError(t, err)

	var (
		mu       sync.Mutex
		rejected int
	)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			for {
				_, err := uc.AddItem(gctx, sale.ID(), "widget", 3, decimal.NewFromInt(1))
				if errors.Is(err, entities.ErrConcurrentModification) {
					continue
				}
				if errors.Is(err, entities.ErrQuantityLimitExceeded) {
					mu.Lock()
					rejected++
					mu.Unlock()
					return nil
				}
				return err
			}
		})
	}
	require.NoError(t, g.Wait())

	got, err := uc.GetByID(ctx, sale.ID())
	require.NoError(t, err)
	assert.Equal(t, 18, got.QuantityOf("widget"))
	assert.Equal(t, 2, rejected)
}

func TestSaleUseCase_SharedBranchCodeCannotDuplicateSaleNumber(t *testing.T) {
	repo := memory.NewSaleMemoryRepository()
	uc := NewSaleUseCase(repo, memory.NewSaleMemorySequencer())
	ctx := context.Background()

	first, err := uc.CreateSale(ctx, "cust-1", "branch-1", "SP01")
	require.NoError(t, err)
	assert.Equal(t, "SP01000001", first.SaleNumber())

	_, err = uc.CreateSale(ctx, "cust-2", "branch-2", "SP01")
	assert.ErrorIs(t, err, entities.ErrSaleNumberConflict)

	second, err := uc.CreateSale(ctx, "cust-3", "branch-2", "SP02")
	require.NoError(t, err)
	assert.Equal(t, "SP02000002", second.SaleNumber())
}
