package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"sales_capture/internal/domain/entities"
	"sales_capture/internal/usecase/interfaces"
)

var ErrSaleAlreadyExists = errors.New("sale already exists")

// SaleMemoryRepository keeps sale snapshots in process memory. It applies the
// same version check as the database-backed repositories and indexes sale
// numbers so a number is stored at most once.
type SaleMemoryRepository struct {
	mu      sync.RWMutex
	sales   map[string]entities.SaleSnapshot
	numbers map[string]string
}

var _ interfaces.ISaleRepository = (*SaleMemoryRepository)(nil)

func NewSaleMemoryRepository() *SaleMemoryRepository {
	return &SaleMemoryRepository{
		sales:   make(map[string]entities.SaleSnapshot),
		numbers: make(map[string]string),
	}
}

func (r *SaleMemoryRepository) Create(ctx context.Context, sale *entities.Sale) (*entities.Sale, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := sale.Snapshot()
	snap.Version = 1

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sales[snap.ID]; ok {
		return nil, fmt.Errorf("%w: %s", ErrSaleAlreadyExists, snap.ID)
	}
	if owner, ok := r.numbers[snap.SaleNumber]; ok {
		return nil, fmt.Errorf("%w: %s held by sale %s", entities.ErrSaleNumberConflict, snap.SaleNumber, owner)
	}
	r.sales[snap.ID] = snap
	r.numbers[snap.SaleNumber] = snap.ID
	return entities.RestoreSale(snap)
}

func (r *SaleMemoryRepository) GetByID(ctx context.Context, id string) (*entities.Sale, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	snap, ok := r.sales[id]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return entities.RestoreSale(snap)
}

func (r *SaleMemoryRepository) Update(ctx context.Context, sale *entities.Sale) (*entities.Sale, error) {
	snap := sale.Snapshot()
	expected := snap.Version
	snap.Version = expected + 1

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stored, ok := r.sales[snap.ID]
	if !ok || stored.Version != expected {
		return nil, fmt.Errorf("%w: sale %s at version %d", entities.ErrConcurrentModification, snap.ID, expected)
	}
	r.sales[snap.ID] = snap
	return entities.RestoreSale(snap)
}
