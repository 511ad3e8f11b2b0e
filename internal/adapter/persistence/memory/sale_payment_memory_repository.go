package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"sales_capture/internal/domain/entities"
	"sales_capture/internal/usecase/interfaces"
)

type SalePaymentMemoryRepository struct {
	mu       sync.RWMutex
	payments map[string]entities.SalePayment
}

var _ interfaces.ISalePaymentRepository = (*SalePaymentMemoryRepository)(nil)

func NewSalePaymentMemoryRepository() *SalePaymentMemoryRepository {
	return &SalePaymentMemoryRepository{payments: make(map[string]entities.SalePayment)}
}

func (r *SalePaymentMemoryRepository) Create(ctx context.Context, p entities.SalePayment) (entities.SalePayment, error) {
	if err := ctx.Err(); err != nil {
		return entities.SalePayment{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payments[p.ID]; ok {
		return entities.SalePayment{}, fmt.Errorf("payment %s already exists", p.ID)
	}
	r.payments[p.ID] = p
	return p, nil
}

func (r *SalePaymentMemoryRepository) ListBySaleID(ctx context.Context, saleID string) ([]entities.SalePayment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entities.SalePayment, 0)
	for _, p := range r.payments {
		if p.SaleID == saleID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
