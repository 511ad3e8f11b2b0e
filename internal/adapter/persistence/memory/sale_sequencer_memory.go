package memory

import (
	"context"
	"fmt"
	"sync"

	"sales_capture/internal/domain/entities"
	"sales_capture/internal/usecase/interfaces"
)

// DurableWriter stores an issued value before it is handed out.
type DurableWriter func(ctx context.Context, branchID string, lastIssued int64) error

type SequencerOption func(*SaleMemorySequencer)

// WithDurableWriter makes every issuance wait for w. The value is consumed
// before w runs, so a failed write leaves a gap, never a repeat.
func WithDurableWriter(w DurableWriter) SequencerOption {
	return func(s *SaleMemorySequencer) { s.persist = w }
}

type branchCounter struct {
	mu         sync.Mutex
	lastIssued int64
}

// SaleMemorySequencer holds one counter per branch, each behind its own mutex.
// Callers for the same branch queue on that mutex; other branches are not
// affected.
type SaleMemorySequencer struct {
	mu       sync.Mutex
	branches map[string]*branchCounter
	persist  DurableWriter
}

var _ interfaces.ISaleSequencer = (*SaleMemorySequencer)(nil)

func NewSaleMemorySequencer(opts ...SequencerOption) *SaleMemorySequencer {
	s := &SaleMemorySequencer{branches: make(map[string]*branchCounter)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SaleMemorySequencer) NextNumber(ctx context.Context, branchID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c := s.counter(branchID)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastIssued++
	next := c.lastIssued
	if s.persist != nil {
		if err := s.persist(ctx, branchID, next); err != nil {
			return 0, fmt.Errorf("%w: branch %s: %v", entities.ErrSaleNumberOutcomeUnknown, branchID, err)
		}
	}
	return next, nil
}

// LastIssued reports the current counter of a branch, zero if none was issued.
func (s *SaleMemorySequencer) LastIssued(branchID string) int64 {
	s.mu.Lock()
	c, ok := s.branches[branchID]
	s.mu.Unlock()
	if !ok {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastIssued
}

func (s *SaleMemorySequencer) counter(branchID string) *branchCounter {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.branches[branchID]
	if !ok {
		c = &branchCounter{}
		s.branches[branchID] = c
	}
	return c
}
