package usecase

import (
	"context"
	"errors"
	"log"
	"sales_capture/internal/domain/entities"
	"sales_capture/internal/infrastructure/metrics"
	"sales_capture/internal/usecase/interfaces"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrSaleNotFound      = errors.New("sale not found")
	ErrInvalidSaleID     = errors.New("invalid sale id")
	ErrInvalidItemID     = errors.New("invalid item id")
	ErrInvalidCustomerID = errors.New("invalid customer_id")
	ErrInvalidBranchID   = errors.New("invalid branch_id")
	ErrInvalidBranchCode = errors.New("invalid branch_code")
)

// ISaleUseCase exposes the cart operations.
//
// Every mutation is load -> mutate -> conditional save. When another request
// saved the same sale in between, the repository rejects the write with
// entities.ErrConcurrentModification and the caller is expected to reload and
// retry.

type ISaleUseCase interface {
	CreateSale(ctx context.Context, customerID, branchID, branchCode string) (*entities.Sale, error)
	GetByID(ctx context.Context, saleID string) (*entities.Sale, error)
	AddItem(ctx context.Context, saleID, productID string, quantity int, unitPrice decimal.Decimal) (*entities.Sale, error)
	RemoveItem(ctx context.Context, saleID, itemID string) (*entities.Sale, error)
	UpdateItemQuantity(ctx context.Context, saleID, itemID string, quantity int) (*entities.Sale, error)
	Finalize(ctx context.Context, saleID string) (*entities.Sale, error)
	Void(ctx context.Context, saleID, reason string) (*entities.Sale, error)
}

type SaleUseCase struct {
	repo      interfaces.ISaleRepository
	sequencer interfaces.ISaleSequencer
}

var _ ISaleUseCase = (*SaleUseCase)(nil)

func NewSaleUseCase(repo interfaces.ISaleRepository, sequencer interfaces.ISaleSequencer) *SaleUseCase {
	return &SaleUseCase{repo: repo, sequencer: sequencer}
}

func (u *SaleUseCase) CreateSale(ctx context.Context, customerID, branchID, branchCode string) (*entities.Sale, error) {
	customerID = strings.TrimSpace(customerID)
	branchID = strings.TrimSpace(branchID)
	branchCode = strings.TrimSpace(branchCode)
	if customerID == "" {
		return nil, ErrInvalidCustomerID
	}
	if branchID == "" {
		return nil, ErrInvalidBranchID
	}
	if branchCode == "" {
		return nil, ErrInvalidBranchCode
	}
	log.Printf("[sale][usecase] create start customer_id=%s branch_id=%s", customerID, branchID)

	n, err := u.sequencer.NextNumber(ctx, branchID)
	if err != nil {
		if errors.Is(err, entities.ErrSaleNumberOutcomeUnknown) {
			metrics.SaleNumbersIssued.WithLabelValues("unknown").Inc()
		} else {
			metrics.SaleNumbersIssued.WithLabelValues("failed").Inc()
		}
		log.Printf("[sale][usecase] sale number failed branch_id=%s err=%v", branchID, err)
		return nil, err
	}
	metrics.SaleNumbersIssued.WithLabelValues("ok").Inc()

	sale, err := entities.NewSale(customerID, branchID, entities.FormatSaleNumber(branchCode, n))
	if err != nil {
		return nil, err
	}

	created, err := u.repo.Create(ctx, sale)
	if err != nil {
		log.Printf("[sale][usecase] create failed sale_number=%s err=%v", sale.SaleNumber(), err)
		if errors.Is(err, entities.ErrSaleNumberConflict) {
			metrics.SaleOperations.WithLabelValues("create", "conflict").Inc()
		} else {
			metrics.SaleOperations.WithLabelValues("create", "error").Inc()
		}
		return nil, err
	}
	metrics.SaleOperations.WithLabelValues("create", "ok").Inc()
	log.Printf("[sale][usecase] create success sale_id=%s sale_number=%s", created.ID(), created.SaleNumber())
	return created, nil
}

func (u *SaleUseCase) GetByID(ctx context.Context, saleID string) (*entities.Sale, error) {
	saleID = strings.TrimSpace(saleID)
	if saleID == "" {
		return nil, ErrInvalidSaleID
	}
	return u.load(ctx, saleID)
}

func (u *SaleUseCase) AddItem(ctx context.Context, saleID, productID string, quantity int, unitPrice decimal.Decimal) (*entities.Sale, error) {
	return u.mutate(ctx, "add-item", saleID, func(s *entities.Sale) error {
		_, err := s.AddItem(productID, quantity, unitPrice)
		return err
	})
}

func (u *SaleUseCase) RemoveItem(ctx context.Context, saleID, itemID string) (*entities.Sale, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return nil, ErrInvalidItemID
	}
	return u.mutate(ctx, "remove-item", saleID, func(s *entities.Sale) error {
		return s.RemoveItem(itemID)
	})
}

func (u *SaleUseCase) UpdateItemQuantity(ctx context.Context, saleID, itemID string, quantity int) (*entities.Sale, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return nil, ErrInvalidItemID
	}
	return u.mutate(ctx, "update-item-quantity", saleID, func(s *entities.Sale) error {
		return s.UpdateItemQuantity(itemID, quantity)
	})
}

func (u *SaleUseCase) Finalize(ctx context.Context, saleID string) (*entities.Sale, error) {
	return u.mutate(ctx, "finalize", saleID, func(s *entities.Sale) error {
		return s.Finalize()
	})
}

func (u *SaleUseCase) Void(ctx context.Context, saleID, reason string) (*entities.Sale, error) {
	return u.mutate(ctx, "void", saleID, func(s *entities.Sale) error {
		return s.Void(reason)
	})
}

func (u *SaleUseCase) mutate(ctx context.Context, op, saleID string, apply func(*entities.Sale) error) (*entities.Sale, error) {
	saleID = strings.TrimSpace(saleID)
	if saleID == "" {
		return nil, ErrInvalidSaleID
	}
	log.Printf("[sale][usecase] %s start sale_id=%s", op, saleID)

	sale, err := u.load(ctx, saleID)
	if err != nil {
		return nil, err
	}

	if err := apply(sale); err != nil {
		log.Printf("[sale][usecase] %s rejected sale_id=%s err=%v", op, saleID, err)
		metrics.SaleOperations.WithLabelValues(op, "rejected").Inc()
		return nil, err
	}

	updated, err := u.repo.Update(ctx, sale)
	if err != nil {
		if errors.Is(err, entities.ErrConcurrentModification) {
			log.Printf("[sale][usecase] %s version conflict sale_id=%s version=%d", op, saleID, sale.Version())
			metrics.SaleOperations.WithLabelValues(op, "conflict").Inc()
		} else {
			log.Printf("[sale][usecase] %s save failed sale_id=%s err=%v", op, saleID, err)
			metrics.SaleOperations.WithLabelValues(op, "error").Inc()
		}
		return nil, err
	}
	metrics.SaleOperations.WithLabelValues(op, "ok").Inc()
	log.Printf("[sale][usecase] %s success sale_id=%s status=%s total=%s version=%d", op, saleID, updated.Status(), updated.TotalAmount().StringFixed(2), updated.Version())
	return updated, nil
}

func (u *SaleUseCase) load(ctx context.Context, saleID string) (*entities.Sale, error) {
	sale, err := u.repo.GetByID(ctx, saleID)
	if err != nil {
		log.Printf("[sale][usecase] load failed sale_id=%s err=%v", saleID, err)
		return nil, err
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}
	return sale, nil
}
