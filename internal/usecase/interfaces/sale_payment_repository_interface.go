package interfaces

import (
	"context"
	"sales_capture/internal/domain/entities"
)

// ISalePaymentRepository abstracts persistence for SalePayment.

type ISalePaymentRepository interface {
	Create(ctx context.Context, p entities.SalePayment) (entities.SalePayment, error)
	ListBySaleID(ctx context.Context, saleID string) ([]entities.SalePayment, error)
}
