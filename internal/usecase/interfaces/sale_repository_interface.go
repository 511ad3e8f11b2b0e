package interfaces

import (
	"context"
	"sales_capture/internal/domain/entities"
)

// ISaleRepository abstracts persistence of the Sale aggregate.
//
// The aggregate is stored as a whole (sale + items):
//   - Create persists a new sale at version 1; a sale number already held
//     by another sale is rejected with entities.ErrSaleNumberConflict
//   - GetByID returns (nil, nil) when the sale does not exist
//   - Update writes only if the stored version still equals sale.Version();
//     otherwise it returns entities.ErrConcurrentModification and the stored
//     sale is left untouched. The returned sale carries the new version.

type ISaleRepository interface {
	Create(ctx context.Context, sale *entities.Sale) (*entities.Sale, error)
	GetByID(ctx context.Context, id string) (*entities.Sale, error)
	Update(ctx context.Context, sale *entities.Sale) (*entities.Sale, error)
}
