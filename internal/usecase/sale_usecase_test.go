package usecase

import (
	"context"
	"errors"
	"testing"

	"sales_capture/internal/domain/entities"
	mock_interfaces "sales_capture/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func storedSale(t *testing.T) *entities.Sale {
	t.Helper()
	s, err := entities.NewSale("cust-1", "branch-1", "SP01000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := s.Snapshot()
	snap.Version = 1
	restored, err := entities.RestoreSale(snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return restored
}

func bumpVersion(s *entities.Sale) (*entities.Sale, error) {
	snap := s.Snapshot()
	snap.Version++
	return entities.RestoreSale(snap)
}

func TestSaleUseCase_CreateSale(t *testing.T) {
	t.Run("invalid input", func(t *testing.T) {
		uc := NewSaleUseCase(nil, nil)
		if _, err := uc.CreateSale(context.Background(), " ", "b", "SP"); !errors.Is(err, ErrInvalidCustomerID) {
			t.Fatalf("expected ErrInvalidCustomerID, got %v", err)
		}
		if _, err := uc.CreateSale(context.Background(), "c", "", "SP"); !errors.Is(err, ErrInvalidBranchID) {
			t.Fatalf("expected ErrInvalidBranchID, got %v", err)
		}
		if _, err := uc.CreateSale(context.Background(), "c", "b", " "); !errors.Is(err, ErrInvalidBranchCode) {
			t.Fatalf("expected ErrInvalidBranchCode, got %v", err)
		}
	})

	t.Run("sequencer outcome unknown is not retried", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockISaleRepository(ctrl)
		seq := mock_interfaces.NewMockISaleSequencer(ctrl)
		uc := NewSaleUseCase(repo, seq)

		seq.EXPECT().NextNumber(gomock.Any(), "branch-1").Return(int64(0), entities.ErrSaleNumberOutcomeUnknown).Times(1)

		_, err := uc.CreateSale(context.Background(), "cust-1", "branch-1", "SP01")
		if !errors.Is(err, entities.ErrSaleNumberOutcomeUnknown) {
			t.Fatalf("expected ErrSaleNumberOutcomeUnknown, got %v", err)
		}
	})

	t.Run("repo create error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockISaleRepository(ctrl)
		seq := mock_interfaces.NewMockISaleSequencer(ctrl)
		uc := NewSaleUseCase(repo, seq)

		seq.EXPECT().NextNumber(gomock.Any(), "branch-1").Return(int64(1), nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, errors.New("db"))

		_, err := uc.CreateSale(context.Background(), "cust-1", "branch-1", "SP01")
		if err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})

	t.Run("success formats the sale number", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockISaleRepository(ctrl)
		seq := mock_interfaces.NewMockISaleSequencer(ctrl)
		uc := NewSaleUseCase(repo, seq)

		seq.EXPECT().NextNumber(gomock.Any(), "branch-1").Return(int64(7), nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, s *entities.Sale) (*entities.Sale, error) {
				if s.SaleNumber() != "SP01000007" || s.Status() != entities.SaleStatusOpen {
					t.Fatalf("unexpected sale: %+v", s.Snapshot())
				}
				if s.CustomerID() != "cust-1" || s.BranchID() != "branch-1" {
					t.Fatalf("unexpected references: %+v", s.Snapshot())
				}
				return bumpVersion(s)
			},
		)

		res, err := uc.CreateSale(context.Background(), " cust-1 ", " branch-1 ", " SP01 ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Version() != 1 {
			t.Fatalf("expected version 1, got %d", res.Version())
		}
	})
}

func TestSaleUseCase_AddItem(t *testing.T) {
	t.Run("invalid sale id", func(t *testing.T) {
		uc := NewSaleUseCase(nil, nil)
		_, err := uc.AddItem(context.Background(), " ", "p", 1, decimal.NewFromInt(1))
		if !errors.Is(err, ErrInvalidSaleID) {
			t.Fatalf("expected ErrInvalidSaleID, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockISaleRepository(ctrl)
		uc := NewSaleUseCase(repo, nil)
		repo.EXPECT().GetByID(gomock.Any(), "sale-1").Return(nil, nil)

		_, err := uc.AddItem(context.Background(), "sale-1", "p", 1, decimal.NewFromInt(1))
		if !errors.Is(err, ErrSaleNotFound) {
			t.Fatalf("expected ErrSaleNotFound, got %v", err)
		}
	})

	t.Run("repo get error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockISaleRepository(ctrl)
		uc := NewSaleUseCase(repo, nil)
		repo.EXPECT().GetByID(gomock.Any(), "sale-1").Return(nil, errors.New("db"))

		_, err := uc.AddItem(context.Background(), "sale-1", "p", 1, decimal.NewFromInt(1))
		if err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})

	t.Run("limit exceeded is not persisted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockISaleRepository(ctrl)
		uc := NewSaleUseCase(repo, nil)
		repo.EXPECT().GetByID(gomock.Any(), "sale-1").Return(storedSale(t), nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Times(0)

		_, err := uc.AddItem(context.Background(), "sale-1", "p", 21, decimal.NewFromInt(1))
		var le *entities.QuantityLimitError
		if !errors.As(err, &le) {
			t.Fatalf("expected QuantityLimitError, got %v", err)
		}
		if le.Current != 0 || le.Attempted != 21 {
			t.Fatalf("unexpected limit detail: %+v", le)
		}
	})

	t.Run("version conflict surfaces", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockISaleRepository(ctrl)
		uc := NewSaleUseCase(repo, nil)
		repo.EXPECT().GetByID(gomock.Any(), "sale-1").Return(storedSale(t), nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil, entities.ErrConcurrentModification)

		_, err := uc.AddItem(context.Background(), "sale-1", "p", 1, decimal.NewFromInt(1))
		if !errors.Is(err, entities.ErrConcurrentModification) {
			t.Fatalf("expected ErrConcurrentModification, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockISaleRepository(ctrl)
		uc := NewSaleUseCase(repo, nil)
		repo.EXPECT().GetByID(gomock.Any(), "sale-1").Return(storedSale(t), nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, s *entities.Sale) (*entities.Sale, error) {
				if s.Version() != 1 {
					t.Fatalf("expected loaded version 1, got %d", s.Version())
				}
				if s.QuantityOf("p") != 4 {
					t.Fatalf("expected 4 units, got %d", s.QuantityOf("p"))
				}
				return bumpVersion(s)
			},
		)

		res, err := uc.AddItem(context.Background(), "sale-1", "p", 4, decimal.NewFromInt(100))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.TotalAmount().Equal(decimal.NewFromInt(360)) {
			t.Fatalf("expected total 360, got %s", res.TotalAmount())
		}
		if res.Version() != 2 {
			t.Fatalf("expected version 2, got %d", res.Version())
		}
	})
}

func TestSaleUseCase_ItemMutations(t *testing.T) {
	saleWithItem := func(t *testing.T) (*entities.Sale, string) {
		s := storedSale(t)
		it, err := s.AddItem("p", 5, decimal.NewFromInt(10))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return s, it.ID()
	}

	t.Run("remove invalid item id", func(t *testing.T) {
		uc := NewSaleUseCase(nil, nil)
		if _, err := uc.RemoveItem(context.Background(), "sale-1", " "); !errors.Is(err, ErrInvalidItemID) {
			t.Fatalf("expected ErrInvalidItemID, got %v", err)
		}
		if _, err := uc.UpdateItemQuantity(context.Background(), "sale-1", "", 2); !errors.Is(err, ErrInvalidItemID) {
			t.Fatalf("expected ErrInvalidItemID, got %v", err)
		}
	})

	t.Run("remove unknown item", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockISaleRepository(ctrl)
		uc := NewSaleUseCase(repo, nil)
		s, _ := saleWithItem(t)
		repo.EXPECT().GetByID(gomock.Any(), "sale-1").Return(s, nil)

		_, err := uc.RemoveItem(context.Background(), "sale-1", "missing")
		if !errors.Is(err, entities.ErrSaleItemNotFound) {
			t.Fatalf("expected ErrSaleItemNotFound, got %v", err)
		}
	})

	t.Run("remove success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockISaleRepository(ctrl)
		uc := NewSaleUseCase(repo, nil)
		s, itemID := saleWithItem(t)
		repo.EXPECT().GetByID(gomock.Any(), "sale-1").Return(s, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, s *entities.Sale) (*entities.Sale, error) { return bumpVersion(s) },
		)

		res, err := uc.RemoveItem(context.Background(), "sale-1", itemID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(res.Items()) != 0 || !res.TotalAmount().IsZero() {
			t.Fatalf("unexpected sale: %+v", res.Snapshot())
		}
	})

	t.Run("update quantity success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockISaleRepository(ctrl)
		uc := NewSaleUseCase(repo, nil)
		s, itemID := saleWithItem(t)
		repo.EXPECT().GetByID(gomock.Any(), "sale-1").Return(s, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, s *entities.Sale) (*entities.Sale, error) { return bumpVersion(s) },
		)

		res, err := uc.UpdateItemQuantity(context.Background(), "sale-1", itemID, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.DiscountPercentageFor("p").Equal(decimal.NewFromInt(20)) {
			t.Fatalf("expected 20%% discount, got %s", res.DiscountPercentageFor("p"))
		}
		if !res.TotalAmount().Equal(decimal.NewFromInt(80)) {
			t.Fatalf("expected total 80, got %s", res.TotalAmount())
		}
	})
}

func TestSaleUseCase_Lifecycle(t *testing.T) {
	t.Run("finalize empty sale", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockISaleRepository(ctrl)
		uc := NewSaleUseCase(repo, nil)
		repo.EXPECT().GetByID(gomock.Any(), "sale-1").Return(storedSale(t), nil)

		_, err := uc.Finalize(context.Background(), "sale-1")
		if !errors.Is(err, entities.ErrSaleHasNoItems) {
			t.Fatalf("expected ErrSaleHasNoItems, got %v", err)
		}
	})

	t.Run("void twice", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockISaleRepository(ctrl)
		uc := NewSaleUseCase(repo, nil)

		s := storedSale(t)
		if err := s.Void("first"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		repo.EXPECT().GetByID(gomock.Any(), "sale-1").Return(s, nil)

		_, err := uc.Void(context.Background(), "sale-1", "second")
		if !errors.Is(err, entities.ErrSaleAlreadyVoided) {
			t.Fatalf("expected ErrSaleAlreadyVoided, got %v", err)
		}
	})

	t.Run("void success with default reason", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockISaleRepository(ctrl)
		uc := NewSaleUseCase(repo, nil)
		repo.EXPECT().GetByID(gomock.Any(), "sale-1").Return(storedSale(t), nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, s *entities.Sale) (*entities.Sale, error) { return bumpVersion(s) },
		)

		res, err := uc.Void(context.Background(), "sale-1", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Status() != entities.SaleStatusVoided || res.VoidReason() != entities.DefaultVoidReason {
			t.Fatalf("unexpected sale: %+v", res.Snapshot())
		}
	})

	t.Run("finalize success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockISaleRepository(ctrl)
		uc := NewSaleUseCase(repo, nil)
		s := storedSale(t)
		if _, err := s.AddItem("p", 1, decimal.NewFromInt(3)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		repo.EXPECT().GetByID(gomock.Any(), "sale-1").Return(s, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, s *entities.Sale) (*entities.Sale, error) { return bumpVersion(s) },
		)

		res, err := uc.Finalize(context.Background(), "sale-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Status() != entities.SaleStatusFinalized || res.FinalizedAt() == nil {
			t.Fatalf("unexpected sale: %+v", res.Snapshot())
		}
	})
}

func TestSaleUseCase_GetByID(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		uc := NewSaleUseCase(nil, nil)
		if _, err := uc.GetByID(context.Background(), ""); !errors.Is(err, ErrInvalidSaleID) {
			t.Fatalf("expected ErrInvalidSaleID, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockISaleRepository(ctrl)
		uc := NewSaleUseCase(repo, nil)
		repo.EXPECT().GetByID(gomock.Any(), "sale-1").Return(nil, nil)

		if _, err := uc.GetByID(context.Background(), " sale-1 "); !errors.Is(err, ErrSaleNotFound) {
			t.Fatalf("expected ErrSaleNotFound, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockISaleRepository(ctrl)
		uc := NewSaleUseCase(repo, nil)
		s := storedSale(t)
		repo.EXPECT().GetByID(gomock.Any(), "sale-1").Return(s, nil)

		res, err := uc.GetByID(context.Background(), "sale-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.ID() != s.ID() {
			t.Fatalf("unexpected sale: %+v", res.Snapshot())
		}
	})
}
