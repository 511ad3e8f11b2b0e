package response

import (
	"sales_capture/internal/domain/entities"
	"time"
)

// Money is rendered with two decimals; discount percentages as plain numbers.

type SaleItemResponse struct {
	ID                 string    `json:"id"`
	ProductID          string    `json:"product_id"`
	Quantity           int       `json:"quantity"`
	UnitPrice          string    `json:"unit_price"`
	DiscountPercentage string    `json:"discount_percentage"`
	Subtotal           string    `json:"subtotal"`
	DiscountAmount     string    `json:"discount_amount"`
	LineTotal          string    `json:"line_total"`
	HasDiscount        bool      `json:"has_discount"`
	CreatedAt          time.Time `json:"created_at"`
}

type SaleResponse struct {
	ID                 string             `json:"id"`
	SaleNumber         string             `json:"sale_number"`
	CustomerID         string             `json:"customer_id"`
	BranchID           string             `json:"branch_id"`
	Status             string             `json:"status"`
	Items              []SaleItemResponse `json:"items"`
	Subtotal           string             `json:"subtotal"`
	TotalDiscount      string             `json:"total_discount"`
	TotalAmount        string             `json:"total_amount"`
	TotalItems         int                `json:"total_items"`
	DistinctProducts   int                `json:"distinct_products"`
	DiscountsByProduct map[string]string  `json:"discounts_by_product"`
	VoidReason         string             `json:"void_reason,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	FinalizedAt        *time.Time         `json:"finalized_at,omitempty"`
	VoidedAt           *time.Time         `json:"voided_at,omitempty"`
	Version            int64              `json:"version"`
}

func FromSale(s *entities.Sale) SaleResponse {
	items := s.Items()
	out := make([]SaleItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, SaleItemResponse{
			ID:                 it.ID(),
			ProductID:          it.ProductID(),
			Quantity:           it.Quantity(),
			UnitPrice:          it.UnitPrice().StringFixed(2),
			DiscountPercentage: it.DiscountPercentage().String(),
			Subtotal:           it.Subtotal().StringFixed(2),
			DiscountAmount:     it.DiscountAmount().StringFixed(2),
			LineTotal:          it.LineTotal().StringFixed(2),
			HasDiscount:        it.HasDiscount(),
			CreatedAt:          it.CreatedAt(),
		})
	}

	discounts := make(map[string]string)
	for product, pct := range s.DiscountsByProduct() {
		discounts[product] = pct.String()
	}

	return SaleResponse{
		ID:                 s.ID(),
		SaleNumber:         s.SaleNumber(),
		CustomerID:         s.CustomerID(),
		BranchID:           s.BranchID(),
		Status:             string(s.Status()),
		Items:              out,
		Subtotal:           s.Subtotal().StringFixed(2),
		TotalDiscount:      s.TotalDiscount().StringFixed(2),
		TotalAmount:        s.TotalAmount().StringFixed(2),
		TotalItems:         s.TotalItems(),
		DistinctProducts:   s.DistinctProducts(),
		DiscountsByProduct: discounts,
		VoidReason:         s.VoidReason(),
		CreatedAt:          s.CreatedAt(),
		UpdatedAt:          s.UpdatedAt(),
		FinalizedAt:        s.FinalizedAt(),
		VoidedAt:           s.VoidedAt(),
		Version:            s.Version(),
	}
}
