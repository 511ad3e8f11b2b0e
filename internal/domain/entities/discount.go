package entities

import "github.com/shopspring/decimal"

// MaxQuantityPerProduct caps the summed quantity of a single product in one sale.
const MaxQuantityPerProduct = 20

var (
	discountTierMid  = decimal.NewFromInt(10)
	discountTierHigh = decimal.NewFromInt(20)
)

// DiscountPercentage maps the total quantity of one product in a sale to its
// discount tier:
//   - below 4 units: 0%
//   - 4 to 9 units: 10%
//   - 10 units or more: 20%
//
// The input is always the sum across every item of that product, never the
// quantity of a single line.
func DiscountPercentage(totalQuantity int) decimal.Decimal {
	switch {
	case totalQuantity >= 10:
		return discountTierHigh
	case totalQuantity >= 4:
		return discountTierMid
	default:
		return decimal.Zero
	}
}
