package service

import (
	"savoria/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalePricing is the priced outcome of one sale record. Pure data; computed
// once per record and copied into the preview and history rows.
type SalePricing struct {
	EffectivePrice  decimal.Decimal
	DiscountAmount  decimal.Decimal
	DiscountPercent decimal.Decimal
	Revenue         decimal.Decimal
	Cost            decimal.Decimal
	Profit          decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// PriceSale computes cost, revenue and profit for one sale record. salePrice
// is honored only when present, positive and strictly below catalogPrice;
// otherwise the catalog price wins. No side effects.
func PriceSale(catalogPrice decimal.Decimal, salePrice *decimal.Decimal, quantity decimal.Decimal, deductions []Deduction, ingredients map[uuid.UUID]*model.Ingredient) SalePricing {
	cost := decimal.Zero
	for _, d := range deductions {
		if ing, ok := ingredients[d.IngredientID]; ok {
			cost = cost.Add(d.Quantity.Mul(ing.UnitCost))
		}
	}

	effective := catalogPrice
	if salePrice != nil && salePrice.IsPositive() && salePrice.LessThan(catalogPrice) {
		effective = *salePrice
	}

	discount := catalogPrice.Sub(effective)
	discountPct := decimal.Zero
	if catalogPrice.IsPositive() {
		discountPct = discount.Div(catalogPrice).Mul(hundred)
	}

	revenue := effective.Mul(quantity)
	return SalePricing{
		EffectivePrice:  effective,
		DiscountAmount:  discount,
		DiscountPercent: discountPct,
		Revenue:         revenue,
		Cost:            cost,
		Profit:          revenue.Sub(cost),
	}
}
