package dto

import "github.com/shopspring/decimal"

// IngredientFilter is bound from the query string of GET /v1/ingredients.
type IngredientFilter struct {
	Name     string `form:"name"`
	LowStock bool   `form:"low_stock"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type BOMLineResponse struct {
	IngredientID     string          `json:"ingredient_id"`
	IngredientName   string          `json:"ingredient_name"`
	QuantityPerBatch decimal.Decimal `json:"quantity_per_batch"`
}

type IngredientResponse struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Unit           string            `json:"unit"`
	QuantityOnHand decimal.Decimal   `json:"quantity_on_hand"`
	UnitCost       decimal.Decimal   `json:"unit_cost"`
	MinQuantity    decimal.Decimal   `json:"min_quantity"`
	IsComposite    bool              `json:"is_composite"`
	BatchSize      decimal.Decimal   `json:"batch_size"`
	BOMLines       []BOMLineResponse `json:"bom_lines,omitempty"`
}

type IngredientListResponse struct {
	Data  []IngredientResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

type StockMovementResponse struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	QtyBefore decimal.Decimal `json:"qty_before"`
	QtyAfter  decimal.Decimal `json:"qty_after"`
	Reason    string          `json:"reason"`
	BatchID   *string         `json:"batch_id,omitempty"`
	CreatedAt string          `json:"created_at"`
}
