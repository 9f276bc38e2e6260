package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// SaleRecord is one row of sold-product input, as produced by the CSV parser
// or posted directly by the caller.
type SaleRecord struct {
	ProductName string          `json:"product_name" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"     validate:"required"`
	// SalePrice, when present and below catalog price, is an observed discount.
	SalePrice *decimal.Decimal `json:"sale_price,omitempty"`
}

type PreviewRequest struct {
	SaleDate string       `json:"sale_date" validate:"required,datetime=2006-01-02"`
	Records  []SaleRecord `json:"records"   validate:"required,min=1,dive"`
}

type CommitRequest struct {
	SaleDate string       `json:"sale_date" validate:"required,datetime=2006-01-02"`
	SaleTime string       `json:"sale_time" validate:"required,datetime=15:04"`
	Records  []SaleRecord `json:"records"   validate:"required,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// DeductionLine is one base ingredient affected by one matched sale, after
// full recipe/BOM expansion. NewQty may be negative; that surfaces as a
// warning, never an error.
type DeductionLine struct {
	IngredientID   string          `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name"`
	Unit           string          `json:"unit"`
	Deduction      decimal.Decimal `json:"deduction"`
	CurrentQty     decimal.Decimal `json:"current_qty"`
	NewQty         decimal.Decimal `json:"new_qty"`
}

type MatchedSale struct {
	ProductName     string          `json:"product_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	OriginalPrice   decimal.Decimal `json:"original_price"`
	SalePrice       decimal.Decimal `json:"sale_price"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Revenue         decimal.Decimal `json:"revenue"`
	Cost            decimal.Decimal `json:"cost"`
	Profit          decimal.Decimal `json:"profit"`
	Ingredients     []DeductionLine `json:"ingredients"`
}

type UnmatchedSale struct {
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reason      string          `json:"reason"`
}

type PreviewTotals struct {
	Revenue decimal.Decimal `json:"revenue"`
	Cost    decimal.Decimal `json:"cost"`
	Profit  decimal.Decimal `json:"profit"`
}

// PreviewResponse is built fresh on every preview call and never persisted.
type PreviewResponse struct {
	Matched   []MatchedSale   `json:"matched"`
	Unmatched []UnmatchedSale `json:"unmatched"`
	Warnings  []string        `json:"warnings"`
	Totals    PreviewTotals   `json:"totals"`
}

// CommitResponse is the aggregate summary of an applied batch. Full deduction
// detail is never returned; callers re-query history if they need it.
type CommitResponse struct {
	BatchID        string          `json:"batch_id"`
	SalesProcessed int             `json:"sales_processed"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	TotalProfit    decimal.Decimal `json:"total_profit"`
	Skipped        []UnmatchedSale `json:"skipped"`
}

// ImportResponse is returned by the CSV import endpoint: parsed records ready
// for preview plus rejected rows with their reasons.
type ImportResponse struct {
	Records  []SaleRecord `json:"records"`
	Rejected []string     `json:"rejected"`
}
