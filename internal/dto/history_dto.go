package dto

import "github.com/shopspring/decimal"

// HistoryFilter is bound from the query string of GET /v1/history.
type HistoryFilter struct {
	Date  string `form:"date"` // YYYY-MM-DD; empty = today
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type SaleHistoryItem struct {
	ID              string          `json:"id"`
	BatchID         string          `json:"batch_id"`
	SaleDate        string          `json:"sale_date"`
	SaleTime        string          `json:"sale_time"`
	ProductName     string          `json:"product_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	OriginalPrice   decimal.Decimal `json:"original_price"`
	SalePrice       decimal.Decimal `json:"sale_price"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Revenue         decimal.Decimal `json:"revenue"`
	Cost            decimal.Decimal `json:"cost"`
	Profit          decimal.Decimal `json:"profit"`
}

type SaleHistoryListResponse struct {
	Data  []SaleHistoryItem `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
