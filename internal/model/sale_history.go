package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleHistory is the append-only record of one matched sale inside a committed
// reconciliation batch. Rows are never updated or deleted after creation.
type SaleHistory struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BatchID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleDate        string          `gorm:"not null;index"` // YYYY-MM-DD
	SaleTime        string          `gorm:"not null"`       // HH:MM
	ProductName     string          `gorm:"not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	OriginalPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SalePrice       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Revenue         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Cost            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Profit          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt       time.Time
}

// TableName overrides GORM's default pluralization (sale_histories → sale_history).
func (SaleHistory) TableName() string { return "sale_history" }
