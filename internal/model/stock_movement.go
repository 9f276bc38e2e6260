package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockMovement records every change to an ingredient's quantity_on_hand.
// The commit executor writes one movement per ingredient touched by a batch.
type StockMovement struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IngredientID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type         string          `gorm:"not null"` // "sale_deduction" | "adjustment" | "purchase"
	Quantity     decimal.Decimal `gorm:"type:decimal(14,4);not null"` // positive = in, negative = out
	QtyBefore    decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	QtyAfter     decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	Reason       string
	BatchID      *uuid.UUID `gorm:"type:uuid;index"` // reconciliation batch, when applicable
	CreatedAt    time.Time

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}

// TableName overrides GORM's default pluralization.
func (StockMovement) TableName() string { return "stock_movements" }
