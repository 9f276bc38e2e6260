package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuditEvent summarizes one committed reconciliation batch. Append-only;
// one event per commit, written inside the commit transaction.
type AuditEvent struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BatchID        uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	SaleDate       string          `gorm:"not null"`
	SalesProcessed int             `gorm:"not null"`
	SalesSkipped   int             `gorm:"not null"`
	TotalRevenue   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalCost      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalProfit    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt      time.Time
}
