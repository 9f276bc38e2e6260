package repository

import (
	"context"

	"savoria/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditRepository interface {
	CreateTx(tx *gorm.DB, e *model.AuditEvent) error
	FindByBatchID(ctx context.Context, batchID uuid.UUID) (*model.AuditEvent, error)
}

type auditRepo struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) AuditRepository { return &auditRepo{db: db} }

func (r *auditRepo) CreateTx(tx *gorm.DB, e *model.AuditEvent) error {
	return tx.Create(e).Error
}

func (r *auditRepo) FindByBatchID(ctx context.Context, batchID uuid.UUID) (*model.AuditEvent, error) {
	var e model.AuditEvent
	err := r.db.WithContext(ctx).Where("batch_id = ?", batchID).First(&e).Error
	return &e, err
}
