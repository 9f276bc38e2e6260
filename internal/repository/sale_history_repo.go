package repository

import (
	"context"

	"savoria/internal/dto"
	"savoria/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaleHistoryRepository persists the append-only sale history. There is no
// update or delete on purpose.
type SaleHistoryRepository interface {
	CreateTx(tx *gorm.DB, row *model.SaleHistory) error
	List(ctx context.Context, filter dto.HistoryFilter) ([]model.SaleHistory, int64, error)
	ListByBatchID(ctx context.Context, batchID uuid.UUID) ([]model.SaleHistory, error)
}

type saleHistoryRepo struct{ db *gorm.DB }

func NewSaleHistoryRepository(db *gorm.DB) SaleHistoryRepository { return &saleHistoryRepo{db: db} }

func (r *saleHistoryRepo) CreateTx(tx *gorm.DB, row *model.SaleHistory) error {
	return tx.Create(row).Error
}

func (r *saleHistoryRepo) List(ctx context.Context, filter dto.HistoryFilter) ([]model.SaleHistory, int64, error) {
	var rows []model.SaleHistory
	var total int64

	q := r.db.WithContext(ctx).Model(&model.SaleHistory{})
	if filter.Date != "" {
		q = q.Where("sale_date = ?", filter.Date)
	} else {
		q = q.Where("sale_date = to_char(CURRENT_DATE, 'YYYY-MM-DD')")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&rows).Error
	return rows, total, err
}

func (r *saleHistoryRepo) ListByBatchID(ctx context.Context, batchID uuid.UUID) ([]model.SaleHistory, error) {
	var rows []model.SaleHistory
	err := r.db.WithContext(ctx).Where("batch_id = ?", batchID).
		Order("product_name ASC").Find(&rows).Error
	return rows, err
}
