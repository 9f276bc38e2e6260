package repository

import (
	"context"

	"savoria/internal/dto"
	"savoria/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// IngredientRepository defines the data access contract for ingredients.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type IngredientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error)
	List(ctx context.Context, filter dto.IngredientFilter) ([]model.Ingredient, int64, error)

	// Snapshot loads every active ingredient with BOM lines preloaded, keyed
	// by id. The resolver works against this map so one preview performs a
	// single read burst instead of a query per recipe line.
	Snapshot(ctx context.Context) (map[uuid.UUID]*model.Ingredient, error)

	// SnapshotTx is Snapshot executed through a live transaction, so the
	// commit executor re-resolves against the state it is about to mutate.
	SnapshotTx(ctx context.Context, tx *gorm.DB) (map[uuid.UUID]*model.Ingredient, error)

	// DeductStockTx applies quantity_on_hand -= amount inside tx.
	DeductStockTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	// Returns nil when the repository is an in-memory test stub.
	DB() *gorm.DB
}

type ingredientRepo struct{ db *gorm.DB }

func NewIngredientRepository(db *gorm.DB) IngredientRepository { return &ingredientRepo{db: db} }

func (r *ingredientRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error) {
	var ing model.Ingredient
	err := r.db.WithContext(ctx).Preload("BOMLines").First(&ing, id).Error
	return &ing, err
}

func (r *ingredientRepo) List(ctx context.Context, filter dto.IngredientFilter) ([]model.Ingredient, int64, error) {
	var ingredients []model.Ingredient
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Ingredient{}).Where("active = true")
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.LowStock {
		q = q.Where("is_composite = false AND quantity_on_hand < min_quantity")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("BOMLines.Ingredient").
		Order("name ASC").Limit(filter.Limit).Offset(offset).
		Find(&ingredients).Error
	return ingredients, total, err
}

func (r *ingredientRepo) Snapshot(ctx context.Context) (map[uuid.UUID]*model.Ingredient, error) {
	return snapshot(r.db.WithContext(ctx))
}

func (r *ingredientRepo) SnapshotTx(ctx context.Context, tx *gorm.DB) (map[uuid.UUID]*model.Ingredient, error) {
	return snapshot(tx.WithContext(ctx))
}

func snapshot(q *gorm.DB) (map[uuid.UUID]*model.Ingredient, error) {
	var ingredients []model.Ingredient
	if err := q.Preload("BOMLines").Where("active = true").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*model.Ingredient, len(ingredients))
	for i := range ingredients {
		byID[ingredients[i].ID] = &ingredients[i]
	}
	return byID, nil
}

func (r *ingredientRepo) DeductStockTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) error {
	return tx.Model(&model.Ingredient{}).Where("id = ?", id).
		Update("quantity_on_hand", gorm.Expr("quantity_on_hand - ?", amount)).Error
}

func (r *ingredientRepo) DB() *gorm.DB { return r.db }
