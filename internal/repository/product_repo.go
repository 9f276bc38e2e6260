package repository

import (
	"context"

	"savoria/internal/model"

	"gorm.io/gorm"
)

// ProductRepository gives read-only access to the product catalog. The
// reconciliation engine never writes products.
type ProductRepository interface {
	// FindByName matches the product name exactly (case-sensitive).
	FindByName(ctx context.Context, name string) (*model.Product, error)

	// FindByNameTx is FindByName through a live transaction, so the commit
	// executor reads products and ingredients from one consistent view.
	FindByNameTx(ctx context.Context, tx *gorm.DB, name string) (*model.Product, error)

	List(ctx context.Context) ([]model.Product, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) FindByName(ctx context.Context, name string) (*model.Product, error) {
	return findByName(r.db.WithContext(ctx), name)
}

func (r *productRepo) FindByNameTx(ctx context.Context, tx *gorm.DB, name string) (*model.Product, error) {
	return findByName(tx.WithContext(ctx), name)
}

func findByName(q *gorm.DB, name string) (*model.Product, error) {
	var p model.Product
	err := q.Preload("Recipe").
		Where("name = ? AND active = true", name).First(&p).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Preload("Recipe.Ingredient").
		Where("active = true").Order("name ASC").Find(&products).Error
	return products, err
}
