package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable menu item. The engine reads products; it never
// creates or edits them (catalog CRUD lives in a separate collaborator).
type Product struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string          `gorm:"uniqueIndex;not null"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Active       bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Recipe []RecipeLine `gorm:"foreignKey:ProductID"`
}

// RecipeLine declares the quantity of one ingredient (base or composite)
// consumed per unit of product sold.
type RecipeLine struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID      uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_recipe_component;not null"`
	IngredientID   uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_recipe_component;not null"`
	QuantityNeeded decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	Unit           string          `gorm:"not null"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}
