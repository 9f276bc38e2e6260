package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ingredient is a stocked raw material or, when IsComposite is set, a virtual
// BOM node produced in batches from other ingredients.
//
// Composite ingredients carry no independent stock: the reconciliation engine
// never reads or deducts QuantityOnHand of a composite; it always expands the
// BOM down to base ingredients.
type Ingredient struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name           string          `gorm:"uniqueIndex;not null"`
	Unit           string          `gorm:"not null;default:'unit'"` // lb, kg, l, unit, ...
	QuantityOnHand decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`
	UnitCost       decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0"`
	MinQuantity    decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`
	IsComposite    bool            `gorm:"not null;default:false"`
	// BatchSize: units of Unit produced per batch of the sub-recipe.
	// Only meaningful when IsComposite; must be > 0 there.
	BatchSize decimal.Decimal `gorm:"type:decimal(14,4);not null;default:1"`
	Active    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	BOMLines []BOMLine `gorm:"foreignKey:CompositeID"`
}

// BOMLine is one component of a composite ingredient's batch recipe:
// QuantityPerBatch units of the referenced ingredient go into one batch.
type BOMLine struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompositeID      uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_bom_component;not null"`
	IngredientID     uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_bom_component;not null"`
	QuantityPerBatch decimal.Decimal `gorm:"type:decimal(14,4);not null"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}

// TableName overrides GORM's pluralization (b_o_m_lines → bom_lines).
func (BOMLine) TableName() string { return "bom_lines" }
