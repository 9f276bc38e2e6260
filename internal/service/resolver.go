package service

import (
	"fmt"
	"strings"

	"savoria/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxRecipeDepth caps BOM nesting. Real kitchens nest two or three levels;
// anything past this bound is a data-integrity problem upstream.
const maxRecipeDepth = 20

// RecipeCycleError reports a composite ingredient that, directly or
// transitively, contains itself.
type RecipeCycleError struct {
	Path []string
}

func (e *RecipeCycleError) Error() string {
	return "recipe cycle detected: " + strings.Join(e.Path, " -> ")
}

// RecipeTooDeepError reports a BOM graph nested past maxRecipeDepth.
type RecipeTooDeepError struct {
	Limit int
}

func (e *RecipeTooDeepError) Error() string {
	return fmt.Sprintf("recipe nesting exceeds %d levels", e.Limit)
}

// Deduction is one base-ingredient quantity produced by expansion. Quantities
// reached via different paths are already summed.
type Deduction struct {
	IngredientID uuid.UUID
	Quantity     decimal.Decimal
}

// resolution is the request-scoped expansion state. A fresh one is built per
// product, threaded explicitly through the recursion; never shared across
// requests.
type resolution struct {
	ingredients map[uuid.UUID]*model.Ingredient
	onPath      map[uuid.UUID]bool
	path        []string
	totals      map[uuid.UUID]decimal.Decimal
	order       []uuid.UUID // first-seen order, keeps output deterministic
}

// ResolveRecipe expands a product recipe, scaled by multiplier units sold,
// into a flat list of base-ingredient deductions. Composite ingredients are
// virtual BOM nodes: they are expanded through, never emitted.
//
// All arithmetic is decimal; nothing is rounded here.
func ResolveRecipe(lines []model.RecipeLine, multiplier decimal.Decimal, ingredients map[uuid.UUID]*model.Ingredient) ([]Deduction, error) {
	res := &resolution{
		ingredients: ingredients,
		onPath:      make(map[uuid.UUID]bool),
		totals:      make(map[uuid.UUID]decimal.Decimal),
	}
	for _, line := range lines {
		if err := res.expand(line.IngredientID, line.QuantityNeeded.Mul(multiplier), 0); err != nil {
			return nil, err
		}
	}

	out := make([]Deduction, 0, len(res.order))
	for _, id := range res.order {
		out = append(out, Deduction{IngredientID: id, Quantity: res.totals[id]})
	}
	return out, nil
}

func (r *resolution) expand(id uuid.UUID, quantity decimal.Decimal, depth int) error {
	if depth > maxRecipeDepth {
		return &RecipeTooDeepError{Limit: maxRecipeDepth}
	}

	ing, ok := r.ingredients[id]
	if !ok {
		return fmt.Errorf("ingredient %s referenced by recipe does not exist", id)
	}

	if !ing.IsComposite {
		if _, seen := r.totals[id]; !seen {
			r.order = append(r.order, id)
			r.totals[id] = decimal.Zero
		}
		r.totals[id] = r.totals[id].Add(quantity)
		return nil
	}

	if r.onPath[id] {
		return &RecipeCycleError{Path: append(append([]string{}, r.path...), ing.Name)}
	}
	if !ing.BatchSize.IsPositive() {
		return fmt.Errorf("composite ingredient %q has non-positive batch size", ing.Name)
	}

	// Fractional batches needed to supply the required quantity.
	batches := quantity.Div(ing.BatchSize)

	r.onPath[id] = true
	r.path = append(r.path, ing.Name)
	for _, bom := range ing.BOMLines {
		if err := r.expand(bom.IngredientID, bom.QuantityPerBatch.Mul(batches), depth+1); err != nil {
			return err
		}
	}
	r.path = r.path[:len(r.path)-1]
	delete(r.onPath, id)
	return nil
}
