package service

import (
	"context"

	"savoria/internal/dto"
	"savoria/internal/model"
	"savoria/internal/repository"

	"github.com/google/uuid"
)

// IngredientService exposes read-only ingredient and movement queries for
// operator screens. All stock writes go through the commit executor.
type IngredientService interface {
	List(ctx context.Context, filter dto.IngredientFilter) (*dto.IngredientListResponse, error)
	Movements(ctx context.Context, ingredientID uuid.UUID, limit int) ([]dto.StockMovementResponse, error)
}

type ingredientService struct {
	repo      repository.IngredientRepository
	movements repository.StockMovementRepository
}

func NewIngredientService(repo repository.IngredientRepository, movements repository.StockMovementRepository) IngredientService {
	return &ingredientService{repo: repo, movements: movements}
}

func (s *ingredientService) List(ctx context.Context, filter dto.IngredientFilter) (*dto.IngredientListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	ingredients, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.IngredientResponse, 0, len(ingredients))
	for i := range ingredients {
		items = append(items, *ingredientToResponse(&ingredients[i]))
	}
	return &dto.IngredientListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *ingredientService) Movements(ctx context.Context, ingredientID uuid.UUID, limit int) ([]dto.StockMovementResponse, error) {
	movements, err := s.movements.ListByIngredient(ctx, ingredientID, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		var batchID *string
		if m.BatchID != nil {
			v := m.BatchID.String()
			batchID = &v
		}
		items = append(items, dto.StockMovementResponse{
			ID:        m.ID.String(),
			Type:      m.Type,
			Quantity:  m.Quantity,
			QtyBefore: m.QtyBefore,
			QtyAfter:  m.QtyAfter,
			Reason:    m.Reason,
			BatchID:   batchID,
			CreatedAt: m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return items, nil
}

func ingredientToResponse(ing *model.Ingredient) *dto.IngredientResponse {
	bom := make([]dto.BOMLineResponse, 0, len(ing.BOMLines))
	for _, line := range ing.BOMLines {
		name := ""
		if line.Ingredient != nil {
			name = line.Ingredient.Name
		}
		bom = append(bom, dto.BOMLineResponse{
			IngredientID:     line.IngredientID.String(),
			IngredientName:   name,
			QuantityPerBatch: line.QuantityPerBatch,
		})
	}
	return &dto.IngredientResponse{
		ID:             ing.ID.String(),
		Name:           ing.Name,
		Unit:           ing.Unit,
		QuantityOnHand: ing.QuantityOnHand,
		UnitCost:       ing.UnitCost,
		MinQuantity:    ing.MinQuantity,
		IsComposite:    ing.IsComposite,
		BatchSize:      ing.BatchSize,
		BOMLines:       bom,
	}
}
