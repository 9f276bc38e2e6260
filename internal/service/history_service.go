package service

import (
	"context"

	"savoria/internal/dto"
	"savoria/internal/repository"
)

// HistoryService lists committed sale history for operator review.
type HistoryService interface {
	List(ctx context.Context, filter dto.HistoryFilter) (*dto.SaleHistoryListResponse, error)
}

type historyService struct {
	repo repository.SaleHistoryRepository
}

func NewHistoryService(repo repository.SaleHistoryRepository) HistoryService {
	return &historyService{repo: repo}
}

func (s *historyService) List(ctx context.Context, filter dto.HistoryFilter) (*dto.SaleHistoryListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleHistoryItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.SaleHistoryItem{
			ID:              r.ID.String(),
			BatchID:         r.BatchID.String(),
			SaleDate:        r.SaleDate,
			SaleTime:        r.SaleTime,
			ProductName:     r.ProductName,
			Quantity:        r.Quantity,
			OriginalPrice:   r.OriginalPrice,
			SalePrice:       r.SalePrice,
			DiscountAmount:  r.DiscountAmount,
			DiscountPercent: r.DiscountPercent,
			Revenue:         r.Revenue,
			Cost:            r.Cost,
			Profit:          r.Profit,
		})
	}
	return &dto.SaleHistoryListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}
