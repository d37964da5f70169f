package service

import (
	"context"

	"github.com/google/uuid"

	"salesfeed/internal/domain"
	"salesfeed/internal/port"
)

// SummaryService exposes the derived monthly aggregates.
type SummaryService interface {
	ProductSummaries(ctx context.Context, workspaceID uuid.UUID, periodKey string) ([]domain.MonthlyProductSummary, error)
	CategorySummaries(ctx context.Context, workspaceID uuid.UUID, periodKey string) ([]domain.MonthlyCategorySummary, error)
}

type summaryService struct {
	summaryRepo port.SummaryRepository
}

// NewSummaryService creates a new SummaryService implementation.
func NewSummaryService(summaryRepo port.SummaryRepository) SummaryService {
	return &summaryService{summaryRepo: summaryRepo}
}

func (s *summaryService) ProductSummaries(ctx context.Context, workspaceID uuid.UUID, periodKey string) ([]domain.MonthlyProductSummary, error) {
	return s.summaryRepo.ListProductSummaries(ctx, workspaceID, periodKey)
}

func (s *summaryService) CategorySummaries(ctx context.Context, workspaceID uuid.UUID, periodKey string) ([]domain.MonthlyCategorySummary, error) {
	return s.summaryRepo.ListCategorySummaries(ctx, workspaceID, periodKey)
}
