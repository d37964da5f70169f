package port

import (
	"context"

	"github.com/google/uuid"

	"salesfeed/internal/domain"
)

// SummaryRepository merge-upserts and reads the monthly aggregates. Upserts
// are keyed by the stable summary id so repeated runs overwrite rather than
// duplicate.
type SummaryRepository interface {
	UpsertProductSummaries(ctx context.Context, summaries []domain.MonthlyProductSummary) error
	UpsertCategorySummaries(ctx context.Context, summaries []domain.MonthlyCategorySummary) error
	ListProductSummaries(ctx context.Context, workspaceID uuid.UUID, periodKey string) ([]domain.MonthlyProductSummary, error)
	ListCategorySummaries(ctx context.Context, workspaceID uuid.UUID, periodKey string) ([]domain.MonthlyCategorySummary, error)
}
