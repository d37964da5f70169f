package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"salesfeed/internal/domain"
	"salesfeed/internal/port"
)

type summaryRepo struct {
	db *sqlx.DB
}

// NewSummaryRepo creates a new PostgreSQL-backed SummaryRepository.
func NewSummaryRepo(db *sqlx.DB) port.SummaryRepository {
	return &summaryRepo{db: db}
}

func (r *summaryRepo) UpsertProductSummaries(ctx context.Context, summaries []domain.MonthlyProductSummary) error {
	if len(summaries) == 0 {
		return nil
	}

	now := time.Now().UTC()
	valueStrings := make([]string, 0, len(summaries))
	valueArgs := make([]interface{}, 0, len(summaries)*8)

	for i, s := range summaries {
		base := i * 8
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8))
		valueArgs = append(valueArgs,
			s.ID, s.WorkspaceID, s.PeriodKey, s.ProductID, s.ProductName,
			s.TotalQuantity, s.TotalAmount, now)
	}

	query := fmt.Sprintf(
		`INSERT INTO monthly_product_summaries (
			id, workspace_id, period_key, product_id, product_name,
			total_quantity, total_amount, updated_at
		) VALUES %s
		ON CONFLICT (id) DO UPDATE SET
			product_name = EXCLUDED.product_name,
			total_quantity = EXCLUDED.total_quantity,
			total_amount = EXCLUDED.total_amount,
			updated_at = EXCLUDED.updated_at`,
		strings.Join(valueStrings, ", "))

	_, err := r.db.ExecContext(ctx, query, valueArgs...)
	if err != nil {
		return fmt.Errorf("summaryRepo.UpsertProductSummaries: %w", err)
	}
	return nil
}

func (r *summaryRepo) UpsertCategorySummaries(ctx context.Context, summaries []domain.MonthlyCategorySummary) error {
	if len(summaries) == 0 {
		return nil
	}

	now := time.Now().UTC()
	valueStrings := make([]string, 0, len(summaries))
	valueArgs := make([]interface{}, 0, len(summaries)*8)

	for i, s := range summaries {
		base := i * 8
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8))
		valueArgs = append(valueArgs,
			s.ID, s.WorkspaceID, s.PeriodKey, s.CategoryID, s.CategoryName,
			s.TotalQuantity, s.TotalAmount, now)
	}

	query := fmt.Sprintf(
		`INSERT INTO monthly_category_summaries (
			id, workspace_id, period_key, category_id, category_name,
			total_quantity, total_amount, updated_at
		) VALUES %s
		ON CONFLICT (id) DO UPDATE SET
			category_name = EXCLUDED.category_name,
			total_quantity = EXCLUDED.total_quantity,
			total_amount = EXCLUDED.total_amount,
			updated_at = EXCLUDED.updated_at`,
		strings.Join(valueStrings, ", "))

	_, err := r.db.ExecContext(ctx, query, valueArgs...)
	if err != nil {
		return fmt.Errorf("summaryRepo.UpsertCategorySummaries: %w", err)
	}
	return nil
}

func (r *summaryRepo) ListProductSummaries(ctx context.Context, workspaceID uuid.UUID, periodKey string) ([]domain.MonthlyProductSummary, error) {
	var summaries []domain.MonthlyProductSummary
	err := r.db.SelectContext(ctx, &summaries,
		`SELECT * FROM monthly_product_summaries
		 WHERE workspace_id = $1 AND period_key = $2
		 ORDER BY total_amount DESC`,
		workspaceID, periodKey)
	if err != nil {
		return nil, fmt.Errorf("summaryRepo.ListProductSummaries: %w", err)
	}
	return summaries, nil
}

func (r *summaryRepo) ListCategorySummaries(ctx context.Context, workspaceID uuid.UUID, periodKey string) ([]domain.MonthlyCategorySummary, error) {
	var summaries []domain.MonthlyCategorySummary
	err := r.db.SelectContext(ctx, &summaries,
		`SELECT * FROM monthly_category_summaries
		 WHERE workspace_id = $1 AND period_key = $2
		 ORDER BY total_amount DESC`,
		workspaceID, periodKey)
	if err != nil {
		return nil, fmt.Errorf("summaryRepo.ListCategorySummaries: %w", err)
	}
	return summaries, nil
}
