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

type salesLineRepo struct {
	db *sqlx.DB
}

// NewSalesLineRepo creates a new PostgreSQL-backed SalesLineRepository.
func NewSalesLineRepo(db *sqlx.DB) port.SalesLineRepository {
	return &salesLineRepo{db: db}
}

func (r *salesLineRepo) DeleteByReport(ctx context.Context, reportID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM sales_lines WHERE report_id = $1", reportID)
	if err != nil {
		return fmt.Errorf("salesLineRepo.DeleteByReport: %w", err)
	}
	return nil
}

func (r *salesLineRepo) CreateBatch(ctx context.Context, lines []domain.SalesLine) error {
	if len(lines) == 0 {
		return nil
	}

	now := time.Now().UTC()
	valueStrings := make([]string, 0, len(lines))
	valueArgs := make([]interface{}, 0, len(lines)*13)

	for i, line := range lines {
		line.CreatedAt = now
		base := i * 13
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
			base+8, base+9, base+10, base+11, base+12, base+13))
		valueArgs = append(valueArgs,
			line.ID, line.ReportID, line.ProductID,
			line.ProductNameRaw, line.ProductName,
			line.CategoryID, line.CategoryName,
			line.Quantity, line.Amount, line.UnitPrice,
			line.PeriodKey, line.ReportDate, line.CreatedAt)
	}

	query := fmt.Sprintf(
		`INSERT INTO sales_lines (
			id, report_id, product_id,
			product_name_raw, product_name,
			category_id, category_name,
			quantity, amount, unit_price,
			period_key, report_date, created_at
		) VALUES %s`,
		strings.Join(valueStrings, ", "))

	_, err := r.db.ExecContext(ctx, query, valueArgs...)
	if err != nil {
		return fmt.Errorf("salesLineRepo.CreateBatch: %w", err)
	}
	return nil
}

func (r *salesLineRepo) ListByReport(ctx context.Context, reportID uuid.UUID, offset, limit int) ([]domain.SalesLine, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM sales_lines WHERE report_id = $1", reportID)
	if err != nil {
		return nil, 0, fmt.Errorf("salesLineRepo.ListByReport count: %w", err)
	}

	var lines []domain.SalesLine
	err = r.db.SelectContext(ctx, &lines,
		`SELECT * FROM sales_lines WHERE report_id = $1
		 ORDER BY created_at, id LIMIT $2 OFFSET $3`,
		reportID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("salesLineRepo.ListByReport: %w", err)
	}
	return lines, total, nil
}
