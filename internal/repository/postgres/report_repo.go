package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"salesfeed/internal/domain"
	"salesfeed/internal/port"
)

type salesReportRepo struct {
	db *sqlx.DB
}

// NewSalesReportRepo creates a new PostgreSQL-backed SalesReportRepository.
func NewSalesReportRepo(db *sqlx.DB) port.SalesReportRepository {
	return &salesReportRepo{db: db}
}

func (r *salesReportRepo) Create(ctx context.Context, report *domain.SalesReport) error {
	now := time.Now().UTC()
	report.CreatedAt = now
	report.UpdatedAt = now

	query := `INSERT INTO sales_reports (
		id, workspace_id, report_date, period_key, status,
		source_bucket, source_key, original_name, file_type,
		column_mapping, product_mapping, unmapped_products,
		total_amount, total_quantity, error_message,
		created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9,
		$10, $11, $12,
		$13, $14, $15,
		$16, $17
	)`

	_, err := r.db.ExecContext(ctx, query,
		report.ID, report.WorkspaceID, report.ReportDate, report.PeriodKey, report.Status,
		report.SourceBucket, report.SourceKey, report.OriginalName, report.FileType,
		report.ColumnMapping, report.ProductMapping, report.UnmappedProducts,
		report.TotalAmount, report.TotalQuantity, report.ErrorMessage,
		report.CreatedAt, report.UpdatedAt)
	if err != nil {
		return fmt.Errorf("salesReportRepo.Create: %w", err)
	}
	return nil
}

func (r *salesReportRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.SalesReport, error) {
	var report domain.SalesReport
	err := r.db.GetContext(ctx, &report,
		"SELECT * FROM sales_reports WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("salesReportRepo.GetByID: %w", err)
	}
	return &report, nil
}

func (r *salesReportRepo) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, offset, limit int) ([]domain.SalesReport, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM sales_reports WHERE workspace_id = $1", workspaceID)
	if err != nil {
		return nil, 0, fmt.Errorf("salesReportRepo.ListByWorkspace count: %w", err)
	}

	var reports []domain.SalesReport
	err = r.db.SelectContext(ctx, &reports,
		`SELECT * FROM sales_reports WHERE workspace_id = $1
		 ORDER BY report_date DESC, created_at DESC LIMIT $2 OFFSET $3`,
		workspaceID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("salesReportRepo.ListByWorkspace: %w", err)
	}
	return reports, total, nil
}

func (r *salesReportRepo) ListByStatus(ctx context.Context, status domain.ReportStatus, limit int) ([]domain.SalesReport, error) {
	var reports []domain.SalesReport
	err := r.db.SelectContext(ctx, &reports,
		`SELECT * FROM sales_reports WHERE status = $1
		 ORDER BY updated_at ASC LIMIT $2`,
		status, limit)
	if err != nil {
		return nil, fmt.Errorf("salesReportRepo.ListByStatus: %w", err)
	}
	return reports, nil
}

func (r *salesReportRepo) Update(ctx context.Context, report *domain.SalesReport) error {
	report.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE sales_reports SET
			status = $1, column_mapping = $2, product_mapping = $3,
			report_date = $4, period_key = $5, updated_at = $6
		 WHERE id = $7`,
		report.Status, report.ColumnMapping, report.ProductMapping,
		report.ReportDate, report.PeriodKey, report.UpdatedAt,
		report.ID)
	if err != nil {
		return fmt.Errorf("salesReportRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrReportNotFound
	}
	return nil
}

func (r *salesReportRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.ReportStatus, errorMessage string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sales_reports SET status = $1, error_message = $2, updated_at = $3
		 WHERE id = $4`,
		status, errorMessage, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("salesReportRepo.SetStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrReportNotFound
	}
	return nil
}

func (r *salesReportRepo) SetNeedsMapping(ctx context.Context, id uuid.UUID, unmapped domain.StringList) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sales_reports SET
			status = $1, unmapped_products = $2, error_message = '', updated_at = $3
		 WHERE id = $4`,
		domain.ReportStatusNeedsMapping, unmapped, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("salesReportRepo.SetNeedsMapping: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrReportNotFound
	}
	return nil
}

func (r *salesReportRepo) FinalizeProcessed(ctx context.Context, id uuid.UUID, totalAmount, totalQuantity float64, unmapped domain.StringList) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sales_reports SET
			status = $1, total_amount = $2, total_quantity = $3,
			unmapped_products = $4, error_message = '', updated_at = $5
		 WHERE id = $6`,
		domain.ReportStatusProcessed, totalAmount, totalQuantity,
		unmapped, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("salesReportRepo.FinalizeProcessed: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrReportNotFound
	}
	return nil
}
