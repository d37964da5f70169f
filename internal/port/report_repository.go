package port

import (
	"context"

	"github.com/google/uuid"

	"salesfeed/internal/domain"
)

// SalesReportRepository defines the contract for sales report persistence.
// The report row is the pipeline's control surface, so writes are split into
// the operator-facing Update and the processor-owned status mutations.
type SalesReportRepository interface {
	Create(ctx context.Context, report *domain.SalesReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SalesReport, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, offset, limit int) ([]domain.SalesReport, int, error)
	ListByStatus(ctx context.Context, status domain.ReportStatus, limit int) ([]domain.SalesReport, error)

	// Update persists operator-supplied control fields: status,
	// column_mapping and product_mapping.
	Update(ctx context.Context, report *domain.SalesReport) error

	// SetStatus moves a report between pipeline states, clearing or
	// recording the error message.
	SetStatus(ctx context.Context, id uuid.UUID, status domain.ReportStatus, errorMessage string) error

	// SetNeedsMapping parks a report awaiting operator mappings.
	SetNeedsMapping(ctx context.Context, id uuid.UUID, unmapped domain.StringList) error

	// FinalizeProcessed applies the terminal commit: processed status,
	// totals, and the residual unmapped list, in one write.
	FinalizeProcessed(ctx context.Context, id uuid.UUID, totalAmount, totalQuantity float64, unmapped domain.StringList) error
}

// SalesLineRepository defines the contract for normalized sales lines. Line
// sets are replaced wholesale per run; batch inserts are committed chunk by
// chunk by the caller.
type SalesLineRepository interface {
	DeleteByReport(ctx context.Context, reportID uuid.UUID) error
	CreateBatch(ctx context.Context, lines []domain.SalesLine) error
	ListByReport(ctx context.Context, reportID uuid.UUID, offset, limit int) ([]domain.SalesLine, int, error)
}
