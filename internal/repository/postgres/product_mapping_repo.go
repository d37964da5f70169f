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

type productMappingRepo struct {
	db *sqlx.DB
}

// NewProductMappingRepo creates a new PostgreSQL-backed ProductMappingRepository.
func NewProductMappingRepo(db *sqlx.DB) port.ProductMappingRepository {
	return &productMappingRepo{db: db}
}

func (r *productMappingRepo) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.ProductMapping, error) {
	var mappings []domain.ProductMapping
	err := r.db.SelectContext(ctx, &mappings,
		"SELECT * FROM product_mappings WHERE workspace_id = $1 ORDER BY normalized_name",
		workspaceID)
	if err != nil {
		return nil, fmt.Errorf("productMappingRepo.ListByWorkspace: %w", err)
	}
	return mappings, nil
}

func (r *productMappingRepo) UpsertBatch(ctx context.Context, mappings []domain.ProductMapping) error {
	if len(mappings) == 0 {
		return nil
	}

	now := time.Now().UTC()
	valueStrings := make([]string, 0, len(mappings))
	valueArgs := make([]interface{}, 0, len(mappings)*5)

	for i, m := range mappings {
		base := i * 5
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5))
		valueArgs = append(valueArgs,
			m.ID, m.WorkspaceID, m.NormalizedName, m.ProductID, now)
	}

	query := fmt.Sprintf(
		`INSERT INTO product_mappings (
			id, workspace_id, normalized_name, product_id, created_at
		) VALUES %s
		ON CONFLICT (workspace_id, normalized_name)
		DO UPDATE SET product_id = EXCLUDED.product_id`,
		strings.Join(valueStrings, ", "))

	_, err := r.db.ExecContext(ctx, query, valueArgs...)
	if err != nil {
		return fmt.Errorf("productMappingRepo.UpsertBatch: %w", err)
	}
	return nil
}
