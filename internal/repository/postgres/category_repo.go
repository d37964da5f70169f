package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"salesfeed/internal/domain"
	"salesfeed/internal/port"
)

type categoryRepo struct {
	db *sqlx.DB
}

// NewCategoryRepo creates a new PostgreSQL-backed CategoryRepository.
func NewCategoryRepo(db *sqlx.DB) port.CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.db.SelectContext(ctx, &categories,
		"SELECT * FROM categories WHERE workspace_id = $1 ORDER BY name",
		workspaceID)
	if err != nil {
		return nil, fmt.Errorf("categoryRepo.ListByWorkspace: %w", err)
	}
	return categories, nil
}
