package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"salesfeed/internal/domain"
	"salesfeed/internal/port"
)

type productRepo struct {
	db *sqlx.DB
}

// NewProductRepo creates a new PostgreSQL-backed ProductRepository.
func NewProductRepo(db *sqlx.DB) port.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE workspace_id = $1 ORDER BY created_at, id",
		workspaceID)
	if err != nil {
		return nil, fmt.Errorf("productRepo.ListByWorkspace: %w", err)
	}
	return products, nil
}
