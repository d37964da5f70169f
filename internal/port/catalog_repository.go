package port

import (
	"context"

	"github.com/google/uuid"

	"salesfeed/internal/domain"
)

// ProductRepository reads the canonical catalog for a workspace.
type ProductRepository interface {
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Product, error)
}

// AllyRepository reads the global highest-priority name mappings.
type AllyRepository interface {
	List(ctx context.Context) ([]domain.Ally, error)
}

// ProductMappingRepository manages workspace-scoped persisted name mappings,
// typically seeded from resolved report mappings.
type ProductMappingRepository interface {
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.ProductMapping, error)
	UpsertBatch(ctx context.Context, mappings []domain.ProductMapping) error
}

// CategoryRepository reads category labels for line snapshots and summaries.
type CategoryRepository interface {
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Category, error)
}
