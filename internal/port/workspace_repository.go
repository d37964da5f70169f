package port

import (
	"context"

	"github.com/google/uuid"

	"salesfeed/internal/domain"
)

// WorkspaceRepository defines the contract for workspace persistence.
type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *domain.Workspace) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Workspace, error)
	List(ctx context.Context, offset, limit int) ([]domain.Workspace, int, error)
}
