package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"salesfeed/internal/domain"
	"salesfeed/internal/port"
)

type workspaceRepo struct {
	db *sqlx.DB
}

// NewWorkspaceRepo creates a new PostgreSQL-backed WorkspaceRepository.
func NewWorkspaceRepo(db *sqlx.DB) port.WorkspaceRepository {
	return &workspaceRepo{db: db}
}

func (r *workspaceRepo) Create(ctx context.Context, workspace *domain.Workspace) error {
	now := time.Now().UTC()
	workspace.CreatedAt = now
	workspace.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO workspaces (id, name, slug, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		workspace.ID, workspace.Name, workspace.Slug, workspace.IsActive,
		workspace.CreatedAt, workspace.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") && strings.Contains(err.Error(), "slug") {
			return domain.ErrDuplicateSlug
		}
		return fmt.Errorf("workspaceRepo.Create: %w", err)
	}
	return nil
}

func (r *workspaceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	var workspace domain.Workspace
	err := r.db.GetContext(ctx, &workspace,
		"SELECT * FROM workspaces WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("workspaceRepo.GetByID: %w", err)
	}
	return &workspace, nil
}

func (r *workspaceRepo) GetBySlug(ctx context.Context, slug string) (*domain.Workspace, error) {
	var workspace domain.Workspace
	err := r.db.GetContext(ctx, &workspace,
		"SELECT * FROM workspaces WHERE slug = $1", slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("workspaceRepo.GetBySlug: %w", err)
	}
	return &workspace, nil
}

func (r *workspaceRepo) List(ctx context.Context, offset, limit int) ([]domain.Workspace, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM workspaces")
	if err != nil {
		return nil, 0, fmt.Errorf("workspaceRepo.List count: %w", err)
	}

	var workspaces []domain.Workspace
	err = r.db.SelectContext(ctx, &workspaces,
		"SELECT * FROM workspaces ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("workspaceRepo.List: %w", err)
	}
	return workspaces, total, nil
}
