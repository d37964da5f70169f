package service

import (
	"context"

	"github.com/google/uuid"

	"salesfeed/internal/domain"
	"salesfeed/internal/port"
)

// CreateWorkspaceInput is the DTO for workspace creation.
type CreateWorkspaceInput struct {
	Name string
	Slug string
}

// WorkspaceService defines the workspace management contract.
type WorkspaceService interface {
	Create(ctx context.Context, input CreateWorkspaceInput) (*domain.Workspace, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error)
	List(ctx context.Context, offset, limit int) ([]domain.Workspace, int, error)
}

type workspaceService struct {
	workspaceRepo port.WorkspaceRepository
}

// NewWorkspaceService creates a new WorkspaceService implementation.
func NewWorkspaceService(workspaceRepo port.WorkspaceRepository) WorkspaceService {
	return &workspaceService{workspaceRepo: workspaceRepo}
}

func (s *workspaceService) Create(ctx context.Context, input CreateWorkspaceInput) (*domain.Workspace, error) {
	workspace := &domain.Workspace{
		ID:       uuid.New(),
		Name:     input.Name,
		Slug:     input.Slug,
		IsActive: true,
	}
	if err := s.workspaceRepo.Create(ctx, workspace); err != nil {
		return nil, err
	}
	return workspace, nil
}

func (s *workspaceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	return s.workspaceRepo.GetByID(ctx, id)
}

func (s *workspaceService) List(ctx context.Context, offset, limit int) ([]domain.Workspace, int, error) {
	return s.workspaceRepo.List(ctx, offset, limit)
}
