package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"salesfeed/internal/domain"
)

// MockProductRepo is a mock implementation of port.ProductRepository.
type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Product, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

// MockAllyRepo is a mock implementation of port.AllyRepository.
type MockAllyRepo struct {
	mock.Mock
}

func (m *MockAllyRepo) List(ctx context.Context) ([]domain.Ally, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ally), args.Error(1)
}

// MockProductMappingRepo is a mock implementation of port.ProductMappingRepository.
type MockProductMappingRepo struct {
	mock.Mock
}

func (m *MockProductMappingRepo) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.ProductMapping, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProductMapping), args.Error(1)
}

func (m *MockProductMappingRepo) UpsertBatch(ctx context.Context, mappings []domain.ProductMapping) error {
	args := m.Called(ctx, mappings)
	return args.Error(0)
}

// MockCategoryRepo is a mock implementation of port.CategoryRepository.
type MockCategoryRepo struct {
	mock.Mock
}

func (m *MockCategoryRepo) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Category, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}
