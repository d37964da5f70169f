package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"salesfeed/internal/domain"
)

// MockSalesLineRepo is a mock implementation of port.SalesLineRepository.
type MockSalesLineRepo struct {
	mock.Mock
}

func (m *MockSalesLineRepo) DeleteByReport(ctx context.Context, reportID uuid.UUID) error {
	args := m.Called(ctx, reportID)
	return args.Error(0)
}

func (m *MockSalesLineRepo) CreateBatch(ctx context.Context, lines []domain.SalesLine) error {
	args := m.Called(ctx, lines)
	return args.Error(0)
}

func (m *MockSalesLineRepo) ListByReport(ctx context.Context, reportID uuid.UUID, offset, limit int) ([]domain.SalesLine, int, error) {
	args := m.Called(ctx, reportID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.SalesLine), args.Int(1), args.Error(2)
}
