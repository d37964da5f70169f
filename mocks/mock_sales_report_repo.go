package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"salesfeed/internal/domain"
)

// MockSalesReportRepo is a mock implementation of port.SalesReportRepository.
type MockSalesReportRepo struct {
	mock.Mock
}

func (m *MockSalesReportRepo) Create(ctx context.Context, report *domain.SalesReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockSalesReportRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.SalesReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SalesReport), args.Error(1)
}

func (m *MockSalesReportRepo) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, offset, limit int) ([]domain.SalesReport, int, error) {
	args := m.Called(ctx, workspaceID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.SalesReport), args.Int(1), args.Error(2)
}

func (m *MockSalesReportRepo) ListByStatus(ctx context.Context, status domain.ReportStatus, limit int) ([]domain.SalesReport, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SalesReport), args.Error(1)
}

func (m *MockSalesReportRepo) Update(ctx context.Context, report *domain.SalesReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockSalesReportRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.ReportStatus, errorMessage string) error {
	args := m.Called(ctx, id, status, errorMessage)
	return args.Error(0)
}

func (m *MockSalesReportRepo) SetNeedsMapping(ctx context.Context, id uuid.UUID, unmapped domain.StringList) error {
	args := m.Called(ctx, id, unmapped)
	return args.Error(0)
}

func (m *MockSalesReportRepo) FinalizeProcessed(ctx context.Context, id uuid.UUID, totalAmount, totalQuantity float64, unmapped domain.StringList) error {
	args := m.Called(ctx, id, totalAmount, totalQuantity, unmapped)
	return args.Error(0)
}
