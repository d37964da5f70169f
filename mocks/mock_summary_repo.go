package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"salesfeed/internal/domain"
)

// MockSummaryRepo is a mock implementation of port.SummaryRepository.
type MockSummaryRepo struct {
	mock.Mock
}

func (m *MockSummaryRepo) UpsertProductSummaries(ctx context.Context, summaries []domain.MonthlyProductSummary) error {
	args := m.Called(ctx, summaries)
	return args.Error(0)
}

func (m *MockSummaryRepo) UpsertCategorySummaries(ctx context.Context, summaries []domain.MonthlyCategorySummary) error {
	args := m.Called(ctx, summaries)
	return args.Error(0)
}

func (m *MockSummaryRepo) ListProductSummaries(ctx context.Context, workspaceID uuid.UUID, periodKey string) ([]domain.MonthlyProductSummary, error) {
	args := m.Called(ctx, workspaceID, periodKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyProductSummary), args.Error(1)
}

func (m *MockSummaryRepo) ListCategorySummaries(ctx context.Context, workspaceID uuid.UUID, periodKey string) ([]domain.MonthlyCategorySummary, error) {
	args := m.Called(ctx, workspaceID, periodKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyCategorySummary), args.Error(1)
}
