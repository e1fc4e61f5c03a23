package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sangkips/pharmabill-api/internal/domain/entity"
	"github.com/sangkips/pharmabill-api/pkg/pagination"
)

// MockSubmissionRepository is a mock implementation of repository.SubmissionRepository.
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) GetByKey(ctx context.Context, key string) (*entity.SaleSubmission, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SaleSubmission), args.Error(1)
}

func (m *MockSubmissionRepository) Create(ctx context.Context, s *entity.SaleSubmission) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSubmissionRepository) Update(ctx context.Context, s *entity.SaleSubmission) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSubmissionRepository) ListByEmployee(ctx context.Context, employeeID int64, params *pagination.PaginationParams) ([]entity.SaleSubmission, int64, error) {
	args := m.Called(ctx, employeeID, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.SaleSubmission), args.Get(1).(int64), args.Error(2)
}
