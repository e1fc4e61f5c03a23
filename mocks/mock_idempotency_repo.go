package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sangkips/pharmabill-api/internal/domain/entity"
)

// MockIdempotencyRepository is a mock implementation of repository.IdempotencyRepository.
type MockIdempotencyRepository struct {
	mock.Mock
}

func (m *MockIdempotencyRepository) GetByKey(ctx context.Context, key string, employeeID int64) (*entity.IdempotencyKey, error) {
	args := m.Called(ctx, key, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.IdempotencyKey), args.Error(1)
}

func (m *MockIdempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	args := m.Called(ctx, ikey)
	return args.Error(0)
}

func (m *MockIdempotencyRepository) DeleteExpired(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
