package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sangkips/pharmabill-api/internal/domain/entity"
	"github.com/sangkips/pharmabill-api/internal/domain/repository"
)

// MockPharmacyBackend is a mock implementation of repository.PharmacyBackend.
type MockPharmacyBackend struct {
	mock.Mock
}

func (m *MockPharmacyBackend) Recommend(ctx context.Context, query string) ([]entity.MedicineCandidate, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.MedicineCandidate), args.Error(1)
}

func (m *MockPharmacyBackend) GetDetail(ctx context.Context, id entity.MedicineID) (*entity.MedicineDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.MedicineDetail), args.Error(1)
}

func (m *MockPharmacyBackend) CreateSale(ctx context.Context, sale *entity.SalePayload, idempotencyKey string) (*entity.SaleResult, error) {
	args := m.Called(ctx, sale, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SaleResult), args.Error(1)
}

// MockBackendProvider is a mock implementation of repository.BackendProvider.
type MockBackendProvider struct {
	mock.Mock
}

func (m *MockBackendProvider) ForToken(token string) repository.PharmacyBackend {
	args := m.Called(token)
	return args.Get(0).(repository.PharmacyBackend)
}
