package repository

import (
	"context"

	"github.com/sangkips/pharmabill-api/internal/domain/entity"
)

// MedicineRepository looks up medicines on the pharmacy backend
type MedicineRepository interface {
	// Recommend returns medicines whose names match a partial query
	Recommend(ctx context.Context, query string) ([]entity.MedicineCandidate, error)
	// GetDetail returns the pricing and stock record of one medicine
	GetDetail(ctx context.Context, id entity.MedicineID) (*entity.MedicineDetail, error)
}

// SaleRepository creates sales on the pharmacy backend
type SaleRepository interface {
	// CreateSale posts one sale. The idempotency key is sent with every attempt.
	CreateSale(ctx context.Context, sale *entity.SalePayload, idempotencyKey string) (*entity.SaleResult, error)
}

// PharmacyBackend is the backend as seen by one authenticated operator
type PharmacyBackend interface {
	MedicineRepository
	SaleRepository
}

// BackendProvider hands out backend clients bound to an operator's bearer token
type BackendProvider interface {
	ForToken(token string) PharmacyBackend
}
