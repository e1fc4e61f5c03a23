package repository

import (
	"context"

	"github.com/sangkips/pharmabill-api/internal/domain/entity"
	"github.com/sangkips/pharmabill-api/pkg/pagination"
)

// SubmissionRepository is the ledger of sale submissions
type SubmissionRepository interface {
	// GetByKey returns the submission stored under an idempotency key, or nil
	GetByKey(ctx context.Context, key string) (*entity.SaleSubmission, error)
	Create(ctx context.Context, s *entity.SaleSubmission) error
	Update(ctx context.Context, s *entity.SaleSubmission) error
	// ListByEmployee returns an operator's submissions, newest first
	ListByEmployee(ctx context.Context, employeeID int64, params *pagination.PaginationParams) ([]entity.SaleSubmission, int64, error)
}
