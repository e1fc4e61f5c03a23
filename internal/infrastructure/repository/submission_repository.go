package repository

import (
	"context"
	"errors"

	"github.com/sangkips/pharmabill-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pharmabill-api/internal/domain/repository"
	"github.com/sangkips/pharmabill-api/pkg/pagination"
	"gorm.io/gorm"
)

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a gorm backed submission ledger
func NewSubmissionRepository(db *gorm.DB) domainRepo.SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) GetByKey(ctx context.Context, key string) (*entity.SaleSubmission, error) {
	var s entity.SaleSubmission
	err := r.db.WithContext(ctx).First(&s, "idempotency_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *submissionRepository) Create(ctx context.Context, s *entity.SaleSubmission) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *submissionRepository) Update(ctx context.Context, s *entity.SaleSubmission) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *submissionRepository) ListByEmployee(ctx context.Context, employeeID int64, params *pagination.PaginationParams) ([]entity.SaleSubmission, int64, error) {
	var submissions []entity.SaleSubmission
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.SaleSubmission{}).Scopes(EmployeeScope(employeeID))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params)).
		Order("created_at DESC").
		Find(&submissions).Error

	return submissions, total, err
}
