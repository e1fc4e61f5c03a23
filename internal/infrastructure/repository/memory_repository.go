package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pharmabill-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pharmabill-api/internal/domain/repository"
	"github.com/sangkips/pharmabill-api/pkg/apperror"
	"github.com/sangkips/pharmabill-api/pkg/pagination"
)

// memorySubmissionRepository keeps the ledger in process memory. It is used
// when no database is configured; rows are lost on restart.
type memorySubmissionRepository struct {
	mu   sync.RWMutex
	rows map[string]*entity.SaleSubmission
	now  func() time.Time
}

// NewMemorySubmissionRepository creates an in-memory submission ledger
func NewMemorySubmissionRepository() domainRepo.SubmissionRepository {
	return &memorySubmissionRepository{
		rows: make(map[string]*entity.SaleSubmission),
		now:  time.Now,
	}
}

func (r *memorySubmissionRepository) GetByKey(_ context.Context, key string) (*entity.SaleSubmission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.rows[key]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *memorySubmissionRepository) Create(_ context.Context, s *entity.SaleSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[s.IdempotencyKey]; ok {
		return apperror.NewConflictError("Submission already recorded for this idempotency key")
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := r.now()
	s.CreatedAt = now
	s.UpdatedAt = now
	cp := *s
	r.rows[s.IdempotencyKey] = &cp
	return nil
}

func (r *memorySubmissionRepository) Update(_ context.Context, s *entity.SaleSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[s.IdempotencyKey]; !ok {
		return apperror.NewNotFoundError("Submission")
	}
	s.UpdatedAt = r.now()
	cp := *s
	r.rows[s.IdempotencyKey] = &cp
	return nil
}

func (r *memorySubmissionRepository) ListByEmployee(_ context.Context, employeeID int64, params *pagination.PaginationParams) ([]entity.SaleSubmission, int64, error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	r.mu.RLock()
	var matched []entity.SaleSubmission
	for _, s := range r.rows {
		if s.EmployeeID == employeeID {
			matched = append(matched, *s)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := params.Offset()
	if start >= len(matched) {
		return []entity.SaleSubmission{}, total, nil
	}
	end := start + params.PerPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// memoryIdempotencyRepository is the in-memory replay cache
type memoryIdempotencyRepository struct {
	mu   sync.Mutex
	keys map[memoryKey]*entity.IdempotencyKey
	now  func() time.Time
}

type memoryKey struct {
	key        string
	employeeID int64
}

// NewMemoryIdempotencyRepository creates an in-memory idempotency repository
func NewMemoryIdempotencyRepository() domainRepo.IdempotencyRepository {
	return &memoryIdempotencyRepository{
		keys: make(map[memoryKey]*entity.IdempotencyKey),
		now:  time.Now,
	}
}

func (r *memoryIdempotencyRepository) GetByKey(_ context.Context, key string, employeeID int64) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ikey, ok := r.keys[memoryKey{key, employeeID}]
	if !ok {
		return nil, nil
	}
	cp := *ikey
	return &cp, nil
}

func (r *memoryIdempotencyRepository) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := memoryKey{ikey.Key, ikey.EmployeeID}
	if _, ok := r.keys[k]; ok {
		return apperror.NewConflictError("Idempotency key already used")
	}
	if ikey.ID == uuid.Nil {
		ikey.ID = uuid.New()
	}
	ikey.CreatedAt = r.now()
	cp := *ikey
	r.keys[k] = &cp
	return nil
}

func (r *memoryIdempotencyRepository) DeleteExpired(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for k, ikey := range r.keys {
		if now.After(ikey.ExpiresAt) {
			delete(r.keys, k)
		}
	}
	return nil
}
