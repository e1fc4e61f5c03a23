package service

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/sangkips/pharmabill-api/internal/config"
	"github.com/sangkips/pharmabill-api/internal/domain/entity"
	"github.com/sangkips/pharmabill-api/internal/domain/enum"
	"github.com/sangkips/pharmabill-api/internal/domain/repository"
	"github.com/sangkips/pharmabill-api/pkg/apperror"
	"github.com/sangkips/pharmabill-api/pkg/pagination"
	"github.com/sangkips/pharmabill-api/pkg/utils"
	"github.com/sethvargo/go-retry"
	"golang.org/x/crypto/blake2b"
)

const defaultSaleMessage = "Sale created successfully"

// SubmissionService posts finalised bills to the pharmacy backend and keeps
// a ledger of every attempt.
type SubmissionService struct {
	ledger     repository.SubmissionRepository
	maxRetries uint64
	baseDelay  time.Duration
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(ledger repository.SubmissionRepository, cfg *config.BackendConfig) *SubmissionService {
	baseDelay := cfg.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	return &SubmissionService{
		ledger:     ledger,
		maxRetries: cfg.MaxRetries,
		baseDelay:  baseDelay,
	}
}

// SubmitInput is one submit action for a bill slot
type SubmitInput struct {
	Operator       entity.Operator
	Backend        repository.SaleRepository
	Slot           int
	Bill           entity.Bill
	IdempotencyKey string
}

// SubmitOutcome describes a completed sale
type SubmitOutcome struct {
	Submission *entity.SaleSubmission `json:"submission"`
	Message    string                 `json:"message"`
	Replayed   bool                   `json:"replayed"`
}

// Submit maps the bill to a sale and posts it. The same idempotency key is
// sent on every attempt; transient failures are retried with exponential
// backoff. A key that already succeeded returns the recorded outcome without
// posting again.
func (s *SubmissionService) Submit(ctx context.Context, input *SubmitInput) (*SubmitOutcome, error) {
	if len(input.Bill.LineItems) == 0 {
		return nil, apperror.ErrEmptyBill
	}

	key := input.IdempotencyKey
	if key == "" {
		key = utils.NewIdempotencyKey()
	}

	payload := entity.NewSalePayload(input.Bill, input.Operator.EmployeeID)
	hash, err := hashPayload(payload)
	if err != nil {
		return nil, err
	}

	sub, err := s.ledger.GetByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("reading submission ledger: %w", err)
	}

	if sub != nil {
		if sub.EmployeeID != input.Operator.EmployeeID || sub.RequestHash != hash {
			return nil, apperror.NewConflictError("Idempotency key was already used for a different sale")
		}
		switch sub.Status {
		case enum.SubmissionStatusSucceeded:
			return &SubmitOutcome{Submission: sub, Message: sub.Message, Replayed: true}, nil
		case enum.SubmissionStatusPending:
			return nil, apperror.NewConflictError("This sale is already being submitted")
		}
		sub.Status = enum.SubmissionStatusPending
		sub.Slot = input.Slot
		if err := s.ledger.Update(ctx, sub); err != nil {
			return nil, fmt.Errorf("updating submission ledger: %w", err)
		}
	} else {
		sub = &entity.SaleSubmission{
			IdempotencyKey: key,
			Reference:      utils.GenerateBillReference(key),
			EmployeeID:     input.Operator.EmployeeID,
			Slot:           input.Slot,
			CustomerName:   input.Bill.CustomerName,
			ContactNumber:  input.Bill.ContactNumber,
			PaymentMethod:  payload.PaymentMethod,
			ItemCount:      len(input.Bill.LineItems),
			TotalAmount:    input.Bill.TotalAmount(),
			Status:         enum.SubmissionStatusPending,
			RequestHash:    hash,
		}
		if err := s.ledger.Create(ctx, sub); err != nil {
			return nil, fmt.Errorf("recording submission: %w", err)
		}
	}

	var result *entity.SaleResult
	backoff := retry.WithMaxRetries(s.maxRetries, retry.NewExponential(s.baseDelay))
	postErr := retry.Do(ctx, backoff, func(ctx context.Context) error {
		sub.Attempts++
		res, err := input.Backend.CreateSale(ctx, payload, key)
		if err != nil {
			if apperror.IsTransient(err) {
				log.Printf("Sale %s attempt %d failed, retrying: %v", sub.Reference, sub.Attempts, err)
				return retry.RetryableError(err)
			}
			return err
		}
		result = res
		return nil
	})

	if postErr != nil {
		sub.Status = enum.SubmissionStatusFailed
		sub.Message = postErr.Error()
		s.record(ctx, sub)
		log.Printf("Sale %s failed after %d attempt(s): %v", sub.Reference, sub.Attempts, postErr)
		return nil, postErr
	}

	sub.Status = enum.SubmissionStatusSucceeded
	sub.Message = defaultSaleMessage
	if result != nil && result.Message != "" {
		sub.Message = result.Message
	}
	s.record(ctx, sub)

	return &SubmitOutcome{Submission: sub, Message: sub.Message}, nil
}

// ListSubmissions returns an operator's ledger entries, newest first
func (s *SubmissionService) ListSubmissions(ctx context.Context, employeeID int64, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.SaleSubmission], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	items, total, err := s.ledger.ListByEmployee(ctx, employeeID, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(items, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// record writes the final state of a submission. The sale outcome stands
// even when the ledger write fails.
func (s *SubmissionService) record(ctx context.Context, sub *entity.SaleSubmission) {
	if err := s.ledger.Update(context.WithoutCancel(ctx), sub); err != nil {
		log.Printf("Failed to update submission %s: %v", sub.Reference, err)
	}
}

func hashPayload(p *entity.SalePayload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshaling sale: %w", err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
