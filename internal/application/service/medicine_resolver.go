package service

import (
	"context"
	"log"

	"github.com/sangkips/pharmabill-api/internal/domain/entity"
	"github.com/sangkips/pharmabill-api/internal/domain/repository"
	"github.com/sangkips/pharmabill-api/pkg/apperror"
)

// ResolveMedicine fetches the record of a selected medicine and turns it into
// a line item draft. Errors are returned unchanged so callers can show the
// backend's message.
func ResolveMedicine(ctx context.Context, source repository.MedicineRepository, id entity.MedicineID) (*entity.LineItemDraft, error) {
	if id.IsZero() {
		return nil, apperror.ErrNoSelection
	}

	detail, err := source.GetDetail(ctx, id)
	if err != nil {
		log.Printf("Medicine lookup failed (id %s): %v", id, err)
		return nil, err
	}
	if detail == nil {
		return nil, apperror.NewNotFoundError("Medicine")
	}
	if detail.MedicineID.IsZero() {
		detail.MedicineID = id
	}

	return entity.NewLineItemDraft(detail), nil
}
