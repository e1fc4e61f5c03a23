package service

import (
	"github.com/sangkips/pharmabill-api/internal/domain/entity"
	"github.com/sangkips/pharmabill-api/pkg/apperror"
)

// priceDecimals is the precision the backend accepts for a sale rate
const priceDecimals = 2

// ValidateLineItem checks a draft before it is added to a bill and returns the
// resulting line item. Checks run in a fixed order and the first failure wins:
// price below cost, insufficient stock, no medicine selected, quantity below one.
// The sell price is rounded to paise before the cost check, so the admitted
// price is exactly the rate that gets posted.
func ValidateLineItem(draft *entity.LineItemDraft) (entity.LineItem, error) {
	if draft == nil {
		return entity.LineItem{}, apperror.ErrNoSelection
	}

	price := draft.SellPrice.Round(priceDecimals)
	if price.LessThan(draft.PurchasePrice) {
		return entity.LineItem{}, apperror.ErrPriceBelowCost.Withf(
			"Selling price %s cannot be lower than the purchase price %s",
			price.StringFixed(priceDecimals), draft.PurchasePrice.String())
	}

	if draft.Quantity > draft.StockQuantity {
		return entity.LineItem{}, apperror.ErrInsufficientStock.Withf(
			"Quantity %d exceeds available stock of %d", draft.Quantity, draft.StockQuantity)
	}

	if draft.MedicineID.IsZero() {
		return entity.LineItem{}, apperror.ErrNoSelection
	}

	if draft.Quantity < 1 {
		return entity.LineItem{}, apperror.ErrInvalidQuantity
	}

	return entity.LineItem{
		MedicineID:   draft.MedicineID,
		MedicineName: draft.MedicineName,
		BatchNo:      draft.BatchNo,
		Quantity:     draft.Quantity,
		PricePerUnit: price,
	}, nil
}
