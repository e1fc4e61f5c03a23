package request

import (
	"github.com/sangkips/pharmabill-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SwitchBillRequest selects the active bill tab
type SwitchBillRequest struct {
	Index *int `json:"index" binding:"required,min=0,max=2"`
}

// UpdateCustomerRequest sets one customer field of the active bill
type UpdateCustomerRequest struct {
	Field string `json:"field" binding:"required,oneof=customer_name contact_number payment_method"`
	Value string `json:"value" binding:"max=255"`
}

// SuggestionRequest is the query string of the suggestion endpoint
type SuggestionRequest struct {
	Query string `form:"query" binding:"max=100"`
}

// SelectMedicineRequest picks a suggestion for the pending line item
type SelectMedicineRequest struct {
	MedicineID entity.MedicineID `json:"medicine_id" binding:"required"`
}

// DraftRequest edits the pending line item. Absent fields are left unchanged.
type DraftRequest struct {
	SellPrice *decimal.Decimal `json:"sell_price"`
	Quantity  *int             `json:"quantity"`
}

// SubmissionListRequest represents submission list parameters
type SubmissionListRequest struct {
	Page    int `form:"page"`
	PerPage int `form:"per_page"`
}
