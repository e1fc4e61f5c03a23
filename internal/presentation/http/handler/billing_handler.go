package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmabill-api/internal/application/service"
	"github.com/sangkips/pharmabill-api/internal/domain/entity"
	"github.com/sangkips/pharmabill-api/internal/presentation/http/dto/request"
	"github.com/sangkips/pharmabill-api/internal/presentation/http/dto/response"
	"github.com/sangkips/pharmabill-api/pkg/pagination"
)

// BillingHandler handles bill composition HTTP requests
type BillingHandler struct {
	billingService *service.BillingService
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// GetSession returns the operator's bills, draft, suggestions and notices
func (h *BillingHandler) GetSession(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	response.OK(c, "Billing session retrieved", h.billingService.GetSession(op))
}

// SwitchActive makes another bill tab active
func (h *BillingHandler) SwitchActive(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.SwitchBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	view, err := h.billingService.SwitchActive(op, *req.Index)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Active bill switched", view)
}

// ClearActive discards the active bill
func (h *BillingHandler) ClearActive(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	view, err := h.billingService.ClearActive(op)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Bill cleared", view)
}

// UpdateCustomer sets customer name, contact number or payment method
func (h *BillingHandler) UpdateCustomer(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	view, err := h.billingService.UpdateCustomerField(op, entity.CustomerField(req.Field), req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Bill updated", view)
}

// Suggest returns medicine suggestions for a partial name
func (h *BillingHandler) Suggest(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.SuggestionRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	result := h.billingService.Suggest(c.Request.Context(), op, req.Query)
	if result.Superseded {
		response.OK(c, "Superseded by a newer query", result)
		return
	}
	response.OK(c, "Suggestions retrieved", result)
}

// SelectMedicine resolves a suggestion into the pending line item
func (h *BillingHandler) SelectMedicine(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.SelectMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	view, err := h.billingService.SelectMedicine(c.Request.Context(), op, req.MedicineID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Medicine selected", view)
}

// UpdateDraft edits the pending line item
func (h *BillingHandler) UpdateDraft(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	view, err := h.billingService.UpdateDraft(op, draftUpdate(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Draft updated", view)
}

// CancelDraft discards the pending line item
func (h *BillingHandler) CancelDraft(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	response.OK(c, "Draft cleared", h.billingService.CancelDraft(op))
}

// AddItem validates the pending line item and adds it to the active bill
func (h *BillingHandler) AddItem(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.DraftRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request: "+err.Error())
			return
		}
	}

	view, err := h.billingService.AddItem(op, draftUpdate(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Medicine added to bill", view)
}

// RemoveItem deletes one line item from the active bill
func (h *BillingHandler) RemoveItem(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.BadRequest(c, "Invalid line item index")
		return
	}

	view, err := h.billingService.RemoveItem(op, index)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Medicine removed from bill", view)
}

// Submit sends the active bill to the pharmacy server
func (h *BillingHandler) Submit(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	result, err := h.billingService.Submit(c.Request.Context(), op, c.GetHeader("Idempotency-Key"))
	if err != nil {
		response.Error(c, err)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	response.Success(c, status, result.Message, result)
}

// ListSubmissions returns the operator's recorded sale submissions
func (h *BillingHandler) ListSubmissions(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.SubmissionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	params := &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage}
	result, err := h.billingService.ListSubmissions(c.Request.Context(), op, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, "Submissions retrieved", result)
}

func draftUpdate(req request.DraftRequest) service.DraftUpdate {
	return service.DraftUpdate{SellPrice: req.SellPrice, Quantity: req.Quantity}
}
