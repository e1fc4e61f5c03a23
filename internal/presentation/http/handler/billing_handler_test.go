package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmabill-api/internal/application/service"
	"github.com/sangkips/pharmabill-api/internal/config"
	"github.com/sangkips/pharmabill-api/internal/domain/entity"
	infraRepo "github.com/sangkips/pharmabill-api/internal/infrastructure/repository"
	"github.com/sangkips/pharmabill-api/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var handlerOperator = entity.Operator{EmployeeID: 5, Name: "Ravi", Token: "tok"}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
}

func setupBillingRouter(t *testing.T, withOperator bool) (*gin.Engine, *mocks.MockPharmacyBackend) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := new(mocks.MockPharmacyBackend)
	provider := new(mocks.MockBackendProvider)
	provider.On("ForToken", "tok").Return(backend)

	submissions := service.NewSubmissionService(infraRepo.NewMemorySubmissionRepository(), &config.BackendConfig{
		MaxRetries:     1,
		RetryBaseDelay: time.Millisecond,
	})
	billing := service.NewBillingService(provider, submissions, nil, &config.BillingConfig{
		SuggestionDebounce: time.Millisecond,
	})
	h := NewBillingHandler(billing)

	r := gin.New()
	if withOperator {
		r.Use(func(c *gin.Context) {
			c.Set("operator", handlerOperator)
			c.Next()
		})
	}
	r.GET("/billing/session", h.GetSession)
	r.PUT("/billing/active", h.SwitchActive)
	r.DELETE("/billing/active", h.ClearActive)
	r.PATCH("/billing/customer", h.UpdateCustomer)
	r.POST("/billing/draft", h.SelectMedicine)
	r.DELETE("/billing/draft", h.CancelDraft)
	r.POST("/billing/items", h.AddItem)
	r.DELETE("/billing/items/:index", h.RemoveItem)
	r.POST("/billing/submit", h.Submit)
	r.GET("/billing/submissions", h.ListSubmissions)
	return r, backend
}

func doJSON(r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func stockDetail(backend *mocks.MockPharmacyBackend, id string) {
	backend.On("GetDetail", mock.Anything, entity.MedicineID(id)).Return(&entity.MedicineDetail{
		MedicineID:    entity.MedicineID(id),
		MedicineName:  "Paracetamol",
		BatchNo:       "B1",
		PurchasePrice: decimal.RequireFromString("40"),
		StockQuantity: 10,
		MRP:           decimal.RequireFromString("60"),
	}, nil)
}

func TestBillingHandler_RequiresOperator(t *testing.T) {
	r, _ := setupBillingRouter(t, false)

	w, env := doJSON(r, http.MethodGet, "/billing/session", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)
}

func TestBillingHandler_SwitchActive(t *testing.T) {
	r, _ := setupBillingRouter(t, true)

	w, _ := doJSON(r, http.MethodPut, "/billing/active", `{"index": 5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(r, http.MethodPut, "/billing/active", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := doJSON(r, http.MethodPut, "/billing/active", `{"index": 0}`)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = doJSON(r, http.MethodPut, "/billing/active", `{"index": 2}`)
	require.Equal(t, http.StatusOK, w.Code)
	var view service.SessionView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, 2, view.ActiveIndex)
	assert.True(t, view.Bills[2].Active)
}

func TestBillingHandler_UpdateCustomer_RejectsUnknownField(t *testing.T) {
	r, _ := setupBillingRouter(t, true)

	w, _ := doJSON(r, http.MethodPatch, "/billing/customer", `{"field":"address","value":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := doJSON(r, http.MethodPatch, "/billing/customer", `{"field":"customer_name","value":"  Asha "}`)
	require.Equal(t, http.StatusOK, w.Code)
	var view service.SessionView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "Asha", view.Bills[0].Bill.CustomerName)
}

func TestBillingHandler_AddItemWithoutSelection(t *testing.T) {
	r, _ := setupBillingRouter(t, true)

	w, env := doJSON(r, http.MethodPost, "/billing/items", "")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "no_selection", env.Type)
}

func TestBillingHandler_RemoveItemBadIndex(t *testing.T) {
	r, _ := setupBillingRouter(t, true)

	w, _ := doJSON(r, http.MethodDelete, "/billing/items/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(r, http.MethodDelete, "/billing/items/0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBillingHandler_ComposeAndSubmit(t *testing.T) {
	r, backend := setupBillingRouter(t, true)
	stockDetail(backend, "7")
	backend.On("CreateSale", mock.Anything, mock.AnythingOfType("*entity.SalePayload"), mock.AnythingOfType("string")).
		Return(&entity.SaleResult{Message: "Sale recorded"}, nil).Once()

	w, _ := doJSON(r, http.MethodPost, "/billing/draft", `{"medicine_id": 7}`)
	require.Equal(t, http.StatusOK, w.Code)

	w, env := doJSON(r, http.MethodPost, "/billing/items", `{"sell_price":"50","quantity":2}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var view service.SessionView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.Len(t, view.Bills[0].Bill.LineItems, 1)
	assert.True(t, view.TotalAmount.Equal(decimal.NewFromInt(100)))
	assert.Nil(t, view.Draft)

	w, env = doJSON(r, http.MethodPost, "/billing/submit", "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Sale recorded", env.Message)

	w, env = doJSON(r, http.MethodGet, "/billing/session", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Empty(t, view.Bills[0].Bill.LineItems)

	w, _ = doJSON(r, http.MethodGet, "/billing/submissions?page=1&per_page=10", "")
	assert.Equal(t, http.StatusOK, w.Code)
	backend.AssertExpectations(t)
}

func TestBillingHandler_SubmitEmptyBill(t *testing.T) {
	r, backend := setupBillingRouter(t, true)

	w, env := doJSON(r, http.MethodPost, "/billing/submit", "")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "empty_bill", env.Type)
	backend.AssertNotCalled(t, "CreateSale", mock.Anything, mock.Anything, mock.Anything)
}
