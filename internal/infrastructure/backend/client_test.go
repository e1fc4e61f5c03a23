package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sangkips/pharmabill-api/internal/config"
	"github.com/sangkips/pharmabill-api/internal/domain/entity"
	"github.com/sangkips/pharmabill-api/internal/domain/enum"
	"github.com/sangkips/pharmabill-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewProvider(&config.BackendConfig{BaseURL: srv.URL + "/", Timeout: 2 * time.Second})
	return p.ForToken("tok-123").(*Client)
}

func TestRecommend_SendsQueryAndBearer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/medicines/recommendation", r.URL.Path)
		assert.Equal(t, "para 500", r.URL.Query().Get("query"))
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"status":"success","recommendations":[
			{"medicine_id":7,"medicine_name":"Paracetamol 500mg","batch_no":"B-1"},
			{"medicine_id":"9","medicine_name":"Paracip","batch_no":"B-2"}]}`)
	})

	got, err := c.Recommend(context.Background(), "para 500")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, entity.MedicineID("7"), got[0].MedicineID)
	assert.Equal(t, entity.MedicineID("9"), got[1].MedicineID)
	assert.Equal(t, "B-2", got[1].BatchNo)
}

func TestRecommend_MissingListIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"success"}`)
	})

	got, err := c.Recommend(context.Background(), "zz")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGetDetail_AcceptsWrappedAndBareRecords(t *testing.T) {
	bodies := map[string]string{
		"bare":     `{"medicine_id":7,"medicine_name":"Paracetamol","batch_no":"B-1","purchase_price":"8.5","stock_quantity":40,"mrp":12}`,
		"medicine": `{"medicine":{"medicine_id":7,"medicine_name":"Paracetamol","batch_no":"B-1","purchase_price":8.5,"stock_quantity":"40","mrp":"12.00"}}`,
		"data":     `{"status":"success","data":{"id":7,"name":"Paracetamol","batch_no":"B-1","purchase_price":8.5,"stock_quantity":40,"mrp":12}}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/admin/medicne_info/7", r.URL.Path)
				_, _ = io.WriteString(w, body)
			})

			d, err := c.GetDetail(context.Background(), "7")
			require.NoError(t, err)
			assert.Equal(t, entity.MedicineID("7"), d.MedicineID)
			assert.Equal(t, "Paracetamol", d.MedicineName)
			assert.Equal(t, "B-1", d.BatchNo)
			assert.Equal(t, 40, d.StockQuantity)
			assert.True(t, d.PurchasePrice.Equal(decimal.RequireFromString("8.5")))
			assert.True(t, d.MRP.Equal(decimal.NewFromInt(12)))
		})
	}
}

func TestGetDetail_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"Medicine does not exist"}`)
	})

	_, err := c.GetDetail(context.Background(), "404")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	assert.Equal(t, "Medicine does not exist", err.Error())
}

func TestCreateSale_PostsPayloadWithIdempotencyKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/sales", r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get(IdempotencyHeader))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "Asha", got["customer_name"])
		assert.EqualValues(t, 3, got["employee_id"])
		assert.Equal(t, "UPI", got["payment_method"])

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"message":"Sale created successfully"}`)
	})

	bill := entity.NewBill()
	bill.CustomerName = "Asha"
	bill.PaymentMethod = enum.PaymentMethodUPI
	bill.LineItems = []entity.LineItem{{MedicineID: "7", Quantity: 2, PricePerUnit: decimal.NewFromInt(50)}}

	res, err := c.CreateSale(context.Background(), entity.NewSalePayload(bill, 3), "key-1")
	require.NoError(t, err)
	assert.Equal(t, "Sale created successfully", res.Message)
}

func TestCreateSale_ServerErrorKeepsMessageAndStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":"Database is restarting"}`)
	})

	_, err := c.CreateSale(context.Background(), &entity.SalePayload{}, "k")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrServer))
	assert.Equal(t, "Database is restarting", err.Error())
	assert.True(t, apperror.IsTransient(err))
}

func TestCreateSale_PlainTextError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, "Insufficient stock\n")
	})

	_, err := c.CreateSale(context.Background(), &entity.SalePayload{}, "k")
	require.Error(t, err)
	assert.Equal(t, "Insufficient stock", err.Error())
	assert.False(t, apperror.IsTransient(err))
}

func TestDo_TransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewProvider(&config.BackendConfig{BaseURL: url, Timeout: time.Second}).ForToken("t")
	_, err := c.Recommend(context.Background(), "para")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNetwork))
	assert.True(t, apperror.IsTransient(err))
}
