package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedicineID_UnmarshalNumberOrString(t *testing.T) {
	var c []MedicineCandidate
	require.NoError(t, json.Unmarshal([]byte(`[
		{"medicine_id": 12, "medicine_name": "Paracetamol", "batch_no": "P1"},
		{"medicine_id": "x-9", "medicine_name": "Cetirizine", "batch_no": "C3"},
		{"medicine_id": null, "medicine_name": "Unknown"}
	]`), &c))

	require.Len(t, c, 3)
	assert.Equal(t, MedicineID("12"), c[0].MedicineID)
	assert.Equal(t, MedicineID("x-9"), c[1].MedicineID)
	assert.True(t, c[2].MedicineID.IsZero())
}

func TestMedicineDetail_PricesAcceptStringsAndNumbers(t *testing.T) {
	var d MedicineDetail
	require.NoError(t, json.Unmarshal([]byte(`{
		"medicine_id": 5, "medicine_name": "Amoxicillin", "batch_no": "AMX-22",
		"purchase_price": "12.40", "stock_quantity": 30, "mrp": 18
	}`), &d))

	assert.Equal(t, "12.40", d.PurchasePrice.StringFixed(2))
	assert.Equal(t, "18.00", d.MRP.StringFixed(2))
	assert.Equal(t, 30, d.StockQuantity)
	assert.Equal(t, "Amoxicillin (AMX-22)", d.DisplayName())
}

func TestNewLineItemDraft_Defaults(t *testing.T) {
	d := &MedicineDetail{MedicineID: "5", MedicineName: "Amoxicillin", BatchNo: "AMX-22"}
	draft := NewLineItemDraft(d)

	assert.Equal(t, "Amoxicillin (AMX-22)", draft.MedicineName)
	assert.Equal(t, 1, draft.Quantity)
	assert.True(t, draft.SellPrice.Equal(d.MRP))
}

func TestMedicineDetail_DisplayNameWithoutBatch(t *testing.T) {
	d := &MedicineDetail{MedicineName: "Cetirizine"}
	assert.Equal(t, "Cetirizine", d.DisplayName())
}
