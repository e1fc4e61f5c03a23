package entity

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// MedicineID identifies a medicine stock record on the pharmacy backend.
// The backend sends it either as a JSON number or as a string.
type MedicineID string

func (id MedicineID) String() string {
	return string(id)
}

// IsZero reports whether no medicine has been selected
func (id MedicineID) IsZero() bool {
	return id == ""
}

// MarshalJSON emits numeric ids as JSON numbers so the backend sees the shape it sent.
func (id MedicineID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *MedicineID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = MedicineID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("medicine_id: %w", err)
	}
	*id = MedicineID(n.String())
	return nil
}

// MedicineCandidate is one suggestion row returned for a partial name
type MedicineCandidate struct {
	MedicineID   MedicineID `json:"medicine_id"`
	MedicineName string     `json:"medicine_name"`
	BatchNo      string     `json:"batch_no"`
}

// MedicineDetail is the pricing and stock record of one medicine batch
type MedicineDetail struct {
	MedicineID    MedicineID      `json:"medicine_id"`
	MedicineName  string          `json:"medicine_name"`
	BatchNo       string          `json:"batch_no"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	StockQuantity int             `json:"stock_quantity"`
	MRP           decimal.Decimal `json:"mrp"`
}

// DisplayName is the name shown in the bill, e.g. "Paracetamol 500mg (B-1042)"
func (d *MedicineDetail) DisplayName() string {
	if d.BatchNo == "" {
		return d.MedicineName
	}
	return fmt.Sprintf("%s (%s)", d.MedicineName, d.BatchNo)
}

// LineItemDraft is the line item being prepared before it is added to a bill
type LineItemDraft struct {
	MedicineID    MedicineID      `json:"medicine_id"`
	MedicineName  string          `json:"medicine_name"`
	BatchNo       string          `json:"batch_no"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	StockQuantity int             `json:"stock_quantity"`
	MRP           decimal.Decimal `json:"mrp"`
	SellPrice     decimal.Decimal `json:"sell_price"`
	Quantity      int             `json:"quantity"`
}

// NewLineItemDraft populates a draft from a resolved medicine. The sell price
// starts at MRP and the quantity at one.
func NewLineItemDraft(d *MedicineDetail) *LineItemDraft {
	return &LineItemDraft{
		MedicineID:    d.MedicineID,
		MedicineName:  d.DisplayName(),
		BatchNo:       d.BatchNo,
		PurchasePrice: d.PurchasePrice,
		StockQuantity: d.StockQuantity,
		MRP:           d.MRP,
		SellPrice:     d.MRP,
		Quantity:      1,
	}
}
