package entity

import (
	"encoding/json"

	"github.com/sangkips/pharmabill-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// LineItem is one medicine entry in a bill. Its total is always derived
// from price and quantity.
type LineItem struct {
	MedicineID   MedicineID      `json:"medicine_id"`
	MedicineName string          `json:"medicine_name"`
	BatchNo      string          `json:"batch_no"`
	Quantity     int             `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
}

// Total returns PricePerUnit * Quantity
func (li LineItem) Total() decimal.Decimal {
	return li.PricePerUnit.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// MarshalJSON adds the derived total for API responses
func (li LineItem) MarshalJSON() ([]byte, error) {
	type Alias LineItem
	return json.Marshal(&struct {
		Alias
		Total decimal.Decimal `json:"total"`
	}{
		Alias: Alias(li),
		Total: li.Total(),
	})
}

// Bill is an in-progress sale: customer details plus ordered line items
type Bill struct {
	CustomerName  string             `json:"customer_name"`
	ContactNumber string             `json:"contact_number"`
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	LineItems     []LineItem         `json:"line_items"`
}

// NewBill returns an empty bill with default fields
func NewBill() Bill {
	return Bill{
		PaymentMethod: enum.PaymentMethodCash,
		LineItems:     []LineItem{},
	}
}

// TotalAmount sums the line item totals. It is recomputed on every call.
func (b Bill) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range b.LineItems {
		total = total.Add(item.Total())
	}
	return total
}

// IsEmpty reports whether the bill still holds its default state
func (b Bill) IsEmpty() bool {
	return len(b.LineItems) == 0 &&
		b.CustomerName == "" &&
		b.ContactNumber == "" &&
		(b.PaymentMethod == "" || b.PaymentMethod == enum.PaymentMethodCash)
}

// Clone returns a deep copy so callers cannot alias the line item slice
func (b Bill) Clone() Bill {
	items := make([]LineItem, len(b.LineItems))
	copy(items, b.LineItems)
	b.LineItems = items
	return b
}

// MarshalJSON adds the derived total for API responses
func (b Bill) MarshalJSON() ([]byte, error) {
	type Alias Bill
	return json.Marshal(&struct {
		Alias
		TotalAmount decimal.Decimal `json:"total_amount"`
	}{
		Alias:       Alias(b),
		TotalAmount: b.TotalAmount(),
	})
}
