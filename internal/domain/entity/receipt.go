package entity

import "github.com/shopspring/decimal"

// ReceiptHeader holds the pharmacy header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// Receipt is a printable value object composed from a submitted bill.
type Receipt struct {
	Header      ReceiptHeader   `json:"header"`
	Reference   string          `json:"reference"`
	Date        string          `json:"date"`
	Cashier     string          `json:"cashier,omitempty"`
	Customer    string          `json:"customer,omitempty"`
	Contact     string          `json:"contact,omitempty"`
	PaymentType string          `json:"payment_type,omitempty"`
	Items       []ReceiptItem   `json:"items"`
	Total       decimal.Decimal `json:"total"`
}
