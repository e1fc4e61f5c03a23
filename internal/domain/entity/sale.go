package entity

import (
	"encoding/json"

	"github.com/sangkips/pharmabill-api/internal/domain/enum"
)

// SaleMedicine is one medicine row of the create-sale request
type SaleMedicine struct {
	MedicineID MedicineID  `json:"medicine_id"`
	Quantity   int         `json:"quantity"`
	Rate       json.Number `json:"rate"`
}

// SalePayload is the body of POST /admin/sales
type SalePayload struct {
	CustomerName  string             `json:"customer_name"`
	ContactNumber string             `json:"contact_number"`
	EmployeeID    int64              `json:"employee_id"`
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	Medicines     []SaleMedicine     `json:"medicines"`
}

// NewSalePayload maps a finalised bill to the backend request
func NewSalePayload(bill Bill, employeeID int64) *SalePayload {
	medicines := make([]SaleMedicine, len(bill.LineItems))
	for i, item := range bill.LineItems {
		medicines[i] = SaleMedicine{
			MedicineID: item.MedicineID,
			Quantity:   item.Quantity,
			Rate:       json.Number(item.PricePerUnit.StringFixed(2)),
		}
	}
	method := bill.PaymentMethod
	if method == "" {
		method = enum.PaymentMethodCash
	}
	return &SalePayload{
		CustomerName:  bill.CustomerName,
		ContactNumber: bill.ContactNumber,
		EmployeeID:    employeeID,
		PaymentMethod: method,
		Medicines:     medicines,
	}
}

// SaleResult is the backend reply to a created sale
type SaleResult struct {
	Message string `json:"message"`
}
