package entity

import (
	"strings"

	"github.com/sangkips/pharmabill-api/internal/domain/enum"
	"github.com/sangkips/pharmabill-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// BillSlots is the number of bills an operator can keep open at once
const BillSlots = 3

// CustomerField names a scalar field of a bill
type CustomerField string

const (
	FieldCustomerName  CustomerField = "customer_name"
	FieldContactNumber CustomerField = "contact_number"
	FieldPaymentMethod CustomerField = "payment_method"
)

// BillBook holds a fixed set of bill slots ("tabs") and the index of the
// active one. Exactly one slot is active at any time. It is not safe for
// concurrent use; callers serialise access.
type BillBook struct {
	slots      [BillSlots]Bill
	submitting [BillSlots]bool
	active     int
}

// NewBillBook returns a book of empty bills with slot 0 active
func NewBillBook() *BillBook {
	b := &BillBook{}
	for i := range b.slots {
		b.slots[i] = NewBill()
	}
	return b
}

// Active returns the active slot index
func (b *BillBook) Active() int {
	return b.active
}

// Bill returns a copy of the bill in slot i
func (b *BillBook) Bill(i int) (Bill, error) {
	if err := checkSlot(i); err != nil {
		return Bill{}, err
	}
	return b.slots[i].Clone(), nil
}

// ActiveBill returns a copy of the active bill
func (b *BillBook) ActiveBill() Bill {
	return b.slots[b.active].Clone()
}

// Status derives the lifecycle status of slot i
func (b *BillBook) Status(i int) enum.BillStatus {
	if checkSlot(i) != nil {
		return enum.BillStatusEmpty
	}
	if b.submitting[i] {
		return enum.BillStatusSubmitting
	}
	if b.slots[i].IsEmpty() {
		return enum.BillStatusEmpty
	}
	return enum.BillStatusComposing
}

// SwitchActive moves the active pointer. Bill contents are untouched.
func (b *BillBook) SwitchActive(i int) error {
	if err := checkSlot(i); err != nil {
		return err
	}
	b.active = i
	return nil
}

// UpdateCustomerField sets one scalar field of the active bill
func (b *BillBook) UpdateCustomerField(field CustomerField, value string) error {
	if b.submitting[b.active] {
		return apperror.ErrBillBusy
	}
	bill := &b.slots[b.active]
	switch field {
	case FieldCustomerName:
		bill.CustomerName = strings.TrimSpace(value)
	case FieldContactNumber:
		bill.ContactNumber = strings.TrimSpace(value)
	case FieldPaymentMethod:
		method, err := enum.ParsePaymentMethod(value)
		if err != nil {
			return apperror.NewBadRequestError(err.Error())
		}
		bill.PaymentMethod = method
	default:
		return apperror.NewBadRequestError("Unknown bill field: " + string(field))
	}
	return nil
}

// AppendLineItem adds an item at the end of the active bill. Duplicates are kept.
func (b *BillBook) AppendLineItem(item LineItem) error {
	if b.submitting[b.active] {
		return apperror.ErrBillBusy
	}
	b.slots[b.active].LineItems = append(b.slots[b.active].LineItems, item)
	return nil
}

// RemoveLineItem deletes the item at index i of the active bill, keeping order
func (b *BillBook) RemoveLineItem(i int) error {
	if b.submitting[b.active] {
		return apperror.ErrBillBusy
	}
	items := b.slots[b.active].LineItems
	if i < 0 || i >= len(items) {
		return apperror.NewBadRequestError("Line item index out of range")
	}
	b.slots[b.active].LineItems = append(items[:i:i], items[i+1:]...)
	return nil
}

// TotalAmount returns the derived total of the active bill
func (b *BillBook) TotalAmount() decimal.Decimal {
	return b.slots[b.active].TotalAmount()
}

// ResetActive replaces the active bill with a fresh empty bill in the same slot
func (b *BillBook) ResetActive() error {
	if b.submitting[b.active] {
		return apperror.ErrBillBusy
	}
	return b.ResetSlot(b.active)
}

// ResetSlot replaces the bill in slot i with a fresh empty bill
func (b *BillBook) ResetSlot(i int) error {
	if err := checkSlot(i); err != nil {
		return err
	}
	b.slots[i] = NewBill()
	b.submitting[i] = false
	return nil
}

// BeginSubmit marks the active slot as submitting and returns its index and a
// snapshot of its bill. While submitting, the slot rejects mutations.
func (b *BillBook) BeginSubmit() (int, Bill, error) {
	slot := b.active
	if b.submitting[slot] {
		return slot, Bill{}, apperror.ErrBillBusy
	}
	if len(b.slots[slot].LineItems) == 0 {
		return slot, Bill{}, apperror.ErrEmptyBill
	}
	b.submitting[slot] = true
	return slot, b.slots[slot].Clone(), nil
}

// FinishSubmit ends a submission of slot i. A successful submission resets
// the slot; a failed one leaves the bill exactly as it was.
func (b *BillBook) FinishSubmit(i int, succeeded bool) {
	if checkSlot(i) != nil {
		return
	}
	if succeeded {
		_ = b.ResetSlot(i)
		return
	}
	b.submitting[i] = false
}

// BillSlotView is the read model of one slot
type BillSlotView struct {
	Index  int             `json:"index"`
	Active bool            `json:"active"`
	Status enum.BillStatus `json:"status"`
	Bill   Bill            `json:"bill"`
}

// Snapshot returns a deep copy of every slot
func (b *BillBook) Snapshot() []BillSlotView {
	views := make([]BillSlotView, BillSlots)
	for i := range b.slots {
		views[i] = BillSlotView{
			Index:  i,
			Active: i == b.active,
			Status: b.Status(i),
			Bill:   b.slots[i].Clone(),
		}
	}
	return views
}

func checkSlot(i int) error {
	if i < 0 || i >= BillSlots {
		return apperror.ErrInvalidSlot
	}
	return nil
}
