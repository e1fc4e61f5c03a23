package entity

import (
	"errors"
	"testing"

	"github.com/sangkips/pharmabill-api/internal/domain/enum"
	"github.com/sangkips/pharmabill-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id string, qty int, price string) LineItem {
	return LineItem{
		MedicineID:   MedicineID(id),
		MedicineName: "Medicine " + id,
		BatchNo:      "B-" + id,
		Quantity:     qty,
		PricePerUnit: decimal.RequireFromString(price),
	}
}

func TestBillBook_NewHasThreeEmptySlots(t *testing.T) {
	book := NewBillBook()

	assert.Equal(t, 0, book.Active())
	views := book.Snapshot()
	require.Len(t, views, BillSlots)
	for i, v := range views {
		assert.Equal(t, i, v.Index)
		assert.Equal(t, enum.BillStatusEmpty, v.Status)
		assert.Empty(t, v.Bill.LineItems)
		assert.Equal(t, enum.PaymentMethodCash, v.Bill.PaymentMethod)
	}
	assert.True(t, views[0].Active)
	assert.False(t, views[1].Active)
}

func TestBillBook_TotalAmountOfTwoItems(t *testing.T) {
	book := NewBillBook()
	require.NoError(t, book.AppendLineItem(item("1", 5, "20")))
	require.NoError(t, book.AppendLineItem(item("2", 3, "15")))

	assert.True(t, decimal.NewFromInt(145).Equal(book.TotalAmount()), book.TotalAmount().String())
	assert.Equal(t, enum.BillStatusComposing, book.Status(0))
}

func TestBillBook_TotalFollowsAddAndRemove(t *testing.T) {
	book := NewBillBook()
	require.NoError(t, book.AppendLineItem(item("1", 2, "10.25")))
	require.NoError(t, book.AppendLineItem(item("2", 1, "3.10")))
	require.NoError(t, book.AppendLineItem(item("3", 4, "0.05")))

	require.NoError(t, book.RemoveLineItem(1))

	bill := book.ActiveBill()
	require.Len(t, bill.LineItems, 2)
	assert.Equal(t, MedicineID("1"), bill.LineItems[0].MedicineID)
	assert.Equal(t, MedicineID("3"), bill.LineItems[1].MedicineID)

	sum := decimal.Zero
	for _, li := range bill.LineItems {
		sum = sum.Add(li.Total())
	}
	assert.True(t, sum.Equal(book.TotalAmount()))
	assert.Equal(t, "20.70", book.TotalAmount().StringFixed(2))
}

func TestBillBook_RemoveOutOfRange(t *testing.T) {
	book := NewBillBook()
	require.NoError(t, book.AppendLineItem(item("1", 1, "5")))

	assert.Error(t, book.RemoveLineItem(1))
	assert.Error(t, book.RemoveLineItem(-1))
	assert.Len(t, book.ActiveBill().LineItems, 1)
}

func TestBillBook_AppendKeepsDuplicatesInOrder(t *testing.T) {
	book := NewBillBook()
	require.NoError(t, book.AppendLineItem(item("7", 1, "5")))
	require.NoError(t, book.AppendLineItem(item("7", 2, "5")))

	bill := book.ActiveBill()
	require.Len(t, bill.LineItems, 2)
	assert.Equal(t, 1, bill.LineItems[0].Quantity)
	assert.Equal(t, 2, bill.LineItems[1].Quantity)
}

func TestBillBook_SwitchDoesNotTouchOtherSlots(t *testing.T) {
	book := NewBillBook()
	require.NoError(t, book.AppendLineItem(item("1", 5, "20")))
	require.NoError(t, book.AppendLineItem(item("2", 3, "15")))
	before, err := book.Bill(0)
	require.NoError(t, err)

	require.NoError(t, book.SwitchActive(1))
	assert.Empty(t, book.ActiveBill().LineItems)
	require.NoError(t, book.AppendLineItem(item("3", 1, "9")))

	slot0, err := book.Bill(0)
	require.NoError(t, err)
	assert.Equal(t, before, slot0)
	slot1, err := book.Bill(1)
	require.NoError(t, err)
	assert.Len(t, slot1.LineItems, 1)
}

func TestBillBook_SwitchOutOfRange(t *testing.T) {
	book := NewBillBook()
	err := book.SwitchActive(BillSlots)
	assert.True(t, errors.Is(err, apperror.ErrInvalidSlot))
	assert.Equal(t, 0, book.Active())
}

func TestBillBook_UpdateCustomerField(t *testing.T) {
	book := NewBillBook()
	require.NoError(t, book.UpdateCustomerField(FieldCustomerName, "  Asha Rao "))
	require.NoError(t, book.UpdateCustomerField(FieldContactNumber, "9876543210"))
	require.NoError(t, book.UpdateCustomerField(FieldPaymentMethod, "upi"))

	bill := book.ActiveBill()
	assert.Equal(t, "Asha Rao", bill.CustomerName)
	assert.Equal(t, "9876543210", bill.ContactNumber)
	assert.Equal(t, enum.PaymentMethodUPI, bill.PaymentMethod)
	assert.Equal(t, enum.BillStatusComposing, book.Status(0))

	assert.Error(t, book.UpdateCustomerField(FieldPaymentMethod, "cheque"))
	assert.Error(t, book.UpdateCustomerField("address", "x"))
	assert.Equal(t, enum.PaymentMethodUPI, book.ActiveBill().PaymentMethod)

	other, _ := book.Bill(1)
	assert.True(t, other.IsEmpty())
}

func TestBillBook_ResetActiveLeavesOthers(t *testing.T) {
	book := NewBillBook()
	require.NoError(t, book.AppendLineItem(item("1", 1, "1")))
	require.NoError(t, book.SwitchActive(2))
	require.NoError(t, book.UpdateCustomerField(FieldCustomerName, "Ravi"))
	require.NoError(t, book.AppendLineItem(item("2", 1, "2")))

	require.NoError(t, book.ResetActive())

	assert.Equal(t, 2, book.Active())
	assert.True(t, book.ActiveBill().IsEmpty())
	slot0, _ := book.Bill(0)
	assert.Len(t, slot0.LineItems, 1)
}

func TestBillBook_SubmitLifecycle(t *testing.T) {
	book := NewBillBook()

	_, _, err := book.BeginSubmit()
	assert.True(t, errors.Is(err, apperror.ErrEmptyBill))

	require.NoError(t, book.UpdateCustomerField(FieldCustomerName, "Meena"))
	require.NoError(t, book.AppendLineItem(item("1", 2, "12.50")))
	before := book.ActiveBill()

	slot, snapshot, err := book.BeginSubmit()
	require.NoError(t, err)
	assert.Equal(t, 0, slot)
	assert.Equal(t, before, snapshot)
	assert.Equal(t, enum.BillStatusSubmitting, book.Status(0))

	_, _, err = book.BeginSubmit()
	assert.True(t, errors.Is(err, apperror.ErrBillBusy))
	assert.True(t, errors.Is(book.AppendLineItem(item("2", 1, "1")), apperror.ErrBillBusy))
	assert.True(t, errors.Is(book.UpdateCustomerField(FieldCustomerName, "x"), apperror.ErrBillBusy))
	assert.True(t, errors.Is(book.RemoveLineItem(0), apperror.ErrBillBusy))

	book.FinishSubmit(slot, false)
	assert.Equal(t, before, book.ActiveBill())
	assert.Equal(t, enum.BillStatusComposing, book.Status(0))

	_, _, err = book.BeginSubmit()
	require.NoError(t, err)
	book.FinishSubmit(slot, true)
	assert.True(t, book.ActiveBill().IsEmpty())
	assert.Equal(t, enum.BillStatusEmpty, book.Status(0))
}

func TestBillBook_SnapshotIsDeepCopy(t *testing.T) {
	book := NewBillBook()
	require.NoError(t, book.AppendLineItem(item("1", 1, "4")))

	views := book.Snapshot()
	views[0].Bill.LineItems[0].Quantity = 99

	assert.Equal(t, 1, book.ActiveBill().LineItems[0].Quantity)
}
