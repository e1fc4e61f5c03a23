package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sangkips/pharmabill-api/internal/config"
	"github.com/sangkips/pharmabill-api/internal/domain/entity"
	"github.com/sangkips/pharmabill-api/pkg/printer"
	"github.com/shopspring/decimal"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer     printer.Printer
	printerType string
	charWidth   int
	store       entity.ReceiptHeader
	now         func() time.Time
}

// NewPrinterService creates a new printer service.
func NewPrinterService(p printer.Printer, cfg *config.PrinterConfig, store *config.StoreConfig) *PrinterService {
	return &PrinterService{
		printer:     p,
		printerType: cfg.Type,
		charWidth:   cfg.CharWidth,
		store: entity.ReceiptHeader{
			StoreName: store.Name,
			Address:   store.Address,
			Phone:     store.Phone,
			TaxID:     store.TaxID,
		},
		now: time.Now,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	CharWidth  int    `json:"char_width"`
	StoreName  string `json:"store_name,omitempty"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
		CharWidth:  printer.NewDocument(s.charWidth).Width(),
		StoreName:  s.store.StoreName,
	}
}

// TestPrint sends a test page to the printer on behalf of cashier.
// The receipt is returned so the handler can show it when no printer is attached.
func (s *PrinterService) TestPrint(ctx context.Context, cashier string) (*entity.Receipt, error) {
	if cashier == "" {
		cashier = "System"
	}
	receipt := &entity.Receipt{
		Header:      s.store,
		Reference:   "TEST-001",
		Date:        s.now().Format("2006-01-02 15:04"),
		Cashier:     cashier,
		PaymentType: "Cash",
		Items: []entity.ReceiptItem{
			receiptItem("Test Medicine 500mg (B-1)", 1, decimal.NewFromInt(10)),
			receiptItem("Test Syrup 100ml (B-2)", 2, decimal.NewFromInt(5)),
		},
	}
	receipt.Total = receiptTotal(receipt.Items)
	if receipt.Header.StoreName == "" {
		receipt.Header.StoreName = "PRINTER TEST"
	}

	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.charWidth)); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	return receipt, nil
}

// BuildReceipt composes the receipt of a submitted bill.
func (s *PrinterService) BuildReceipt(op entity.Operator, sub *entity.SaleSubmission, bill entity.Bill) *entity.Receipt {
	date := s.now()
	if !sub.UpdatedAt.IsZero() {
		date = sub.UpdatedAt
	}

	receipt := &entity.Receipt{
		Header:      s.store,
		Reference:   sub.Reference,
		Date:        date.Format("2006-01-02 15:04"),
		Cashier:     op.Name,
		Customer:    bill.CustomerName,
		Contact:     bill.ContactNumber,
		PaymentType: bill.PaymentMethod.String(),
		Items:       make([]entity.ReceiptItem, 0, len(bill.LineItems)),
	}
	for _, li := range bill.LineItems {
		receipt.Items = append(receipt.Items, receiptItem(li.MedicineName, li.Quantity, li.PricePerUnit))
	}
	receipt.Total = receiptTotal(receipt.Items)
	return receipt
}

// PrintSaleReceipt prints the receipt of a submitted bill.
func (s *PrinterService) PrintSaleReceipt(ctx context.Context, op entity.Operator, sub *entity.SaleSubmission, bill entity.Bill) (*entity.Receipt, error) {
	receipt := s.BuildReceipt(op, sub, bill)

	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.charWidth)); err != nil {
		log.Printf("Printer error (sale %s): %v", sub.Reference, err)
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	return receipt, nil
}

func receiptItem(name string, qty int, unit decimal.Decimal) entity.ReceiptItem {
	return entity.ReceiptItem{
		Name:      name,
		Quantity:  qty,
		UnitPrice: unit,
		Total:     unit.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func receiptTotal(items []entity.ReceiptItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Total)
	}
	return total
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, charWidth int) []byte {
	doc := printer.NewDocument(charWidth)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.TextF("GSTIN: %s", r.Header.TaxID)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Bill No:", r.Reference).
		KeyValue("Date:", r.Date)

	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}
	if r.Contact != "" {
		doc.KeyValue("Contact:", r.Contact)
	}
	if r.PaymentType != "" {
		doc.KeyValue("Payment:", r.PaymentType)
	}

	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(fmt.Sprintf("%dx %s", item.Quantity, item.Name), item.Total.StringFixed(2))
		if item.Quantity > 1 {
			doc.TextF("  @ %s each", item.UnitPrice.StringFixed(2))
		}
	}

	doc.Separator('-')

	doc.SetBold(true).
		KeyValue("TOTAL:", r.Total.StringFixed(2)).
		SetBold(false)

	doc.Separator('-')

	doc.SetAlign(printer.AlignCenter).
		FeedLines(1).
		Text("Get well soon!").
		FeedLines(1).
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
