package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies an item-bearing document type.
type Kind string

const (
	KindQuote         Kind = "quote"
	KindSalesOrder    Kind = "sales_order"
	KindPurchaseOrder Kind = "purchase_order"
)

// IsValid reports whether k is a known item document kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindQuote, KindSalesOrder, KindPurchaseOrder:
		return true
	}
	return false
}

// Label returns the human-readable kind.
func (k Kind) Label() string {
	switch k {
	case KindQuote:
		return "Quote"
	case KindSalesOrder:
		return "Sales order"
	case KindPurchaseOrder:
		return "Purchase order"
	}
	return string(k)
}

// ParseKind converts a raw value into a Kind.
func ParseKind(raw string) (Kind, error) {
	k := Kind(raw)
	if !k.IsValid() {
		return "", fmt.Errorf("unknown document kind %q", raw)
	}
	return k, nil
}

// ProductRef is the read-only catalog data denormalized onto a line item.
type ProductRef struct {
	ID        string
	Name      string
	Code      string
	ListPrice decimal.Decimal
}

// LineItem is one product line within a quote or order.
// Subtotal is derived by the pricing engine and never set directly.
type LineItem struct {
	Product         ProductRef
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	Subtotal        decimal.Decimal
}

// ItemDocument is a quote, sales order or purchase order.
// TotalAmount always equals sum(item subtotals) * (1 - OverallDiscountPercent/100).
type ItemDocument struct {
	ID                     string
	Kind                   Kind
	Number                 string
	Counterparty           string
	IssueDate              time.Time
	Notes                  string
	Items                  []LineItem
	OverallDiscountPercent decimal.Decimal
	TotalAmount            decimal.Decimal
	// SourceID links a sales order to the quote it was converted from.
	SourceID string
}

// DocumentID returns the document's immutable identity.
func (d ItemDocument) DocumentID() string { return d.ID }

// Clone returns a copy that shares no slices with d.
func (d ItemDocument) Clone() ItemDocument {
	c := d
	c.Items = append([]LineItem(nil), d.Items...)
	return c
}

// PaymentEvent is one recorded payment or receipt. Immutable once created.
type PaymentEvent struct {
	ID     string
	Date   time.Time
	Amount decimal.Decimal
	Method string
}

// LedgerDocument is a payable or receivable account.
type LedgerDocument struct {
	ID             string
	Direction      Direction
	Number         string
	Description    string
	Counterparty   string
	Category       string
	DueDate        time.Time
	OriginalAmount decimal.Decimal
	PaidAmount     decimal.Decimal
	Status         Status
	// PaymentHistory is in recording order, not necessarily Date order.
	PaymentHistory []PaymentEvent
	// SourceID links the document to the order it was raised from, if any.
	SourceID string
}

// DocumentID returns the document's immutable identity.
func (d LedgerDocument) DocumentID() string { return d.ID }

// Clone returns a copy that shares no slices with d.
func (d LedgerDocument) Clone() LedgerDocument {
	c := d
	c.PaymentHistory = append([]PaymentEvent(nil), d.PaymentHistory...)
	return c
}

// Remaining returns OriginalAmount - PaidAmount. Negative when over-paid.
func (d LedgerDocument) Remaining() decimal.Decimal {
	return d.OriginalAmount.Sub(d.PaidAmount)
}

// HistoryTotal sums the amounts of all payment events.
func (d LedgerDocument) HistoryTotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range d.PaymentHistory {
		total = total.Add(e.Amount)
	}
	return total
}
