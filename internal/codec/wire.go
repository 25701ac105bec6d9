// Package codec converts domain documents to and from the JSON arrays held in
// the key-value store. Decimals travel as native JSON numbers (json.Number) so
// no precision is lost through float64.
package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the on-disk format of calendar dates.
const DateLayout = "2006-01-02"

// LineItem is the persisted form of model.LineItem.
type LineItem struct {
	ProductID       string      `json:"product_id" jsonschema_description:"Catalog product id"`
	ProductName     string      `json:"product_name"`
	ProductCode     string      `json:"product_code,omitempty"`
	ListPrice       json.Number `json:"list_price"`
	Quantity        json.Number `json:"quantity"`
	UnitPrice       json.Number `json:"unit_price"`
	DiscountPercent json.Number `json:"discount_percent"`
	Subtotal        json.Number `json:"subtotal" jsonschema_description:"Derived: quantity * unit_price * (1 - discount_percent/100)"`
}

// ItemDocument is the persisted form of a quote, sales order or purchase order.
type ItemDocument struct {
	ID                     string      `json:"id"`
	Number                 string      `json:"number"`
	Counterparty           string      `json:"counterparty"`
	IssueDate              string      `json:"issue_date" jsonschema:"format=date"`
	Notes                  string      `json:"notes,omitempty"`
	Items                  []LineItem  `json:"items"`
	OverallDiscountPercent json.Number `json:"overall_discount_percent"`
	TotalAmount            json.Number `json:"total_amount" jsonschema_description:"Derived: sum of subtotals * (1 - overall_discount_percent/100)"`
	SourceID               string      `json:"source_id,omitempty"`
}

// PaymentEvent is the persisted form of model.PaymentEvent.
type PaymentEvent struct {
	ID     string      `json:"id"`
	Date   string      `json:"date" jsonschema:"format=date"`
	Amount json.Number `json:"amount"`
	Method string      `json:"method"`
}

// LedgerDocument is the persisted form of a payable or receivable.
type LedgerDocument struct {
	ID             string         `json:"id"`
	Number         string         `json:"number"`
	Description    string         `json:"description"`
	Counterparty   string         `json:"counterparty"`
	Category       string         `json:"category,omitempty"`
	DueDate        string         `json:"due_date" jsonschema:"format=date"`
	OriginalAmount json.Number    `json:"original_amount"`
	PaidAmount     json.Number    `json:"paid_amount"`
	Status         string         `json:"status" jsonschema:"enum=pending,enum=partially_paid,enum=paid,enum=overdue"`
	PaymentHistory []PaymentEvent `json:"payment_history"`
	SourceID       string         `json:"source_id,omitempty"`
}

// Product is the persisted form of model.Product.
type Product struct {
	ID        string      `json:"id"`
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	Unit      string      `json:"unit,omitempty"`
	ListPrice json.Number `json:"list_price"`
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func parseDecimal(field string, n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, fmt.Errorf("%s: missing", field)
	}
	d, err := decimal.NewFromString(string(n))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

// parseOptionalDecimal treats a missing value as zero.
func parseOptionalDecimal(field string, n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	return parseDecimal(field, n)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%s: missing", field)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", field, err)
	}
	return t, nil
}
