// Package orders edits quotes, sales orders and purchase orders. Every edit
// returns a new document whose subtotals and total were recomputed by the
// pricing engine, so a document never carries a stale total.
package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oficina-erp/oficina/internal/apperrors"
	"github.com/oficina-erp/oficina/internal/model"
	"github.com/oficina-erp/oficina/internal/pricing"
)

// ItemInput adds a product line. A nil UnitPrice defaults to the product's list price.
type ItemInput struct {
	Product         string           `field:"product" validate:"required"`
	Quantity        decimal.Decimal  `field:"quantity" validate:"dec_gt0"`
	UnitPrice       *decimal.Decimal `field:"unit_price"`
	DiscountPercent decimal.Decimal  `field:"discount_percent" validate:"percent"`
}

// ItemPatch changes an existing line. Nil fields are left unchanged.
type ItemPatch struct {
	Quantity        *decimal.Decimal
	UnitPrice       *decimal.Decimal
	DiscountPercent *decimal.Decimal
}

// Edit changes the header fields of a document. Nil fields are left unchanged.
type Edit struct {
	Number       *string
	Counterparty *string
	IssueDate    *time.Time
	Notes        *string
}

// AddItem appends a line for product.
func AddItem(doc model.ItemDocument, product model.ProductRef, in ItemInput) (model.ItemDocument, error) {
	price := product.ListPrice
	if in.UnitPrice != nil {
		price = *in.UnitPrice
	}
	if err := pricing.ValidateLine(in.Quantity, price, in.DiscountPercent); err != nil {
		return doc, err
	}

	out := doc.Clone()
	out.Items = append(out.Items, model.LineItem{
		Product:         product,
		Quantity:        in.Quantity,
		UnitPrice:       price,
		DiscountPercent: in.DiscountPercent,
	})
	return reprice(doc, out)
}

// UpdateItem applies patch to the line at index.
func UpdateItem(doc model.ItemDocument, index int, patch ItemPatch) (model.ItemDocument, error) {
	if err := checkIndex(doc, index); err != nil {
		return doc, err
	}

	out := doc.Clone()
	it := &out.Items[index]
	if patch.Quantity != nil {
		it.Quantity = *patch.Quantity
	}
	if patch.UnitPrice != nil {
		it.UnitPrice = *patch.UnitPrice
	}
	if patch.DiscountPercent != nil {
		it.DiscountPercent = *patch.DiscountPercent
	}
	if err := pricing.ValidateLine(it.Quantity, it.UnitPrice, it.DiscountPercent); err != nil {
		return doc, err
	}
	return reprice(doc, out)
}

// RemoveItem deletes the line at index.
func RemoveItem(doc model.ItemDocument, index int) (model.ItemDocument, error) {
	if err := checkIndex(doc, index); err != nil {
		return doc, err
	}
	out := doc.Clone()
	out.Items = append(out.Items[:index], out.Items[index+1:]...)
	return reprice(doc, out)
}

// SetOverallDiscount changes the document-level discount.
func SetOverallDiscount(doc model.ItemDocument, percent decimal.Decimal) (model.ItemDocument, error) {
	out := doc.Clone()
	out.OverallDiscountPercent = percent
	return reprice(doc, out)
}

// ApplyEdit changes header fields. Items and totals are untouched.
func ApplyEdit(doc model.ItemDocument, e Edit) (model.ItemDocument, error) {
	out := doc.Clone()
	if e.Number != nil {
		if *e.Number == "" {
			return doc, apperrors.Invalid("number", "must not be empty")
		}
		out.Number = *e.Number
	}
	if e.Counterparty != nil {
		if *e.Counterparty == "" {
			return doc, apperrors.Invalid("counterparty", "must not be empty")
		}
		out.Counterparty = *e.Counterparty
	}
	if e.IssueDate != nil {
		if e.IssueDate.IsZero() {
			return doc, apperrors.Invalid("issue_date", "must be set")
		}
		out.IssueDate = *e.IssueDate
	}
	if e.Notes != nil {
		out.Notes = *e.Notes
	}
	return out, nil
}

// reprice returns the repriced edit, or the unedited document on failure.
func reprice(orig, edited model.ItemDocument) (model.ItemDocument, error) {
	out, err := pricing.Reprice(edited)
	if err != nil {
		return orig, err
	}
	return out, nil
}

func checkIndex(doc model.ItemDocument, index int) error {
	if index < 0 || index >= len(doc.Items) {
		return apperrors.Invalid("item", "no item %d (document has %d)", index+1, len(doc.Items))
	}
	return nil
}
