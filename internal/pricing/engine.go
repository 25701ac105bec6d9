// Package pricing computes line-item subtotals and document totals.
// All functions are pure; callers write the results back onto their documents.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/oficina-erp/oficina/internal/apperrors"
	"github.com/oficina-erp/oficina/internal/model"
	"github.com/oficina-erp/oficina/internal/money"
)

// ValidateLine checks the preconditions of LineSubtotal.
func ValidateLine(quantity, unitPrice, discountPercent decimal.Decimal) error {
	if !quantity.IsPositive() {
		return apperrors.Invalid("quantity", "must be positive, got %s", quantity)
	}
	if unitPrice.IsNegative() {
		return apperrors.Invalid("unit_price", "must not be negative, got %s", unitPrice)
	}
	if !money.ValidPercent(discountPercent) {
		return apperrors.Invalid("discount_percent", "must be between 0 and 100, got %s", discountPercent)
	}
	return nil
}

// LineSubtotal returns quantity * unitPrice * (1 - discountPercent/100).
func LineSubtotal(quantity, unitPrice, discountPercent decimal.Decimal) (decimal.Decimal, error) {
	if err := ValidateLine(quantity, unitPrice, discountPercent); err != nil {
		return decimal.Zero, err
	}
	return quantity.Mul(unitPrice).Mul(money.DiscountFactor(discountPercent)), nil
}

// DocumentTotal sums the line subtotals of items and applies the overall discount.
// Subtotals are recomputed from each item's inputs rather than trusted.
func DocumentTotal(items []model.LineItem, overallDiscountPercent decimal.Decimal) (decimal.Decimal, error) {
	if !money.ValidPercent(overallDiscountPercent) {
		return decimal.Zero, apperrors.Invalid("overall_discount_percent", "must be between 0 and 100, got %s", overallDiscountPercent)
	}

	sum := decimal.Zero
	for i, item := range items {
		sub, err := LineSubtotal(item.Quantity, item.UnitPrice, item.DiscountPercent)
		if err != nil {
			return decimal.Zero, fmt.Errorf("item %d: %w", i+1, err)
		}
		sum = sum.Add(sub)
	}
	return sum.Mul(money.DiscountFactor(overallDiscountPercent)), nil
}

// Reprice recomputes every item subtotal and the document total, returning a new document.
func Reprice(doc model.ItemDocument) (model.ItemDocument, error) {
	out := doc.Clone()
	for i := range out.Items {
		it := &out.Items[i]
		sub, err := LineSubtotal(it.Quantity, it.UnitPrice, it.DiscountPercent)
		if err != nil {
			return doc, fmt.Errorf("item %d: %w", i+1, err)
		}
		it.Subtotal = sub
	}
	total, err := DocumentTotal(out.Items, out.OverallDiscountPercent)
	if err != nil {
		return doc, err
	}
	out.TotalAmount = total
	return out, nil
}
