package codec

import (
	"encoding/json"
	"fmt"

	"github.com/oficina-erp/oficina/internal/model"
	"github.com/oficina-erp/oficina/internal/pricing"
)

// FromItemDocument converts a quote or order to its persisted form.
func FromItemDocument(d model.ItemDocument) ItemDocument {
	out := ItemDocument{
		ID:                     d.ID,
		Number:                 d.Number,
		Counterparty:           d.Counterparty,
		IssueDate:              formatDate(d.IssueDate),
		Notes:                  d.Notes,
		Items:                  make([]LineItem, 0, len(d.Items)),
		OverallDiscountPercent: number(d.OverallDiscountPercent),
		TotalAmount:            number(d.TotalAmount),
		SourceID:               d.SourceID,
	}
	for _, it := range d.Items {
		out.Items = append(out.Items, LineItem{
			ProductID:       it.Product.ID,
			ProductName:     it.Product.Name,
			ProductCode:     it.Product.Code,
			ListPrice:       number(it.Product.ListPrice),
			Quantity:        number(it.Quantity),
			UnitPrice:       number(it.UnitPrice),
			DiscountPercent: number(it.DiscountPercent),
			Subtotal:        number(it.Subtotal),
		})
	}
	return out
}

// ToDomain converts a persisted document back into the domain model. Stored
// subtotals and total are discarded and re-derived from the item inputs.
func (w ItemDocument) ToDomain(kind model.Kind) (model.ItemDocument, error) {
	if w.ID == "" {
		return model.ItemDocument{}, fmt.Errorf("id: missing")
	}
	d := model.ItemDocument{
		ID:           w.ID,
		Kind:         kind,
		Number:       w.Number,
		Counterparty: w.Counterparty,
		Notes:        w.Notes,
		SourceID:     w.SourceID,
	}

	var err error
	if d.IssueDate, err = parseDate("issue_date", w.IssueDate); err != nil {
		return model.ItemDocument{}, err
	}
	if d.OverallDiscountPercent, err = parseOptionalDecimal("overall_discount_percent", w.OverallDiscountPercent); err != nil {
		return model.ItemDocument{}, err
	}

	for i, it := range w.Items {
		li := model.LineItem{Product: model.ProductRef{ID: it.ProductID, Name: it.ProductName, Code: it.ProductCode}}
		prefix := fmt.Sprintf("items[%d].", i)
		if li.Product.ListPrice, err = parseOptionalDecimal(prefix+"list_price", it.ListPrice); err != nil {
			return model.ItemDocument{}, err
		}
		if li.Quantity, err = parseDecimal(prefix+"quantity", it.Quantity); err != nil {
			return model.ItemDocument{}, err
		}
		if li.UnitPrice, err = parseDecimal(prefix+"unit_price", it.UnitPrice); err != nil {
			return model.ItemDocument{}, err
		}
		if li.DiscountPercent, err = parseOptionalDecimal(prefix+"discount_percent", it.DiscountPercent); err != nil {
			return model.ItemDocument{}, err
		}
		d.Items = append(d.Items, li)
	}

	return pricing.Reprice(d)
}

// Items encodes and decodes one collection of quotes or orders.
type Items struct {
	Kind model.Kind
}

// Encode renders docs as a JSON array.
func (c Items) Encode(docs []model.ItemDocument) ([]byte, error) {
	wire := make([]ItemDocument, 0, len(docs))
	for _, d := range docs {
		wire = append(wire, FromItemDocument(d))
	}
	data, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding %ss: %w", c.Kind, err)
	}
	return data, nil
}

// Decode parses a JSON array of documents.
func (c Items) Decode(data []byte) ([]model.ItemDocument, error) {
	kind, err := model.ParseKind(string(c.Kind))
	if err != nil {
		return nil, err
	}
	var wire []ItemDocument
	if err := decodeJSON(data, &wire); err != nil {
		return nil, fmt.Errorf("decoding %ss: %w", kind, err)
	}
	docs := make([]model.ItemDocument, 0, len(wire))
	for i, w := range wire {
		d, err := w.ToDomain(kind)
		if err != nil {
			return nil, fmt.Errorf("decoding %s %d (%s): %w", c.Kind, i+1, w.Number, err)
		}
		docs = append(docs, d)
	}
	return docs, nil
}
