package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/oficina-erp/oficina/internal/id"
	"github.com/oficina-erp/oficina/internal/model"
	"github.com/oficina-erp/oficina/internal/money"
)

const (
	numFields    = 5
	colID        = 0
	colCode      = 1
	colName      = 2
	colUnit      = 3
	colListPrice = 4
)

var header = []string{"id", "code", "name", "unit", "list_price"}

// ReadProducts reads a products CSV. Rows with an empty id get a new one.
func ReadProducts(r io.Reader) ([]model.Product, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading products CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var products []model.Product
	for i, rec := range records[1:] {
		p, err := UnmarshalProduct(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		products = append(products, p)
	}
	return products, nil
}

// WriteProducts writes products as CSV with a header row.
func WriteProducts(w io.Writer, products []model.Product) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, p := range products {
		if err := cw.Write(MarshalProduct(p)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalProduct converts a Product to a CSV row.
func MarshalProduct(p model.Product) []string {
	row := make([]string, numFields)
	row[colID] = p.ID
	row[colCode] = p.Code
	row[colName] = p.Name
	row[colUnit] = p.Unit
	row[colListPrice] = p.ListPrice.String()
	return row
}

// UnmarshalProduct converts a CSV row to a Product.
func UnmarshalProduct(record []string) (model.Product, error) {
	if len(record) != numFields {
		return model.Product{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	price := decimal.Zero
	if raw := strings.TrimSpace(record[colListPrice]); raw != "" {
		var err error
		price, err = money.Parse(raw)
		if err != nil {
			return model.Product{}, fmt.Errorf("parsing list_price: %w", err)
		}
	}

	p := model.Product{
		ID:        strings.TrimSpace(record[colID]),
		Code:      strings.TrimSpace(record[colCode]),
		Name:      strings.TrimSpace(record[colName]),
		Unit:      strings.TrimSpace(record[colUnit]),
		ListPrice: price,
	}
	if p.ID == "" {
		p.ID = id.New()
	}
	return p, nil
}
