package codec

import (
	"encoding/json"
	"fmt"

	"github.com/oficina-erp/oficina/internal/model"
)

// Products encodes and decodes the product catalog collection.
type Products struct{}

// Encode renders products as a JSON array.
func (Products) Encode(products []model.Product) ([]byte, error) {
	wire := make([]Product, 0, len(products))
	for _, p := range products {
		wire = append(wire, Product{ID: p.ID, Code: p.Code, Name: p.Name, Unit: p.Unit, ListPrice: number(p.ListPrice)})
	}
	data, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding products: %w", err)
	}
	return data, nil
}

// Decode parses a JSON array of products.
func (Products) Decode(data []byte) ([]model.Product, error) {
	var wire []Product
	if err := decodeJSON(data, &wire); err != nil {
		return nil, fmt.Errorf("decoding products: %w", err)
	}
	out := make([]model.Product, 0, len(wire))
	for i, w := range wire {
		if w.ID == "" {
			return nil, fmt.Errorf("decoding product %d: id: missing", i+1)
		}
		price, err := parseOptionalDecimal("list_price", w.ListPrice)
		if err != nil {
			return nil, fmt.Errorf("decoding product %d (%s): %w", i+1, w.Code, err)
		}
		out = append(out, model.Product{ID: w.ID, Code: w.Code, Name: w.Name, Unit: w.Unit, ListPrice: price})
	}
	return out, nil
}
