package model

import "github.com/shopspring/decimal"

// Product is a catalog entry. Quotes and orders copy its fields into a
// ProductRef so later catalog changes do not alter existing documents.
type Product struct {
	ID        string
	Code      string
	Name      string
	Unit      string
	ListPrice decimal.Decimal
}

// DocumentID returns the product's identity.
func (p Product) DocumentID() string { return p.ID }

// Ref returns the denormalized fields carried on a line item.
func (p Product) Ref() ProductRef {
	return ProductRef{ID: p.ID, Name: p.Name, Code: p.Code, ListPrice: p.ListPrice}
}
