package catalog

import "github.com/shopspring/decimal"

// SampleProducts returns a small starter catalog for a new data directory.
func SampleProducts() []AddInput {
	return []AddInput{
		{Code: "BLT-M8", Name: "Hex bolt M8x40", Unit: "pc", ListPrice: decimal.RequireFromString("0.85")},
		{Code: "NUT-M8", Name: "Hex nut M8", Unit: "pc", ListPrice: decimal.RequireFromString("0.20")},
		{Code: "STL-SHEET-2", Name: "Steel sheet 2mm", Unit: "m2", ListPrice: decimal.RequireFromString("48.50")},
		{Code: "BRG-6204", Name: "Ball bearing 6204", Unit: "pc", ListPrice: decimal.RequireFromString("12.90")},
		{Code: "SVC-MACH", Name: "Machining service", Unit: "h", ListPrice: decimal.RequireFromString("120.00")},
	}
}
