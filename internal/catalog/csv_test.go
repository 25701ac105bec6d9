package catalog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oficina-erp/oficina/internal/model"
)

func TestRoundTrip(t *testing.T) {
	products := []model.Product{
		{ID: "p1", Code: "BLT-M8", Name: "Hex bolt M8x40", Unit: "pc", ListPrice: decimal.RequireFromString("0.85")},
		{ID: "p2", Code: "SVC-MACH", Name: "Machining, per hour", Unit: "h", ListPrice: decimal.RequireFromString("120")},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteProducts(&buf, products))

	got, err := ReadProducts(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, products[0].ID, got[0].ID)
	assert.Equal(t, products[0].Code, got[0].Code)
	assert.True(t, products[0].ListPrice.Equal(got[0].ListPrice))
	assert.Equal(t, "Machining, per hour", got[1].Name)
}

func TestReadProductsGeneratesMissingIDs(t *testing.T) {
	in := "id,code,name,unit,list_price\n,NUT-M8,Hex nut M8,pc,\"0,20\"\n"
	got, err := ReadProducts(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, "0.2", got[0].ListPrice.String())
}

func TestReadProductsErrors(t *testing.T) {
	_, err := ReadProducts(strings.NewReader("id,code,name,unit,list_price\np1,A,B,pc,abc\n"))
	assert.ErrorContains(t, err, "row 2")

	_, err = ReadProducts(strings.NewReader("id,code\np1,A\n"))
	assert.Error(t, err)
}

func TestReadProductsEmpty(t *testing.T) {
	got, err := ReadProducts(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}
