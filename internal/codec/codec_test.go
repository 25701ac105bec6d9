package codec

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oficina-erp/oficina/internal/model"
	"github.com/oficina-erp/oficina/internal/store"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleLedger() model.LedgerDocument {
	return model.LedgerDocument{
		ID:             "doc-1",
		Direction:      model.Payable,
		Number:         "AP-2025-0001",
		Description:    "Steel coils",
		Counterparty:   "Acme Steel",
		Category:       "raw materials",
		DueDate:        date("2025-03-10"),
		OriginalAmount: dec("2100.00"),
		PaidAmount:     dec("500.00"),
		Status:         model.StatusPartiallyPaid,
		PaymentHistory: []model.PaymentEvent{
			{ID: "ev-1", Date: date("2025-02-01"), Amount: dec("500.00"), Method: "pix"},
		},
	}
}

func TestLedgerEncodeUsesNativeNumbers(t *testing.T) {
	data, err := Ledger{Direction: model.Payable}.Encode([]model.LedgerDocument{sampleLedger()})
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, 2100.0, raw[0]["original_amount"])
	assert.Equal(t, "2025-03-10", raw[0]["due_date"])
	assert.Equal(t, "partially_paid", raw[0]["status"])
}

func TestLedgerDecodeRestoresDocument(t *testing.T) {
	c := Ledger{Direction: model.Payable}
	data, err := c.Encode([]model.LedgerDocument{sampleLedger()})
	require.NoError(t, err)

	docs, err := c.Decode(data)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	got := docs[0]
	want := sampleLedger()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, model.Payable, got.Direction)
	assert.True(t, want.OriginalAmount.Equal(got.OriginalAmount))
	assert.True(t, want.PaidAmount.Equal(got.PaidAmount))
	assert.Equal(t, want.Status, got.Status)
	assert.True(t, want.DueDate.Equal(got.DueDate))
	require.Len(t, got.PaymentHistory, 1)
	assert.Equal(t, "pix", got.PaymentHistory[0].Method)
}

func TestLedgerDecodeKeepsPrecision(t *testing.T) {
	data := []byte(`[{"id":"x","number":"AR-2025-0001","description":"d","counterparty":"c",
		"due_date":"2025-01-01","original_amount":0.10,"paid_amount":0.10,"status":"paid",
		"payment_history":[{"id":"e","date":"2025-01-01","amount":0.10,"method":"cash"}]}]`)
	docs, err := Ledger{Direction: model.Receivable}.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "0.1", docs[0].OriginalAmount.String())
	assert.Equal(t, model.Receivable, docs[0].Direction)
}

func TestLedgerDecodeNormalizesStoredOverdue(t *testing.T) {
	tests := []struct {
		paid    string
		history string
		want    model.Status
	}{
		{"0", `[]`, model.StatusPending},
		{"50", `[{"id":"e","date":"2025-01-01","amount":50,"method":"cash"}]`, model.StatusPartiallyPaid},
	}
	for _, tt := range tests {
		data := []byte(`[{"id":"x","number":"AP-2025-0001","description":"d","counterparty":"c",
			"due_date":"2024-01-01","original_amount":100,"paid_amount":` + tt.paid + `,"status":"overdue",
			"payment_history":` + tt.history + `}]`)
		docs, err := Ledger{Direction: model.Payable}.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, tt.want, docs[0].Status)
	}
}

func TestLedgerDecodeRejectsBadDocuments(t *testing.T) {
	base := func(status, paid, history string) []byte {
		return []byte(`[{"id":"x","number":"AP-2025-0001","description":"d","counterparty":"c",
			"due_date":"2025-01-01","original_amount":100,"paid_amount":` + paid + `,"status":"` + status + `",
			"payment_history":` + history + `}]`)
	}
	tests := map[string][]byte{
		"unknown status":          base("Pago", "0", `[]`),
		"status inconsistent":     base("paid", "0", `[]`),
		"history sum mismatch":    base("partially_paid", "60", `[{"id":"e","date":"2025-01-01","amount":50,"method":"cash"}]`),
		"negative paid":           base("pending", "-1", `[]`),
		"non-positive event":      base("pending", "0", `[{"id":"e","date":"2025-01-01","amount":0,"method":"cash"}]`),
		"bad due date":            []byte(`[{"id":"x","due_date":"10/03/2025","original_amount":1,"paid_amount":0,"status":"pending"}]`),
		"missing original amount": []byte(`[{"id":"x","due_date":"2025-01-01","paid_amount":0,"status":"pending"}]`),
		"fractional cents":        []byte(`[{"id":"x","due_date":"2025-01-01","original_amount":1.005,"paid_amount":0,"status":"pending"}]`),
		"missing id":              []byte(`[{"due_date":"2025-01-01","original_amount":1,"paid_amount":0,"status":"pending"}]`),
		"event without id":        base("partially_paid", "50", `[{"date":"2025-01-01","amount":50,"method":"cash"}]`),
		"repeated event id": base("partially_paid", "50", `[{"id":"e","date":"2025-01-01","amount":25,"method":"cash"},
			{"id":"e","date":"2025-01-02","amount":25,"method":"cash"}]`),
		"sub-cent event": base("partially_paid", "50.005", `[{"id":"e","date":"2025-01-01","amount":50.005,"method":"cash"}]`),
		"unknown field":  []byte(`[{"id":"x","due_date":"2025-01-01","original_amount":1,"paid_amount":0,"status":"pending","balance":1}]`),
		"not json":       []byte(`{`),
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Ledger{Direction: model.Payable}.Decode(data)
			assert.Error(t, err)
		})
	}
}

func TestItemsRoundTripRederivesTotals(t *testing.T) {
	doc := model.ItemDocument{
		ID:           "q-1",
		Kind:         model.KindQuote,
		Number:       "QT-2025-0001",
		Counterparty: "Metalúrgica Sul",
		IssueDate:    date("2025-02-01"),
		Items: []model.LineItem{
			{Product: model.ProductRef{ID: "p1", Name: "Bolt", ListPrice: dec("50")}, Quantity: dec("10"), UnitPrice: dec("50"), DiscountPercent: dec("0")},
			{Product: model.ProductRef{ID: "p2", Name: "Nut"}, Quantity: dec("3"), UnitPrice: dec("250"), DiscountPercent: dec("10")},
		},
		OverallDiscountPercent: dec("2.5"),
	}
	c := Items{Kind: model.KindQuote}
	data, err := c.Encode([]model.ItemDocument{doc})
	require.NoError(t, err)

	docs, err := c.Decode(data)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, model.KindQuote, docs[0].Kind)
	assert.Equal(t, "500", docs[0].Items[0].Subtotal.String())
	assert.Equal(t, "675", docs[0].Items[1].Subtotal.String())
	assert.Equal(t, "1145.625", docs[0].TotalAmount.String())
}

func TestItemsDecodeIgnoresStaleTotals(t *testing.T) {
	data := []byte(`[{"id":"so-1","number":"SO-2025-0001","counterparty":"c","issue_date":"2025-01-01",
		"items":[{"product_id":"p","product_name":"n","list_price":5,"quantity":2,"unit_price":5,"discount_percent":0,"subtotal":999}],
		"overall_discount_percent":0,"total_amount":999}]`)
	docs, err := Items{Kind: model.KindSalesOrder}.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "10", docs[0].Items[0].Subtotal.String())
	assert.Equal(t, "10", docs[0].TotalAmount.String())
}

func TestItemsDecodeRejectsInvalidLine(t *testing.T) {
	data := []byte(`[{"id":"so-1","number":"SO-2025-0001","counterparty":"c","issue_date":"2025-01-01",
		"items":[{"product_id":"p","product_name":"n","quantity":0,"unit_price":5,"discount_percent":0}],
		"overall_discount_percent":0}]`)
	_, err := Items{Kind: model.KindSalesOrder}.Decode(data)
	assert.Error(t, err)
}

func TestItemsDecodeRejectsUnknownFields(t *testing.T) {
	data := []byte(`[{"id":"so-1","number":"SO-2025-0001","counterparty":"c","issue_date":"2025-01-01",
		"items":[],"overall_discount_percent":0,"total_amount":0,"customer_po":"123"}]`)
	_, err := Items{Kind: model.KindSalesOrder}.Decode(data)
	assert.Error(t, err)
}

func TestDecodeRejectsUnknownCollectionTag(t *testing.T) {
	_, err := Items{Kind: model.Kind("invoice")}.Decode([]byte(`[]`))
	assert.Error(t, err)

	_, err = Ledger{Direction: model.Direction("loan")}.Decode([]byte(`[]`))
	assert.Error(t, err)
}

func TestProductsRoundTrip(t *testing.T) {
	in := []model.Product{{ID: "p1", Code: "BLT-01", Name: "Bolt", Unit: "pc", ListPrice: dec("0.35")}}
	data, err := Products{}.Encode(in)
	require.NoError(t, err)
	out, err := Products{}.Decode(data)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "BLT-01", out[0].Code)
	assert.True(t, out[0].ListPrice.Equal(dec("0.35")))
}

func TestSchema(t *testing.T) {
	for _, key := range []string{store.KeyQuotes, store.KeyPayables, store.KeyProducts} {
		s, err := Schema(key)
		require.NoError(t, err, key)
		data, err := json.Marshal(s)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"array"`)
	}

	_, err := Schema("unknown")
	assert.Error(t, err)
}
