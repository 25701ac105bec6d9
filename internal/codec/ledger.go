package codec

import (
	"encoding/json"
	"fmt"

	"github.com/oficina-erp/oficina/internal/ledger"
	"github.com/oficina-erp/oficina/internal/model"
	"github.com/oficina-erp/oficina/internal/money"
)

// FromLedger converts a domain document to its persisted form.
func FromLedger(d model.LedgerDocument) LedgerDocument {
	out := LedgerDocument{
		ID:             d.ID,
		Number:         d.Number,
		Description:    d.Description,
		Counterparty:   d.Counterparty,
		Category:       d.Category,
		DueDate:        formatDate(d.DueDate),
		OriginalAmount: number(d.OriginalAmount),
		PaidAmount:     number(d.PaidAmount),
		Status:         string(d.Status),
		PaymentHistory: make([]PaymentEvent, 0, len(d.PaymentHistory)),
		SourceID:       d.SourceID,
	}
	for _, e := range d.PaymentHistory {
		out.PaymentHistory = append(out.PaymentHistory, PaymentEvent{
			ID:     e.ID,
			Date:   formatDate(e.Date),
			Amount: number(e.Amount),
			Method: e.Method,
		})
	}
	return out
}

// ToDomain converts a persisted document back into the domain model and
// verifies the ledger invariants. A stored "overdue" status is replaced by the
// status derived from the amounts; any other mismatch is an error.
func (w LedgerDocument) ToDomain(direction model.Direction) (model.LedgerDocument, error) {
	if w.ID == "" {
		return model.LedgerDocument{}, fmt.Errorf("id: missing")
	}
	d := model.LedgerDocument{
		ID:           w.ID,
		Direction:    direction,
		Number:       w.Number,
		Description:  w.Description,
		Counterparty: w.Counterparty,
		Category:     w.Category,
		SourceID:     w.SourceID,
	}

	var err error
	if d.DueDate, err = parseDate("due_date", w.DueDate); err != nil {
		return model.LedgerDocument{}, err
	}
	if d.OriginalAmount, err = parseDecimal("original_amount", w.OriginalAmount); err != nil {
		return model.LedgerDocument{}, err
	}
	if !d.OriginalAmount.IsPositive() || !money.HasAtMostCents(d.OriginalAmount) {
		return model.LedgerDocument{}, fmt.Errorf("original_amount: %s is not a positive amount in cents", d.OriginalAmount)
	}
	if d.PaidAmount, err = parseOptionalDecimal("paid_amount", w.PaidAmount); err != nil {
		return model.LedgerDocument{}, err
	}

	for i, e := range w.PaymentHistory {
		ev := model.PaymentEvent{ID: e.ID, Method: e.Method}
		if ev.Date, err = parseDate(fmt.Sprintf("payment_history[%d].date", i), e.Date); err != nil {
			return model.LedgerDocument{}, err
		}
		if ev.Amount, err = parseDecimal(fmt.Sprintf("payment_history[%d].amount", i), e.Amount); err != nil {
			return model.LedgerDocument{}, err
		}
		d.PaymentHistory = append(d.PaymentHistory, ev)
	}

	status, err := model.ParseStatus(w.Status)
	if err != nil {
		return model.LedgerDocument{}, fmt.Errorf("status: %w", err)
	}
	if !status.IsStored() {
		status = ledger.StatusFor(d.PaidAmount, d.OriginalAmount)
	}
	d.Status = status

	if err := ledger.CheckInvariants(d); err != nil {
		return model.LedgerDocument{}, err
	}
	return d, nil
}

// Ledger encodes and decodes one collection of payables or receivables.
type Ledger struct {
	Direction model.Direction
}

// Encode renders docs as a JSON array.
func (c Ledger) Encode(docs []model.LedgerDocument) ([]byte, error) {
	wire := make([]LedgerDocument, 0, len(docs))
	for _, d := range docs {
		wire = append(wire, FromLedger(d))
	}
	data, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding %ss: %w", c.Direction, err)
	}
	return data, nil
}

// Decode parses a JSON array, rejecting the whole collection if any document
// is malformed.
func (c Ledger) Decode(data []byte) ([]model.LedgerDocument, error) {
	direction, err := model.ParseDirection(string(c.Direction))
	if err != nil {
		return nil, err
	}
	var wire []LedgerDocument
	if err := decodeJSON(data, &wire); err != nil {
		return nil, fmt.Errorf("decoding %ss: %w", direction, err)
	}
	docs := make([]model.LedgerDocument, 0, len(wire))
	for i, w := range wire {
		d, err := w.ToDomain(direction)
		if err != nil {
			return nil, fmt.Errorf("decoding %s %d (%s): %w", c.Direction, i+1, w.Number, err)
		}
		docs = append(docs, d)
	}
	return docs, nil
}
