// Package ledger owns the lifecycle of payable and receivable documents:
// partial payments, full reversal, free-form edits and the overdue overlay.
//
// Payables and receivables share every transition; the Direction only changes
// labels. All operations take a document value and return an updated copy.
package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oficina-erp/oficina/internal/apperrors"
	"github.com/oficina-erp/oficina/internal/id"
	"github.com/oficina-erp/oficina/internal/model"
	"github.com/oficina-erp/oficina/internal/money"
	"github.com/oficina-erp/oficina/internal/validate"
)

// Policy holds the configurable rules of the state machine.
type Policy struct {
	// AllowOverpayment lets a payment exceed the remaining balance (advance credit).
	AllowOverpayment bool
}

// NewInput holds the fields needed to open a ledger document.
type NewInput struct {
	Number         string          `field:"number" validate:"max=40"`
	Description    string          `field:"description" validate:"required,max=200"`
	Counterparty   string          `field:"counterparty" validate:"required,max=200"`
	Category       string          `field:"category" validate:"max=80"`
	DueDate        time.Time       `field:"due_date" validate:"required"`
	OriginalAmount decimal.Decimal `field:"original_amount" validate:"dec_gt0,cents"`
	SourceID       string          `field:"source_id"`
}

// PaymentInput is one user-initiated payment or receipt.
// Date is not compared against the current date; back- and post-dating are allowed.
type PaymentInput struct {
	Amount decimal.Decimal `field:"amount" validate:"dec_gt0,cents"`
	Date   time.Time       `field:"date" validate:"required"`
	Method string          `field:"method" validate:"required,max=80"`
}

// Edit carries the free-form fields of an edit. Nil fields are left unchanged.
type Edit struct {
	Number         *string
	Description    *string
	Counterparty   *string
	Category       *string
	DueDate        *time.Time
	OriginalAmount *decimal.Decimal
}

// StatusFor returns the stored lifecycle state implied by the amounts.
func StatusFor(paid, original decimal.Decimal) model.Status {
	switch {
	case !paid.IsPositive():
		return model.StatusPending
	case paid.GreaterThanOrEqual(original):
		return model.StatusPaid
	default:
		return model.StatusPartiallyPaid
	}
}

// Open creates a new Pending document with no payments.
// The caller assigns Number when in.Number is empty.
func Open(direction model.Direction, in NewInput) (model.LedgerDocument, error) {
	if !direction.IsValid() {
		return model.LedgerDocument{}, apperrors.Invalid("direction", "unknown direction %q", direction)
	}
	if err := validate.Struct(in); err != nil {
		return model.LedgerDocument{}, err
	}

	return model.LedgerDocument{
		ID:             id.New(),
		Direction:      direction,
		Number:         in.Number,
		Description:    in.Description,
		Counterparty:   in.Counterparty,
		Category:       in.Category,
		DueDate:        in.DueDate,
		OriginalAmount: in.OriginalAmount,
		PaidAmount:     decimal.Zero,
		Status:         model.StatusPending,
		SourceID:       in.SourceID,
	}, nil
}

// RecordPayment appends a payment event, adds its amount to PaidAmount and
// recomputes the stored status. It is the only way PaidAmount increases.
func RecordPayment(doc model.LedgerDocument, in PaymentInput, policy Policy) (model.LedgerDocument, error) {
	if err := validate.Struct(in); err != nil {
		return doc, err
	}

	if !policy.AllowOverpayment {
		remaining := doc.Remaining()
		if in.Amount.GreaterThan(remaining) {
			return doc, apperrors.Invalid("amount", "%s %s exceeds remaining balance %s",
				doc.Direction.EventLabel(), money.Format(in.Amount), money.Format(remaining))
		}
	}

	out := doc.Clone()
	out.PaymentHistory = append(out.PaymentHistory, model.PaymentEvent{
		ID:     id.New(),
		Date:   in.Date,
		Amount: in.Amount,
		Method: in.Method,
	})
	out.PaidAmount = out.PaidAmount.Add(in.Amount)
	out.Status = StatusFor(out.PaidAmount, out.OriginalAmount)
	return out, nil
}

// ReverseAllPayments undoes every recorded payment. There is no selective
// reversal: history is cleared and the document returns to Pending. Whether it
// shows as overdue is decided by DisplayStatus from the due date.
func ReverseAllPayments(doc model.LedgerDocument) model.LedgerDocument {
	out := doc.Clone()
	out.PaymentHistory = nil
	out.PaidAmount = decimal.Zero
	out.Status = model.StatusPending
	return out
}

// ApplyEdit changes free-form fields without touching PaidAmount, Status or
// PaymentHistory. OriginalAmount may only change while no payment exists.
func ApplyEdit(doc model.LedgerDocument, e Edit) (model.LedgerDocument, error) {
	out := doc.Clone()

	if e.Number != nil {
		if *e.Number == "" {
			return doc, apperrors.Invalid("number", "must not be empty")
		}
		out.Number = *e.Number
	}
	if e.Description != nil {
		if *e.Description == "" {
			return doc, apperrors.Invalid("description", "must not be empty")
		}
		out.Description = *e.Description
	}
	if e.Counterparty != nil {
		if *e.Counterparty == "" {
			return doc, apperrors.Invalid("counterparty", "must not be empty")
		}
		out.Counterparty = *e.Counterparty
	}
	if e.Category != nil {
		out.Category = *e.Category
	}
	if e.DueDate != nil {
		if e.DueDate.IsZero() {
			return doc, apperrors.Invalid("due_date", "must be set")
		}
		out.DueDate = *e.DueDate
	}
	if e.OriginalAmount != nil {
		amount := *e.OriginalAmount
		if len(doc.PaymentHistory) > 0 || doc.PaidAmount.IsPositive() {
			return doc, apperrors.Invalid("original_amount", "cannot change once %ss exist; reverse them first", doc.Direction.EventLabel())
		}
		if !amount.IsPositive() {
			return doc, apperrors.Invalid("original_amount", "must be positive, got %s", amount)
		}
		if !money.HasAtMostCents(amount) {
			return doc, apperrors.Invalid("original_amount", "must have at most %d decimal places, got %s", money.Places, amount)
		}
		out.OriginalAmount = amount
		out.Status = StatusFor(out.PaidAmount, out.OriginalAmount)
	}
	return out, nil
}

// DisplayStatus overlays Overdue on the stored status when the due date's
// calendar day is before now's and the document is not fully paid.
func DisplayStatus(doc model.LedgerDocument, now time.Time) model.Status {
	if doc.Status == model.StatusPaid {
		return doc.Status
	}
	if IsPastDue(doc.DueDate, now) {
		return model.StatusOverdue
	}
	return doc.Status
}

// IsPastDue compares calendar days in now's location.
func IsPastDue(due, now time.Time) bool {
	if due.IsZero() {
		return false
	}
	dy, dm, dd := due.Date()
	ny, nm, nd := now.Date()
	dueDay := time.Date(dy, dm, dd, 0, 0, 0, 0, now.Location())
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, now.Location())
	return dueDay.Before(today)
}

// CheckInvariants verifies a document read from storage: PaidAmount is
// non-negative and equals the history total, every event has a unique id and a
// positive amount in cents, and the stored status matches the amounts.
func CheckInvariants(doc model.LedgerDocument) error {
	if !doc.Direction.IsValid() {
		return fmt.Errorf("document %s: unknown direction %q", doc.ID, doc.Direction)
	}
	if doc.PaidAmount.IsNegative() {
		return fmt.Errorf("document %s: paid amount %s is negative", doc.ID, doc.PaidAmount)
	}
	seen := make(map[string]bool, len(doc.PaymentHistory))
	for i, e := range doc.PaymentHistory {
		label := doc.Direction.EventLabel()
		if e.ID == "" {
			return fmt.Errorf("document %s: %s %d has no id", doc.ID, label, i+1)
		}
		if seen[e.ID] {
			return fmt.Errorf("document %s: %s %d repeats id %s", doc.ID, label, i+1, e.ID)
		}
		seen[e.ID] = true
		if !e.Amount.IsPositive() {
			return fmt.Errorf("document %s: %s %d has non-positive amount %s", doc.ID, label, i+1, e.Amount)
		}
		if !money.HasAtMostCents(e.Amount) {
			return fmt.Errorf("document %s: %s %d amount %s has more than %d decimal places", doc.ID, label, i+1, e.Amount, money.Places)
		}
	}
	if total := doc.HistoryTotal(); !total.Equal(doc.PaidAmount) {
		return fmt.Errorf("document %s: payment history sums to %s but paid amount is %s", doc.ID, total, doc.PaidAmount)
	}
	if want := StatusFor(doc.PaidAmount, doc.OriginalAmount); doc.Status != want {
		return fmt.Errorf("document %s: status %q inconsistent with paid %s of %s (want %q)",
			doc.ID, doc.Status, doc.PaidAmount, doc.OriginalAmount, want)
	}
	return nil
}
