package ledger

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/oficina-erp/oficina/internal/apperrors"
	"github.com/oficina-erp/oficina/internal/id"
	"github.com/oficina-erp/oficina/internal/model"
	"github.com/oficina-erp/oficina/internal/money"
)

// Collection is the document storage a Service works against.
type Collection interface {
	Get(id string) (model.LedgerDocument, bool)
	List() []model.LedgerDocument
	Upsert(ctx context.Context, doc model.LedgerDocument)
	Remove(ctx context.Context, id string) bool
}

// Service applies state-machine operations to the documents of one direction
// and writes the results back to its collection.
type Service struct {
	direction model.Direction
	docs      Collection
	policy    Policy
	log       zerolog.Logger
	clock     func() time.Time
}

// NewService returns a Service for payables or receivables.
func NewService(direction model.Direction, docs Collection, policy Policy, log zerolog.Logger) *Service {
	return &Service{
		direction: direction,
		docs:      docs,
		policy:    policy,
		log:       log.With().Str("direction", string(direction)).Logger(),
		clock:     time.Now,
	}
}

// Direction returns the direction the service manages.
func (s *Service) Direction() model.Direction { return s.direction }

// Now returns the service clock's current time.
func (s *Service) Now() time.Time { return s.clock() }

func (s *Service) prefix() string {
	if s.direction == model.Receivable {
		return id.PrefixReceivable
	}
	return id.PrefixPayable
}

// Get returns a document by id or number.
func (s *Service) Get(ref string) (model.LedgerDocument, error) {
	if doc, ok := s.docs.Get(ref); ok {
		return doc, nil
	}
	for _, doc := range s.docs.List() {
		if doc.Number == ref {
			return doc, nil
		}
	}
	return model.LedgerDocument{}, apperrors.NotFound(string(s.direction), ref)
}

// Create opens a new document. An empty number is assigned the next
// sequence for the current year.
func (s *Service) Create(ctx context.Context, in NewInput) (model.LedgerDocument, error) {
	existing := s.numbers()
	if in.Number == "" {
		in.Number = id.NextNumber(s.prefix(), s.clock().Year(), existing)
	} else if slices.Contains(existing, in.Number) {
		return model.LedgerDocument{}, apperrors.Invalid("number", "%s %s already exists", s.direction, in.Number)
	}

	doc, err := Open(s.direction, in)
	if err != nil {
		return model.LedgerDocument{}, err
	}
	s.docs.Upsert(ctx, doc)
	s.log.Info().Str("id", doc.ID).Str("number", doc.Number).
		Str("amount", money.Format(doc.OriginalAmount)).Msg("document created")
	return doc, nil
}

// CreateFromOrder raises a document for an order's total: purchase orders
// raise payables and sales orders raise receivables. Each order can raise at
// most one document.
func (s *Service) CreateFromOrder(ctx context.Context, order model.ItemDocument, dueDate time.Time, category string) (model.LedgerDocument, error) {
	want := model.KindPurchaseOrder
	if s.direction == model.Receivable {
		want = model.KindSalesOrder
	}
	if order.Kind != want {
		return model.LedgerDocument{}, apperrors.Invalid("order", "a %s can only be raised from a %s, got %s",
			s.direction, want.Label(), order.Kind.Label())
	}
	for _, doc := range s.docs.List() {
		if doc.SourceID == order.ID {
			return model.LedgerDocument{}, apperrors.Invalid("order", "%s %s already raised %s %s",
				order.Kind.Label(), order.Number, s.direction, doc.Number)
		}
	}

	return s.Create(ctx, NewInput{
		Description:    order.Kind.Label() + " " + order.Number,
		Counterparty:   order.Counterparty,
		Category:       category,
		DueDate:        dueDate,
		OriginalAmount: order.TotalAmount.Round(money.Places),
		SourceID:       order.ID,
	})
}

// RecordPayment records a payment or receipt against the document ref.
func (s *Service) RecordPayment(ctx context.Context, ref string, in PaymentInput) (model.LedgerDocument, error) {
	doc, err := s.Get(ref)
	if err != nil {
		return model.LedgerDocument{}, err
	}
	updated, err := RecordPayment(doc, in, s.policy)
	if err != nil {
		return model.LedgerDocument{}, err
	}
	s.docs.Upsert(ctx, updated)
	s.log.Info().Str("id", doc.ID).Str("amount", money.Format(in.Amount)).
		Str("status", string(updated.Status)).Msgf("%s recorded", s.direction.EventLabel())
	return updated, nil
}

// ReverseAllPayments clears every payment on the document ref.
func (s *Service) ReverseAllPayments(ctx context.Context, ref string) (model.LedgerDocument, error) {
	doc, err := s.Get(ref)
	if err != nil {
		return model.LedgerDocument{}, err
	}
	updated := ReverseAllPayments(doc)
	s.docs.Upsert(ctx, updated)
	s.log.Info().Str("id", doc.ID).Int("events", len(doc.PaymentHistory)).
		Str("amount", money.Format(doc.PaidAmount)).Msg("payments reversed")
	return updated, nil
}

// Edit applies a free-form edit to the document ref.
func (s *Service) Edit(ctx context.Context, ref string, e Edit) (model.LedgerDocument, error) {
	doc, err := s.Get(ref)
	if err != nil {
		return model.LedgerDocument{}, err
	}
	if e.Number != nil && *e.Number != doc.Number && slices.Contains(s.numbers(), *e.Number) {
		return model.LedgerDocument{}, apperrors.Invalid("number", "%s %s already exists", s.direction, *e.Number)
	}
	updated, err := ApplyEdit(doc, e)
	if err != nil {
		return model.LedgerDocument{}, err
	}
	s.docs.Upsert(ctx, updated)
	s.log.Debug().Str("id", doc.ID).Msg("document edited")
	return updated, nil
}

// Delete removes the document ref.
func (s *Service) Delete(ctx context.Context, ref string) error {
	doc, err := s.Get(ref)
	if err != nil {
		return err
	}
	s.docs.Remove(ctx, doc.ID)
	s.log.Info().Str("id", doc.ID).Str("number", doc.Number).Msg("document deleted")
	return nil
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	// Status matches the display status, so StatusOverdue selects overdue documents.
	Status model.Status
	// Outstanding keeps documents with a positive remaining balance.
	Outstanding bool
	// Counterparty matches case-insensitively as a substring.
	Counterparty string
}

// List returns the matching documents ordered by due date, then number.
func (s *Service) List(f Filter) []model.LedgerDocument {
	now := s.clock()
	var out []model.LedgerDocument
	for _, doc := range s.docs.List() {
		if f.Status != "" && DisplayStatus(doc, now) != f.Status {
			continue
		}
		if f.Outstanding && !doc.Remaining().IsPositive() {
			continue
		}
		if f.Counterparty != "" && !strings.Contains(strings.ToLower(doc.Counterparty), strings.ToLower(f.Counterparty)) {
			continue
		}
		out = append(out, doc)
	}
	slices.SortStableFunc(out, func(a, b model.LedgerDocument) int {
		if c := a.DueDate.Compare(b.DueDate); c != 0 {
			return c
		}
		return strings.Compare(a.Number, b.Number)
	})
	return out
}

// Summary is the cash-flow view of one direction.
type Summary struct {
	Direction     model.Direction
	Count         int
	Original      decimal.Decimal
	Paid          decimal.Decimal
	Outstanding   decimal.Decimal
	OverdueCount  int
	OverdueAmount decimal.Decimal
	ByStatus      map[model.Status]int
}

// Summary totals every document. Outstanding counts only positive balances;
// ByStatus is keyed by display status.
func (s *Service) Summary() Summary {
	now := s.clock()
	sum := Summary{
		Direction:     s.direction,
		Original:      decimal.Zero,
		Paid:          decimal.Zero,
		Outstanding:   decimal.Zero,
		OverdueAmount: decimal.Zero,
		ByStatus:      make(map[model.Status]int),
	}
	for _, doc := range s.docs.List() {
		sum.Count++
		sum.Original = sum.Original.Add(doc.OriginalAmount)
		sum.Paid = sum.Paid.Add(doc.PaidAmount)
		remaining := doc.Remaining()
		if remaining.IsPositive() {
			sum.Outstanding = sum.Outstanding.Add(remaining)
		}
		status := DisplayStatus(doc, now)
		sum.ByStatus[status]++
		if status == model.StatusOverdue {
			sum.OverdueCount++
			sum.OverdueAmount = sum.OverdueAmount.Add(remaining)
		}
	}
	return sum
}

func (s *Service) numbers() []string {
	docs := s.docs.List()
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Number)
	}
	return out
}
