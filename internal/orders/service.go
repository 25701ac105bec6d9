package orders

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
	"github.com/oficina-erp/oficina/internal/pricing"
	"github.com/oficina-erp/oficina/internal/validate"
)

// Catalog resolves a product id or code into line-item fields.
type Catalog interface {
	Lookup(ref string) (model.ProductRef, error)
}

// Collection is the document storage a Service works against.
type Collection interface {
	Get(id string) (model.ItemDocument, bool)
	List() []model.ItemDocument
	Upsert(ctx context.Context, doc model.ItemDocument)
	Remove(ctx context.Context, id string) bool
}

// CreateInput opens an empty document.
type CreateInput struct {
	Number       string    `field:"number" validate:"max=40"`
	Counterparty string    `field:"counterparty" validate:"required,max=200"`
	IssueDate    time.Time `field:"issue_date"`
	Notes        string    `field:"notes" validate:"max=2000"`
}

// Service manages the documents of one kind.
type Service struct {
	kind    model.Kind
	docs    Collection
	catalog Catalog
	log     zerolog.Logger
	clock   func() time.Time
}

// NewService returns a Service for quotes, sales orders or purchase orders.
func NewService(kind model.Kind, docs Collection, catalog Catalog, log zerolog.Logger) *Service {
	return &Service{
		kind:    kind,
		docs:    docs,
		catalog: catalog,
		log:     log.With().Str("kind", string(kind)).Logger(),
		clock:   time.Now,
	}
}

// Kind returns the document kind the service manages.
func (s *Service) Kind() model.Kind { return s.kind }

func (s *Service) prefix() string {
	switch s.kind {
	case model.KindSalesOrder:
		return id.PrefixSalesOrder
	case model.KindPurchaseOrder:
		return id.PrefixPurchaseOrder
	}
	return id.PrefixQuote
}

// Get returns a document by id or number.
func (s *Service) Get(ref string) (model.ItemDocument, error) {
	if doc, ok := s.docs.Get(ref); ok {
		return doc, nil
	}
	for _, doc := range s.docs.List() {
		if doc.Number == ref {
			return doc, nil
		}
	}
	return model.ItemDocument{}, apperrors.NotFound(s.kind.Label(), ref)
}

// List returns all documents ordered by issue date, then number.
func (s *Service) List() []model.ItemDocument {
	out := s.docs.List()
	slices.SortStableFunc(out, func(a, b model.ItemDocument) int {
		if c := a.IssueDate.Compare(b.IssueDate); c != 0 {
			return c
		}
		return strings.Compare(a.Number, b.Number)
	})
	return out
}

// Create opens an empty document. A zero issue date means today and an empty
// number is assigned the next sequence for the issue year.
func (s *Service) Create(ctx context.Context, in CreateInput) (model.ItemDocument, error) {
	if err := validate.Struct(in); err != nil {
		return model.ItemDocument{}, err
	}
	if in.IssueDate.IsZero() {
		in.IssueDate = s.today()
	}
	number, err := s.assignNumber(in.Number, in.IssueDate.Year())
	if err != nil {
		return model.ItemDocument{}, err
	}

	doc := model.ItemDocument{
		ID:                     id.New(),
		Kind:                   s.kind,
		Number:                 number,
		Counterparty:           in.Counterparty,
		IssueDate:              in.IssueDate,
		Notes:                  in.Notes,
		OverallDiscountPercent: decimal.Zero,
		TotalAmount:            decimal.Zero,
	}
	s.docs.Upsert(ctx, doc)
	s.log.Info().Str("id", doc.ID).Str("number", doc.Number).Msg("document created")
	return doc, nil
}

// AddItem looks up the product in the catalog and appends a line.
func (s *Service) AddItem(ctx context.Context, ref string, in ItemInput) (model.ItemDocument, error) {
	if err := validate.Struct(in); err != nil {
		return model.ItemDocument{}, err
	}
	product, err := s.catalog.Lookup(in.Product)
	if err != nil {
		return model.ItemDocument{}, err
	}
	return s.apply(ctx, ref, "item added", func(doc model.ItemDocument) (model.ItemDocument, error) {
		return AddItem(doc, product, in)
	})
}

// UpdateItem patches the line at index (zero-based).
func (s *Service) UpdateItem(ctx context.Context, ref string, index int, patch ItemPatch) (model.ItemDocument, error) {
	return s.apply(ctx, ref, "item updated", func(doc model.ItemDocument) (model.ItemDocument, error) {
		return UpdateItem(doc, index, patch)
	})
}

// RemoveItem deletes the line at index (zero-based).
func (s *Service) RemoveItem(ctx context.Context, ref string, index int) (model.ItemDocument, error) {
	return s.apply(ctx, ref, "item removed", func(doc model.ItemDocument) (model.ItemDocument, error) {
		return RemoveItem(doc, index)
	})
}

// SetOverallDiscount changes the document-level discount.
func (s *Service) SetOverallDiscount(ctx context.Context, ref string, percent decimal.Decimal) (model.ItemDocument, error) {
	return s.apply(ctx, ref, "overall discount set", func(doc model.ItemDocument) (model.ItemDocument, error) {
		return SetOverallDiscount(doc, percent)
	})
}

// Edit changes header fields of the document ref.
func (s *Service) Edit(ctx context.Context, ref string, e Edit) (model.ItemDocument, error) {
	if e.Number != nil {
		doc, err := s.Get(ref)
		if err != nil {
			return model.ItemDocument{}, err
		}
		if *e.Number != doc.Number && slices.Contains(s.numbers(), *e.Number) {
			return model.ItemDocument{}, apperrors.Invalid("number", "%s %s already exists", s.kind.Label(), *e.Number)
		}
	}
	return s.apply(ctx, ref, "document edited", func(doc model.ItemDocument) (model.ItemDocument, error) {
		return ApplyEdit(doc, e)
	})
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

func (s *Service) apply(ctx context.Context, ref, event string, fn func(model.ItemDocument) (model.ItemDocument, error)) (model.ItemDocument, error) {
	doc, err := s.Get(ref)
	if err != nil {
		return model.ItemDocument{}, err
	}
	updated, err := fn(doc)
	if err != nil {
		return model.ItemDocument{}, err
	}
	s.docs.Upsert(ctx, updated)
	s.log.Debug().Str("id", doc.ID).Str("total", money.Format(updated.TotalAmount)).Msg(event)
	return updated, nil
}

func (s *Service) assignNumber(number string, year int) (string, error) {
	existing := s.numbers()
	if number == "" {
		return id.NextNumber(s.prefix(), year, existing), nil
	}
	if slices.Contains(existing, number) {
		return "", apperrors.Invalid("number", "%s %s already exists", s.kind.Label(), number)
	}
	return number, nil
}

func (s *Service) numbers() []string {
	docs := s.docs.List()
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Number)
	}
	return out
}

func (s *Service) today() time.Time {
	y, m, d := s.clock().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ConvertQuote copies a quote's lines, counterparty, notes and overall
// discount into a new sales order linked back to the quote. A quote converts
// at most once.
func ConvertQuote(ctx context.Context, quotes, salesOrders *Service, ref string) (model.ItemDocument, error) {
	if quotes.kind != model.KindQuote || salesOrders.kind != model.KindSalesOrder {
		return model.ItemDocument{}, apperrors.Invalid("kind", "conversion goes from quotes to sales orders")
	}
	quote, err := quotes.Get(ref)
	if err != nil {
		return model.ItemDocument{}, err
	}
	for _, so := range salesOrders.docs.List() {
		if so.SourceID == quote.ID {
			return model.ItemDocument{}, apperrors.Invalid("quote", "quote %s was already converted to %s", quote.Number, so.Number)
		}
	}

	issue := salesOrders.today()
	number, err := salesOrders.assignNumber("", issue.Year())
	if err != nil {
		return model.ItemDocument{}, err
	}
	order := quote.Clone()
	order.ID = id.New()
	order.Kind = model.KindSalesOrder
	order.Number = number
	order.IssueDate = issue
	order.SourceID = quote.ID

	order, err = pricing.Reprice(order)
	if err != nil {
		return model.ItemDocument{}, err
	}
	salesOrders.docs.Upsert(ctx, order)
	salesOrders.log.Info().Str("id", order.ID).Str("number", order.Number).
		Str("quote", quote.Number).Msg("quote converted")
	return order, nil
}
