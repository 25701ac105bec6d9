// Package catalog is the read-mostly product catalog. Quotes and orders look
// products up here to fill line-item display fields and the default unit price.
package catalog

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/oficina-erp/oficina/internal/apperrors"
	"github.com/oficina-erp/oficina/internal/id"
	"github.com/oficina-erp/oficina/internal/model"
	"github.com/oficina-erp/oficina/internal/validate"
)

// Collection is the product storage a Service works against.
type Collection interface {
	Get(id string) (model.Product, bool)
	List() []model.Product
	Upsert(ctx context.Context, p model.Product)
}

// AddInput describes a new product.
type AddInput struct {
	Code      string          `field:"code" validate:"required,max=40"`
	Name      string          `field:"name" validate:"required,max=200"`
	Unit      string          `field:"unit" validate:"max=20"`
	ListPrice decimal.Decimal `field:"list_price" validate:"dec_gte0"`
}

// Service provides lookup over the catalog by id or code.
type Service struct {
	products Collection
	log      zerolog.Logger
}

// NewService creates a Service over products.
func NewService(products Collection, log zerolog.Logger) *Service {
	return &Service{products: products, log: log}
}

// All returns every product ordered by code.
func (s *Service) All() []model.Product {
	out := s.products.List()
	slices.SortFunc(out, func(a, b model.Product) int {
		return strings.Compare(strings.ToLower(a.Code), strings.ToLower(b.Code))
	})
	return out
}

// Get returns a product by id or code. Codes match case-insensitively.
func (s *Service) Get(ref string) (model.Product, error) {
	if p, ok := s.products.Get(ref); ok {
		return p, nil
	}
	if p, ok := s.byCode(ref); ok {
		return p, nil
	}
	return model.Product{}, apperrors.NotFound("product", ref)
}

// Lookup returns the line-item fields of the product ref.
func (s *Service) Lookup(ref string) (model.ProductRef, error) {
	p, err := s.Get(ref)
	if err != nil {
		return model.ProductRef{}, err
	}
	return p.Ref(), nil
}

// Add creates a product. Codes are unique.
func (s *Service) Add(ctx context.Context, in AddInput) (model.Product, error) {
	if err := validate.Struct(in); err != nil {
		return model.Product{}, err
	}
	if _, ok := s.byCode(in.Code); ok {
		return model.Product{}, apperrors.Invalid("code", "product %s already exists", in.Code)
	}
	p := model.Product{ID: id.New(), Code: in.Code, Name: in.Name, Unit: in.Unit, ListPrice: in.ListPrice}
	s.products.Upsert(ctx, p)
	s.log.Info().Str("code", p.Code).Msg("product added")
	return p, nil
}

// Import reads a products CSV and upserts each row, matching existing
// products by code. Nothing is applied unless every row is valid.
func (s *Service) Import(ctx context.Context, r io.Reader) (int, error) {
	products, err := ReadProducts(r)
	if err != nil {
		return 0, err
	}
	for i, p := range products {
		if err := validate.Struct(AddInput{Code: p.Code, Name: p.Name, Unit: p.Unit, ListPrice: p.ListPrice}); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	for _, p := range products {
		if existing, ok := s.byCode(p.Code); ok {
			p.ID = existing.ID
		}
		s.products.Upsert(ctx, p)
	}
	s.log.Info().Int("count", len(products)).Msg("products imported")
	return len(products), nil
}

// Export writes the catalog as CSV.
func (s *Service) Export(w io.Writer) error {
	return WriteProducts(w, s.All())
}

func (s *Service) byCode(code string) (model.Product, bool) {
	for _, p := range s.products.List() {
		if strings.EqualFold(p.Code, code) {
			return p, true
		}
	}
	return model.Product{}, false
}
