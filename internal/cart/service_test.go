package cart

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/internal/access"
	"github.com/angelmondragon/storefront-backend/internal/stores"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

type stubStorefronts struct {
	store *stores.StorefrontDTO
	err   error
}

func (s stubStorefronts) Storefront(context.Context, uuid.UUID) (*stores.StorefrontDTO, error) {
	return s.store, s.err
}

type stubCatalog struct {
	products  []models.Product
	err       error
	principal access.Principal
	requested []uuid.UUID
}

func (s *stubCatalog) ProductsForVariants(_ context.Context, p access.Principal, _ uuid.UUID, ids []uuid.UUID) ([]models.Product, error) {
	s.principal = p
	s.requested = ids
	return s.products, s.err
}

func newTestService(t *testing.T, catalog *stubCatalog) Service {
	t.Helper()
	svc, err := NewService(stubStorefronts{store: handoffStore()}, catalog)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestQuotePricesFromCatalog(t *testing.T) {
	t.Parallel()

	shirt := product("40")
	small := variant(shirt, 3)
	override := dec("35")
	large := variant(shirt, 1)
	large.PriceOverride = &override
	shirt.Variants = []models.ProductVariant{small, large}
	mug := product("15")

	catalog := &stubCatalog{products: []models.Product{shirt, mug}}
	svc := newTestService(t, catalog)

	quote, err := svc.Quote(context.Background(), uuid.New(), QuoteInput{Lines: []QuoteLine{
		{VariantID: small.ID, Quantity: 1},
		{VariantID: mug.ID, Quantity: 2},
		{VariantID: large.ID, Quantity: 1},
		{VariantID: small.ID, Quantity: 1},
	}})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if _, ok := catalog.principal.(access.Anonymous); !ok {
		t.Fatalf("catalog must be read as anonymous, got %T", catalog.principal)
	}
	if len(catalog.requested) != 3 {
		t.Fatalf("expected deduplicated ids, got %v", catalog.requested)
	}
	if len(quote.Items) != 3 || quote.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items %+v", quote.Items)
	}
	// 2*40 + 2*15 + 35
	if !quote.Total.Equal(dec("145")) {
		t.Fatalf("expected 145, got %s", quote.Total)
	}
	if quote.ItemCount != 5 || quote.FormattedTotal != "S/ 145.00" {
		t.Fatalf("unexpected summary %d %s", quote.ItemCount, quote.FormattedTotal)
	}
	if quote.WhatsAppLink == "" || quote.Message == "" {
		t.Fatal("expected handoff link and message")
	}
}

func TestQuoteRejectsOutOfStockAndUnknownVariants(t *testing.T) {
	t.Parallel()

	shirt := product("40")
	empty := variant(shirt, 0)
	shirt.Variants = []models.ProductVariant{empty}
	svc := newTestService(t, &stubCatalog{products: []models.Product{shirt}})

	_, err := svc.Quote(context.Background(), uuid.New(), QuoteInput{Lines: []QuoteLine{{VariantID: empty.ID, Quantity: 1}}})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	_, err = svc.Quote(context.Background(), uuid.New(), QuoteInput{Lines: []QuoteLine{{VariantID: uuid.New(), Quantity: 1}}})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	// A product with explicit variants is not addressable by its own id.
	_, err = svc.Quote(context.Background(), uuid.New(), QuoteInput{Lines: []QuoteLine{{VariantID: shirt.ID, Quantity: 1}}})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for product id, got %v", err)
	}
}

func TestQuoteValidatesLines(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubCatalog{})
	cases := []QuoteInput{
		{},
		{Lines: []QuoteLine{{VariantID: uuid.New(), Quantity: 0}}},
		{Lines: []QuoteLine{{VariantID: uuid.Nil, Quantity: 1}}},
		{Lines: make([]QuoteLine, maxQuoteLines+1)},
		{Lines: []QuoteLine{{VariantID: uuid.New(), Quantity: maxLineQuantity + 1}}},
	}
	for i, in := range cases {
		if _, err := svc.Quote(context.Background(), uuid.New(), in); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestQuoteRejectsMergedQuantityOverCap(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubCatalog{})
	a, b := uuid.New(), uuid.New()
	cases := []QuoteInput{
		{Lines: []QuoteLine{{VariantID: a, Quantity: 1}, {VariantID: b, Quantity: math.MaxInt}, {VariantID: b, Quantity: math.MaxInt}}},
		{Lines: []QuoteLine{{VariantID: b, Quantity: maxLineQuantity}, {VariantID: b, Quantity: 1}}},
	}
	for i, in := range cases {
		if _, err := svc.Quote(context.Background(), uuid.New(), in); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}

	lines, err := normalizeLines(QuoteInput{Lines: []QuoteLine{{VariantID: b, Quantity: maxLineQuantity - 1}, {VariantID: b, Quantity: 1}}})
	if err != nil {
		t.Fatalf("quantity at the cap: %v", err)
	}
	if len(lines) != 1 || lines[0].Quantity != maxLineQuantity {
		t.Fatalf("expected one merged line at the cap, got %+v", lines)
	}
}

func TestQuotePropagatesLoaderErrors(t *testing.T) {
	t.Parallel()

	missing := pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	svc, err := NewService(stubStorefronts{err: missing}, &stubCatalog{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	_, err = svc.Quote(context.Background(), uuid.New(), QuoteInput{Lines: []QuoteLine{{VariantID: uuid.New(), Quantity: 1}}})
	if !errors.Is(err, missing) {
		t.Fatalf("expected store error, got %v", err)
	}

	down := pkgerrors.New(pkgerrors.CodeDependency, "load variants")
	svc = newTestService(t, &stubCatalog{err: down})
	_, err = svc.Quote(context.Background(), uuid.New(), QuoteInput{Lines: []QuoteLine{{VariantID: uuid.New(), Quantity: 1}}})
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	t.Parallel()

	if _, err := NewService(nil, &stubCatalog{}); err == nil {
		t.Fatal("expected error without storefront loader")
	}
	if _, err := NewService(stubStorefronts{}, nil); err == nil {
		t.Fatal("expected error without variant loader")
	}
}
