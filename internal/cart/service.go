package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/internal/access"
	"github.com/angelmondragon/storefront-backend/internal/stores"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

type storefrontLoader interface {
	Storefront(ctx context.Context, id uuid.UUID) (*stores.StorefrontDTO, error)
}

type variantLoader interface {
	ProductsForVariants(ctx context.Context, p access.Principal, storeID uuid.UUID, variantIDs []uuid.UUID) ([]models.Product, error)
}

// Service prices visitor carts against the live catalog.
type Service interface {
	Quote(ctx context.Context, storeID uuid.UUID, input QuoteInput) (*Quote, error)
}

// Quote is a priced cart plus its WhatsApp handoff link.
type Quote struct {
	StoreID        uuid.UUID       `json:"store_id"`
	Currency       enums.Currency  `json:"currency"`
	Items          []Item          `json:"items"`
	Total          decimal.Decimal `json:"total"`
	FormattedTotal string          `json:"formatted_total"`
	ItemCount      int             `json:"item_count"`
	Message        string          `json:"message"`
	WhatsAppLink   string          `json:"whatsapp_link"`
}

type service struct {
	stores  storefrontLoader
	catalog variantLoader
}

// NewService builds a quoting service.
func NewService(storefronts storefrontLoader, catalog variantLoader) (Service, error) {
	if storefronts == nil {
		return nil, fmt.Errorf("storefront loader required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("variant loader required")
	}
	return &service{stores: storefronts, catalog: catalog}, nil
}

// Quote re-prices the submitted lines from the catalog, so client-side
// prices are never trusted. Only active products are visible and
// out-of-stock variants are refused.
func (s *service) Quote(ctx context.Context, storeID uuid.UUID, input QuoteInput) (*Quote, error) {
	lines, err := normalizeLines(input)
	if err != nil {
		return nil, err
	}

	store, err := s.stores.Storefront(ctx, storeID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.VariantID)
	}
	products, err := s.catalog.ProductsForVariants(ctx, access.Anonymous{}, storeID, ids)
	if err != nil {
		return nil, err
	}
	index := indexVariants(products)

	var c Cart
	for _, line := range lines {
		resolved, ok := index[line.VariantID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("variant %s not found", line.VariantID)).
				WithDetails(map[string]any{"variant_id": line.VariantID})
		}
		if !Purchasable(resolved.variant) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("%s is out of stock", resolved.product.Name)).
				WithDetails(map[string]any{"variant_id": line.VariantID})
		}
		c = c.Add(resolved.product, resolved.variant, line.Quantity)
	}

	link, err := WhatsAppLink(store, c)
	if err != nil {
		return nil, err
	}
	return &Quote{
		StoreID:        storeID,
		Currency:       store.Currency,
		Items:          c.Items(),
		Total:          c.Total(),
		FormattedTotal: FormatAmount(store.Currency, c.Total()),
		ItemCount:      c.ItemCount(),
		Message:        CheckoutMessage(store, c),
		WhatsAppLink:   link,
	}, nil
}
