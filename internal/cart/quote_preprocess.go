package cart

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

const (
	maxQuoteLines   = 100
	maxLineQuantity = 10000
)

type resolvedVariant struct {
	product models.Product
	variant models.ProductVariant
}

// normalizeLines validates the request and folds repeated variants into one
// line, keeping first-seen order.
func normalizeLines(input QuoteInput) ([]QuoteLine, error) {
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if len(input.Lines) > maxQuoteLines {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("cart has more than %d lines", maxQuoteLines))
	}
	positions := make(map[uuid.UUID]int, len(input.Lines))
	lines := make([]QuoteLine, 0, len(input.Lines))
	for _, line := range input.Lines {
		if line.VariantID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
		}
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if line.Quantity > maxLineQuantity {
			return nil, quantityTooLarge()
		}
		if idx, ok := positions[line.VariantID]; ok {
			if lines[idx].Quantity > maxLineQuantity-line.Quantity {
				return nil, quantityTooLarge()
			}
			lines[idx].Quantity += line.Quantity
			continue
		}
		positions[line.VariantID] = len(lines)
		lines = append(lines, line)
	}
	return lines, nil
}

func quantityTooLarge() error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item quantity must not exceed %d", maxLineQuantity))
}

// indexVariants maps every purchasable id (variant ids plus the implicit
// default variant of variant-less products) to its product.
func indexVariants(products []models.Product) map[uuid.UUID]resolvedVariant {
	index := make(map[uuid.UUID]resolvedVariant)
	for _, product := range products {
		for _, variant := range Variants(product) {
			index[variant.ID] = resolvedVariant{product: product, variant: variant}
		}
	}
	return index
}
