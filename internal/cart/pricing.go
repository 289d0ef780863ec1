package cart

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
)

// PlaceholderImage is shown when neither the variant nor the product has an image.
const PlaceholderImage = "https://via.placeholder.com/400"

// implicitStock marks the synthesized variant of a variant-less product.
const implicitStock = math.MaxInt32

// EffectivePrice is the variant override when present, else the product price.
func EffectivePrice(product models.Product, variant models.ProductVariant) decimal.Decimal {
	if variant.PriceOverride != nil {
		return *variant.PriceOverride
	}
	return product.SellingPrice
}

// EffectiveImage resolves the image to display for a variant, falling back
// to the first product image and then to PlaceholderImage.
func EffectiveImage(product models.Product, variant models.ProductVariant) string {
	if img := variantImage(product, variant); img != nil {
		return *img
	}
	return PlaceholderImage
}

func variantImage(product models.Product, variant models.ProductVariant) *string {
	if variant.ImageURL != nil && *variant.ImageURL != "" {
		v := *variant.ImageURL
		return &v
	}
	for _, url := range product.ImageURLs {
		if url != "" {
			v := url
			return &v
		}
	}
	return nil
}

// Purchasable reports whether the variant has stock. Out-of-stock variants
// stay visible but callers must not add them to a cart.
func Purchasable(variant models.ProductVariant) bool {
	return variant.Stock > 0
}

// DefaultVariant synthesizes the single variant of a product that has none.
// It shares the product id and is always purchasable.
func DefaultVariant(product models.Product) models.ProductVariant {
	return models.ProductVariant{
		ID:        product.ID,
		ProductID: product.ID,
		Stock:     implicitStock,
	}
}

// Variants returns the product's variants, or its default variant when it
// has none.
func Variants(product models.Product) []models.ProductVariant {
	if len(product.Variants) == 0 {
		return []models.ProductVariant{DefaultVariant(product)}
	}
	return product.Variants
}
