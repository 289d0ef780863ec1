package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

// ListProductsOptions narrows a product listing.
type ListProductsOptions struct {
	ActiveOnly bool
}

// CategoryDTO is the API shape of a category.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	StoreID     uuid.UUID `json:"store_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
}

// VariantDTO is the API shape of a product variant.
type VariantDTO struct {
	ID            uuid.UUID        `json:"id"`
	Attributes    types.Attributes `json:"attributes"`
	PriceOverride *decimal.Decimal `json:"price_override,omitempty"`
	Stock         int              `json:"stock"`
	SKU           *string          `json:"sku,omitempty"`
	ImageURL      *string          `json:"image_url,omitempty"`
}

// ProductDTO is the API shape of a product with its variants.
type ProductDTO struct {
	ID           uuid.UUID       `json:"id"`
	StoreID      uuid.UUID       `json:"store_id"`
	CategoryID   *uuid.UUID      `json:"category_id,omitempty"`
	Name         string          `json:"name"`
	Description  *string         `json:"description,omitempty"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	ImageURLs    []string        `json:"image_urls"`
	IsActive     bool            `json:"is_active"`
	Variants     []VariantDTO    `json:"variants"`
	CreatedAt    time.Time       `json:"created_at"`
}

// CreateCategoryInput is the admin payload for a new category.
type CreateCategoryInput struct {
	Name        string
	Description *string
}

// CreateVariantInput describes one variant of a new product.
type CreateVariantInput struct {
	Attributes    types.Attributes
	PriceOverride *decimal.Decimal
	Stock         int
	SKU           *string
	ImageURL      *string
}

// CreateProductInput is the admin payload for a new product.
type CreateProductInput struct {
	CategoryID   *uuid.UUID
	Name         string
	Description  *string
	SellingPrice decimal.Decimal
	ImageURLs    []string
	IsActive     *bool
	Variants     []CreateVariantInput
}

func CategoryFromModel(m models.Category) CategoryDTO {
	return CategoryDTO{
		ID:          m.ID,
		StoreID:     m.StoreID,
		Name:        m.Name,
		Description: m.Description,
	}
}

func ProductFromModel(m models.Product) ProductDTO {
	images := append([]string{}, m.ImageURLs...)
	variants := make([]VariantDTO, 0, len(m.Variants))
	for _, v := range m.Variants {
		variants = append(variants, VariantDTO{
			ID:            v.ID,
			Attributes:    v.Attributes.Clone(),
			PriceOverride: v.PriceOverride,
			Stock:         v.Stock,
			SKU:           v.SKU,
			ImageURL:      v.ImageURL,
		})
	}
	return ProductDTO{
		ID:           m.ID,
		StoreID:      m.StoreID,
		CategoryID:   m.CategoryID,
		Name:         m.Name,
		Description:  m.Description,
		SellingPrice: m.SellingPrice,
		ImageURLs:    images,
		IsActive:     m.IsActive,
		Variants:     variants,
		CreatedAt:    m.CreatedAt,
	}
}

func (in CreateProductInput) toModel(storeID uuid.UUID) *models.Product {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	product := &models.Product{
		ID:           uuid.New(),
		StoreID:      storeID,
		CategoryID:   in.CategoryID,
		Name:         in.Name,
		Description:  in.Description,
		SellingPrice: in.SellingPrice,
		ImageURLs:    append([]string{}, in.ImageURLs...),
		IsActive:     active,
	}
	for _, v := range in.Variants {
		attrs := v.Attributes.Clone()
		if attrs == nil {
			attrs = types.Attributes{}
		}
		product.Variants = append(product.Variants, models.ProductVariant{
			ID:            uuid.New(),
			ProductID:     product.ID,
			Attributes:    attrs,
			PriceOverride: v.PriceOverride,
			Stock:         v.Stock,
			SKU:           v.SKU,
			ImageURL:      v.ImageURL,
		})
	}
	return product
}
