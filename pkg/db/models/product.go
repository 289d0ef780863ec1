package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/pkg/types"
)

// Category groups products within one store.
type Category struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID     uuid.UUID `gorm:"column:store_id;type:uuid;not null"`
	Name        string    `gorm:"column:name;not null"`
	Description *string   `gorm:"column:description"`
}

// Product is a catalog listing. ImageURLs keeps upload order.
type Product struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID      uuid.UUID        `gorm:"column:store_id;type:uuid;not null"`
	CategoryID   *uuid.UUID       `gorm:"column:category_id;type:uuid"`
	Name         string           `gorm:"column:name;not null"`
	Description  *string          `gorm:"column:description"`
	SellingPrice decimal.Decimal  `gorm:"column:selling_price;type:numeric(12,2);not null"`
	ImageURLs    pq.StringArray   `gorm:"column:image_urls;type:text[]"`
	IsActive     bool             `gorm:"column:is_active;not null;default:true"`
	Variants     []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
}

// ProductVariant is a purchasable configuration of a product.
type ProductVariant struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID     uuid.UUID        `gorm:"column:product_id;type:uuid;not null"`
	Attributes    types.Attributes `gorm:"column:attributes;type:jsonb;not null"`
	PriceOverride *decimal.Decimal `gorm:"column:price_override;type:numeric(12,2)"`
	Stock         int              `gorm:"column:stock;not null;default:0"`
	SKU           *string          `gorm:"column:sku"`
	ImageURL      *string          `gorm:"column:image_url"`
}
