package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

// Store represents a tenant storefront.
type Store struct {
	ID             uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string              `gorm:"column:name;not null"`
	Owner          string              `gorm:"column:owner;not null"`
	Status         enums.StoreStatus   `gorm:"column:status;not null;default:'active'"`
	Plan           enums.StorePlan     `gorm:"column:plan;not null;default:'basic'"`
	Template       enums.StoreTemplate `gorm:"column:template;not null"`
	Currency       enums.Currency      `gorm:"column:currency;not null;default:'PEN'"`
	WhatsappNumber string              `gorm:"column:whatsapp_number;not null;default:''"`
	PaymentInfo    types.PaymentInfo   `gorm:"column:payment_info;type:jsonb;not null"`
	Theme          types.Theme         `gorm:"column:theme;type:jsonb;not null"`
	LogoURL        *string             `gorm:"column:logo_url"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
