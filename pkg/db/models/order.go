package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

// Order is a completed checkout recorded against a store.
type Order struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID      uuid.UUID         `gorm:"column:store_id;type:uuid;not null"`
	CustomerName string            `gorm:"column:customer_name;not null"`
	Date         time.Time         `gorm:"column:date;not null"`
	Total        decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	Status       enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
}
