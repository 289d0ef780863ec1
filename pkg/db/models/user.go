package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

// User is the profile row joined to a credential by a shared id.
type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name      string     `gorm:"column:name;not null"`
	Email     string     `gorm:"column:email;not null"`
	Role      enums.Role `gorm:"column:role;not null"`
	StoreID   *uuid.UUID `gorm:"column:store_id;type:uuid"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}
