package models

import (
	"time"

	"github.com/google/uuid"
)

// Credential is owned by the identity system and never joined in the tenant data path.
type Credential struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email            string     `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash     string     `gorm:"column:password_hash;not null"`
	EmailConfirmedAt *time.Time `gorm:"column:email_confirmed_at"`
	LastSignInAt     *time.Time `gorm:"column:last_sign_in_at"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Credential) TableName() string {
	return "auth_credentials"
}
