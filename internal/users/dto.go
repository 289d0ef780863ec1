package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

// UserDTO is the transport shape of a profile.
type UserDTO struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      enums.Role `json:"role"`
	StoreID   *uuid.UUID `json:"store_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// CreateUserDTO holds the data required by the repo to persist a profile.
// ID must equal the credential id issued by the identity system.
type CreateUserDTO struct {
	ID      uuid.UUID
	Name    string
	Email   string
	Role    enums.Role
	StoreID *uuid.UUID
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	dto := &UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
	if u.StoreID != nil {
		id := *u.StoreID
		dto.StoreID = &id
	}
	return dto
}

func (c CreateUserDTO) ToModel() *models.User {
	var storeID *uuid.UUID
	if c.StoreID != nil {
		id := *c.StoreID
		storeID = &id
	}
	return &models.User{
		ID:      c.ID,
		Name:    c.Name,
		Email:   c.Email,
		Role:    c.Role,
		StoreID: storeID,
	}
}
