package users

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes profile persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new profile and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	if dto.ID == uuid.Nil {
		return nil, fmt.Errorf("profile id is required")
	}
	if dto.Role == enums.RoleAdmin && dto.StoreID == nil {
		return nil, fmt.Errorf("admin profile requires a store")
	}
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByID loads a profile by the id it shares with its credential.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAdminsByStore returns the ADMIN profiles bound to storeID, oldest first.
func (r *Repository) FindAdminsByStore(ctx context.Context, storeID uuid.UUID) ([]models.User, error) {
	var admins []models.User
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND role = ?", storeID, enums.RoleAdmin).
		Order("created_at ASC").
		Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

// AdminEmailsByStore maps each of storeIDs that has an admin to that admin's
// email. When a store carries more than one admin the oldest wins.
func (r *Repository) AdminEmailsByStore(ctx context.Context, storeIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(storeIDs))
	if len(storeIDs) == 0 {
		return out, nil
	}
	var admins []models.User
	if err := r.db.WithContext(ctx).
		Select("id", "email", "store_id", "created_at").
		Where("store_id IN ? AND role = ?", storeIDs, enums.RoleAdmin).
		Order("created_at ASC").
		Find(&admins).Error; err != nil {
		return nil, err
	}
	for _, a := range admins {
		if a.StoreID == nil {
			continue
		}
		if _, seen := out[*a.StoreID]; !seen {
			out[*a.StoreID] = a.Email
		}
	}
	return out, nil
}
