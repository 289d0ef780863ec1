package stores

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope narrows a stores query to what the caller may see.
type Scope = func(*gorm.DB) *gorm.DB

// Repository handles store persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to store operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new store row.
func (r *Repository) Create(ctx context.Context, dto CreateStoreDTO) (*models.Store, error) {
	store := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(store).Error; err != nil {
		return nil, err
	}
	return store, nil
}

// List returns the stores visible through scope, newest first.
func (r *Repository) List(ctx context.Context, scope Scope) ([]models.Store, error) {
	var stores []models.Store
	if err := r.db.WithContext(ctx).
		Scopes(scope).
		Order("created_at DESC").
		Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// FindByID loads a store by its UUID through scope.
func (r *Repository) FindByID(ctx context.Context, scope Scope, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).
		Scopes(scope).
		Where("stores.id = ?", id).
		First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// Update applies patch (column to value) to the store and reports
// gorm.ErrRecordNotFound when no visible row matched.
func (r *Repository) Update(ctx context.Context, scope Scope, id uuid.UUID, patch map[string]any) error {
	if len(patch) == 0 {
		return fmt.Errorf("store patch is empty")
	}
	res := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Scopes(scope).
		Where("stores.id = ?", id).
		Updates(patch)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the store and, through cascades, its catalog and orders.
// It reports false when no row existed.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Store{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CountByStatus returns the number of stores per status.
func (r *Repository) CountByStatus(ctx context.Context) (map[enums.StoreStatus]int64, error) {
	var rows []struct {
		Status enums.StoreStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[enums.StoreStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}
