package orders

import (
	"context"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository reads recorded orders.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByStore returns the orders visible through scope, newest first.
func (r *Repository) ListByStore(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Scopes(scope).
		Order("orders.date DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// PageByStore returns up to limit orders visible through scope that sort
// after the cursor, ordered by date then id, newest first.
func (r *Repository) PageByStore(ctx context.Context, scope func(*gorm.DB) *gorm.DB, after *pagination.Cursor, limit int) ([]models.Order, error) {
	q := r.db.WithContext(ctx).Scopes(scope)
	if after != nil {
		q = q.Where("(orders.date < ?) OR (orders.date = ? AND orders.id < ?)", after.At, after.At, after.ID)
	}
	var orders []models.Order
	if err := q.Order("orders.date DESC").Order("orders.id DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
