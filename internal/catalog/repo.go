package catalog

import (
	"context"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope narrows a catalog query to what the caller may see.
type Scope = func(*gorm.DB) *gorm.DB

// Repository persists categories, products and variants.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListProducts returns the products visible through scope with their
// variants preloaded, oldest first.
func (r *Repository) ListProducts(ctx context.Context, scope Scope, opts ListProductsOptions) ([]models.Product, error) {
	q := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("Variants")
	if opts.ActiveOnly {
		q = q.Where("products.is_active = ?", true)
	}
	var products []models.Product
	if err := q.Order("products.created_at ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListCategories returns the categories visible through scope.
func (r *Repository) ListCategories(ctx context.Context, scope Scope) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).
		Scopes(scope).
		Order("categories.name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindForVariants returns the products owning any of variantIDs, plus any
// variant-less products whose own id appears in variantIDs.
func (r *Repository) FindForVariants(ctx context.Context, scope Scope, variantIDs []uuid.UUID) ([]models.Product, error) {
	if len(variantIDs) == 0 {
		return nil, nil
	}
	owners := r.db.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Select("product_id").
		Where("id IN ?", variantIDs)

	var products []models.Product
	if err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("Variants").
		Where("products.id IN ? OR products.id IN (?)", variantIDs, owners).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// CreateCategory inserts a category.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(category).Error
}

// CreateProduct inserts a product together with its variants.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		variants := product.Variants
		product.Variants = nil
		if err := tx.Create(product).Error; err != nil {
			return err
		}
		if len(variants) > 0 {
			if err := tx.Create(&variants).Error; err != nil {
				return err
			}
		}
		product.Variants = variants
		return nil
	})
}

// SetProductActive toggles storefront visibility of a product within scope.
func (r *Repository) SetProductActive(ctx context.Context, scope Scope, id uuid.UUID, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Scopes(scope).
		Where("products.id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteProduct removes a product within scope; variants cascade.
func (r *Repository) DeleteProduct(ctx context.Context, scope Scope, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Scopes(scope).
		Where("products.id = ?", id).
		Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
