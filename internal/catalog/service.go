// Package catalog serves the categories, products and variants of a store.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/internal/access"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type catalogRepository interface {
	ListProducts(ctx context.Context, scope Scope, opts ListProductsOptions) ([]models.Product, error)
	ListCategories(ctx context.Context, scope Scope) ([]models.Category, error)
	FindForVariants(ctx context.Context, scope Scope, variantIDs []uuid.UUID) ([]models.Product, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	CreateProduct(ctx context.Context, product *models.Product) error
	SetProductActive(ctx context.Context, scope Scope, id uuid.UUID, active bool) error
	DeleteProduct(ctx context.Context, scope Scope, id uuid.UUID) error
}

// Service exposes catalog reads and admin writes.
type Service interface {
	ListProducts(ctx context.Context, p access.Principal, storeID uuid.UUID, opts ListProductsOptions) ([]ProductDTO, error)
	ListCategories(ctx context.Context, p access.Principal, storeID uuid.UUID) ([]CategoryDTO, error)
	ProductsForVariants(ctx context.Context, p access.Principal, storeID uuid.UUID, variantIDs []uuid.UUID) ([]models.Product, error)
	CreateCategory(ctx context.Context, p access.Principal, storeID uuid.UUID, input CreateCategoryInput) (*CategoryDTO, error)
	CreateProduct(ctx context.Context, p access.Principal, storeID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	SetProductActive(ctx context.Context, p access.Principal, storeID, productID uuid.UUID, active bool) error
	DeleteProduct(ctx context.Context, p access.Principal, storeID, productID uuid.UUID) error
}

type service struct {
	repo catalogRepository
}

// NewService builds a catalog service.
func NewService(repo catalogRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context, p access.Principal, storeID uuid.UUID, opts ListProductsOptions) ([]ProductDTO, error) {
	p = access.OrAnonymous(p)
	if err := access.Require(p, access.CanReadCatalog(p, storeID)); err != nil {
		return nil, err
	}
	if access.CatalogActiveOnly(p) {
		opts.ActiveOnly = true
	}
	rows, err := s.repo.ListProducts(ctx, access.CatalogScope(p, storeID), opts)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	out := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ProductFromModel(row))
	}
	return out, nil
}

func (s *service) ListCategories(ctx context.Context, p access.Principal, storeID uuid.UUID) ([]CategoryDTO, error) {
	p = access.OrAnonymous(p)
	allowed := access.CanReadCatalog(p, storeID)
	if err := access.Require(p, allowed); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListCategories(ctx, access.TenantScope("categories", storeID, allowed))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, CategoryFromModel(row))
	}
	return out, nil
}

// ProductsForVariants loads the products needed to price variantIDs. Callers
// outside the store only ever see active products.
func (s *service) ProductsForVariants(ctx context.Context, p access.Principal, storeID uuid.UUID, variantIDs []uuid.UUID) ([]models.Product, error) {
	p = access.OrAnonymous(p)
	if err := access.Require(p, access.CanReadCatalog(p, storeID)); err != nil {
		return nil, err
	}
	rows, err := s.repo.FindForVariants(ctx, access.CatalogScope(p, storeID), variantIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variants")
	}
	return rows, nil
}

func (s *service) CreateCategory(ctx context.Context, p access.Principal, storeID uuid.UUID, input CreateCategoryInput) (*CategoryDTO, error) {
	if err := access.Require(p, access.CanWriteCatalog(p, storeID)); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	category := &models.Category{StoreID: storeID, Name: name, Description: input.Description}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	dto := CategoryFromModel(*category)
	return &dto, nil
}

func (s *service) CreateProduct(ctx context.Context, p access.Principal, storeID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	if err := access.Require(p, access.CanWriteCatalog(p, storeID)); err != nil {
		return nil, err
	}
	if err := validateProduct(input); err != nil {
		return nil, err
	}
	product := input.toModel(storeID)
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	dto := ProductFromModel(*product)
	return &dto, nil
}

func (s *service) SetProductActive(ctx context.Context, p access.Principal, storeID, productID uuid.UUID, active bool) error {
	if err := access.Require(p, access.CanWriteCatalog(p, storeID)); err != nil {
		return err
	}
	err := s.repo.SetProductActive(ctx, access.CatalogScope(p, storeID), productID, active)
	return mapWriteError(err, "update product")
}

func (s *service) DeleteProduct(ctx context.Context, p access.Principal, storeID, productID uuid.UUID) error {
	if err := access.Require(p, access.CanWriteCatalog(p, storeID)); err != nil {
		return err
	}
	err := s.repo.DeleteProduct(ctx, access.CatalogScope(p, storeID), productID)
	return mapWriteError(err, "delete product")
}

func validateProduct(input CreateProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.SellingPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "selling price must not be negative")
	}
	for i, v := range input.Variants {
		if v.Stock < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("variant %d stock must not be negative", i))
		}
		if v.PriceOverride != nil && v.PriceOverride.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("variant %d price must not be negative", i))
		}
	}
	return nil
}

func mapWriteError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
