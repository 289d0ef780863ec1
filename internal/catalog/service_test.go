package catalog

import (
	"context"
	"testing"

	"github.com/angelmondragon/storefront-backend/internal/access"
	"github.com/angelmondragon/storefront-backend/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedStore(t *testing.T, conn *gorm.DB) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, conn.Exec(
		`INSERT INTO stores (id, name, owner, template, payment_info, theme) VALUES (?, 'Shop', 'Ana', 'Vibrant Store', '{}', '{}')`,
		id.String()).Error)
	return id
}

type catalogFixture struct {
	repo   *Repository
	svc    Service
	storeA uuid.UUID
	storeB uuid.UUID
}

func newCatalogFixture(t *testing.T) catalogFixture {
	t.Helper()
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo)
	require.NoError(t, err)
	return catalogFixture{repo: repo, svc: svc, storeA: seedStore(t, conn), storeB: seedStore(t, conn)}
}

func (f catalogFixture) product(t *testing.T, storeID uuid.UUID, name string, active bool, variants ...CreateVariantInput) *ProductDTO {
	t.Helper()
	dto, err := f.svc.CreateProduct(context.Background(), access.Admin{StoreID: storeID}, storeID, CreateProductInput{
		Name:         name,
		SellingPrice: decimal.NewFromInt(100),
		ImageURLs:    []string{"https://cdn.example/" + name + ".png"},
		IsActive:     &active,
		Variants:     variants,
	})
	require.NoError(t, err)
	return dto
}

func TestCreateProductPersistsVariants(t *testing.T) {
	f := newCatalogFixture(t)
	override := decimal.NewFromInt(80)
	created := f.product(t, f.storeA, "shirt", true,
		CreateVariantInput{Attributes: types.Attributes{"size": "M"}, Stock: 3},
		CreateVariantInput{Attributes: types.Attributes{"size": "L"}, Stock: 0, PriceOverride: &override},
	)
	require.Len(t, created.Variants, 2)

	list, err := f.svc.ListProducts(context.Background(), access.Admin{StoreID: f.storeA}, f.storeA, ListProductsOptions{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "shirt", list[0].Name)
	assert.Len(t, list[0].Variants, 2)
	assert.Equal(t, []string{"https://cdn.example/shirt.png"}, list[0].ImageURLs)
	assert.True(t, list[0].SellingPrice.Equal(decimal.NewFromInt(100)))
}

func TestAnonymousSeesOnlyActiveProducts(t *testing.T) {
	f := newCatalogFixture(t)
	f.product(t, f.storeA, "on", true)
	f.product(t, f.storeA, "off", false)

	list, err := f.svc.ListProducts(context.Background(), nil, f.storeA, ListProductsOptions{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "on", list[0].Name)

	admin, err := f.svc.ListProducts(context.Background(), access.Admin{StoreID: f.storeA}, f.storeA, ListProductsOptions{})
	require.NoError(t, err)
	assert.Len(t, admin, 2)

	activeOnly, err := f.svc.ListProducts(context.Background(), access.Admin{StoreID: f.storeA}, f.storeA, ListProductsOptions{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, activeOnly, 1)
}

func TestAdminCannotReadAnotherStoresCatalog(t *testing.T) {
	f := newCatalogFixture(t)
	f.product(t, f.storeB, "secret", true)
	intruder := access.Admin{UserID: uuid.New(), StoreID: f.storeA}

	_, err := f.svc.ListProducts(context.Background(), intruder, f.storeB, ListProductsOptions{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	rows, err := f.repo.ListProducts(context.Background(), access.CatalogScope(intruder, f.storeB), ListProductsOptions{})
	require.NoError(t, err)
	assert.Empty(t, rows, "scope hides foreign rows even without the service check")

	_, err = f.svc.ListProducts(context.Background(), access.Root{}, f.storeB, ListProductsOptions{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
}

func TestCategories(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	admin := access.Admin{StoreID: f.storeA}

	_, err := f.svc.CreateCategory(ctx, admin, f.storeA, CreateCategoryInput{Name: "Shoes"})
	require.NoError(t, err)
	_, err = f.svc.CreateCategory(ctx, access.Admin{StoreID: f.storeB}, f.storeB, CreateCategoryInput{Name: "Hats"})
	require.NoError(t, err)

	_, err = f.svc.CreateCategory(ctx, admin, f.storeA, CreateCategoryInput{Name: "  "})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	_, err = f.svc.CreateCategory(ctx, access.Anonymous{}, f.storeA, CreateCategoryInput{Name: "x"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	list, err := f.svc.ListCategories(ctx, access.Anonymous{}, f.storeA)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Shoes", list[0].Name)
}

func TestProductsForVariants(t *testing.T) {
	f := newCatalogFixture(t)
	withVariants := f.product(t, f.storeA, "shirt", true, CreateVariantInput{Attributes: types.Attributes{"size": "S"}, Stock: 1})
	plain := f.product(t, f.storeA, "mug", true)
	hidden := f.product(t, f.storeA, "hidden", false, CreateVariantInput{Stock: 1})
	foreign := f.product(t, f.storeB, "foreign", true, CreateVariantInput{Stock: 1})

	ids := []uuid.UUID{withVariants.Variants[0].ID, plain.ID, hidden.Variants[0].ID, foreign.Variants[0].ID}
	rows, err := f.svc.ProductsForVariants(context.Background(), access.Anonymous{}, f.storeA, ids)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, row := range rows {
		names[row.Name] = true
	}
	assert.Equal(t, map[string]bool{"shirt": true, "mug": true}, names)
}

func TestSetActiveAndDelete(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	admin := access.Admin{StoreID: f.storeA}
	p := f.product(t, f.storeA, "p", true, CreateVariantInput{Stock: 2})

	require.NoError(t, f.svc.SetProductActive(ctx, admin, f.storeA, p.ID, false))
	list, err := f.svc.ListProducts(ctx, nil, f.storeA, ListProductsOptions{})
	require.NoError(t, err)
	assert.Empty(t, list)

	err = f.svc.DeleteProduct(ctx, access.Admin{StoreID: f.storeB}, f.storeB, p.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	require.NoError(t, f.svc.DeleteProduct(ctx, admin, f.storeA, p.ID))
	err = f.svc.DeleteProduct(ctx, admin, f.storeA, p.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCreateProductValidation(t *testing.T) {
	f := newCatalogFixture(t)
	admin := access.Admin{StoreID: f.storeA}

	_, err := f.svc.CreateProduct(context.Background(), admin, f.storeA, CreateProductInput{Name: "", SellingPrice: decimal.NewFromInt(1)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = f.svc.CreateProduct(context.Background(), admin, f.storeA, CreateProductInput{Name: "x", SellingPrice: decimal.NewFromInt(-1)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = f.svc.CreateProduct(context.Background(), admin, f.storeA, CreateProductInput{
		Name: "x", SellingPrice: decimal.NewFromInt(1), Variants: []CreateVariantInput{{Stock: -1}},
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
