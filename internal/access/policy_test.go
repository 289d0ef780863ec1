package access

import (
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/db/dbtest"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFromProfile(t *testing.T) {
	userID := uuid.New()
	storeID := uuid.New()

	p, err := FromProfile(userID, enums.RoleAdmin, &storeID)
	require.NoError(t, err)
	assert.Equal(t, Admin{UserID: userID, StoreID: storeID}, p)

	p, err = FromProfile(userID, enums.RoleRoot, nil)
	require.NoError(t, err)
	assert.Equal(t, Root{UserID: userID}, p)

	_, err = FromProfile(userID, enums.RoleAdmin, nil)
	assert.Error(t, err)

	_, err = FromProfile(userID, enums.Role("OWNER"), nil)
	assert.Error(t, err)
}

func TestStoreRules(t *testing.T) {
	own := uuid.New()
	other := uuid.New()
	root := Root{UserID: uuid.New()}
	admin := Admin{UserID: uuid.New(), StoreID: own}
	anon := Anonymous{}

	assert.True(t, CanListStores(root))
	assert.False(t, CanListStores(admin))
	assert.False(t, CanListStores(anon))

	assert.True(t, CanReadStore(root, other))
	assert.True(t, CanReadStore(admin, own))
	assert.False(t, CanReadStore(admin, other))
	assert.False(t, CanReadStore(anon, own))

	assert.True(t, CanWriteStore(admin, own, FieldTheme))
	assert.True(t, CanWriteStore(admin, own, FieldCurrency))
	assert.False(t, CanWriteStore(admin, own, FieldStatus))
	assert.False(t, CanWriteStore(admin, own, FieldPlan))
	assert.False(t, CanWriteStore(admin, other, FieldName))
	assert.True(t, CanWriteStore(root, other, FieldPlan))
	assert.False(t, CanWriteStore(anon, own, FieldName))
}

func TestCatalogAndOrderRules(t *testing.T) {
	own := uuid.New()
	other := uuid.New()
	root := Root{UserID: uuid.New()}
	admin := Admin{UserID: uuid.New(), StoreID: own}
	anon := Anonymous{}

	assert.False(t, CanReadCatalog(root, own), "root has no catalog access")
	assert.True(t, CanReadCatalog(admin, own))
	assert.False(t, CanReadCatalog(admin, other))
	assert.True(t, CanReadCatalog(anon, other))
	assert.True(t, CatalogActiveOnly(anon))
	assert.False(t, CatalogActiveOnly(admin))

	assert.True(t, CanWriteCatalog(admin, own))
	assert.False(t, CanWriteCatalog(anon, own))
	assert.False(t, CanWriteCatalog(root, own))

	assert.True(t, CanReadOrders(admin, own))
	assert.False(t, CanReadOrders(admin, other))
	assert.False(t, CanReadOrders(root, own))
	assert.False(t, CanReadOrders(anon, own))
}

func TestUserRules(t *testing.T) {
	admin := Admin{UserID: uuid.New(), StoreID: uuid.New()}
	assert.True(t, CanReadUser(admin, admin.UserID))
	assert.False(t, CanReadUser(admin, uuid.New()))
	assert.True(t, CanReadUser(Root{}, uuid.New()))
	assert.False(t, CanReadUser(Anonymous{}, uuid.New()))
	assert.True(t, CanProvision(Root{}))
	assert.False(t, CanProvision(admin))
}

func TestRequire(t *testing.T) {
	assert.NoError(t, Require(Root{}, true))
	assert.True(t, pkgerrors.IsCode(Require(nil, false), pkgerrors.CodeUnauthorized))
	assert.True(t, pkgerrors.IsCode(Require(Anonymous{}, false), pkgerrors.CodeUnauthorized))
	assert.True(t, pkgerrors.IsCode(Require(Admin{}, false), pkgerrors.CodeForbidden))
}

func TestUserIDOf(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, id, UserIDOf(Root{UserID: id}))
	assert.Equal(t, id, UserIDOf(Admin{UserID: id}))
	assert.Equal(t, uuid.Nil, UserIDOf(Anonymous{}))
}

func TestScopesFilterRows(t *testing.T) {
	conn := dbtest.Open(t)
	storeA := uuid.New()
	storeB := uuid.New()
	for _, id := range []uuid.UUID{storeA, storeB} {
		require.NoError(t, conn.Exec(
			`INSERT INTO stores (id, name, owner, template, payment_info, theme) VALUES (?, 'S', 'O', 'Tech Store', '{}', '{}')`, id.String()).Error)
	}
	require.NoError(t, conn.Exec(`INSERT INTO products (id, store_id, name, selling_price, is_active) VALUES (?, ?, 'on', 10, 1)`, uuid.NewString(), storeA.String()).Error)
	require.NoError(t, conn.Exec(`INSERT INTO products (id, store_id, name, selling_price, is_active) VALUES (?, ?, 'off', 10, 0)`, uuid.NewString(), storeA.String()).Error)

	count := func(scope func(*gorm.DB) *gorm.DB, table string) int64 {
		var n int64
		require.NoError(t, conn.Table(table).Scopes(scope).Count(&n).Error)
		return n
	}

	assert.EqualValues(t, 2, count(StoreScope(Root{}), "stores"))
	assert.EqualValues(t, 1, count(StoreScope(Admin{StoreID: storeA}), "stores"))
	assert.EqualValues(t, 0, count(StoreScope(Anonymous{}), "stores"))
	assert.EqualValues(t, 0, count(StoreScope(nil), "stores"))

	assert.EqualValues(t, 2, count(StorefrontScope(), "stores"))
	require.NoError(t, conn.Exec(`UPDATE stores SET status = 'suspended' WHERE id = ?`, storeB.String()).Error)
	assert.EqualValues(t, 1, count(StorefrontScope(), "stores"))

	assert.EqualValues(t, 2, count(CatalogScope(Admin{StoreID: storeA}, storeA), "products"))
	assert.EqualValues(t, 0, count(CatalogScope(Admin{StoreID: storeB}, storeA), "products"))
	assert.EqualValues(t, 1, count(CatalogScope(Anonymous{}, storeA), "products"))
	assert.EqualValues(t, 0, count(CatalogScope(Root{}, storeA), "products"))
}
