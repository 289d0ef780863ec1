package access

import (
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreScope restricts a query on the stores table to the rows p can read.
// A principal with no store access gets a scope that matches nothing.
func StoreScope(p Principal) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch v := OrAnonymous(p).(type) {
		case Root:
			return db
		case Admin:
			return db.Where("stores.id = ?", v.StoreID)
		default:
			return db.Where("1 = 0")
		}
	}
}

// StorefrontScope limits a stores query to tenants whose storefront is live.
func StorefrontScope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("stores.status = ?", enums.StoreStatusActive)
	}
}

// CatalogScope restricts a products query to storeID and, for visitors, to
// active listings. Principals without catalog access match nothing.
func CatalogScope(p Principal, storeID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		p = OrAnonymous(p)
		if !CanReadCatalog(p, storeID) {
			return db.Where("1 = 0")
		}
		db = db.Where("products.store_id = ?", storeID)
		if CatalogActiveOnly(p) {
			db = db.Where("products.is_active = ?", true)
		}
		return db
	}
}

// TenantScope restricts a store-owned table (categories, orders) to storeID
// when check passes for p.
func TenantScope(table string, storeID uuid.UUID, allowed bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !allowed {
			return db.Where("1 = 0")
		}
		return db.Where(table+".store_id = ?", storeID)
	}
}
