package access

import (
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/google/uuid"
)

// StoreField enumerates the mutable columns of a store.
type StoreField string

const (
	FieldName        StoreField = "name"
	FieldOwner       StoreField = "owner"
	FieldStatus      StoreField = "status"
	FieldPlan        StoreField = "plan"
	FieldTemplate    StoreField = "template"
	FieldCurrency    StoreField = "currency"
	FieldWhatsapp    StoreField = "whatsapp_number"
	FieldPaymentInfo StoreField = "payment_info"
	FieldTheme       StoreField = "theme"
	FieldLogoURL     StoreField = "logo_url"
)

var adminEditable = map[StoreField]bool{
	FieldName:        true,
	FieldTemplate:    true,
	FieldCurrency:    true,
	FieldWhatsapp:    true,
	FieldPaymentInfo: true,
	FieldTheme:       true,
	FieldLogoURL:     true,
}

// CanListStores reports whether p may enumerate tenants.
func CanListStores(p Principal) bool {
	_, ok := p.(Root)
	return ok
}

// CanReadStore reports whether p may read the full store row.
func CanReadStore(p Principal, storeID uuid.UUID) bool {
	switch v := p.(type) {
	case Root:
		return true
	case Admin:
		return v.StoreID == storeID
	default:
		return false
	}
}

// CanWriteStore reports whether p may change field on storeID.
func CanWriteStore(p Principal, storeID uuid.UUID, field StoreField) bool {
	switch v := p.(type) {
	case Root:
		return true
	case Admin:
		return v.StoreID == storeID && adminEditable[field]
	default:
		return false
	}
}

// CanReadCatalog reports whether p may read products and categories of storeID.
// Anonymous visitors may, but only the active subset (see CatalogActiveOnly).
// Root has no catalog access.
func CanReadCatalog(p Principal, storeID uuid.UUID) bool {
	switch v := p.(type) {
	case Admin:
		return v.StoreID == storeID
	case Anonymous:
		return true
	default:
		return false
	}
}

// CatalogActiveOnly reports whether catalog reads by p must hide inactive products.
func CatalogActiveOnly(p Principal) bool {
	_, anon := p.(Anonymous)
	return anon
}

// CanWriteCatalog reports whether p may mutate the catalog of storeID.
func CanWriteCatalog(p Principal, storeID uuid.UUID) bool {
	v, ok := p.(Admin)
	return ok && v.StoreID == storeID
}

// CanReadOrders reports whether p may read the orders of storeID.
func CanReadOrders(p Principal, storeID uuid.UUID) bool {
	v, ok := p.(Admin)
	return ok && v.StoreID == storeID
}

// CanReadUser reports whether p may read the profile userID.
func CanReadUser(p Principal, userID uuid.UUID) bool {
	switch v := p.(type) {
	case Root:
		return true
	case Admin:
		return v.UserID == userID
	default:
		return false
	}
}

// CanProvision reports whether p may create or delete tenants.
func CanProvision(p Principal) bool {
	_, ok := p.(Root)
	return ok
}

// Require converts a failed check into a typed error. Anonymous callers get
// Unauthorized so clients know to sign in; everyone else gets Forbidden.
func Require(p Principal, allowed bool) error {
	if allowed {
		return nil
	}
	if _, anon := OrAnonymous(p).(Anonymous); anon {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
}
