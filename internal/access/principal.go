// Package access models who is calling and what they may touch. Every rule
// the data layer enforces lives here so role checks are never scattered.
package access

import (
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/google/uuid"
)

// Principal is one of Root, Admin or Anonymous.
type Principal interface {
	principal()
	// Kind names the variant for logs.
	Kind() string
}

// Root is the platform operator.
type Root struct {
	UserID uuid.UUID
}

// Admin operates exactly one store.
type Admin struct {
	UserID  uuid.UUID
	StoreID uuid.UUID
}

// Anonymous is an unauthenticated storefront visitor.
type Anonymous struct{}

func (Root) principal()      {}
func (Admin) principal()     {}
func (Anonymous) principal() {}

func (Root) Kind() string      { return "root" }
func (Admin) Kind() string     { return "admin" }
func (Anonymous) Kind() string { return "anonymous" }

// FromProfile builds a principal from a persisted role and store binding.
func FromProfile(userID uuid.UUID, role enums.Role, storeID *uuid.UUID) (Principal, error) {
	switch role {
	case enums.RoleRoot:
		return Root{UserID: userID}, nil
	case enums.RoleAdmin:
		if storeID == nil || *storeID == uuid.Nil {
			return nil, fmt.Errorf("admin %s has no store", userID)
		}
		return Admin{UserID: userID, StoreID: *storeID}, nil
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
}

// UserIDOf returns the acting user, or uuid.Nil for anonymous callers.
func UserIDOf(p Principal) uuid.UUID {
	switch v := p.(type) {
	case Root:
		return v.UserID
	case Admin:
		return v.UserID
	default:
		return uuid.Nil
	}
}

// OrAnonymous substitutes Anonymous for a nil principal.
func OrAnonymous(p Principal) Principal {
	if p == nil {
		return Anonymous{}
	}
	return p
}
