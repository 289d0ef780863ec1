package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/internal/access"
	"github.com/angelmondragon/storefront-backend/internal/identity"
)

type contextKey string

const (
	ctxCurrent contextKey = "current"
	ctxStoreID contextKey = "store_id"
)

// WithCurrent stores the authenticated caller on the context.
func WithCurrent(ctx context.Context, current *identity.Current) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCurrent, current)
}

// CurrentFromContext returns the authenticated caller, or nil.
func CurrentFromContext(ctx context.Context) *identity.Current {
	if ctx == nil {
		return nil
	}
	current, _ := ctx.Value(ctxCurrent).(*identity.Current)
	return current
}

// PrincipalFromContext returns the caller's principal; requests that never
// went through Auth are Anonymous.
func PrincipalFromContext(ctx context.Context) access.Principal {
	if current := CurrentFromContext(ctx); current != nil && current.Principal != nil {
		return current.Principal
	}
	return access.Anonymous{}
}

// WithStoreID injects the store addressed by the route.
func WithStoreID(ctx context.Context, storeID uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxStoreID, storeID)
}

// StoreIDFromContext returns the store addressed by the route, or uuid.Nil.
func StoreIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxStoreID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}
