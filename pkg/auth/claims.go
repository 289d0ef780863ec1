package auth

import (
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID  uuid.UUID
	Role    enums.Role
	StoreID *uuid.UUID
	JTI     string
}

// AccessTokenClaims represents the typed JWT issued to clients. The profile
// is re-read on every request, so role and store here are hints for logging.
type AccessTokenClaims struct {
	UserID  uuid.UUID  `json:"user_id"`
	Role    enums.Role `json:"role"`
	StoreID *uuid.UUID `json:"store_id,omitempty"`
	jwt.RegisteredClaims
}
