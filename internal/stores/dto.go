package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

// StoreDTO exposes tenant data in API responses. AdminEmail is derived from
// the store's ADMIN profile and is empty when the store has none.
type StoreDTO struct {
	ID             uuid.UUID           `json:"id"`
	Name           string              `json:"name"`
	Owner          string              `json:"owner"`
	Status         enums.StoreStatus   `json:"status"`
	Plan           enums.StorePlan     `json:"plan"`
	Template       enums.StoreTemplate `json:"template"`
	Currency       enums.Currency      `json:"currency"`
	WhatsappNumber string              `json:"whatsapp_number"`
	PaymentInfo    types.PaymentInfo   `json:"payment_info"`
	Theme          types.Theme         `json:"theme"`
	LogoURL        *string             `json:"logo_url,omitempty"`
	AdminEmail     string              `json:"admin_email,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// StorefrontDTO is the public projection of a store shown to visitors.
type StorefrontDTO struct {
	ID             uuid.UUID           `json:"id"`
	Name           string              `json:"name"`
	Template       enums.StoreTemplate `json:"template"`
	Currency       enums.Currency      `json:"currency"`
	WhatsappNumber string              `json:"whatsapp_number"`
	PaymentInfo    types.PaymentInfo   `json:"payment_info"`
	Theme          types.Theme         `json:"theme"`
	LogoURL        *string             `json:"logo_url,omitempty"`
}

// CreateStoreDTO holds creation-time data for a new store.
type CreateStoreDTO struct {
	Name           string
	Owner          string
	Status         enums.StoreStatus
	Plan           enums.StorePlan
	Template       enums.StoreTemplate
	Currency       enums.Currency
	WhatsappNumber string
	PaymentInfo    types.PaymentInfo
	Theme          types.Theme
	LogoURL        *string
}

// Stats counts tenants by status for the operator dashboard.
type Stats struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Suspended int64 `json:"suspended"`
}

// FromModel maps the persisted store into a DTO.
func FromModel(m *models.Store) *StoreDTO {
	if m == nil {
		return nil
	}
	return &StoreDTO{
		ID:             m.ID,
		Name:           m.Name,
		Owner:          m.Owner,
		Status:         m.Status,
		Plan:           m.Plan,
		Template:       m.Template,
		Currency:       m.Currency,
		WhatsappNumber: m.WhatsappNumber,
		PaymentInfo:    m.PaymentInfo,
		Theme:          m.Theme,
		LogoURL:        cloneStringPtr(m.LogoURL),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// StorefrontFromModel maps the persisted store into its public projection.
func StorefrontFromModel(m *models.Store) *StorefrontDTO {
	if m == nil {
		return nil
	}
	return &StorefrontDTO{
		ID:             m.ID,
		Name:           m.Name,
		Template:       m.Template,
		Currency:       m.Currency,
		WhatsappNumber: m.WhatsappNumber,
		PaymentInfo:    m.PaymentInfo,
		Theme:          m.Theme,
		LogoURL:        cloneStringPtr(m.LogoURL),
	}
}

// ToModel fills unset fields with their defaults: active, basic, PEN and the
// stock theme.
func (d CreateStoreDTO) ToModel() *models.Store {
	status := d.Status
	if status == "" {
		status = enums.StoreStatusActive
	}
	plan := d.Plan
	if plan == "" {
		plan = enums.StorePlanBasic
	}
	currency := d.Currency
	if currency == "" {
		currency = enums.CurrencyPEN
	}
	theme := d.Theme
	if theme.IsZero() {
		theme = types.DefaultTheme()
	}
	return &models.Store{
		ID:             uuid.New(),
		Name:           d.Name,
		Owner:          d.Owner,
		Status:         status,
		Plan:           plan,
		Template:       d.Template,
		Currency:       currency,
		WhatsappNumber: d.WhatsappNumber,
		PaymentInfo:    d.PaymentInfo,
		Theme:          theme,
		LogoURL:        cloneStringPtr(d.LogoURL),
	}
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
