package types

import (
	"database/sql/driver"
	"encoding/json"
)

const (
	DefaultPrimaryColor    = "#6366F1"
	DefaultSecondaryColor  = "#6B7280"
	DefaultBackgroundColor = "#FFFFFF"
	DefaultTextColor       = "#1F2937"
	DefaultFont            = "Inter, sans-serif"
)

// Theme holds the storefront palette persisted as JSONB.
type Theme struct {
	PrimaryColor    string `json:"primaryColor" validate:"omitempty,hexcolor"`
	SecondaryColor  string `json:"secondaryColor" validate:"omitempty,hexcolor"`
	BackgroundColor string `json:"backgroundColor" validate:"omitempty,hexcolor"`
	TextColor       string `json:"textColor" validate:"omitempty,hexcolor"`
	Font            string `json:"font"`
}

// DefaultTheme is applied to tenants created without an explicit theme.
func DefaultTheme() Theme {
	return Theme{
		PrimaryColor:    DefaultPrimaryColor,
		SecondaryColor:  DefaultSecondaryColor,
		BackgroundColor: DefaultBackgroundColor,
		TextColor:       DefaultTextColor,
		Font:            DefaultFont,
	}
}

// IsZero reports whether no field of the theme was supplied.
func (t Theme) IsZero() bool {
	return t == Theme{}
}

// Value marshals the theme into JSON for Postgres.
func (t Theme) Value() (driver.Value, error) {
	buf, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the theme.
func (t *Theme) Scan(value any) error {
	if value == nil {
		*t = Theme{}
		return nil
	}
	var out Theme
	if err := scanJSON("theme", value, &out); err != nil {
		return err
	}
	*t = out
	return nil
}
