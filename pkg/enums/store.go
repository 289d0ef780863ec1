package enums

import "fmt"

// StoreStatus captures whether a tenant storefront is serving traffic.
type StoreStatus string

const (
	StoreStatusActive    StoreStatus = "active"
	StoreStatusSuspended StoreStatus = "suspended"
)

var validStoreStatuses = []StoreStatus{
	StoreStatusActive,
	StoreStatusSuspended,
}

// String implements fmt.Stringer.
func (s StoreStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StoreStatus.
func (s StoreStatus) IsValid() bool {
	for _, candidate := range validStoreStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStoreStatus converts raw input into a StoreStatus.
func ParseStoreStatus(value string) (StoreStatus, error) {
	for _, candidate := range validStoreStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid store status %q", value)
}

// StorePlan is the commercial tier of a tenant.
type StorePlan string

const (
	StorePlanBasic   StorePlan = "basic"
	StorePlanPremium StorePlan = "premium"
)

var validStorePlans = []StorePlan{
	StorePlanBasic,
	StorePlanPremium,
}

// String implements fmt.Stringer.
func (p StorePlan) String() string {
	return string(p)
}

// IsValid reports whether the value is a known StorePlan.
func (p StorePlan) IsValid() bool {
	for _, candidate := range validStorePlans {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseStorePlan converts raw input into a StorePlan.
func ParseStorePlan(value string) (StorePlan, error) {
	for _, candidate := range validStorePlans {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid store plan %q", value)
}

// StoreTemplate names one of the storefront layouts.
type StoreTemplate string

const (
	StoreTemplateMinimalModern StoreTemplate = "Minimal Modern"
	StoreTemplateVibrantStore  StoreTemplate = "Vibrant Store"
	StoreTemplateOrganic       StoreTemplate = "Organic & Natural"
	StoreTemplateTechStore     StoreTemplate = "Tech Store"
)

var validStoreTemplates = []StoreTemplate{
	StoreTemplateMinimalModern,
	StoreTemplateVibrantStore,
	StoreTemplateOrganic,
	StoreTemplateTechStore,
}

func (t StoreTemplate) String() string {
	return string(t)
}

func (t StoreTemplate) IsValid() bool {
	for _, candidate := range validStoreTemplates {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseStoreTemplate converts raw input into a StoreTemplate.
func ParseStoreTemplate(value string) (StoreTemplate, error) {
	for _, candidate := range validStoreTemplates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid store template %q", value)
}
