package types

import (
	"database/sql/driver"
	"encoding/json"
	"sort"
	"strings"
)

// Attributes maps variant attribute names (e.g. "Color") to values (e.g. "Red").
type Attributes map[string]string

// Value marshals the map into JSON for Postgres.
func (a Attributes) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	buf, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the map.
func (a *Attributes) Scan(value any) error {
	if value == nil {
		*a = nil
		return nil
	}
	result := make(Attributes)
	if err := scanJSON("attributes", value, &result); err != nil {
		return err
	}
	*a = result
	return nil
}

// Clone returns an independent copy.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Label renders the attribute values in key order, e.g. "Red / M".
func (a Attributes) Label() string {
	if len(a) == 0 {
		return ""
	}
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, a[k])
	}
	return strings.Join(values, " / ")
}
