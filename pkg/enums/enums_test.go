package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStoreTemplate(t *testing.T) {
	tpl, err := ParseStoreTemplate("Organic & Natural")
	require.NoError(t, err)
	assert.Equal(t, StoreTemplateOrganic, tpl)

	_, err = ParseStoreTemplate("Brutalist")
	assert.Error(t, err)
}

func TestCurrencySymbol(t *testing.T) {
	assert.Equal(t, "S/ ", CurrencyPEN.Symbol())
	assert.Equal(t, "$", CurrencyUSD.Symbol())
	assert.False(t, Currency("EUR").IsValid())
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("ADMIN")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	_, err = ParseRole("admin")
	assert.Error(t, err, "roles are case sensitive")
}

func TestStoreStatusAndPlan(t *testing.T) {
	assert.True(t, StoreStatusSuspended.IsValid())
	assert.False(t, StoreStatus("archived").IsValid())

	plan, err := ParseStorePlan("premium")
	require.NoError(t, err)
	assert.Equal(t, StorePlanPremium, plan)
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("shipped")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, status)
	assert.False(t, OrderStatus("lost").IsValid())
}
