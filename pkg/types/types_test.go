package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()
	assert.Equal(t, "#6366F1", theme.PrimaryColor)
	assert.Equal(t, "#6B7280", theme.SecondaryColor)
	assert.Equal(t, "#FFFFFF", theme.BackgroundColor)
	assert.Equal(t, "#1F2937", theme.TextColor)
	assert.Equal(t, "Inter, sans-serif", theme.Font)
	assert.False(t, theme.IsZero())
	assert.True(t, Theme{}.IsZero())
}

func TestThemeScanRoundTrip(t *testing.T) {
	raw, err := DefaultTheme().Value()
	require.NoError(t, err)

	var theme Theme
	require.NoError(t, theme.Scan(raw))
	assert.Equal(t, DefaultTheme(), theme)

	require.NoError(t, theme.Scan(nil))
	assert.True(t, theme.IsZero())

	assert.Error(t, theme.Scan(42))
}

func TestPaymentInfoScanFromString(t *testing.T) {
	var info PaymentInfo
	require.NoError(t, info.Scan(`{"yape":{"holder":"Ana","number":"999111222"},"plin":{"holder":"","number":""}}`))
	assert.Equal(t, "Ana", info.Yape.Holder)
	assert.Equal(t, "999111222", info.Yape.Number)
}

func TestAttributesLabelAndClone(t *testing.T) {
	attrs := Attributes{"Size": "M", "Color": "Red"}
	assert.Equal(t, "Red / M", attrs.Label())

	clone := attrs.Clone()
	clone["Size"] = "L"
	assert.Equal(t, "M", attrs["Size"])

	var empty Attributes
	assert.Equal(t, "", empty.Label())
	v, err := empty.Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)
}
