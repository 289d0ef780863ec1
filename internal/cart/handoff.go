package cart

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/internal/stores"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

const whatsAppBaseURL = "https://wa.me/"

// FormatAmount renders amount with two decimals and the currency symbol:
// "S/ 12.50" for PEN, "$12.50" for USD.
func FormatAmount(currency enums.Currency, amount decimal.Decimal) string {
	return currency.Symbol() + amount.StringFixed(2)
}

// CheckoutMessage is the order summary a shopper sends to the merchant.
func CheckoutMessage(store *stores.StorefrontDTO, c Cart) string {
	var b strings.Builder
	fmt.Fprintf(&b, "¡Hola %s!\n\nQuisiera confirmar mi pedido:\n\n", store.Name)
	for _, item := range c.items {
		name := item.Name
		if label := item.Attributes.Label(); label != "" {
			name += " (" + label + ")"
		}
		fmt.Fprintf(&b, "*%s* (x%d) - %s\n", name, item.Quantity, FormatAmount(store.Currency, item.Subtotal()))
	}
	fmt.Fprintf(&b, "\n*Total a Pagar:* %s\n\n", FormatAmount(store.Currency, c.Total()))
	b.WriteString("En breve realizaré el pago. ¡Gracias!")
	return b.String()
}

// WhatsAppLink builds the wa.me deep link carrying CheckoutMessage.
func WhatsAppLink(store *stores.StorefrontDTO, c Cart) (string, error) {
	number := digitsOnly(store.WhatsappNumber)
	if number == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "store has no whatsapp number")
	}
	if c.IsEmpty() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	text := strings.ReplaceAll(url.QueryEscape(CheckoutMessage(store, c)), "+", "%20")
	return whatsAppBaseURL + number + "?text=" + text, nil
}

func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
