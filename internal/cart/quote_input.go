package cart

import "github.com/google/uuid"

// QuoteInput is the cart a visitor submits at checkout.
type QuoteInput struct {
	Lines []QuoteLine
}

// QuoteLine requests Quantity units of one variant. For a product without
// variants VariantID is the product id.
type QuoteLine struct {
	VariantID uuid.UUID
	Quantity  int
}
