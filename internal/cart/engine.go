// Package cart prices storefront carts. The engine is a pure reducer over
// Cart values; every operation returns a new Cart and leaves its receiver
// untouched.
package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

// Item is one cart line, keyed by variant. Price, name, image and attributes
// are captured on the first add and never refreshed.
type Item struct {
	VariantID  uuid.UUID        `json:"variant_id"`
	ProductID  uuid.UUID        `json:"product_id"`
	Name       string           `json:"name"`
	Attributes types.Attributes `json:"attributes,omitempty"`
	Price      decimal.Decimal  `json:"price"`
	ImageURL   *string          `json:"image_url,omitempty"`
	Quantity   int              `json:"quantity"`
}

// Subtotal is price times quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart holds at most one Item per variant, in first-add order. The zero
// value is an empty cart.
type Cart struct {
	items []Item
}

// Add puts qty units of variant into the cart. An existing line only has
// its quantity raised. A non-positive qty leaves the cart unchanged.
func (c Cart) Add(product models.Product, variant models.ProductVariant, qty int) Cart {
	if qty <= 0 {
		return c
	}
	next := c.clone()
	if idx := next.index(variant.ID); idx >= 0 {
		next.items[idx].Quantity += qty
		return next
	}
	next.items = append(next.items, Item{
		VariantID:  variant.ID,
		ProductID:  product.ID,
		Name:       product.Name,
		Attributes: variant.Attributes.Clone(),
		Price:      EffectivePrice(product, variant),
		ImageURL:   variantImage(product, variant),
		Quantity:   qty,
	})
	return next
}

// Remove drops the line for variantID.
func (c Cart) Remove(variantID uuid.UUID) Cart {
	idx := c.index(variantID)
	if idx < 0 {
		return c
	}
	next := Cart{items: make([]Item, 0, len(c.items)-1)}
	next.items = append(next.items, c.items[:idx]...)
	next.items = append(next.items, c.items[idx+1:]...)
	return next
}

// SetQuantity replaces the quantity of a line; n <= 0 removes it.
func (c Cart) SetQuantity(variantID uuid.UUID, n int) Cart {
	if n <= 0 {
		return c.Remove(variantID)
	}
	idx := c.index(variantID)
	if idx < 0 {
		return c
	}
	next := c.clone()
	next.items[idx].Quantity = n
	return next
}

// Clear empties the cart.
func (Cart) Clear() Cart {
	return Cart{}
}

// Total sums price times quantity over every line.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ItemCount sums the quantities.
func (c Cart) ItemCount() int {
	n := 0
	for _, item := range c.items {
		n += item.Quantity
	}
	return n
}

// Items returns a copy of the lines.
func (c Cart) Items() []Item {
	return c.clone().items
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.items) == 0
}

func (c Cart) index(variantID uuid.UUID) int {
	for i, item := range c.items {
		if item.VariantID == variantID {
			return i
		}
	}
	return -1
}

func (c Cart) clone() Cart {
	if c.items == nil {
		return Cart{}
	}
	items := make([]Item, len(c.items))
	for i, item := range c.items {
		item.Attributes = item.Attributes.Clone()
		if item.ImageURL != nil {
			v := *item.ImageURL
			item.ImageURL = &v
		}
		items[i] = item
	}
	return Cart{items: items}
}
