package redemption

import (
	"errors"
	"sort"

	"github.com/google/uuid"
)

var (
	ErrEmptyCart        = errors.New("cart must contain at least one item")
	ErrInvalidQuantity  = errors.New("item quantity must be positive")
	ErrDuplicateProduct = errors.New("cart lists the same product twice")
)

// CartItem is one requested line: a product and how many units of it.
type CartItem struct {
	ProductID uuid.UUID
	Quantity  int32
}

// Cart is a validated redemption request. Items are kept sorted by product
// id so that callers touch products in one deterministic order.
type Cart struct {
	items []CartItem
}

func NewCart(items []CartItem) (*Cart, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if _, dup := seen[item.ProductID]; dup {
			return nil, ErrDuplicateProduct
		}
		seen[item.ProductID] = struct{}{}
	}

	sorted := make([]CartItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ProductID.String() < sorted[j].ProductID.String()
	})

	return &Cart{items: sorted}, nil
}

// Items returns the line items in product-id order.
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// ProductIDs returns the distinct product ids in lock-acquisition order.
func (c *Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(c.items))
	for i, item := range c.items {
		ids[i] = item.ProductID
	}
	return ids
}
