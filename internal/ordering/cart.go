package ordering

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CartLine is one unique drink selection in a cart. Two selections are
// the same line only when item, size, temperature and every customization
// match; quantity accumulates on that identity.
type CartLine struct {
	ItemID         uuid.UUID         `json:"item_id"`
	Name           string            `json:"name"`
	UnitPrice      float64           `json:"unit_price"`
	Size           string            `json:"size,omitempty"`
	Temperature    string            `json:"temperature,omitempty"`
	Customizations map[string]string `json:"customizations,omitempty"`
	Quantity       int               `json:"quantity"`
}

// IdentityKey folds item, size, temperature and the sorted customization
// pairs into the composite key that decides line merging.
func (l CartLine) IdentityKey() string {
	var b strings.Builder
	b.WriteString(l.ItemID.String())
	b.WriteByte('|')
	b.WriteString(l.Size)
	b.WriteByte('|')
	b.WriteString(l.Temperature)

	keys := make([]string, 0, len(l.Customizations))
	for k := range l.Customizations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte('|')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(l.Customizations[k])
	}

	return b.String()
}

// Subtotal is the line's contribution to the cart total.
func (l CartLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// LineFilter selects cart lines for removal or quantity updates. Nil
// fields match anything, so the filter is deliberately coarser than the
// identity key: it ignores customizations and can sweep several
// customization variants of the same drink at once.
type LineFilter struct {
	Size        *string
	Temperature *string
}

func (f LineFilter) matches(line CartLine) bool {
	if f.Size != nil && line.Size != *f.Size {
		return false
	}
	if f.Temperature != nil && line.Temperature != *f.Temperature {
		return false
	}
	return true
}

// Cart accumulates a session's selections plus the pending pickup time
// choice. It is confined to one client session and not persisted until
// checkout.
type Cart struct {
	Lines      []CartLine `json:"lines"`
	PickupTime *time.Time `json:"pickup_time,omitempty"`
}

// AddItem merges the selection into an existing line with the same
// identity key, or appends a new line. Quantities below one count as one.
func (c *Cart) AddItem(line CartLine) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}

	key := line.IdentityKey()
	for i := range c.Lines {
		if c.Lines[i].IdentityKey() == key {
			c.Lines[i].Quantity += line.Quantity
			return
		}
	}

	c.Lines = append(c.Lines, line)
}

// RemoveItem drops every line for the item that the filter matches.
func (c *Cart) RemoveItem(itemID uuid.UUID, filter LineFilter) {
	kept := c.Lines[:0]
	for _, line := range c.Lines {
		if line.ItemID == itemID && filter.matches(line) {
			continue
		}
		kept = append(kept, line)
	}
	c.Lines = kept
}

// SetQuantity sets the quantity on every matching line, clamped to a
// minimum of one. Removing a line is RemoveItem's job, never a zero
// quantity.
func (c *Cart) SetQuantity(itemID uuid.UUID, quantity int, filter LineFilter) {
	if quantity < 1 {
		quantity = 1
	}
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID && filter.matches(c.Lines[i]) {
			c.Lines[i].Quantity = quantity
		}
	}
}

// Clear empties the cart and forgets any pending pickup time selection.
func (c *Cart) Clear() {
	c.Lines = nil
	c.PickupTime = nil
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Total sums the line subtotals.
func (c Cart) Total() float64 {
	var total float64
	for _, line := range c.Lines {
		total += line.Subtotal()
	}
	return total
}
