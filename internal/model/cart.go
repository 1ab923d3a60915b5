package model

import (
	"errors"

	"github.com/google/uuid"
)

// ErrStockExceeded is the soft, cart-level signal that a line was
// clamped to the available stock. Callers decide whether to surface it;
// the cart stays usable.
var ErrStockExceeded = errors.New("quantity exceeds available stock")

// CartLine is one (material, quantity) pair of a distribution cart.
type CartLine struct {
	MaterialID uuid.UUID `json:"material_id"`
	Quantity   int       `json:"quantity"`
}

// Cart is the ephemeral aggregation used only by direct distribution.
// It has no identity and is never persisted; it lives with its caller
// until submit. Line quantities are always clamped to
// [1, material.current_stock].
type Cart struct {
	lines []CartLine
}

// Add raises the line for materialID by delta, appending a new line if
// the material is not yet in the cart. The line is clamped to stock; if
// the clamp was hit the (possibly partial) increment is kept and
// ErrStockExceeded is returned as a warning.
func (c *Cart) Add(materialID uuid.UUID, stock, delta int) error {
	if delta <= 0 {
		delta = 1
	}
	for i := range c.lines {
		if c.lines[i].MaterialID == materialID {
			if stock < 1 {
				// The material ran dry since the line was added; the
				// clamp floor is 1, so the line goes away.
				c.lines = append(c.lines[:i], c.lines[i+1:]...)
				return ErrStockExceeded
			}
			qty := c.lines[i].Quantity + delta
			if qty > stock {
				c.lines[i].Quantity = stock
				return ErrStockExceeded
			}
			c.lines[i].Quantity = qty
			return nil
		}
	}
	if stock < 1 {
		return ErrStockExceeded
	}
	qty := delta
	if qty > stock {
		qty = stock
		c.lines = append(c.lines, CartLine{MaterialID: materialID, Quantity: qty})
		return ErrStockExceeded
	}
	c.lines = append(c.lines, CartLine{MaterialID: materialID, Quantity: qty})
	return nil
}

// SetQuantity pins the line for materialID to qty. qty <= 0 removes the
// line; qty above stock is refused with ErrStockExceeded and the cart is
// left untouched.
func (c *Cart) SetQuantity(materialID uuid.UUID, stock, qty int) error {
	if qty <= 0 {
		c.Remove(materialID)
		return nil
	}
	if qty > stock {
		return ErrStockExceeded
	}
	for i := range c.lines {
		if c.lines[i].MaterialID == materialID {
			c.lines[i].Quantity = qty
			return nil
		}
	}
	c.lines = append(c.lines, CartLine{MaterialID: materialID, Quantity: qty})
	return nil
}

// Remove drops the line for materialID, if present.
func (c *Cart) Remove(materialID uuid.UUID) {
	for i := range c.lines {
		if c.lines[i].MaterialID == materialID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Quantity returns the current line quantity for materialID, 0 if absent.
func (c *Cart) Quantity(materialID uuid.UUID) int {
	for _, line := range c.lines {
		if line.MaterialID == materialID {
			return line.Quantity
		}
	}
	return 0
}

// Lines returns a copy of the cart content in insertion order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}
