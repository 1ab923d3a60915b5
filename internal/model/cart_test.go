package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCartAddClampsToStock(t *testing.T) {
	materialID := uuid.New()
	var cart Cart

	// Three units in stock: three increments pass, the fourth clamps.
	require.NoError(t, cart.Add(materialID, 3, 1))
	require.NoError(t, cart.Add(materialID, 3, 1))
	require.NoError(t, cart.Add(materialID, 3, 1))

	err := cart.Add(materialID, 3, 1)
	require.ErrorIs(t, err, ErrStockExceeded)
	require.Equal(t, 3, cart.Quantity(materialID))

	// The clamp is a warning, not a rejection: the cart stays usable.
	require.False(t, cart.Empty())
	require.Len(t, cart.Lines(), 1)
}

func TestCartAddPartialIncrementKept(t *testing.T) {
	materialID := uuid.New()
	var cart Cart

	err := cart.Add(materialID, 5, 8)
	require.ErrorIs(t, err, ErrStockExceeded)
	require.Equal(t, 5, cart.Quantity(materialID))
}

func TestCartAddOutOfStockMaterial(t *testing.T) {
	materialID := uuid.New()
	var cart Cart

	err := cart.Add(materialID, 0, 1)
	require.ErrorIs(t, err, ErrStockExceeded)
	require.True(t, cart.Empty())
}

func TestCartAddRemovesLineWhenStockRunsDry(t *testing.T) {
	materialID := uuid.New()
	var cart Cart

	require.NoError(t, cart.Add(materialID, 5, 2))

	// The stock drained to zero behind the cart's back: the line cannot
	// stay pinned at a quantity below the clamp floor of 1.
	err := cart.Add(materialID, 0, 1)
	require.ErrorIs(t, err, ErrStockExceeded)
	require.Equal(t, 0, cart.Quantity(materialID))
	require.True(t, cart.Empty())
}

func TestCartAddDefaultsDeltaToOne(t *testing.T) {
	materialID := uuid.New()
	var cart Cart

	require.NoError(t, cart.Add(materialID, 10, 0))
	require.Equal(t, 1, cart.Quantity(materialID))

	require.NoError(t, cart.Add(materialID, 10, -4))
	require.Equal(t, 2, cart.Quantity(materialID))
}

func TestCartSetQuantity(t *testing.T) {
	materialID := uuid.New()
	var cart Cart

	require.NoError(t, cart.SetQuantity(materialID, 10, 7))
	require.Equal(t, 7, cart.Quantity(materialID))

	// Above stock is refused outright and the line is untouched.
	err := cart.SetQuantity(materialID, 10, 11)
	require.ErrorIs(t, err, ErrStockExceeded)
	require.Equal(t, 7, cart.Quantity(materialID))

	// Zero or below removes the line.
	require.NoError(t, cart.SetQuantity(materialID, 10, 0))
	require.True(t, cart.Empty())
}

func TestCartRemove(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	var cart Cart

	require.NoError(t, cart.Add(first, 10, 2))
	require.NoError(t, cart.Add(second, 10, 3))

	cart.Remove(first)
	require.Equal(t, 0, cart.Quantity(first))
	require.Equal(t, 3, cart.Quantity(second))
	require.Len(t, cart.Lines(), 1)
}

func TestCartLinesReturnsCopy(t *testing.T) {
	materialID := uuid.New()
	var cart Cart

	require.NoError(t, cart.Add(materialID, 10, 2))

	lines := cart.Lines()
	lines[0].Quantity = 99
	require.Equal(t, 2, cart.Quantity(materialID))
}
