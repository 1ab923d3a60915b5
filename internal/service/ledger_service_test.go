package service

import (
	"testing"

	"go-depot-api/internal/model"

	"github.com/stretchr/testify/require"
)

func TestMovementDelta(t *testing.T) {
	cases := []struct {
		name     string
		typ      model.MovementType
		quantity int
		before   int
		delta    int
		err      error
	}{
		{"entree adds", model.MovementEntree, 5, 10, 5, nil},
		{"entree rejects zero", model.MovementEntree, 0, 10, 0, ErrInvalidQuantity},
		{"entree rejects negative", model.MovementEntree, -3, 10, 0, ErrInvalidQuantity},
		{"sortie subtracts", model.MovementSortie, 4, 10, -4, nil},
		{"sortie rejects zero", model.MovementSortie, 0, 10, 0, ErrInvalidQuantity},
		{"ajustement positive", model.MovementAjustement, 3, 10, 3, nil},
		{"ajustement negative", model.MovementAjustement, -3, 10, -3, nil},
		{"ajustement zero is a valid trace record", model.MovementAjustement, 0, 10, 0, nil},
		{"inventaire restates downward", model.MovementInventaire, 7, 10, -3, nil},
		{"inventaire restates upward", model.MovementInventaire, 15, 10, 5, nil},
		{"inventaire equal count", model.MovementInventaire, 10, 10, 0, nil},
		{"inventaire rejects negative count", model.MovementInventaire, -1, 10, 0, ErrInvalidQuantity},
		{"unknown type", model.MovementType("transfert"), 5, 10, 0, ErrInvalidMovementType},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			delta, err := movementDelta(tc.typ, tc.quantity, tc.before)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.delta, delta)
		})
	}
}

func TestNextStock(t *testing.T) {
	after, delta, err := nextStock(model.MovementSortie, 4, 10, false)
	require.NoError(t, err)
	require.Equal(t, 6, after)
	require.Equal(t, -4, delta)

	// A sortie can never drive the stock negative, allowNegative or not.
	_, _, err = nextStock(model.MovementSortie, 11, 10, false)
	require.ErrorIs(t, err, ErrInsufficientStock)
	_, _, err = nextStock(model.MovementSortie, 11, 10, true)
	require.ErrorIs(t, err, ErrInsufficientStock)

	// Exactly emptying the stock is fine.
	after, _, err = nextStock(model.MovementSortie, 10, 10, false)
	require.NoError(t, err)
	require.Equal(t, 0, after)

	// An adjustment below zero needs the explicit flag.
	_, _, err = nextStock(model.MovementAjustement, -12, 10, false)
	require.ErrorIs(t, err, ErrInsufficientStock)

	after, delta, err = nextStock(model.MovementAjustement, -12, 10, true)
	require.NoError(t, err)
	require.Equal(t, -2, after)
	require.Equal(t, -12, delta)
}

func TestStubLedgerCommitAppendsMovement(t *testing.T) {
	material := &model.Material{Code: "CIM-001", Name: "Ciment", Unit: "sac", CurrentStock: 10, IsActive: true}
	materials := newStubMaterialRepo(material)
	ledger := newStubLedger(materials)

	movement, err := ledger.Commit(CommitInput{
		MaterialID: material.ID,
		Type:       model.MovementEntree,
		Quantity:   5,
		Actor:      "magazinier-1",
		Motif:      "reception fournisseur",
	})
	require.NoError(t, err)
	require.Equal(t, 10, movement.StockBefore)
	require.Equal(t, 15, movement.StockAfter)
	require.Equal(t, 5, movement.Quantity)
	require.Equal(t, 15, materials.stock(material.ID))

	// stock_after must always equal stock_before plus the signed delta.
	require.Equal(t, movement.StockBefore+movement.Quantity, movement.StockAfter)
}

func TestFormatSequenceNumber(t *testing.T) {
	require.Equal(t, "BL-2026-0042", formatSequenceNumber("BL", 2026, 42))
	require.Equal(t, "DEM-2026-0007", formatSequenceNumber("DEM", 2026, 7))
	require.Equal(t, "BL-2026-12345", formatSequenceNumber("BL", 2026, 12345))
}
