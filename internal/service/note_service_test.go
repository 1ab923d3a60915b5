package service

import (
	"fmt"
	"testing"
	"time"

	"go-depot-api/internal/model"

	"github.com/stretchr/testify/require"
)

func newNoteFixture(materials ...*model.Material) (*stubMaterialRepo, *stubLedger, *stubNoteRepo, NoteService) {
	materialRepo := newStubMaterialRepo(materials...)
	ledger := newStubLedger(materialRepo)
	noteRepo := &stubNoteRepo{}
	notes := NewNoteService(noteRepo, newStubSequenceRepo(), ledger, nil, nil)
	return materialRepo, ledger, noteRepo, notes
}

func TestIssueSnapshotsLinesAndDecrementsStock(t *testing.T) {
	cement := &model.Material{Code: "CIM-001", Name: "Ciment", Unit: "sac", CurrentStock: 20, IsActive: true}
	rebar := &model.Material{Code: "FER-012", Name: "Fer a beton 12", Unit: "barre", CurrentStock: 50, IsActive: true}
	materialRepo, ledger, noteRepo, notes := newNoteFixture(cement, rebar)

	note, err := notes.Issue(IssueInput{
		Lines: []IssueLine{
			{Material: cement, Quantity: 5},
			{Material: rebar, Quantity: 10},
		},
		Recipient: model.Recipient{Name: "Chef Konate", Site: "Chantier Nord"},
		Motif:     "distribution directe",
		Actor:     "magazinier-1",
	})
	require.NoError(t, err)

	year := time.Now().Year()
	require.Equal(t, fmt.Sprintf("BL-%d-0001", year), note.Number)
	require.Nil(t, note.RequestID)
	require.Equal(t, "Chef Konate", note.RecipientName)
	require.Equal(t, "Chantier Nord", note.RecipientSite)

	require.Len(t, note.Items, 2)
	require.Equal(t, "CIM-001", note.Items[0].MaterialCode)
	require.Equal(t, "Ciment", note.Items[0].MaterialName)
	require.Equal(t, "sac", note.Items[0].Unit)
	require.Equal(t, 5, note.Items[0].Quantity)

	require.Equal(t, 15, materialRepo.stock(cement.ID))
	require.Equal(t, 40, materialRepo.stock(rebar.ID))
	require.Equal(t, 1, noteRepo.count())

	// Each sortie carries the back-reference to the note it serves.
	for _, movement := range ledger.movementsFor(cement.ID) {
		require.NotNil(t, movement.DeliveryNoteID)
		require.Equal(t, note.ID, *movement.DeliveryNoteID)
	}
}

func TestIssueNumbersAreMonotonic(t *testing.T) {
	cement := &model.Material{Code: "CIM-001", Name: "Ciment", Unit: "sac", CurrentStock: 20, IsActive: true}
	_, _, _, notes := newNoteFixture(cement)

	year := time.Now().Year()
	for i := 1; i <= 3; i++ {
		note, err := notes.Issue(IssueInput{
			Lines:     []IssueLine{{Material: cement, Quantity: 1}},
			Recipient: model.Recipient{Name: "Chef Konate", Site: "Chantier Nord"},
			Actor:     "magazinier-1",
		})
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("BL-%d-%04d", year, i), note.Number)
	}
}

func TestIssueEmptyLines(t *testing.T) {
	_, _, _, notes := newNoteFixture()

	_, err := notes.Issue(IssueInput{Actor: "magazinier-1"})
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestIssueReversesCommittedLinesOnFailure(t *testing.T) {
	cement := &model.Material{Code: "CIM-001", Name: "Ciment", Unit: "sac", CurrentStock: 20, IsActive: true}
	rebar := &model.Material{Code: "FER-012", Name: "Fer a beton 12", Unit: "barre", CurrentStock: 3, IsActive: true}
	materialRepo, ledger, noteRepo, notes := newNoteFixture(cement, rebar)

	// First line commits, second fails on stock: the first must be
	// compensated so no stock decrement survives without a note.
	_, err := notes.Issue(IssueInput{
		Lines: []IssueLine{
			{Material: cement, Quantity: 5},
			{Material: rebar, Quantity: 10},
		},
		Recipient: model.Recipient{Name: "Chef Konate", Site: "Chantier Nord"},
		Actor:     "magazinier-1",
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	require.Equal(t, 20, materialRepo.stock(cement.ID))
	require.Equal(t, 3, materialRepo.stock(rebar.ID))
	require.Equal(t, 0, noteRepo.count())

	// The trail keeps both the sortie and its reversal.
	movements := ledger.movementsFor(cement.ID)
	require.Len(t, movements, 2)
	require.Equal(t, model.MovementSortie, movements[0].Type)
	require.Equal(t, -5, movements[0].Quantity)
	require.Equal(t, model.MovementAjustement, movements[1].Type)
	require.Equal(t, 5, movements[1].Quantity)
}

func TestIssueReversesWhenNotePersistFails(t *testing.T) {
	cement := &model.Material{Code: "CIM-001", Name: "Ciment", Unit: "sac", CurrentStock: 20, IsActive: true}
	materialRepo, _, noteRepo, notes := newNoteFixture(cement)
	noteRepo.createErr = fmt.Errorf("insert failed")

	_, err := notes.Issue(IssueInput{
		Lines:     []IssueLine{{Material: cement, Quantity: 5}},
		Recipient: model.Recipient{Name: "Chef Konate", Site: "Chantier Nord"},
		Actor:     "magazinier-1",
	})
	require.Error(t, err)
	require.Equal(t, 20, materialRepo.stock(cement.ID))
	require.Equal(t, 0, noteRepo.count())
}
