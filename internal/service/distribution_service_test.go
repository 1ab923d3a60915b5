package service

import (
	"errors"
	"sync"
	"testing"

	"go-depot-api/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type distributionFixture struct {
	materialRepo *stubMaterialRepo
	userRepo     *stubUserRepo
	siteRepo     *stubSiteRepo
	noteRepo     *stubNoteRepo
	ledger       *stubLedger
	distribution DistributionService
}

func newDistributionFixture(materials ...*model.Material) *distributionFixture {
	materialRepo := newStubMaterialRepo(materials...)
	userRepo := newStubUserRepo()
	siteRepo := newStubSiteRepo()
	noteRepo := &stubNoteRepo{}
	ledger := newStubLedger(materialRepo)
	issuer := NewNoteService(noteRepo, newStubSequenceRepo(), ledger, nil, nil)

	return &distributionFixture{
		materialRepo: materialRepo,
		userRepo:     userRepo,
		siteRepo:     siteRepo,
		noteRepo:     noteRepo,
		ledger:       ledger,
		distribution: NewDistributionService(materialRepo, userRepo, siteRepo, issuer),
	}
}

func TestSubmitAdHocRecipient(t *testing.T) {
	cement := &model.Material{Code: "CIM-001", Name: "Ciment", Unit: "sac", CurrentStock: 20, IsActive: true}
	f := newDistributionFixture(cement)

	note, err := f.distribution.Submit(SubmitInput{
		Lines:     []model.CartLine{{MaterialID: cement.ID, Quantity: 6}},
		Recipient: model.Recipient{Name: "Visiteur Diabate", Site: "Chantier Sud"},
		Actor:     "magazinier-1",
	})
	require.NoError(t, err)

	require.Nil(t, note.RequestID)
	require.Nil(t, note.RecipientUserID)
	require.Equal(t, "Visiteur Diabate", note.RecipientName)
	require.Equal(t, "Chantier Sud", note.RecipientSite)
	require.Equal(t, 14, f.materialRepo.stock(cement.ID))
	require.Equal(t, "distribution directe", f.ledger.movementsFor(cement.ID)[0].Motif)
}

func TestSubmitAccountRecipientResolved(t *testing.T) {
	cement := &model.Material{Code: "CIM-001", Name: "Ciment", Unit: "sac", CurrentStock: 20, IsActive: true}
	f := newDistributionFixture(cement)

	chef := &model.User{FullName: "Chef Konate", PhoneNumber: "0102030405"}
	require.NoError(t, f.userRepo.Create(chef))
	chefID := chef.ID.String()
	require.NoError(t, f.siteRepo.Create(&model.Site{Name: "Chantier Nord", Address: "Route de Bingerville", ManagerID: &chefID}))

	note, err := f.distribution.Submit(SubmitInput{
		Lines:     []model.CartLine{{MaterialID: cement.ID, Quantity: 2}},
		Recipient: model.Recipient{UserID: &chefID},
		Actor:     "magazinier-1",
	})
	require.NoError(t, err)

	require.NotNil(t, note.RecipientUserID)
	require.Equal(t, chefID, *note.RecipientUserID)
	require.Equal(t, "Chef Konate", note.RecipientName)
	require.Equal(t, "0102030405", note.RecipientPhone)
	require.Equal(t, "Chantier Nord", note.RecipientSite)
}

func TestSubmitRecipientOneFormOnly(t *testing.T) {
	cement := &model.Material{Code: "CIM-001", Name: "Ciment", Unit: "sac", CurrentStock: 20, IsActive: true}
	f := newDistributionFixture(cement)

	chef := &model.User{FullName: "Chef Konate"}
	require.NoError(t, f.userRepo.Create(chef))
	chefID := chef.ID.String()

	lines := []model.CartLine{{MaterialID: cement.ID, Quantity: 1}}

	// Both forms at once.
	_, err := f.distribution.Submit(SubmitInput{
		Lines:     lines,
		Recipient: model.Recipient{UserID: &chefID, Name: "Visiteur"},
		Actor:     "magazinier-1",
	})
	require.ErrorIs(t, err, ErrMissingRecipient)

	// Neither form.
	_, err = f.distribution.Submit(SubmitInput{Lines: lines, Actor: "magazinier-1"})
	require.ErrorIs(t, err, ErrMissingRecipient)

	// Ad-hoc without a site.
	_, err = f.distribution.Submit(SubmitInput{
		Lines:     lines,
		Recipient: model.Recipient{Name: "Visiteur"},
		Actor:     "magazinier-1",
	})
	require.ErrorIs(t, err, ErrMissingRecipient)

	// Unknown account.
	ghost := uuid.New().String()
	_, err = f.distribution.Submit(SubmitInput{
		Lines:     lines,
		Recipient: model.Recipient{UserID: &ghost},
		Actor:     "magazinier-1",
	})
	require.ErrorIs(t, err, ErrMissingRecipient)

	// Nothing moved through all the refusals.
	require.Equal(t, 20, f.materialRepo.stock(cement.ID))
	require.Equal(t, 0, f.noteRepo.count())
}

func TestSubmitRefusesOverStockLine(t *testing.T) {
	cement := &model.Material{Code: "CIM-001", Name: "Ciment", Unit: "sac", CurrentStock: 3, IsActive: true}
	f := newDistributionFixture(cement)

	_, err := f.distribution.Submit(SubmitInput{
		Lines:     []model.CartLine{{MaterialID: cement.ID, Quantity: 4}},
		Recipient: model.Recipient{Name: "Visiteur", Site: "Chantier Sud"},
		Actor:     "magazinier-1",
	})
	require.ErrorIs(t, err, ErrStockExceeded)
	require.Equal(t, 3, f.materialRepo.stock(cement.ID))
}

func TestSubmitEmptyCart(t *testing.T) {
	f := newDistributionFixture()

	_, err := f.distribution.Submit(SubmitInput{
		Recipient: model.Recipient{Name: "Visiteur", Site: "Chantier Sud"},
		Actor:     "magazinier-1",
	})
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestSubmitInactiveMaterial(t *testing.T) {
	plaster := &model.Material{Code: "PLA-002", Name: "Platre", Unit: "sac", CurrentStock: 5, IsActive: false}
	f := newDistributionFixture(plaster)

	_, err := f.distribution.Submit(SubmitInput{
		Lines:     []model.CartLine{{MaterialID: plaster.ID, Quantity: 1}},
		Recipient: model.Recipient{Name: "Visiteur", Site: "Chantier Sud"},
		Actor:     "magazinier-1",
	})
	require.ErrorIs(t, err, ErrMaterialInactive)
}

// Two magaziniers race for the last five sacks. Exactly one submission
// wins; the loser is refused either at the live-stock recheck or at the
// ledger commit, and the stock never goes negative.
func TestSubmitConcurrentLastUnits(t *testing.T) {
	cement := &model.Material{Code: "CIM-001", Name: "Ciment", Unit: "sac", CurrentStock: 5, IsActive: true}
	f := newDistributionFixture(cement)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.distribution.Submit(SubmitInput{
				Lines:     []model.CartLine{{MaterialID: cement.ID, Quantity: 5}},
				Recipient: model.Recipient{Name: "Visiteur", Site: "Chantier Sud"},
				Actor:     "magazinier-1",
			})
		}(i)
	}
	wg.Wait()

	var failures int
	for _, err := range errs {
		if err != nil {
			failures++
			require.True(t,
				errors.Is(err, ErrInsufficientStock) || errors.Is(err, ErrStockExceeded),
				"unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, failures)
	require.Equal(t, 0, f.materialRepo.stock(cement.ID))
	require.Equal(t, 1, f.noteRepo.count())
}
