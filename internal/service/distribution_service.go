package service

import (
	"errors"

	"go-depot-api/internal/model"
	"go-depot-api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmitInput is a direct distribution: a cart content plus exactly one
// recipient form, either an existing account reference or an ad-hoc tuple.
type SubmitInput struct {
	Lines     []model.CartLine
	Recipient model.Recipient
	Actor     string
	Comment   string
}

// DistributionService is the request-free issuance path: a magazinier
// hands materials straight to a recipient. It enforces the same stock
// constraints as the request path by going through the shared issuer.
type DistributionService interface {
	Submit(in SubmitInput) (*model.DeliveryNote, error)
}

type distributionService struct {
	materialRepo repository.MaterialRepository
	userRepo     repository.UserRepository
	siteRepo     repository.SiteRepository
	issuer       NoteIssuer
}

func NewDistributionService(
	materialRepo repository.MaterialRepository,
	userRepo repository.UserRepository,
	siteRepo repository.SiteRepository,
	issuer NoteIssuer,
) DistributionService {
	return &distributionService{
		materialRepo: materialRepo,
		userRepo:     userRepo,
		siteRepo:     siteRepo,
		issuer:       issuer,
	}
}

func (s *distributionService) Submit(in SubmitInput) (*model.DeliveryNote, error) {
	if len(in.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	recipient, err := s.resolveRecipient(in.Recipient)
	if err != nil {
		return nil, err
	}

	// Rebuild the submitted lines into a cart against live stock. A line
	// above the current stock is a hard refusal at submit time, unlike
	// the soft clamp while the caller is still composing the cart.
	var cart model.Cart
	materials := make(map[string]*model.Material, len(in.Lines))
	for _, line := range in.Lines {
		material, err := s.materialRepo.FindByID(line.MaterialID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrMaterialNotFound
			}
			return nil, err
		}
		if !material.IsActive {
			return nil, ErrMaterialInactive
		}
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if err := cart.SetQuantity(material.ID, material.CurrentStock, line.Quantity); err != nil {
			return nil, err
		}
		materials[material.ID.String()] = material
	}
	if cart.Empty() {
		return nil, ErrEmptyCart
	}

	motif := in.Comment
	if motif == "" {
		motif = "distribution directe"
	}

	lines := make([]IssueLine, 0, len(in.Lines))
	for _, line := range cart.Lines() {
		lines = append(lines, IssueLine{
			Material: materials[line.MaterialID.String()],
			Quantity: line.Quantity,
		})
	}

	return s.issuer.Issue(IssueInput{
		Lines:     lines,
		Recipient: recipient,
		RequestID: nil,
		Motif:     motif,
		Actor:     in.Actor,
		Comment:   in.Comment,
	})
}

// resolveRecipient enforces the one-form rule: an account reference or
// an ad-hoc (name, site) tuple, never both and never neither. Account
// references are resolved to a display snapshot.
func (s *distributionService) resolveRecipient(r model.Recipient) (model.Recipient, error) {
	hasAccount := r.UserID != nil && *r.UserID != ""
	hasAdHoc := r.Name != "" || r.Site != "" || r.Address != "" || r.Phone != ""

	if hasAccount && hasAdHoc {
		return model.Recipient{}, ErrMissingRecipient
	}

	if hasAccount {
		userID, err := uuid.Parse(*r.UserID)
		if err != nil {
			return model.Recipient{}, ErrMissingRecipient
		}
		user, err := s.userRepo.FindByID(userID)
		if err != nil {
			return model.Recipient{}, ErrMissingRecipient
		}
		resolved := model.Recipient{
			UserID: r.UserID,
			Name:   user.FullName,
			Phone:  user.PhoneNumber,
		}
		// A chef de chantier usually manages a registered site; snapshot
		// it when there is one.
		if sites, err := s.siteRepo.FindByManagerID(*r.UserID); err == nil && len(sites) > 0 {
			resolved.Site = sites[0].Name
			resolved.Address = sites[0].Address
		}
		return resolved, nil
	}

	if r.Name == "" || r.Site == "" {
		return model.Recipient{}, ErrMissingRecipient
	}
	return r, nil
}
