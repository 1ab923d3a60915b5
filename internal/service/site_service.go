package service

import (
	"errors"
	"fmt"

	"go-depot-api/internal/model"
	"go-depot-api/internal/repository"
	"go-depot-api/pkg/validator"

	"github.com/google/uuid"
)

var (
	ErrSiteNameExists = errors.New("a site with this name already exists")
	ErrNotSiteManager = errors.New("assigned manager must be a chef de chantier")
)

type SiteService interface {
	CreateSite(req *CreateSiteRequest, creatorID string) (*model.Site, error)
	UpdateSite(id uuid.UUID, req *UpdateSiteRequest, updaterID string) (*model.Site, error)
	DeleteSite(id uuid.UUID, deleterID string) error
	GetSiteByID(id uuid.UUID) (*model.Site, error)
	GetAllSites() ([]model.Site, error)
}

type CreateSiteRequest struct {
	Name      string  `json:"name" validate:"required"`
	Address   string  `json:"address"`
	Phone     string  `json:"phone"`
	ManagerID *string `json:"manager_id"`
}

type UpdateSiteRequest struct {
	Name      string  `json:"name" validate:"required"`
	Address   string  `json:"address"`
	Phone     string  `json:"phone"`
	ManagerID *string `json:"manager_id"`
	IsActive  *bool   `json:"is_active"`
}

type siteService struct {
	siteRepo repository.SiteRepository
	userRepo repository.UserRepository
}

func NewSiteService(siteRepo repository.SiteRepository, userRepo repository.UserRepository) SiteService {
	return &siteService{
		siteRepo: siteRepo,
		userRepo: userRepo,
	}
}

// checkManager verifies the assigned manager exists and holds the chef
// de chantier role.
func (s *siteService) checkManager(managerID *string) error {
	if managerID == nil || *managerID == "" {
		return nil
	}
	userID, err := uuid.Parse(*managerID)
	if err != nil {
		return ErrUserNotFound
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return ErrUserNotFound
	}
	if user.Role == nil || user.Role.Code != model.RoleChefChantier {
		return ErrNotSiteManager
	}
	return nil
}

func (s *siteService) CreateSite(req *CreateSiteRequest, creatorID string) (*model.Site, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	existing, _ := s.siteRepo.FindByName(req.Name)
	if existing != nil && existing.ID != uuid.Nil {
		return nil, ErrSiteNameExists
	}

	if err := s.checkManager(req.ManagerID); err != nil {
		return nil, err
	}

	site := &model.Site{
		Name:      req.Name,
		Address:   req.Address,
		Phone:     req.Phone,
		ManagerID: req.ManagerID,
		IsActive:  true,
	}
	site.CreatedBy = creatorID
	site.UpdatedBy = creatorID

	if err := s.siteRepo.Create(site); err != nil {
		return nil, err
	}
	return site, nil
}

func (s *siteService) UpdateSite(id uuid.UUID, req *UpdateSiteRequest, updaterID string) (*model.Site, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	site, err := s.siteRepo.FindByID(id)
	if err != nil {
		return nil, ErrSiteNotFound
	}

	if req.Name != site.Name {
		existing, _ := s.siteRepo.FindByName(req.Name)
		if existing != nil && existing.ID != uuid.Nil {
			return nil, ErrSiteNameExists
		}
	}

	if err := s.checkManager(req.ManagerID); err != nil {
		return nil, err
	}

	site.Name = req.Name
	site.Address = req.Address
	site.Phone = req.Phone
	site.ManagerID = req.ManagerID
	if req.IsActive != nil {
		site.IsActive = *req.IsActive
	}
	site.UpdatedBy = updaterID

	if err := s.siteRepo.Update(site); err != nil {
		return nil, err
	}
	return s.siteRepo.FindByID(id)
}

func (s *siteService) DeleteSite(id uuid.UUID, deleterID string) error {
	if _, err := s.siteRepo.FindByID(id); err != nil {
		return ErrSiteNotFound
	}
	return s.siteRepo.Delete(id, deleterID)
}

func (s *siteService) GetSiteByID(id uuid.UUID) (*model.Site, error) {
	site, err := s.siteRepo.FindByID(id)
	if err != nil {
		return nil, ErrSiteNotFound
	}
	return site, nil
}

func (s *siteService) GetAllSites() ([]model.Site, error) {
	return s.siteRepo.FindAll()
}
