package service

import (
	"errors"
	"fmt"

	"go-depot-api/internal/model"
	"go-depot-api/internal/repository"
	"go-depot-api/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrCodeExists = errors.New("material code already exists")

// CatalogService manages the material catalog. Stock is read-only here:
// only the ledger writes current_stock, so creation and update never
// touch it. Materials are never deleted, only deactivated.
type CatalogService interface {
	CreateMaterial(req *model.Material, userID string) error
	UpdateMaterial(id uuid.UUID, req *model.Material, userID string) (*model.Material, error)
	DeactivateMaterial(id uuid.UUID, userID string) (*model.Material, error)
	GetAllMaterials() ([]model.Material, error)
	GetActiveMaterials() ([]model.Material, error)
	GetLowStockMaterials() ([]model.Material, error)
	GetMaterialByID(id uuid.UUID) (*model.Material, error)
	GetMaterialByCode(code string) (*model.Material, error)
}

type catalogService struct {
	materialRepo repository.MaterialRepository
}

func NewCatalogService(materialRepo repository.MaterialRepository) CatalogService {
	return &catalogService{materialRepo: materialRepo}
}

func (s *catalogService) CreateMaterial(req *model.Material, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	existing, _ := s.materialRepo.FindByCode(req.Code)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrCodeExists
	}

	// Opening stock arrives through an entree ledger commit after
	// creation, never through the catalog.
	req.CurrentStock = 0
	req.IsActive = true
	req.CreatedBy = userID
	req.UpdatedBy = userID
	req.CreatedByUserID = &userID
	req.UpdatedByUserID = &userID

	return s.materialRepo.Create(req)
}

func (s *catalogService) UpdateMaterial(id uuid.UUID, req *model.Material, userID string) (*model.Material, error) {
	existing, err := s.materialRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, err
	}

	if req.Code != existing.Code {
		dup, _ := s.materialRepo.FindByCode(req.Code)
		if dup != nil && dup.ID != uuid.Nil {
			return nil, ErrCodeExists
		}
	}

	existing.Code = req.Code
	existing.Name = req.Name
	existing.Unit = req.Unit
	existing.MinimumStock = req.MinimumStock
	existing.Supplier = req.Supplier
	existing.UpdatedBy = userID
	existing.UpdatedByUserID = &userID

	if err := s.materialRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *catalogService) DeactivateMaterial(id uuid.UUID, userID string) (*model.Material, error) {
	existing, err := s.materialRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, err
	}

	existing.IsActive = false
	existing.UpdatedBy = userID
	existing.UpdatedByUserID = &userID

	if err := s.materialRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *catalogService) GetAllMaterials() ([]model.Material, error) {
	return s.materialRepo.FindAll()
}

func (s *catalogService) GetActiveMaterials() ([]model.Material, error) {
	return s.materialRepo.FindActive()
}

func (s *catalogService) GetLowStockMaterials() ([]model.Material, error) {
	return s.materialRepo.FindLowStock()
}

func (s *catalogService) GetMaterialByID(id uuid.UUID) (*model.Material, error) {
	material, err := s.materialRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, err
	}
	return material, nil
}

func (s *catalogService) GetMaterialByCode(code string) (*model.Material, error) {
	material, err := s.materialRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, err
	}
	return material, nil
}
