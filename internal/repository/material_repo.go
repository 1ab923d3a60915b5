package repository

import (
	"go-depot-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MaterialRepository interface {
	Create(material *model.Material) error
	FindAll() ([]model.Material, error)
	FindActive() ([]model.Material, error)
	FindLowStock() ([]model.Material, error)
	FindByID(id uuid.UUID) (*model.Material, error)
	FindByCode(code string) (*model.Material, error)
	Update(material *model.Material) error

	// FindByIDForUpdate reads the material under a row lock. Must be
	// called inside a transaction; the lock is held until commit.
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Material, error)
	// UpdateStock writes the new stock level. Only the ledger calls this,
	// inside the same transaction as the movement insert.
	UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int, updatedBy string) error
}

type materialRepo struct {
	db *gorm.DB
}

func NewMaterialRepo(db *gorm.DB) MaterialRepository {
	return &materialRepo{db}
}

func (r *materialRepo) Create(material *model.Material) error {
	return r.db.Create(material).Error
}

func (r *materialRepo) FindAll() ([]model.Material, error) {
	var materials []model.Material
	err := r.db.Preload("CreatedByUser").Preload("UpdatedByUser").Order("code ASC").Find(&materials).Error
	return materials, err
}

func (r *materialRepo) FindActive() ([]model.Material, error) {
	var materials []model.Material
	err := r.db.Where("is_active = ?", true).Order("code ASC").Find(&materials).Error
	return materials, err
}

func (r *materialRepo) FindLowStock() ([]model.Material, error) {
	var materials []model.Material
	err := r.db.Where("is_active = ? AND current_stock <= minimum_stock", true).Order("code ASC").Find(&materials).Error
	return materials, err
}

func (r *materialRepo) FindByID(id uuid.UUID) (*model.Material, error) {
	var material model.Material
	err := r.db.Preload("CreatedByUser").Preload("UpdatedByUser").First(&material, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *materialRepo) FindByCode(code string) (*model.Material, error) {
	var material model.Material
	err := r.db.First(&material, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *materialRepo) Update(material *model.Material) error {
	return r.db.Save(material).Error
}

func (r *materialRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Material, error) {
	var material model.Material
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&material, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *materialRepo) UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int, updatedBy string) error {
	return tx.Model(&model.Material{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_stock": newStock,
			"updated_by":    updatedBy,
		}).Error
}
