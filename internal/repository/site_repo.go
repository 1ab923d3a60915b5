package repository

import (
	"go-depot-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SiteRepository interface {
	Create(site *model.Site) error
	Update(site *model.Site) error
	Delete(id uuid.UUID, deletedBy string) error
	FindByID(id uuid.UUID) (*model.Site, error)
	FindByName(name string) (*model.Site, error)
	FindAll() ([]model.Site, error)
	FindByManagerID(managerID string) ([]model.Site, error)
}

type siteRepo struct {
	db *gorm.DB
}

func NewSiteRepo(db *gorm.DB) SiteRepository {
	return &siteRepo{db}
}

func (r *siteRepo) Create(site *model.Site) error {
	return r.db.Create(site).Error
}

func (r *siteRepo) Update(site *model.Site) error {
	return r.db.Save(site).Error
}

func (r *siteRepo) Delete(id uuid.UUID, deletedBy string) error {
	return r.db.Model(&model.Site{}).Where("id = ?", id).Updates(map[string]interface{}{
		"deleted_at": gorm.Expr("NOW()"),
		"deleted_by": deletedBy,
	}).Error
}

func (r *siteRepo) FindByID(id uuid.UUID) (*model.Site, error) {
	var site model.Site
	if err := r.db.Preload("Manager").Preload("Manager.Role").First(&site, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *siteRepo) FindByName(name string) (*model.Site, error) {
	var site model.Site
	if err := r.db.First(&site, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *siteRepo) FindAll() ([]model.Site, error) {
	var sites []model.Site
	if err := r.db.Preload("Manager").Preload("Manager.Role").Order("name ASC").Find(&sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}

func (r *siteRepo) FindByManagerID(managerID string) ([]model.Site, error) {
	var sites []model.Site
	if err := r.db.Where("manager_id = ?", managerID).Order("name ASC").Find(&sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}
