package repository

import (
	"go-depot-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestFilter constrains listing queries.
type RequestFilter struct {
	Status      model.RequestStatus
	RequesterID string
	SiteID      *uuid.UUID
}

type RequestRepository interface {
	Create(request *model.MaterialRequest) error
	FindByID(id uuid.UUID) (*model.MaterialRequest, error)
	FindAll(filter RequestFilter) ([]model.MaterialRequest, error)
	UpdateStatusIf(id uuid.UUID, from, to model.RequestStatus, fields map[string]interface{}) (bool, error)
	SaveItems(items []model.RequestItem) error
}

type requestRepo struct {
	db *gorm.DB
}

func NewRequestRepo(db *gorm.DB) RequestRepository {
	return &requestRepo{db}
}

func (r *requestRepo) Create(request *model.MaterialRequest) error {
	return r.db.Create(request).Error
}

func (r *requestRepo) FindByID(id uuid.UUID) (*model.MaterialRequest, error) {
	var request model.MaterialRequest
	err := r.db.Preload("Items.Material").Preload("Site").First(&request, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestRepo) FindAll(filter RequestFilter) ([]model.MaterialRequest, error) {
	var requests []model.MaterialRequest

	query := r.db.Preload("Items.Material").Preload("Site").Order("created_at DESC")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.RequesterID != "" {
		query = query.Where("requester_id = ?", filter.RequesterID)
	}
	if filter.SiteID != nil {
		query = query.Where("site_id = ?", *filter.SiteID)
	}

	err := query.Find(&requests).Error
	return requests, err
}

// UpdateStatusIf flips the request status, plus any extra columns in
// fields, only while the stored status still equals from. It reports
// false when a concurrent writer claimed the row first, the same way
// the ledger's row locks arbitrate stock commits.
func (r *requestRepo) UpdateStatusIf(id uuid.UUID, from, to model.RequestStatus, fields map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range fields {
		updates[k] = v
	}
	res := r.db.Model(&model.MaterialRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *requestRepo) SaveItems(items []model.RequestItem) error {
	for i := range items {
		if err := r.db.Save(&items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
