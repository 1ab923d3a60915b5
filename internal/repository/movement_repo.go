package repository

import (
	"time"

	"go-depot-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovementRepository interface {
	// Create appends a ledger entry. It must run in the same transaction
	// as the stock update it describes; there is no update or delete.
	Create(tx *gorm.DB, movement *model.StockMovement) error
	FindAll(limit int) ([]model.StockMovement, error)
	FindByMaterialID(materialID uuid.UUID) ([]model.StockMovement, error)
	FindLatestByMaterialID(materialID uuid.UUID) (*model.StockMovement, error)
	GetDailyFlow(startDate, endDate time.Time) ([]DailyFlowData, error)
	GetDashboardStats() (*DashboardStats, error)
}

// DailyFlowData aggregates inbound/outbound quantities per day for charts
type DailyFlowData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

// DashboardStats for overview stats
type DashboardStats struct {
	TotalMaterials  int64 `json:"total_materials"`
	LowStockCount   int64 `json:"low_stock_count"`
	PendingRequests int64 `json:"pending_requests"`
	NotesIssued     int64 `json:"notes_issued"`
}

type movementRepo struct {
	db *gorm.DB
}

func NewMovementRepo(db *gorm.DB) MovementRepository {
	return &movementRepo{db}
}

func (r *movementRepo) Create(tx *gorm.DB, movement *model.StockMovement) error {
	return tx.Create(movement).Error
}

func (r *movementRepo) FindAll(limit int) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	query := r.db.Preload("Material").Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&movements).Error
	return movements, err
}

func (r *movementRepo) FindByMaterialID(materialID uuid.UUID) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.Where("material_id = ?", materialID).Order("created_at DESC").Find(&movements).Error
	return movements, err
}

func (r *movementRepo) FindLatestByMaterialID(materialID uuid.UUID) (*model.StockMovement, error) {
	var movement model.StockMovement
	err := r.db.Where("material_id = ?", materialID).Order("created_at DESC").First(&movement).Error
	if err != nil {
		return nil, err
	}
	return &movement, nil
}

func (r *movementRepo) GetDailyFlow(startDate, endDate time.Time) ([]DailyFlowData, error) {
	var results []DailyFlowData

	rows, err := r.db.Model(&model.StockMovement{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN quantity > 0 THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN quantity < 0 THEN -quantity ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data DailyFlowData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}

func (r *movementRepo) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	r.db.Model(&model.Material{}).Where("is_active = ?", true).Count(&stats.TotalMaterials)
	r.db.Model(&model.Material{}).Where("is_active = ? AND current_stock <= minimum_stock", true).Count(&stats.LowStockCount)
	r.db.Model(&model.MaterialRequest{}).Where("status = ?", model.StatusEnAttente).Count(&stats.PendingRequests)
	r.db.Model(&model.DeliveryNote{}).Count(&stats.NotesIssued)

	return &stats, nil
}
