package model

// Material is one catalog row of the depot. CurrentStock is owned by the
// stock ledger: nothing else may write it. Materials are never deleted,
// only deactivated.
type Material struct {
	BaseModel
	Code         string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required"`
	Name         string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Unit         string `gorm:"type:varchar(20)" json:"unit"`
	CurrentStock int    `gorm:"default:0" json:"current_stock"`
	MinimumStock int    `gorm:"default:0" json:"minimum_stock"`
	Supplier     string `gorm:"type:varchar(255)" json:"supplier"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	UpdatedByUserID *string `gorm:"type:varchar(255)" json:"updated_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
	UpdatedByUser   *User   `gorm:"foreignKey:UpdatedByUserID;references:ID" json:"updated_by_user,omitempty"`

	Movements []StockMovement `json:"movements,omitempty"`
}

// IsLowStock reports whether the stock has fallen to or below the
// configured minimum.
func (m *Material) IsLowStock() bool {
	return m.CurrentStock <= m.MinimumStock
}
