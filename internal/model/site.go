package model

import (
	"time"

	"github.com/google/uuid"
)

// Site is a chantier registered with the depot. Sites are the target of
// material requests and the usual recipient of distributions.
type Site struct {
	BaseModel
	Name    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required"`
	Address string `gorm:"type:varchar(255)" json:"address"`
	Phone   string `gorm:"type:varchar(20)" json:"phone"`

	// Responsible chef de chantier, when one is assigned
	ManagerID *string `gorm:"type:varchar(255)" json:"manager_id,omitempty"`
	Manager   *User   `gorm:"foreignKey:ManagerID;references:ID" json:"manager,omitempty"`

	IsActive bool `gorm:"default:true" json:"is_active"`
}

// TableName specifies the table name for GORM
func (Site) TableName() string {
	return "sites"
}

// SiteResponse for API responses
type SiteResponse struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Address   string        `json:"address"`
	Phone     string        `json:"phone"`
	Manager   *UserResponse `json:"manager,omitempty"`
	IsActive  bool          `json:"is_active"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	CreatedBy string        `json:"created_by"`
	UpdatedBy string        `json:"updated_by"`
}

// ToResponse converts Site to SiteResponse
func (s *Site) ToResponse() SiteResponse {
	response := SiteResponse{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		Phone:     s.Phone,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		CreatedBy: s.CreatedBy,
		UpdatedBy: s.UpdatedBy,
	}

	if s.Manager != nil {
		managerResp := s.Manager.ToResponse()
		response.Manager = &managerResp
	}

	return response
}
