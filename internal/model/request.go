package model

import (
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	StatusEnAttente     RequestStatus = "en_attente"
	StatusApprouvee     RequestStatus = "approuvee"
	StatusEnPreparation RequestStatus = "en_preparation"
	StatusLivree        RequestStatus = "livree"
	StatusRejetee       RequestStatus = "rejetee"
	StatusArchivee      RequestStatus = "archivee"
)

type RequestPriority string

const (
	PriorityUrgente RequestPriority = "urgente"
	PriorityHaute   RequestPriority = "haute"
	PriorityNormale RequestPriority = "normale"
	PriorityBasse   RequestPriority = "basse"
)

// Valid reports whether p is a known priority. Priority is advisory
// metadata for the magazinier, never an enforced processing order.
func (p RequestPriority) Valid() bool {
	switch p {
	case PriorityUrgente, PriorityHaute, PriorityNormale, PriorityBasse:
		return true
	}
	return false
}

// transitions is the closed status graph. Archiving (soft delete) is
// allowed from every non-terminal state; livree requests can never be
// archived.
var transitions = map[RequestStatus][]RequestStatus{
	StatusEnAttente:     {StatusApprouvee, StatusRejetee, StatusArchivee},
	StatusApprouvee:     {StatusEnPreparation, StatusArchivee},
	StatusEnPreparation: {StatusLivree, StatusArchivee},
	StatusLivree:        {},
	StatusRejetee:       {},
	StatusArchivee:      {},
}

// Valid reports whether s is a known status.
func (s RequestStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether s admits no further transitions.
func (s RequestStatus) Terminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether the status graph allows s -> next.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// MaterialRequest is a demande raised by a chef de chantier and worked
// by a magazinier. It owns an ordered list of items; quantities are
// negotiated between requested and granted during validation.
type MaterialRequest struct {
	BaseModel
	Number   string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"number"`
	Status   RequestStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	Priority RequestPriority `gorm:"type:varchar(10);not null" json:"priority"`

	RequesterID   string `gorm:"type:varchar(255);not null;index" json:"requester_id"`
	RequesterName string `gorm:"type:varchar(255)" json:"requester_name"`

	SiteID uuid.UUID `gorm:"type:uuid;not null;index" json:"site_id" validate:"uuid_required"`
	Site   *Site     `gorm:"foreignKey:SiteID" json:"site,omitempty" validate:"-"`

	DesiredDate *time.Time `gorm:"type:date" json:"desired_date,omitempty"`
	Comment     string     `gorm:"type:text" json:"comment"`

	// Filled by the magazinier at validation time
	KeeperComment string     `gorm:"type:text" json:"keeper_comment"`
	ValidatorID   string     `gorm:"type:varchar(255)" json:"validator_id"`
	ValidatedAt   *time.Time `json:"validated_at,omitempty"`
	DeliveredAt   *time.Time `json:"delivered_at,omitempty"`

	// Mandatory justification recorded when the request is archived
	ArchiveMotif string `gorm:"type:text" json:"archive_motif,omitempty"`

	Items []RequestItem `gorm:"foreignKey:RequestID" json:"items"`
}

// RequestItem is one line of a demande. GrantedQuantity starts at 0 and
// is only raised by an approval, never above the requested quantity or
// the stock available at approval time. StockAtRequest snapshots the
// material's stock when the demande was raised.
type RequestItem struct {
	BaseModel
	RequestID  uuid.UUID `gorm:"type:uuid;not null;index" json:"request_id"`
	MaterialID uuid.UUID `gorm:"type:uuid;not null" json:"material_id" validate:"uuid_required"`
	Material   *Material `gorm:"foreignKey:MaterialID" json:"material,omitempty" validate:"-"`

	Unit              string `gorm:"type:varchar(20)" json:"unit"`
	RequestedQuantity int    `gorm:"not null" json:"requested_quantity" validate:"required,gt=0"`
	GrantedQuantity   int    `gorm:"default:0" json:"granted_quantity"`
	StockAtRequest    int    `gorm:"not null" json:"stock_at_request"`
}
