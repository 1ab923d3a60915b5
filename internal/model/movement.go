package model

import "github.com/google/uuid"

type MovementType string

const (
	MovementEntree     MovementType = "entree"
	MovementSortie     MovementType = "sortie"
	MovementAjustement MovementType = "ajustement"
	MovementInventaire MovementType = "inventaire"
)

// Valid reports whether t is one of the known movement types.
func (t MovementType) Valid() bool {
	switch t {
	case MovementEntree, MovementSortie, MovementAjustement, MovementInventaire:
		return true
	}
	return false
}

// StockMovement is one append-only ledger entry. Every change to a
// material's current stock is recorded as exactly one of these, with a
// before/after snapshot so the ledger stays self-consistent:
// StockAfter = StockBefore + Quantity, and StockAfter equals the
// material's current stock at commit time. Rows are never updated or
// deleted.
type StockMovement struct {
	BaseModel
	MaterialID uuid.UUID    `gorm:"type:uuid;not null;index" json:"material_id" validate:"uuid_required"`
	Material   *Material    `gorm:"foreignKey:MaterialID" json:"material,omitempty" validate:"-"`
	Type       MovementType `gorm:"type:varchar(20);not null" json:"type" validate:"required,oneof=entree sortie ajustement inventaire"`

	// Signed delta applied to the stock. Positive for entree, negative
	// for sortie, either sign for ajustement/inventaire.
	Quantity    int `gorm:"not null" json:"quantity"`
	StockBefore int `gorm:"not null" json:"stock_before"`
	StockAfter  int `gorm:"not null" json:"stock_after"`

	Actor       string `gorm:"type:varchar(255)" json:"actor"`
	Motif       string `gorm:"type:varchar(255)" json:"motif"`
	Description string `gorm:"type:text" json:"description"`

	// Back-references to the originating operation, when any
	RequestID      *uuid.UUID `gorm:"type:uuid;index" json:"request_id,omitempty"`
	DeliveryNoteID *uuid.UUID `gorm:"type:uuid;index" json:"delivery_note_id,omitempty"`
}
