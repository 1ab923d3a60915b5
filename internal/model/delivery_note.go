package model

import "github.com/google/uuid"

// Recipient identifies who a distribution is handed to: either an
// existing chef de chantier account, or an ad-hoc tuple captured at
// distribution time. Exactly one of the two forms must be present.
type Recipient struct {
	UserID  *string `json:"user_id,omitempty"`
	Name    string  `json:"name"`
	Site    string  `json:"site"`
	Address string  `json:"address,omitempty"`
	Phone   string  `json:"phone,omitempty"`
}

// DeliveryNote (bon de livraison) is the immutable audit artifact handed
// to a recipient. Recipient and line data are snapshots taken at
// issuance; later edits to the source request or recipient profile do
// not change an issued note. RequestID is nil for direct distributions.
type DeliveryNote struct {
	BaseModel
	Number    string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"number"`
	RequestID *uuid.UUID `gorm:"type:uuid;index" json:"request_id,omitempty"`

	// Recipient snapshot
	RecipientUserID  *string `gorm:"type:varchar(255)" json:"recipient_user_id,omitempty"`
	RecipientName    string  `gorm:"type:varchar(255);not null" json:"recipient_name"`
	RecipientSite    string  `gorm:"type:varchar(255)" json:"recipient_site"`
	RecipientAddress string  `gorm:"type:varchar(255)" json:"recipient_address"`
	RecipientPhone   string  `gorm:"type:varchar(20)" json:"recipient_phone"`

	IssuedBy string `gorm:"type:varchar(255);not null" json:"issued_by"`
	Comment  string `gorm:"type:text" json:"comment"`

	Items []DeliveryNoteItem `gorm:"foreignKey:DeliveryNoteID" json:"items"`
}

// DeliveryNoteItem is one snapshot line of an issued note.
type DeliveryNoteItem struct {
	BaseModel
	DeliveryNoteID uuid.UUID `gorm:"type:uuid;not null;index" json:"delivery_note_id"`
	MaterialID     uuid.UUID `gorm:"type:uuid;not null" json:"material_id"`
	MaterialCode   string    `gorm:"type:varchar(50)" json:"material_code"`
	MaterialName   string    `gorm:"type:varchar(255)" json:"material_name"`
	Unit           string    `gorm:"type:varchar(20)" json:"unit"`
	Quantity       int       `gorm:"not null" json:"quantity"`
}
