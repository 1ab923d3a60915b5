package model

// SequenceCounter backs the human-readable numbering of demandes and
// bons de livraison (DEM-YYYY-NNNN / BL-YYYY-NNNN). Counters are
// monotonic and never decremented, so a number is never reused even if
// its source request is later archived.
type SequenceCounter struct {
	Scope string `gorm:"type:varchar(50);primaryKey" json:"scope"` // e.g. "demande:2026"
	Value int64  `gorm:"not null;default:0" json:"value"`
}
