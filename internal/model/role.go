package model

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // DIRECTEUR, MAGAZINIER, CHEF_CHANTIER
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

// Role codes as constants
const (
	RoleDirecteur    = "DIRECTEUR"
	RoleMagazinier   = "MAGAZINIER"
	RoleChefChantier = "CHEF_CHANTIER"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleDirecteur,
		Name:        "Directeur",
		Description: "Full access to the depot, including user approval and force actions",
	},
	{
		Code:        RoleMagazinier,
		Name:        "Magazinier",
		Description: "Validates requests, commits stock movements and issues delivery notes",
	},
	{
		Code:        RoleChefChantier,
		Name:        "Chef de chantier",
		Description: "Raises material requests for a site and receives distributions",
	},
}
