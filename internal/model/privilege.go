package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "material:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Material"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:approve", Name: "Approve User Account"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Material catalog
	{Code: "material:view", Name: "View Material"},
	{Code: "material:create", Name: "Create Material"},
	{Code: "material:update", Name: "Update Material"},
	{Code: "material:deactivate", Name: "Deactivate Material"},
	// Material requests (demandes)
	{Code: "demande:view", Name: "View Request"},
	{Code: "demande:create", Name: "Create Request"},
	{Code: "demande:validate", Name: "Validate Request"},
	{Code: "demande:deliver", Name: "Mark Request Delivered"},
	{Code: "demande:delete", Name: "Delete Request"},
	// Stock ledger
	{Code: "stock:view", Name: "View Stock Movements"},
	{Code: "stock:commit", Name: "Commit Stock Movement"},
	// Distribution and delivery notes
	{Code: "distribution:create", Name: "Create Direct Distribution"},
	{Code: "bon:view", Name: "View Delivery Note"},
	// Sites
	{Code: "site:view", Name: "View Site"},
	{Code: "site:create", Name: "Create Site"},
	{Code: "site:update", Name: "Update Site"},
	{Code: "site:delete", Name: "Delete Site"},
	// Dashboard
	{Code: "dashboard:view", Name: "View Dashboard"},
}
