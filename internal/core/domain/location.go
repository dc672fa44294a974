package domain

// Location is a single business listing under an Account; the unit reviews
// attach to. Locations are created/updated on sync and soft-deactivated rather
// than deleted so review history survives disconnects.
type Location struct {
	LocationID   string `json:"locationID"`   // Primary Key (UUID)
	AccountID    string `json:"accountID"`    // FK -> accounts.account_id
	ResourceName string `json:"resourceName"` // Stable provider name, e.g. "locations/987654321"
	Name         string `json:"name"`
	Address      string `json:"address"`
	Category     string `json:"category"`
	IsActive     bool   `json:"isActive"`
	AuditFields
}
