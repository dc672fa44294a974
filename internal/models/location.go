package models

// Location represents a row in the locations table.
type Location struct {
	LocationID   string `db:"location_id"`
	AccountID    string `db:"account_id"`
	ResourceName string `db:"resource_name"`
	Name         string `db:"name"`
	Address      string `db:"address"`
	Category     string `db:"category"`
	IsActive     bool   `db:"is_active"`
	AuditFields
}
