package model

import (
	"time"

	"github.com/google/uuid"
)

// Table statuses. A table is occupied exactly while an open Tab references
// it, and reverts to free when that tab settles.
const (
	TableFree     = "free"
	TableOccupied = "occupied"
)

// Table is a physical table created by administrative setup.
type Table struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tables_tenant_number"`
	Number    int       `gorm:"not null;uniqueIndex:idx_tables_tenant_number"`
	Status    string    `gorm:"type:varchar(20);not null;default:'free'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
