package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a menu item. Sales and tab items snapshot the name and price at
// creation time, so later edits here never rewrite history.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_products_tenant_name"`
	Name        string    `gorm:"not null;uniqueIndex:idx_products_tenant_name"`
	Description *string
	Category    string          `gorm:"not null;default:'general'"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Active      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
