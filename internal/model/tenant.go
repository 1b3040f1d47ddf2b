package model

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is one restaurant's isolated data scope. Every other row in the
// system carries a TenantID and every repository method takes the tenant id
// as an explicit parameter — tenancy is never resolved from ambient state.
//
// Plan fields are written only by the billing webhook; the order/register
// path reads them and never calls the billing provider.
type Tenant struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string    `gorm:"not null"`
	Slug       string    `gorm:"uniqueIndex;not null"`
	OwnerEmail string    `gorm:"not null"`
	// Plan: "free" | "pro"
	Plan         string `gorm:"type:varchar(20);not null;default:'free'"`
	ProductLimit int    `gorm:"not null;default:20"`
	Active       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
