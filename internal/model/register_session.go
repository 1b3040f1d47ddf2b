package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted across sales, tabs and orders.
const (
	PaymentCash   = "cash"
	PaymentDebit  = "debit"
	PaymentCredit = "credit"
	PaymentPix    = "pix"
)

// PaymentMethods lists every accepted method in report order.
var PaymentMethods = []string{PaymentCash, PaymentDebit, PaymentCredit, PaymentPix}

// RegisterSession represents the lifecycle of a cash drawer shift.
// Status: "open" | "closed"
// At most one open session exists per (tenant, terminal); enforced by a
// partial unique index, not by convention.
type RegisterSession struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Terminal     int             `gorm:"not null;index"`
	OperatorID   uuid.UUID       `gorm:"type:uuid;not null"`
	OperatorName string          `gorm:"not null"`
	OpeningFloat decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// ClosingFloat is computed on close from the movement ledger and frozen.
	ClosingFloat *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Status       string           `gorm:"type:varchar(20);not null;default:'open'"`
	OpenedAt     time.Time
	ClosedAt     *time.Time

	Movements []CashMovement `gorm:"foreignKey:SessionID"`
}

// Cash movement kinds. "sangria" takes cash out of the drawer, "suprimento"
// puts cash in, "sale" is auto-created when a sale is finalized.
const (
	MovementSangria    = "sangria"
	MovementSuprimento = "suprimento"
	MovementSale       = "sale"
)

// CashMovement is an immutable event in the register ledger. Amounts are
// always positive; the kind carries the sign. Movements are NEVER modified
// or deleted — corrections create new entries.
type CashMovement struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	SessionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind      string          `gorm:"type:varchar(20);not null"`
	Method    *string         `gorm:"type:varchar(20)"` // set for sale movements
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Reason    string          `gorm:"not null"`
	Operator  string          `gorm:"not null"`
	// ReferenceID links a sale movement to its originating Sale
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
}

func (CashMovement) TableName() string { return "cash_movements" }
