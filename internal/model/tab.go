package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tab (comanda) is the running bill of one occupied table.
// Status: "open" | "closed"
// One open tab per table; enforced by a partial unique index plus a
// per-table lock around find-or-create, since the application-level
// read-then-write is otherwise racy across terminals.
//
// The running total is always derived from the items — it is never stored,
// so it cannot drift.
type Tab struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index"`
	TableID    uuid.UUID `gorm:"type:uuid;not null;index"`
	WaiterName string    `gorm:"not null"`
	Status     string    `gorm:"type:varchar(20);not null;default:'open'"`
	// Method is stamped at settle: cash | debit | credit | pix
	Method   *string `gorm:"type:varchar(20)"`
	OpenedAt time.Time
	ClosedAt *time.Time

	Items []TabItem `gorm:"foreignKey:TabID"`
}

// Total sums quantity × unit price over the loaded items.
func (t *Tab) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range t.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// TabItem is one "send to kitchen" entry. Immutable once created —
// corrections happen by adding a new item, never by editing.
type TabItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	TabID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity    int             `gorm:"not null"`
	Note        *string
	WaiterName  string `gorm:"not null"`
	CreatedAt   time.Time
}
