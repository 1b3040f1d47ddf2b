package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses, in monotonic forward order. "cancelled" is reachable from
// any non-terminal state; no transition ever goes backward.
const (
	OrderPending    = "pending"
	OrderConfirmed  = "confirmed"
	OrderPreparing  = "preparing"
	OrderDispatched = "dispatched"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// orderRank maps each forward status to its position in the progression.
var orderRank = map[string]int{
	OrderPending:    0,
	OrderConfirmed:  1,
	OrderPreparing:  2,
	OrderDispatched: 3,
	OrderDelivered:  4,
}

// ValidOrderStatus reports whether s is a known status.
func ValidOrderStatus(s string) bool {
	if s == OrderCancelled {
		return true
	}
	_, ok := orderRank[s]
	return ok
}

// CanTransition reports whether an order may move from → to. Forward moves
// advance exactly one step; cancellation is allowed from any non-terminal
// state.
func CanTransition(from, to string) bool {
	if from == OrderDelivered || from == OrderCancelled {
		return false
	}
	if to == OrderCancelled {
		return true
	}
	fromRank, okFrom := orderRank[from]
	toRank, okTo := orderRank[to]
	return okFrom && okTo && toRank == fromRank+1
}

// Order modalities.
const (
	ModalityDelivery = "delivery"
	ModalityPickup   = "pickup"
	ModalityTable    = "table"
)

// Order is a delivery/pickup/table order. Never deleted — "delivered" and
// "cancelled" are terminal.
type Order struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID      uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerName  string    `gorm:"not null"`
	CustomerPhone string    `gorm:"not null"`
	// ItemsText is the free-text itemized description from checkout
	ItemsText   string          `gorm:"not null"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DeliveryFee decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// Address holds the delivery address, or the "pickup" / "table N" marker
	Address   string  `gorm:"not null"`
	Method    string  `gorm:"type:varchar(20);not null"`
	Notes     *string
	Status    string  `gorm:"type:varchar(20);not null;default:'pending';index"`
	Modality  string  `gorm:"type:varchar(20);not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
