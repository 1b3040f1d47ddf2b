package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateOrderRequest struct {
	CustomerName  string          `json:"customer_name"  validate:"required"`
	CustomerPhone string          `json:"customer_phone" validate:"required,min=8"`
	ItemsText     string          `json:"items_text"     validate:"required"`
	Total         decimal.Decimal `json:"total"          validate:"required,gt=0"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"   validate:"min=0"`
	// Address carries the delivery address, or the "pickup" / "table N" marker
	Address  string  `json:"address"  validate:"required"`
	Method   string  `json:"method"   validate:"required,oneof=cash debit credit pix"`
	Notes    *string `json:"notes"`
	Modality string  `json:"modality" validate:"required,oneof=delivery pickup table"`
}

type AdvanceOrderRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed preparing dispatched delivered cancelled"`
}

// OrderFilter is bound from the query string of GET /v1/orders.
// Status and modality filters are a logical AND.
type OrderFilter struct {
	Status   string `form:"status"   validate:"omitempty,oneof=pending confirmed preparing dispatched delivered cancelled"`
	Modality string `form:"modality" validate:"omitempty,oneof=delivery pickup table"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderResponse struct {
	ID            string          `json:"id"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	ItemsText     string          `json:"items_text"`
	Total         decimal.Decimal `json:"total"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	Address       string          `json:"address"`
	Method        string          `json:"method"`
	Notes         *string         `json:"notes"`
	Status        string          `json:"status"`
	Modality      string          `json:"modality"`
	CreatedAt     string          `json:"created_at"`
}
