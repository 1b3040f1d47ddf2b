package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type RecordSaleRequest struct {
	SessionID string            `json:"session_id" validate:"required,uuid"`
	Items     []SaleItemRequest `json:"items"      validate:"required,min=1,dive"`
	Discount  decimal.Decimal   `json:"discount"   validate:"min=0"`
	Method    string            `json:"method"     validate:"required,oneof=cash debit credit pix"`
	// TableID links the sale to a table being settled at the PDV, when any
	TableID *string `json:"table_id" validate:"omitempty,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID        string             `json:"id"`
	SessionID string             `json:"session_id"`
	Items     []SaleItemResponse `json:"items"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
	Discount  decimal.Decimal    `json:"discount"`
	Total     decimal.Decimal    `json:"total"`
	Method    string             `json:"method"`
	TableID   *string            `json:"table_id"`
	CreatedAt string             `json:"created_at"`
}
