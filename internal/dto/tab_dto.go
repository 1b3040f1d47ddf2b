package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AppendItemRequest struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	Quantity  int     `json:"quantity"   validate:"required,min=1"`
	Note      *string `json:"note"`
}

type SettleTabRequest struct {
	Method string `json:"method" validate:"required,oneof=cash debit credit pix"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TabItemResponse struct {
	ID        string          `json:"id"`
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Note      *string         `json:"note"`
	Waiter    string          `json:"waiter"`
	CreatedAt string          `json:"created_at"`
}

type TabResponse struct {
	ID          string            `json:"id"`
	TableID     string            `json:"table_id"`
	TableNumber int               `json:"table_number"`
	Waiter      string            `json:"waiter"`
	Status      string            `json:"status"`
	Method      *string           `json:"method"`
	Items       []TabItemResponse `json:"items"`
	Total       decimal.Decimal   `json:"total"`
	OpenedAt    string            `json:"opened_at"`
	ClosedAt    *string           `json:"closed_at"`
}

// ─── Receipt projection ──────────────────────────────────────────────────────

// ReceiptLine is one printable line of a tab receipt.
type ReceiptLine struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// ReceiptDocument is a pure projection of a tab and its items into a receipt
// layout. It has no behavior — the renderer turns it into a PDF.
type ReceiptDocument struct {
	Header      string          `json:"header"`
	TableNumber int             `json:"table_number"`
	Waiter      string          `json:"waiter"`
	Lines       []ReceiptLine   `json:"lines"`
	Total       decimal.Decimal `json:"total"`
	Footer      string          `json:"footer"`
	IssuedAt    string          `json:"issued_at"`
}
