package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenRegisterRequest struct {
	Terminal     int             `json:"terminal"      validate:"required,min=1"`
	OpeningFloat decimal.Decimal `json:"opening_float" validate:"min=0"`
}

type CashMovementRequest struct {
	SessionID string          `json:"session_id" validate:"required,uuid"`
	Kind      string          `json:"kind"       validate:"required,oneof=sangria suprimento"`
	Amount    decimal.Decimal `json:"amount"     validate:"required,gt=0"`
	Reason    string          `json:"reason"     validate:"required,min=3"`
}

type CloseRegisterRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// TotalsByMethod breaks sale revenue down per payment method.
type TotalsByMethod struct {
	Cash   decimal.Decimal `json:"cash"`
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
	Pix    decimal.Decimal `json:"pix"`
	Total  decimal.Decimal `json:"total"`
}

// RegisterReport is the closing report: a pure aggregation over the sales
// and cash movements of one session. Recomputing it without intervening
// mutations yields identical output.
type RegisterReport struct {
	SessionID    string          `json:"session_id"`
	Terminal     int             `json:"terminal"`
	Operator     string          `json:"operator"`
	Status       string          `json:"status"`
	OpeningFloat decimal.Decimal `json:"opening_float"`
	Sales        TotalsByMethod  `json:"sales"`
	SaleCount    int             `json:"sale_count"`
	Sangrias     decimal.Decimal `json:"sangrias"`
	Suprimentos  decimal.Decimal `json:"suprimentos"`
	// CashInDrawer = opening float + cash sales − sangrias + suprimentos
	CashInDrawer decimal.Decimal `json:"cash_in_drawer"`
	OpenedAt     string          `json:"opened_at"`
	ClosedAt     *string         `json:"closed_at"`
}

type CashMovementResponse struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id"`
	Kind      string          `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason"`
	Operator  string          `json:"operator"`
	CreatedAt string          `json:"created_at"`
}

type RegisterSessionResponse struct {
	ID           string           `json:"id"`
	Terminal     int              `json:"terminal"`
	Operator     string           `json:"operator"`
	Status       string           `json:"status"`
	OpeningFloat decimal.Decimal  `json:"opening_float"`
	ClosingFloat *decimal.Decimal `json:"closing_float"`
	OpenedAt     string           `json:"opened_at"`
	ClosedAt     *string          `json:"closed_at"`
}
