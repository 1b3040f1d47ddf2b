package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateTableRequest struct {
	Number int `json:"number" validate:"required,min=1"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TableResponse struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Status string `json:"status"`
}
