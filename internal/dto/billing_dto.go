package dto

// BillingWebhookRequest is the notification body Mercado Pago POSTs when a
// subscription payment changes state. Only the payment id is trusted — the
// service re-fetches the payment through the SDK before applying anything.
type BillingWebhookRequest struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type TenantPlanResponse struct {
	TenantID     string `json:"tenant_id"`
	Plan         string `json:"plan"`
	ProductLimit int    `json:"product_limit"`
}
