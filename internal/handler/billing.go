package handler

import (
	"net/http"

	"mesalivre/internal/dto"
	"mesalivre/internal/middleware"
	"mesalivre/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type BillingHandler struct{ svc service.BillingService }

func NewBillingHandler(svc service.BillingService) *BillingHandler {
	return &BillingHandler{svc: svc}
}

// Webhook godoc
// @Summary Receives Mercado Pago payment notifications
// @Tags billing
// @Accept json
// @Produce json
// @Param body body dto.BillingWebhookRequest true "Notification"
// @Success 200
// @Router /v1/billing/webhook [post]
func (h *BillingHandler) Webhook(c *gin.Context) {
	var req dto.BillingWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	// Always answer 200 on processing failures so Mercado Pago retries
	// with backoff instead of treating the endpoint as dead.
	if err := h.svc.HandleWebhook(c.Request.Context(), req); err != nil {
		log.Error().Err(err).Str("payment_id", req.Data.ID).Msg("billing webhook failed")
	}
	c.Status(http.StatusOK)
}

// Plan godoc
// @Summary Returns the tenant's current plan and product ceiling
// @Tags billing
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.TenantPlanResponse
// @Router /v1/billing/plan [get]
func (h *BillingHandler) Plan(c *gin.Context) {
	resp, err := h.svc.CurrentPlan(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
