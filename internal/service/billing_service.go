package service

import (
	"context"
	"fmt"

	"mesalivre/internal/apierror"
	"mesalivre/internal/dto"
	"mesalivre/internal/infra"
	"mesalivre/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Plan ceilings on active products.
var planLimits = map[string]int{
	"free": 20,
	"pro":  500,
}

type BillingService interface {
	HandleWebhook(ctx context.Context, req dto.BillingWebhookRequest) error
	CurrentPlan(ctx context.Context, tenantID uuid.UUID) (*dto.TenantPlanResponse, error)
}

type billingService struct {
	gateway    infra.PaymentGateway
	tenantRepo repository.TenantRepository
}

func NewBillingService(gateway infra.PaymentGateway, tenantRepo repository.TenantRepository) BillingService {
	return &billingService{gateway: gateway, tenantRepo: tenantRepo}
}

// HandleWebhook processes a Mercado Pago payment notification. The body
// only names a payment id; the payment is re-fetched through the SDK and
// the tenant/plan are read from its metadata. Unknown notification types
// and non-approved payments are acknowledged without effect so Mercado
// Pago stops retrying them.
func (s *billingService) HandleWebhook(ctx context.Context, req dto.BillingWebhookRequest) error {
	if req.Type != "payment" {
		return nil
	}
	if s.gateway == nil {
		return infra.ErrPaymentGatewayNotConfigured
	}

	info, err := s.gateway.GetPayment(ctx, req.Data.ID)
	if err != nil {
		return fmt.Errorf("billing: fetch payment %s: %w", req.Data.ID, err)
	}
	if info.Status != "approved" {
		log.Info().Str("payment_id", info.ID).Str("status", info.Status).Msg("billing: ignoring non-approved payment")
		return nil
	}

	tenantIDStr, _ := info.Metadata["tenant_id"].(string)
	plan, _ := info.Metadata["plan"].(string)
	tenantID, err := uuid.Parse(tenantIDStr)
	if err != nil {
		return apierror.Validationf("payment metadata missing tenant_id")
	}
	limit, ok := planLimits[plan]
	if !ok {
		return apierror.Validationf("payment metadata names unknown plan " + plan)
	}

	if err := s.tenantRepo.UpdatePlan(ctx, tenantID, plan, limit); err != nil {
		return err
	}
	log.Info().Str("tenant_id", tenantID.String()).Str("plan", plan).Msg("billing: plan updated")
	return nil
}

func (s *billingService) CurrentPlan(ctx context.Context, tenantID uuid.UUID) (*dto.TenantPlanResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, apierror.ErrNotFound
	}
	return &dto.TenantPlanResponse{
		TenantID:     tenant.ID.String(),
		Plan:         tenant.Plan,
		ProductLimit: tenant.ProductLimit,
	}, nil
}
