package service

import (
	"context"
	"testing"

	"mesalivre/internal/dto"
	"mesalivre/internal/infra"
	"mesalivre/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	payments map[string]*infra.PaymentInfo
}

func (g *fakeGateway) GetPayment(_ context.Context, id string) (*infra.PaymentInfo, error) {
	p, ok := g.payments[id]
	if !ok {
		return nil, errNotFound
	}
	return p, nil
}

func webhookBody(paymentID string) dto.BillingWebhookRequest {
	req := dto.BillingWebhookRequest{Type: "payment"}
	req.Data.ID = paymentID
	return req
}

func TestBillingWebhookUpgradesPlan(t *testing.T) {
	tenants := newFakeTenantRepo()
	tenant := &model.Tenant{Name: "Demo", Slug: "demo", OwnerEmail: "o@d.local", Plan: "free", ProductLimit: 20, Active: true}
	require.NoError(t, tenants.Create(context.Background(), tenant))

	gw := &fakeGateway{payments: map[string]*infra.PaymentInfo{
		"77": {ID: "77", Status: "approved", Metadata: map[string]any{
			"tenant_id": tenant.ID.String(),
			"plan":      "pro",
		}},
	}}
	svc := NewBillingService(gw, tenants)

	require.NoError(t, svc.HandleWebhook(context.Background(), webhookBody("77")))

	plan, err := svc.CurrentPlan(context.Background(), tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "pro", plan.Plan)
	assert.Equal(t, 500, plan.ProductLimit)
}

func TestBillingWebhookIgnoresNonApproved(t *testing.T) {
	tenants := newFakeTenantRepo()
	tenant := &model.Tenant{Name: "Demo", Slug: "demo", OwnerEmail: "o@d.local", Plan: "free", ProductLimit: 20, Active: true}
	require.NoError(t, tenants.Create(context.Background(), tenant))

	gw := &fakeGateway{payments: map[string]*infra.PaymentInfo{
		"78": {ID: "78", Status: "pending", Metadata: map[string]any{
			"tenant_id": tenant.ID.String(),
			"plan":      "pro",
		}},
	}}
	svc := NewBillingService(gw, tenants)

	require.NoError(t, svc.HandleWebhook(context.Background(), webhookBody("78")))

	plan, err := svc.CurrentPlan(context.Background(), tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "free", plan.Plan)
}

func TestBillingWebhookIgnoresOtherTypes(t *testing.T) {
	svc := NewBillingService(&fakeGateway{}, newFakeTenantRepo())
	req := dto.BillingWebhookRequest{Type: "merchant_order"}
	assert.NoError(t, svc.HandleWebhook(context.Background(), req))
}

func TestBillingWebhookRejectsUnknownPlan(t *testing.T) {
	tenants := newFakeTenantRepo()
	tenant := &model.Tenant{Name: "Demo", Slug: "demo", OwnerEmail: "o@d.local", Plan: "free", ProductLimit: 20, Active: true}
	require.NoError(t, tenants.Create(context.Background(), tenant))

	gw := &fakeGateway{payments: map[string]*infra.PaymentInfo{
		"79": {ID: "79", Status: "approved", Metadata: map[string]any{
			"tenant_id": tenant.ID.String(),
			"plan":      "platinum",
		}},
	}}
	svc := NewBillingService(gw, tenants)
	assert.Error(t, svc.HandleWebhook(context.Background(), webhookBody("79")))
}
