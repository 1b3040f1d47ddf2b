package service

import (
	"context"
	"testing"

	"mesalivre/internal/apierror"
	"mesalivre/internal/dto"
	"mesalivre/internal/model"
	"mesalivre/internal/realtime"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegisterFixture() (RegisterService, *fakeRegisterRepo, uuid.UUID) {
	repo := newFakeRegisterRepo()
	tenants := newFakeTenantRepo()
	tenant := &model.Tenant{Name: "Demo", Slug: "demo", OwnerEmail: "owner@demo.local", Plan: "free", ProductLimit: 20, Active: true}
	_ = tenants.Create(context.Background(), tenant)
	svc := NewRegisterService(repo, tenants, nil, nil, realtime.NopPublisher{})
	return svc, repo, tenant.ID
}

func TestOpenRegister(t *testing.T) {
	svc, _, tenantID := newRegisterFixture()
	ctx := context.Background()
	operatorID := uuid.New()

	resp, err := svc.Open(ctx, tenantID, operatorID, "Ana", dto.OpenRegisterRequest{
		Terminal:     1,
		OpeningFloat: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.Equal(t, "open", resp.Status)
	assert.Equal(t, 1, resp.Terminal)
	assert.True(t, resp.OpeningFloat.Equal(decimal.NewFromInt(100)))
}

func TestOpenRegisterDuplicateTerminal(t *testing.T) {
	svc, _, tenantID := newRegisterFixture()
	ctx := context.Background()

	_, err := svc.Open(ctx, tenantID, uuid.New(), "Ana", dto.OpenRegisterRequest{Terminal: 1, OpeningFloat: decimal.NewFromInt(100)})
	require.NoError(t, err)

	_, err = svc.Open(ctx, tenantID, uuid.New(), "Bia", dto.OpenRegisterRequest{Terminal: 1, OpeningFloat: decimal.NewFromInt(50)})
	assert.ErrorIs(t, err, apierror.ErrValidation)

	// A different terminal is fine.
	_, err = svc.Open(ctx, tenantID, uuid.New(), "Bia", dto.OpenRegisterRequest{Terminal: 2, OpeningFloat: decimal.NewFromInt(50)})
	assert.NoError(t, err)
}

func TestOpenRegisterSameTerminalOtherTenant(t *testing.T) {
	svc, repo, tenantID := newRegisterFixture()
	ctx := context.Background()

	_, err := svc.Open(ctx, tenantID, uuid.New(), "Ana", dto.OpenRegisterRequest{Terminal: 1, OpeningFloat: decimal.NewFromInt(100)})
	require.NoError(t, err)

	// Terminal numbers are scoped per tenant; another tenant reusing 1 is fine.
	otherTenant := uuid.New()
	svc2 := NewRegisterService(repo, newFakeTenantRepo(), nil, nil, realtime.NopPublisher{})
	_, err = svc2.Open(ctx, otherTenant, uuid.New(), "Carla", dto.OpenRegisterRequest{Terminal: 1, OpeningFloat: decimal.NewFromInt(30)})
	assert.NoError(t, err)
}

func TestRecordMovementValidation(t *testing.T) {
	svc, _, tenantID := newRegisterFixture()
	ctx := context.Background()

	session, err := svc.Open(ctx, tenantID, uuid.New(), "Ana", dto.OpenRegisterRequest{Terminal: 1, OpeningFloat: decimal.NewFromInt(100)})
	require.NoError(t, err)

	_, err = svc.RecordMovement(ctx, tenantID, "Ana", dto.CashMovementRequest{
		SessionID: session.ID,
		Kind:      model.MovementSangria,
		Amount:    decimal.Zero,
		Reason:    "withdraw",
	})
	assert.ErrorIs(t, err, apierror.ErrValidation)

	_, err = svc.RecordMovement(ctx, tenantID, "Ana", dto.CashMovementRequest{
		SessionID: uuid.NewString(),
		Kind:      model.MovementSangria,
		Amount:    decimal.NewFromInt(10),
		Reason:    "withdraw",
	})
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}

// Report scenario: opening 100, cash sales 100 + 35.50, pix sale 20,
// sangria 10 → cash in drawer 225.50, total sales 155.50.
func TestRegisterReportScenario(t *testing.T) {
	svc, repo, tenantID := newRegisterFixture()
	ctx := context.Background()

	session, err := svc.Open(ctx, tenantID, uuid.New(), "Ana", dto.OpenRegisterRequest{Terminal: 1, OpeningFloat: decimal.NewFromInt(100)})
	require.NoError(t, err)
	sessionID, _ := uuid.Parse(session.ID)

	cash := model.PaymentCash
	pix := model.PaymentPix
	require.NoError(t, repo.CreateMovement(ctx, &model.CashMovement{
		TenantID: tenantID, SessionID: sessionID, Kind: model.MovementSale,
		Method: &cash, Amount: decimal.NewFromInt(100), Reason: "Sale", Operator: "Ana",
	}))
	require.NoError(t, repo.CreateMovement(ctx, &model.CashMovement{
		TenantID: tenantID, SessionID: sessionID, Kind: model.MovementSale,
		Method: &cash, Amount: decimal.NewFromFloat(35.50), Reason: "Sale", Operator: "Ana",
	}))
	require.NoError(t, repo.CreateMovement(ctx, &model.CashMovement{
		TenantID: tenantID, SessionID: sessionID, Kind: model.MovementSale,
		Method: &pix, Amount: decimal.NewFromInt(20), Reason: "Sale", Operator: "Ana",
	}))

	_, err = svc.RecordMovement(ctx, tenantID, "Ana", dto.CashMovementRequest{
		SessionID: session.ID, Kind: model.MovementSangria,
		Amount: decimal.NewFromInt(10), Reason: "safe drop",
	})
	require.NoError(t, err)

	report, err := svc.BuildReport(ctx, tenantID, sessionID)
	require.NoError(t, err)

	assert.Equal(t, 3, report.SaleCount)
	assert.True(t, report.Sales.Cash.Equal(decimal.NewFromFloat(135.50)), "cash: %s", report.Sales.Cash)
	assert.True(t, report.Sales.Pix.Equal(decimal.NewFromInt(20)))
	assert.True(t, report.Sales.Total.Equal(decimal.NewFromFloat(155.50)))
	assert.True(t, report.Sangrias.Equal(decimal.NewFromInt(10)))
	assert.True(t, report.Suprimentos.Equal(decimal.Zero))
	assert.True(t, report.CashInDrawer.Equal(decimal.NewFromFloat(225.50)), "drawer: %s", report.CashInDrawer)

	// Rebuilding without intervening mutations yields identical numbers.
	again, err := svc.BuildReport(ctx, tenantID, sessionID)
	require.NoError(t, err)
	assert.True(t, report.CashInDrawer.Equal(again.CashInDrawer))
	assert.Equal(t, report.SaleCount, again.SaleCount)
}

func TestCloseRegister(t *testing.T) {
	svc, _, tenantID := newRegisterFixture()
	ctx := context.Background()

	session, err := svc.Open(ctx, tenantID, uuid.New(), "Ana", dto.OpenRegisterRequest{Terminal: 1, OpeningFloat: decimal.NewFromInt(100)})
	require.NoError(t, err)
	sessionID, _ := uuid.Parse(session.ID)

	_, err = svc.RecordMovement(ctx, tenantID, "Ana", dto.CashMovementRequest{
		SessionID: session.ID, Kind: model.MovementSuprimento,
		Amount: decimal.NewFromInt(50), Reason: "change fund",
	})
	require.NoError(t, err)

	report, err := svc.Close(ctx, tenantID, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "closed", report.Status)
	assert.NotNil(t, report.ClosedAt)
	assert.True(t, report.CashInDrawer.Equal(decimal.NewFromInt(150)))

	// Second close is rejected.
	_, err = svc.Close(ctx, tenantID, sessionID)
	assert.ErrorIs(t, err, apierror.ErrAlreadyClosed)

	// Movements against a closed session are rejected.
	_, err = svc.RecordMovement(ctx, tenantID, "Ana", dto.CashMovementRequest{
		SessionID: session.ID, Kind: model.MovementSangria,
		Amount: decimal.NewFromInt(5), Reason: "late drop",
	})
	assert.ErrorIs(t, err, apierror.ErrNotOpen)
}
