package service

import (
	"context"
	"testing"

	"mesalivre/internal/apierror"
	"mesalivre/internal/dto"
	"mesalivre/internal/model"
	"mesalivre/internal/realtime"
	"mesalivre/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderFixture() (OrderService, *fakeOrderRepo, uuid.UUID) {
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo, nil, realtime.NopPublisher{})
	return svc, repo, uuid.New()
}

func createOrder(t *testing.T, svc OrderService, tenantID uuid.UUID, modality string) *dto.OrderResponse {
	t.Helper()
	resp, err := svc.Create(context.Background(), tenantID, dto.CreateOrderRequest{
		CustomerName:  "Joana",
		CustomerPhone: "11999990000",
		ItemsText:     "1x Burger, 1x Soda",
		Total:         decimal.NewFromFloat(32.75),
		Address:       "Rua das Flores 10",
		Method:        model.PaymentPix,
		Modality:      modality,
	})
	require.NoError(t, err)
	return resp
}

func TestCreateOrderStartsPending(t *testing.T) {
	svc, _, tenantID := newOrderFixture()
	order := createOrder(t, svc, tenantID, model.ModalityDelivery)
	assert.Equal(t, model.OrderPending, order.Status)
}

func TestAdvanceOrderForwardOnly(t *testing.T) {
	svc, _, tenantID := newOrderFixture()
	ctx := context.Background()
	order := createOrder(t, svc, tenantID, model.ModalityDelivery)
	orderID := mustUUID(order.ID)

	for _, status := range []string{model.OrderConfirmed, model.OrderPreparing, model.OrderDispatched, model.OrderDelivered} {
		resp, err := svc.Advance(ctx, tenantID, orderID, status)
		require.NoError(t, err, "advance to %s", status)
		assert.Equal(t, status, resp.Status)
	}
}

func TestAdvanceOrderRejectsSkips(t *testing.T) {
	svc, _, tenantID := newOrderFixture()
	ctx := context.Background()
	order := createOrder(t, svc, tenantID, model.ModalityPickup)
	orderID := mustUUID(order.ID)

	// pending → preparing skips confirmed
	_, err := svc.Advance(ctx, tenantID, orderID, model.OrderPreparing)
	assert.ErrorIs(t, err, apierror.ErrInvalidTransition)

	_, err = svc.Advance(ctx, tenantID, orderID, model.OrderConfirmed)
	require.NoError(t, err)

	// no backward moves
	_, err = svc.Advance(ctx, tenantID, orderID, model.OrderPending)
	assert.ErrorIs(t, err, apierror.ErrInvalidTransition)
}

func TestAdvanceOrderStaleWriterLoses(t *testing.T) {
	svc, repo, tenantID := newOrderFixture()
	ctx := context.Background()
	order := createOrder(t, svc, tenantID, model.ModalityDelivery)
	orderID := mustUUID(order.ID)

	_, err := svc.Advance(ctx, tenantID, orderID, model.OrderConfirmed)
	require.NoError(t, err)
	_, err = svc.Advance(ctx, tenantID, orderID, model.OrderPreparing)
	require.NoError(t, err)

	// A terminal that read "confirmed" before the second advance tries to
	// write; the conditional update matches nothing and the order never
	// moves backward.
	err = repo.UpdateStatus(ctx, tenantID, orderID, model.OrderConfirmed, model.OrderDispatched)
	assert.ErrorIs(t, err, repository.ErrStaleOrderStatus)

	stored, err := repo.FindByID(ctx, tenantID, orderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPreparing, stored.Status)
}

func TestCancelOrder(t *testing.T) {
	svc, _, tenantID := newOrderFixture()
	ctx := context.Background()

	order := createOrder(t, svc, tenantID, model.ModalityDelivery)
	orderID := mustUUID(order.ID)
	_, err := svc.Advance(ctx, tenantID, orderID, model.OrderConfirmed)
	require.NoError(t, err)

	resp, err := svc.Advance(ctx, tenantID, orderID, model.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, resp.Status)

	// Terminal: neither cancel again nor advance.
	_, err = svc.Advance(ctx, tenantID, orderID, model.OrderCancelled)
	assert.ErrorIs(t, err, apierror.ErrInvalidTransition)
	_, err = svc.Advance(ctx, tenantID, orderID, model.OrderConfirmed)
	assert.ErrorIs(t, err, apierror.ErrInvalidTransition)
}

func TestListActiveExcludesTerminal(t *testing.T) {
	svc, _, tenantID := newOrderFixture()
	ctx := context.Background()

	active := createOrder(t, svc, tenantID, model.ModalityDelivery)
	done := createOrder(t, svc, tenantID, model.ModalityPickup)
	doneID := mustUUID(done.ID)
	for _, status := range []string{model.OrderConfirmed, model.OrderPreparing, model.OrderDispatched, model.OrderDelivered} {
		_, err := svc.Advance(ctx, tenantID, doneID, status)
		require.NoError(t, err)
	}

	orders, err := svc.ListActive(ctx, tenantID, dto.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, active.ID, orders[0].ID)

	// Naming a terminal status explicitly includes it.
	orders, err = svc.ListActive(ctx, tenantID, dto.OrderFilter{Status: model.OrderDelivered})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, done.ID, orders[0].ID)
}

func TestListActiveRetriesTransientFailure(t *testing.T) {
	svc, repo, tenantID := newOrderFixture()
	ctx := context.Background()
	createOrder(t, svc, tenantID, model.ModalityTable)

	repo.fail = 1
	orders, err := svc.ListActive(ctx, tenantID, dto.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	repo.fail = 2
	_, err = svc.ListActive(ctx, tenantID, dto.OrderFilter{})
	assert.Error(t, err)
}

func TestOrdersScopedByTenant(t *testing.T) {
	svc, _, tenantID := newOrderFixture()
	ctx := context.Background()
	order := createOrder(t, svc, tenantID, model.ModalityDelivery)

	otherTenant := uuid.New()
	_, err := svc.Get(ctx, otherTenant, mustUUID(order.ID))
	assert.ErrorIs(t, err, apierror.ErrNotFound)
	_, err = svc.Advance(ctx, otherTenant, mustUUID(order.ID), model.OrderConfirmed)
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}
