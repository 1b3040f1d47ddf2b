package service

import (
	"context"
	"testing"

	"mesalivre/internal/apierror"
	"mesalivre/internal/dto"
	"mesalivre/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductFixture(limit int) (ProductService, *fakeProductRepo, uuid.UUID) {
	products := newFakeProductRepo()
	tenants := newFakeTenantRepo()
	tenant := &model.Tenant{Name: "Demo", Slug: "demo", OwnerEmail: "owner@demo.local", Plan: "free", ProductLimit: limit, Active: true}
	_ = tenants.Create(context.Background(), tenant)
	return NewProductService(products, tenants), products, tenant.ID
}

func TestProductPlanCeiling(t *testing.T) {
	svc, _, tenantID := newProductFixture(2)
	ctx := context.Background()

	for _, name := range []string{"Burger", "Soda"} {
		_, err := svc.Create(ctx, tenantID, dto.CreateProductRequest{
			Name: name, Category: "food", Price: decimal.NewFromInt(10),
		})
		require.NoError(t, err)
	}

	_, err := svc.Create(ctx, tenantID, dto.CreateProductRequest{
		Name: "Fries", Category: "food", Price: decimal.NewFromInt(8),
	})
	assert.ErrorIs(t, err, apierror.ErrValidation)
}

func TestProductDeactivateFreesPlanSlot(t *testing.T) {
	svc, _, tenantID := newProductFixture(1)
	ctx := context.Background()

	created, err := svc.Create(ctx, tenantID, dto.CreateProductRequest{
		Name: "Burger", Category: "food", Price: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, tenantID, dto.CreateProductRequest{
		Name: "Soda", Category: "drinks", Price: decimal.NewFromInt(5),
	})
	require.ErrorIs(t, err, apierror.ErrValidation)

	require.NoError(t, svc.SetActive(ctx, tenantID, mustUUID(created.ID), false))

	_, err = svc.Create(ctx, tenantID, dto.CreateProductRequest{
		Name: "Soda", Category: "drinks", Price: decimal.NewFromInt(5),
	})
	assert.NoError(t, err)

	// The slot is taken again, so reactivating the first product must fail.
	err = svc.SetActive(ctx, tenantID, mustUUID(created.ID), true)
	assert.ErrorIs(t, err, apierror.ErrValidation)
}

func TestProductDuplicateName(t *testing.T) {
	svc, _, tenantID := newProductFixture(10)
	ctx := context.Background()

	_, err := svc.Create(ctx, tenantID, dto.CreateProductRequest{
		Name: "Burger", Category: "food", Price: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, tenantID, dto.CreateProductRequest{
		Name: "Burger", Category: "food", Price: decimal.NewFromInt(12),
	})
	assert.ErrorIs(t, err, apierror.ErrValidation)
}

func TestProductUpdate(t *testing.T) {
	svc, _, tenantID := newProductFixture(10)
	ctx := context.Background()

	created, err := svc.Create(ctx, tenantID, dto.CreateProductRequest{
		Name: "Burger", Category: "food", Price: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	newPrice := decimal.NewFromFloat(12.50)
	updated, err := svc.Update(ctx, tenantID, mustUUID(created.ID), dto.UpdateProductRequest{Price: &newPrice})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, "Burger", updated.Name)
}
