package service

import (
	"context"
	"fmt"

	"mesalivre/internal/apierror"
	"mesalivre/internal/dto"
	"mesalivre/internal/model"
	"mesalivre/internal/repository"

	"github.com/google/uuid"
)

type ProductService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Update(ctx context.Context, tenantID, productID uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, includeInactive bool) ([]dto.ProductResponse, error)
	SetActive(ctx context.Context, tenantID, productID uuid.UUID, active bool) error
}

type productService struct {
	repo       repository.ProductRepository
	tenantRepo repository.TenantRepository
}

func NewProductService(repo repository.ProductRepository, tenantRepo repository.TenantRepository) ProductService {
	return &productService{repo: repo, tenantRepo: tenantRepo}
}

// Create enforces the tenant's plan ceiling on active products. Only
// active products count toward the ceiling, so deactivating frees a slot.
func (s *productService) Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, apierror.ErrNotFound
	}
	count, err := s.repo.CountActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if count >= int64(tenant.ProductLimit) {
		return nil, apierror.Validationf(fmt.Sprintf("plan %s allows at most %d active products", tenant.Plan, tenant.ProductLimit))
	}

	if existing, err := s.repo.FindByName(ctx, tenantID, req.Name); err == nil && existing != nil {
		return nil, apierror.Validationf("product name already in use")
	}

	p := &model.Product{
		TenantID:    tenantID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Active:      true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Update(ctx context.Context, tenantID, productID uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, tenantID, productID)
	if err != nil {
		return nil, apierror.ErrNotFound
	}

	if req.Name != nil && *req.Name != p.Name {
		if existing, err := s.repo.FindByName(ctx, tenantID, *req.Name); err == nil && existing != nil {
			return nil, apierror.Validationf("product name already in use")
		}
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Price != nil {
		p.Price = *req.Price
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, tenantID uuid.UUID, includeInactive bool) ([]dto.ProductResponse, error) {
	products, err := s.repo.List(ctx, tenantID, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *productToResponse(&products[i]))
	}
	return out, nil
}

func (s *productService) SetActive(ctx context.Context, tenantID, productID uuid.UUID, active bool) error {
	p, err := s.repo.FindByID(ctx, tenantID, productID)
	if err != nil {
		return apierror.ErrNotFound
	}
	// Reactivation counts toward the plan ceiling just like Create does.
	if active && !p.Active {
		tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
		if err != nil {
			return apierror.ErrNotFound
		}
		count, err := s.repo.CountActive(ctx, tenantID)
		if err != nil {
			return err
		}
		if count >= int64(tenant.ProductLimit) {
			return apierror.Validationf(fmt.Sprintf("plan %s allows at most %d active products", tenant.Plan, tenant.ProductLimit))
		}
	}
	return s.repo.SetActive(ctx, tenantID, productID, active)
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Active:      p.Active,
	}
}
