package repository

import (
	"context"

	"mesalivre/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Product, error)
	FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*model.Product, error)
	List(ctx context.Context, tenantID uuid.UUID, includeInactive bool) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	SetActive(ctx context.Context, tenantID, id uuid.UUID, active bool) error
	CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&p, id).Error
	return &p, err
}

func (r *productRepo) FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("tenant_id = ? AND name = ?", tenantID, name).First(&p).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context, tenantID uuid.UUID, includeInactive bool) ([]model.Product, error) {
	var products []model.Product
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if !includeInactive {
		q = q.Where("active = true")
	}
	err := q.Order("category ASC, name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) SetActive(ctx context.Context, tenantID, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Update("active", active).Error
}

func (r *productRepo) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("tenant_id = ? AND active = true", tenantID).Count(&n).Error
	return n, err
}
