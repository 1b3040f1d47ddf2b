package repository

import (
	"context"

	"mesalivre/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TableRepository interface {
	Create(ctx context.Context, t *model.Table) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Table, error)
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number int) (*model.Table, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]model.Table, error)
	UpdateStatusTx(tx *gorm.DB, tenantID, id uuid.UUID, status string) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type tableRepo struct{ db *gorm.DB }

func NewTableRepository(db *gorm.DB) TableRepository { return &tableRepo{db: db} }

func (r *tableRepo) Create(ctx context.Context, t *model.Table) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tableRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Table, error) {
	var t model.Table
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&t, id).Error
	return &t, err
}

func (r *tableRepo) FindByNumber(ctx context.Context, tenantID uuid.UUID, number int) (*model.Table, error) {
	var t model.Table
	err := r.db.WithContext(ctx).Where("tenant_id = ? AND number = ?", tenantID, number).First(&t).Error
	return &t, err
}

func (r *tableRepo) List(ctx context.Context, tenantID uuid.UUID) ([]model.Table, error) {
	var tables []model.Table
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("number ASC").Find(&tables).Error
	return tables, err
}

func (r *tableRepo) UpdateStatusTx(tx *gorm.DB, tenantID, id uuid.UUID, status string) error {
	return tx.Model(&model.Table{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Update("status", status).Error
}

func (r *tableRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&model.Table{}).Error
}
