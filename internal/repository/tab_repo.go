package repository

import (
	"context"

	"mesalivre/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TabRepository interface {
	CreateTx(tx *gorm.DB, t *model.Tab) error
	FindOpenByTable(ctx context.Context, tenantID, tableID uuid.UUID) (*model.Tab, error)
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Tab, error)
	UpdateTx(tx *gorm.DB, t *model.Tab) error
	CreateItem(ctx context.Context, item *model.TabItem) error
	ListOpen(ctx context.Context, tenantID uuid.UUID) ([]model.Tab, error)
	DB() *gorm.DB
}

type tabRepo struct{ db *gorm.DB }

func NewTabRepository(db *gorm.DB) TabRepository { return &tabRepo{db: db} }

func (r *tabRepo) DB() *gorm.DB { return r.db }

func (r *tabRepo) CreateTx(tx *gorm.DB, t *model.Tab) error {
	return tx.Create(t).Error
}

func (r *tabRepo) FindOpenByTable(ctx context.Context, tenantID, tableID uuid.UUID) (*model.Tab, error) {
	var t model.Tab
	err := r.db.WithContext(ctx).Preload("Items").
		Where("tenant_id = ? AND table_id = ? AND status = 'open'", tenantID, tableID).
		First(&t).Error
	return &t, err
}

func (r *tabRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Tab, error) {
	var t model.Tab
	err := r.db.WithContext(ctx).Preload("Items").Where("tenant_id = ?", tenantID).First(&t, id).Error
	return &t, err
}

func (r *tabRepo) UpdateTx(tx *gorm.DB, t *model.Tab) error {
	return tx.Save(t).Error
}

func (r *tabRepo) CreateItem(ctx context.Context, item *model.TabItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *tabRepo) ListOpen(ctx context.Context, tenantID uuid.UUID) ([]model.Tab, error) {
	var tabs []model.Tab
	err := r.db.WithContext(ctx).Preload("Items").
		Where("tenant_id = ? AND status = 'open'", tenantID).
		Order("opened_at ASC").Find(&tabs).Error
	return tabs, err
}
