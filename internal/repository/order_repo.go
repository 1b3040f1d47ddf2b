package repository

import (
	"context"
	"errors"

	"mesalivre/internal/dto"
	"mesalivre/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrStaleOrderStatus is returned when a conditional status write matched no
// row: another writer moved the order since the caller read it.
var ErrStaleOrderStatus = errors.New("order status changed concurrently")

type OrderRepository interface {
	Create(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Order, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, from, to string) error
	ListActive(ctx context.Context, tenantID uuid.UUID, filter dto.OrderFilter) ([]model.Order, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, o *model.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&o, id).Error
	return &o, err
}

// UpdateStatus is conditional on the status the caller read, so a stale
// writer matches zero rows instead of dragging the order backward.
func (r *orderRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, from, to string) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("tenant_id = ? AND id = ? AND status = ?", tenantID, id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleOrderStatus
	}
	return nil
}

// ListActive excludes terminal orders unless the filter names a terminal
// status explicitly. Status and modality filters are a logical AND.
func (r *orderRepo) ListActive(ctx context.Context, tenantID uuid.UUID, filter dto.OrderFilter) ([]model.Order, error) {
	var orders []model.Order
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	} else {
		q = q.Where("status NOT IN ('delivered', 'cancelled')")
	}
	if filter.Modality != "" {
		q = q.Where("modality = ?", filter.Modality)
	}
	err := q.Order("created_at ASC").Find(&orders).Error
	return orders, err
}
