package repository

import (
	"context"

	"mesalivre/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegisterRepository interface {
	CreateSession(ctx context.Context, s *model.RegisterSession) error
	FindOpenByTerminal(ctx context.Context, tenantID uuid.UUID, terminal int) (*model.RegisterSession, error)
	FindSessionByID(ctx context.Context, tenantID, id uuid.UUID) (*model.RegisterSession, error)
	UpdateSession(ctx context.Context, s *model.RegisterSession) error
	ListSessions(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]model.RegisterSession, int64, error)
	CreateMovement(ctx context.Context, m *model.CashMovement) error
	CreateMovementTx(tx *gorm.DB, m *model.CashMovement) error
	ListMovements(ctx context.Context, tenantID, sessionID uuid.UUID) ([]model.CashMovement, error)
}

type registerRepo struct{ db *gorm.DB }

func NewRegisterRepository(db *gorm.DB) RegisterRepository { return &registerRepo{db: db} }

func (r *registerRepo) CreateSession(ctx context.Context, s *model.RegisterSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *registerRepo) FindOpenByTerminal(ctx context.Context, tenantID uuid.UUID, terminal int) (*model.RegisterSession, error) {
	var s model.RegisterSession
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND terminal = ? AND status = 'open'", tenantID, terminal).
		First(&s).Error
	return &s, err
}

func (r *registerRepo) FindSessionByID(ctx context.Context, tenantID, id uuid.UUID) (*model.RegisterSession, error) {
	var s model.RegisterSession
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&s, id).Error
	return &s, err
}

func (r *registerRepo) UpdateSession(ctx context.Context, s *model.RegisterSession) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *registerRepo) ListSessions(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]model.RegisterSession, int64, error) {
	var sessions []model.RegisterSession
	var total int64
	q := r.db.WithContext(ctx).Model(&model.RegisterSession{}).Where("tenant_id = ?", tenantID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("opened_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&sessions).Error
	return sessions, total, err
}

func (r *registerRepo) CreateMovement(ctx context.Context, m *model.CashMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *registerRepo) CreateMovementTx(tx *gorm.DB, m *model.CashMovement) error {
	return tx.Create(m).Error
}

func (r *registerRepo) ListMovements(ctx context.Context, tenantID, sessionID uuid.UUID) ([]model.CashMovement, error) {
	var movs []model.CashMovement
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND session_id = ?", tenantID, sessionID).
		Order("created_at ASC").Find(&movs).Error
	return movs, err
}
