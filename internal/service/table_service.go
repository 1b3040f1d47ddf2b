package service

import (
	"context"

	"mesalivre/internal/apierror"
	"mesalivre/internal/dto"
	"mesalivre/internal/model"
	"mesalivre/internal/repository"

	"github.com/google/uuid"
)

type TableService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateTableRequest) (*dto.TableResponse, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]dto.TableResponse, error)
	Delete(ctx context.Context, tenantID, tableID uuid.UUID) error
}

type tableService struct {
	repo repository.TableRepository
}

func NewTableService(repo repository.TableRepository) TableService {
	return &tableService{repo: repo}
}

func (s *tableService) Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateTableRequest) (*dto.TableResponse, error) {
	if existing, err := s.repo.FindByNumber(ctx, tenantID, req.Number); err == nil && existing != nil {
		return nil, apierror.Validationf("table number already in use")
	}

	table := &model.Table{
		TenantID: tenantID,
		Number:   req.Number,
		Status:   model.TableFree,
	}
	if err := s.repo.Create(ctx, table); err != nil {
		return nil, err
	}
	return tableToResponse(table), nil
}

func (s *tableService) List(ctx context.Context, tenantID uuid.UUID) ([]dto.TableResponse, error) {
	tables, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TableResponse, 0, len(tables))
	for i := range tables {
		out = append(out, *tableToResponse(&tables[i]))
	}
	return out, nil
}

// Delete refuses while the table is occupied. The open tab must settle
// first, otherwise its items would point at a vanished table.
func (s *tableService) Delete(ctx context.Context, tenantID, tableID uuid.UUID) error {
	table, err := s.repo.FindByID(ctx, tenantID, tableID)
	if err != nil {
		return apierror.ErrNotFound
	}
	if table.Status == model.TableOccupied {
		return apierror.Validationf("table has an open tab")
	}
	return s.repo.Delete(ctx, tenantID, tableID)
}

func tableToResponse(t *model.Table) *dto.TableResponse {
	return &dto.TableResponse{
		ID:     t.ID.String(),
		Number: t.Number,
		Status: t.Status,
	}
}
