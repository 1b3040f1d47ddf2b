package service

import (
	"context"
	"time"

	"mesalivre/internal/apierror"
	"mesalivre/internal/dto"
	"mesalivre/internal/model"
	"mesalivre/internal/realtime"
	"mesalivre/internal/repository"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TabService interface {
	ResolveForTable(ctx context.Context, tenantID, tableID uuid.UUID, waiterName string) (*dto.TabResponse, error)
	AppendItem(ctx context.Context, tenantID, tabID uuid.UUID, waiterName string, req dto.AppendItemRequest) (*dto.TabResponse, error)
	Settle(ctx context.Context, tenantID, tabID uuid.UUID, req dto.SettleTabRequest) (*dto.TabResponse, error)
	Receipt(ctx context.Context, tenantID, tabID uuid.UUID) (*dto.ReceiptDocument, error)
	ListOpen(ctx context.Context, tenantID uuid.UUID) ([]dto.TabResponse, error)
}

// TableLocker serializes tab creation per table. The production
// implementation is redislock; tests use an in-process fake.
type TableLocker interface {
	// Obtain acquires the named lock and returns a release func, or an
	// error when the lock is held elsewhere.
	Obtain(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// RedisTableLocker adapts bsm/redislock to TableLocker, retrying briefly so
// two near-simultaneous waiters queue up instead of failing outright.
type RedisTableLocker struct {
	Client *redislock.Client
}

func (l *RedisTableLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	lock, err := l.Client.Obtain(ctx, key, ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), 20),
	})
	if err != nil {
		return nil, err
	}
	return func() { _ = lock.Release(context.Background()) }, nil
}

type tabService struct {
	repo        repository.TabRepository
	tableRepo   repository.TableRepository
	productRepo repository.ProductRepository
	locker      TableLocker
	publisher   realtime.Publisher
}

func NewTabService(
	repo repository.TabRepository,
	tableRepo repository.TableRepository,
	productRepo repository.ProductRepository,
	locker TableLocker,
	publisher realtime.Publisher,
) TabService {
	return &tabService{
		repo:        repo,
		tableRepo:   tableRepo,
		productRepo: productRepo,
		locker:      locker,
		publisher:   publisher,
	}
}

// ── ResolveForTable ───────────────────────────────────────────────────────────
// Returns the table's open tab, creating one (and flipping the table to
// occupied) if none exists. The find-or-create is racy on its own, so it
// runs under a per-table lock; the partial unique index on open tabs is the
// backstop if the lock service misbehaves.

func (s *tabService) ResolveForTable(ctx context.Context, tenantID, tableID uuid.UUID, waiterName string) (*dto.TabResponse, error) {
	table, err := s.tableRepo.FindByID(ctx, tenantID, tableID)
	if err != nil {
		return nil, apierror.ErrNotFound
	}

	release, err := s.locker.Obtain(ctx, tabLockKey(tenantID, tableID), 5*time.Second)
	if err != nil {
		return nil, err
	}
	defer release()

	if existing, err := s.repo.FindOpenByTable(ctx, tenantID, tableID); err == nil && existing.ID != uuid.Nil {
		return s.tabToResponse(ctx, existing), nil
	}

	tab := &model.Tab{
		TenantID:   tenantID,
		TableID:    tableID,
		WaiterName: waiterName,
		Status:     "open",
		OpenedAt:   time.Now().UTC(),
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, tab); err != nil {
			return err
		}
		return s.tableRepo.UpdateStatusTx(tx, tenantID, tableID, model.TableOccupied)
	})
	if txErr != nil {
		return nil, txErr
	}

	table.Status = model.TableOccupied
	resp := s.tabToResponse(ctx, tab)
	s.publisher.Publish(ctx, tenantID, realtime.Event{Entity: "tab", Action: "created", Payload: resp})
	s.publisher.Publish(ctx, tenantID, realtime.Event{Entity: "table", Action: "updated", Payload: tableToResponse(table)})
	return resp, nil
}

func tabLockKey(tenantID, tableID uuid.UUID) string {
	return "lock:tab:" + tenantID.String() + ":" + tableID.String()
}

// ── AppendItem ────────────────────────────────────────────────────────────────
// One "send to kitchen" action. Items snapshot name and price and are never
// edited afterwards; the running total is recomputed from items on read.

func (s *tabService) AppendItem(ctx context.Context, tenantID, tabID uuid.UUID, waiterName string, req dto.AppendItemRequest) (*dto.TabResponse, error) {
	tab, err := s.repo.FindByID(ctx, tenantID, tabID)
	if err != nil {
		return nil, apierror.ErrNotFound
	}
	if tab.Status != "open" {
		return nil, apierror.ErrNotOpen
	}

	pid, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apierror.Validationf("invalid product_id")
	}
	product, err := s.productRepo.FindByID(ctx, tenantID, pid)
	if err != nil {
		return nil, apierror.ErrNotFound
	}
	if !product.Active {
		return nil, apierror.Validationf("product " + product.Name + " is inactive")
	}

	item := &model.TabItem{
		TenantID:    tenantID,
		TabID:       tabID,
		ProductID:   pid,
		ProductName: product.Name,
		UnitPrice:   product.Price,
		Quantity:    req.Quantity,
		Note:        req.Note,
		WaiterName:  waiterName,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	tab.Items = append(tab.Items, *item)
	resp := s.tabToResponse(ctx, tab)
	s.publisher.Publish(ctx, tenantID, realtime.Event{Entity: "tab", Action: "updated", Payload: resp})
	return resp, nil
}

// ── Settle ────────────────────────────────────────────────────────────────────
// Closing the tab and freeing the table are one DB transaction; a crash
// cannot leave the table occupied with no open tab behind it.

func (s *tabService) Settle(ctx context.Context, tenantID, tabID uuid.UUID, req dto.SettleTabRequest) (*dto.TabResponse, error) {
	tab, err := s.repo.FindByID(ctx, tenantID, tabID)
	if err != nil {
		return nil, apierror.ErrNotFound
	}
	if tab.Status != "open" {
		return nil, apierror.ErrNotOpen
	}

	now := time.Now().UTC()
	method := req.Method
	tab.Status = "closed"
	tab.Method = &method
	tab.ClosedAt = &now

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(tx, tab); err != nil {
			return err
		}
		return s.tableRepo.UpdateStatusTx(tx, tenantID, tab.TableID, model.TableFree)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := s.tabToResponse(ctx, tab)
	s.publisher.Publish(ctx, tenantID, realtime.Event{Entity: "tab", Action: "closed", Payload: resp})
	if table, err := s.tableRepo.FindByID(ctx, tenantID, tab.TableID); err == nil {
		s.publisher.Publish(ctx, tenantID, realtime.Event{Entity: "table", Action: "updated", Payload: tableToResponse(table)})
	}
	return resp, nil
}

// ── Receipt ───────────────────────────────────────────────────────────────────
// Pure projection of tab + items into a receipt layout; no side effects.

func (s *tabService) Receipt(ctx context.Context, tenantID, tabID uuid.UUID) (*dto.ReceiptDocument, error) {
	tab, err := s.repo.FindByID(ctx, tenantID, tabID)
	if err != nil {
		return nil, apierror.ErrNotFound
	}

	tableNumber := 0
	if table, err := s.tableRepo.FindByID(ctx, tenantID, tab.TableID); err == nil {
		tableNumber = table.Number
	}

	lines := make([]dto.ReceiptLine, 0, len(tab.Items))
	for _, item := range tab.Items {
		desc := item.ProductName
		if item.Note != nil && *item.Note != "" {
			desc += " (" + *item.Note + ")"
		}
		lines = append(lines, dto.ReceiptLine{
			Description: desc,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}

	return &dto.ReceiptDocument{
		Header:      "COMANDA",
		TableNumber: tableNumber,
		Waiter:      tab.WaiterName,
		Lines:       lines,
		Total:       tab.Total(),
		Footer:      "Obrigado pela preferência!",
		IssuedAt:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (s *tabService) ListOpen(ctx context.Context, tenantID uuid.UUID) ([]dto.TabResponse, error) {
	tabs, err := s.repo.ListOpen(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TabResponse, 0, len(tabs))
	for i := range tabs {
		out = append(out, *s.tabToResponse(ctx, &tabs[i]))
	}
	return out, nil
}

func (s *tabService) tabToResponse(ctx context.Context, tab *model.Tab) *dto.TabResponse {
	items := make([]dto.TabItemResponse, 0, len(tab.Items))
	for _, item := range tab.Items {
		items = append(items, dto.TabItemResponse{
			ID:        item.ID.String(),
			Product:   item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Note:      item.Note,
			Waiter:    item.WaiterName,
			CreatedAt: item.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	tableNumber := 0
	if table, err := s.tableRepo.FindByID(ctx, tab.TenantID, tab.TableID); err == nil {
		tableNumber = table.Number
	}

	resp := &dto.TabResponse{
		ID:          tab.ID.String(),
		TableID:     tab.TableID.String(),
		TableNumber: tableNumber,
		Waiter:      tab.WaiterName,
		Status:      tab.Status,
		Method:      tab.Method,
		Items:       items,
		Total:       tab.Total(),
		OpenedAt:    tab.OpenedAt.UTC().Format(time.RFC3339),
	}
	if tab.ClosedAt != nil {
		t := tab.ClosedAt.UTC().Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}
