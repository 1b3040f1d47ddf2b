package service

import (
	"context"
	"errors"
	"time"

	"mesalivre/internal/dto"
	"mesalivre/internal/model"
	"mesalivre/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errNotFound = errors.New("record not found")

// ── In-memory RegisterRepository ─────────────────────────────────────────────

type fakeRegisterRepo struct {
	sessions  map[uuid.UUID]*model.RegisterSession
	movements []model.CashMovement
}

func newFakeRegisterRepo() *fakeRegisterRepo {
	return &fakeRegisterRepo{sessions: make(map[uuid.UUID]*model.RegisterSession)}
}

func (r *fakeRegisterRepo) CreateSession(_ context.Context, s *model.RegisterSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeRegisterRepo) FindOpenByTerminal(_ context.Context, tenantID uuid.UUID, terminal int) (*model.RegisterSession, error) {
	for _, s := range r.sessions {
		if s.TenantID == tenantID && s.Terminal == terminal && s.Status == "open" {
			return s, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeRegisterRepo) FindSessionByID(_ context.Context, tenantID, id uuid.UUID) (*model.RegisterSession, error) {
	s, ok := r.sessions[id]
	if !ok || s.TenantID != tenantID {
		return nil, errNotFound
	}
	return s, nil
}

func (r *fakeRegisterRepo) UpdateSession(_ context.Context, s *model.RegisterSession) error {
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeRegisterRepo) ListSessions(_ context.Context, tenantID uuid.UUID, page, limit int) ([]model.RegisterSession, int64, error) {
	var out []model.RegisterSession
	for _, s := range r.sessions {
		if s.TenantID == tenantID {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeRegisterRepo) CreateMovement(_ context.Context, m *model.CashMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *fakeRegisterRepo) CreateMovementTx(_ *gorm.DB, m *model.CashMovement) error {
	return r.CreateMovement(context.Background(), m)
}

func (r *fakeRegisterRepo) ListMovements(_ context.Context, tenantID, sessionID uuid.UUID) ([]model.CashMovement, error) {
	var out []model.CashMovement
	for _, m := range r.movements {
		if m.TenantID == tenantID && m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

// ── In-memory TenantRepository ───────────────────────────────────────────────

type fakeTenantRepo struct {
	tenants map[uuid.UUID]*model.Tenant
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{tenants: make(map[uuid.UUID]*model.Tenant)}
}

func (r *fakeTenantRepo) Create(_ context.Context, t *model.Tenant) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.tenants[t.ID] = t
	return nil
}

func (r *fakeTenantRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Tenant, error) {
	t, ok := r.tenants[id]
	if !ok {
		return nil, errNotFound
	}
	return t, nil
}

func (r *fakeTenantRepo) FindBySlug(_ context.Context, slug string) (*model.Tenant, error) {
	for _, t := range r.tenants {
		if t.Slug == slug {
			return t, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeTenantRepo) UpdatePlan(_ context.Context, id uuid.UUID, plan string, productLimit int) error {
	t, ok := r.tenants[id]
	if !ok {
		return errNotFound
	}
	t.Plan = plan
	t.ProductLimit = productLimit
	return nil
}

// ── In-memory ProductRepository ──────────────────────────────────────────────

type fakeProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *fakeProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, errNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindByName(_ context.Context, tenantID uuid.UUID, name string) (*model.Product, error) {
	for _, p := range r.products {
		if p.TenantID == tenantID && p.Name == name {
			return p, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeProductRepo) List(_ context.Context, tenantID uuid.UUID, includeInactive bool) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.TenantID == tenantID && (includeInactive || p.Active) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) SetActive(_ context.Context, tenantID, id uuid.UUID, active bool) error {
	p, ok := r.products[id]
	if !ok || p.TenantID != tenantID {
		return errNotFound
	}
	p.Active = active
	return nil
}

func (r *fakeProductRepo) CountActive(_ context.Context, tenantID uuid.UUID) (int64, error) {
	var n int64
	for _, p := range r.products {
		if p.TenantID == tenantID && p.Active {
			n++
		}
	}
	return n, nil
}

// ── In-memory SaleRepository ─────────────────────────────────────────────────

type fakeSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *fakeSaleRepo) DB() *gorm.DB { return nil }

func (r *fakeSaleRepo) Create(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	r.sales[s.ID] = s
	return nil
}

func (r *fakeSaleRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok || s.TenantID != tenantID {
		return nil, errNotFound
	}
	return s, nil
}

func (r *fakeSaleRepo) ListBySession(_ context.Context, tenantID, sessionID uuid.UUID) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.TenantID == tenantID && s.SessionID == sessionID {
			out = append(out, *s)
		}
	}
	return out, nil
}

// ── In-memory TableRepository ────────────────────────────────────────────────

type fakeTableRepo struct {
	tables map[uuid.UUID]*model.Table
}

func newFakeTableRepo() *fakeTableRepo {
	return &fakeTableRepo{tables: make(map[uuid.UUID]*model.Table)}
}

func (r *fakeTableRepo) Create(_ context.Context, t *model.Table) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.tables[t.ID] = t
	return nil
}

func (r *fakeTableRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.Table, error) {
	t, ok := r.tables[id]
	if !ok || t.TenantID != tenantID {
		return nil, errNotFound
	}
	return t, nil
}

func (r *fakeTableRepo) FindByNumber(_ context.Context, tenantID uuid.UUID, number int) (*model.Table, error) {
	for _, t := range r.tables {
		if t.TenantID == tenantID && t.Number == number {
			return t, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeTableRepo) List(_ context.Context, tenantID uuid.UUID) ([]model.Table, error) {
	var out []model.Table
	for _, t := range r.tables {
		if t.TenantID == tenantID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTableRepo) UpdateStatusTx(_ *gorm.DB, tenantID, id uuid.UUID, status string) error {
	t, ok := r.tables[id]
	if !ok || t.TenantID != tenantID {
		return errNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTableRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	delete(r.tables, id)
	return nil
}

// ── In-memory TabRepository ──────────────────────────────────────────────────

type fakeTabRepo struct {
	tabs  map[uuid.UUID]*model.Tab
	items []model.TabItem
}

func newFakeTabRepo() *fakeTabRepo {
	return &fakeTabRepo{tabs: make(map[uuid.UUID]*model.Tab)}
}

func (r *fakeTabRepo) DB() *gorm.DB { return nil }

func (r *fakeTabRepo) CreateTx(_ *gorm.DB, t *model.Tab) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.tabs[t.ID] = t
	return nil
}

func (r *fakeTabRepo) attachItems(t *model.Tab) *model.Tab {
	cp := *t
	cp.Items = nil
	for _, item := range r.items {
		if item.TabID == t.ID {
			cp.Items = append(cp.Items, item)
		}
	}
	return &cp
}

func (r *fakeTabRepo) FindOpenByTable(_ context.Context, tenantID, tableID uuid.UUID) (*model.Tab, error) {
	for _, t := range r.tabs {
		if t.TenantID == tenantID && t.TableID == tableID && t.Status == "open" {
			return r.attachItems(t), nil
		}
	}
	return nil, errNotFound
}

func (r *fakeTabRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.Tab, error) {
	t, ok := r.tabs[id]
	if !ok || t.TenantID != tenantID {
		return nil, errNotFound
	}
	return r.attachItems(t), nil
}

func (r *fakeTabRepo) UpdateTx(_ *gorm.DB, t *model.Tab) error {
	r.tabs[t.ID] = t
	return nil
}

func (r *fakeTabRepo) CreateItem(_ context.Context, item *model.TabItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CreatedAt = time.Now()
	r.items = append(r.items, *item)
	return nil
}

func (r *fakeTabRepo) ListOpen(_ context.Context, tenantID uuid.UUID) ([]model.Tab, error) {
	var out []model.Tab
	for _, t := range r.tabs {
		if t.TenantID == tenantID && t.Status == "open" {
			out = append(out, *r.attachItems(t))
		}
	}
	return out, nil
}

// ── In-memory OrderRepository ────────────────────────────────────────────────

type fakeOrderRepo struct {
	orders map[uuid.UUID]*model.Order
	fail   int // number of ListActive calls to fail before succeeding
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (r *fakeOrderRepo) Create(_ context.Context, o *model.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = time.Now()
	r.orders[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok || o.TenantID != tenantID {
		return nil, errNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, tenantID, id uuid.UUID, from, to string) error {
	o, ok := r.orders[id]
	if !ok || o.TenantID != tenantID || o.Status != from {
		return repository.ErrStaleOrderStatus
	}
	o.Status = to
	return nil
}

func (r *fakeOrderRepo) ListActive(_ context.Context, tenantID uuid.UUID, filter dto.OrderFilter) ([]model.Order, error) {
	if r.fail > 0 {
		r.fail--
		return nil, errors.New("transient read failure")
	}
	var out []model.Order
	for _, o := range r.orders {
		if o.TenantID != tenantID {
			continue
		}
		if filter.Status != "" {
			if o.Status != filter.Status {
				continue
			}
		} else if o.Status == model.OrderDelivered || o.Status == model.OrderCancelled {
			continue
		}
		if filter.Modality != "" && o.Modality != filter.Modality {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

// ── Locker fake ──────────────────────────────────────────────────────────────

type fakeLocker struct {
	obtained []string
}

func (l *fakeLocker) Obtain(_ context.Context, key string, _ time.Duration) (func(), error) {
	l.obtained = append(l.obtained, key)
	return func() {}, nil
}
