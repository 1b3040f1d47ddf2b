package service

import (
	"context"
	"fmt"
	"time"

	"mesalivre/internal/apierror"
	"mesalivre/internal/dto"
	"mesalivre/internal/model"
	"mesalivre/internal/realtime"
	"mesalivre/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	Record(ctx context.Context, tenantID uuid.UUID, operatorName string, req dto.RecordSaleRequest) (*dto.SaleResponse, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*dto.SaleResponse, error)
	ListBySession(ctx context.Context, tenantID, sessionID uuid.UUID) ([]dto.SaleResponse, error)
}

type saleService struct {
	repo         repository.SaleRepository
	register     RegisterService
	registerRepo repository.RegisterRepository
	productRepo  repository.ProductRepository
	publisher    realtime.Publisher
}

func NewSaleService(
	repo repository.SaleRepository,
	register RegisterService,
	registerRepo repository.RegisterRepository,
	productRepo repository.ProductRepository,
	publisher realtime.Publisher,
) SaleService {
	return &saleService{
		repo:         repo,
		register:     register,
		registerRepo: registerRepo,
		productRepo:  productRepo,
		publisher:    publisher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Record ────────────────────────────────────────────────────────────────────
// Checkout flow:
//   1. Validate the register session is open
//   2. Resolve products, snapshot prices, compute subtotal / total
//   3. BEGIN TX: create sale + items, create the companion sale movement
//   4. COMMIT
// The movement carries the sale's payment method so the closing report can
// break revenue down per method by re-reading the ledger alone.

func (s *saleService) Record(ctx context.Context, tenantID uuid.UUID, operatorName string, req dto.RecordSaleRequest) (*dto.SaleResponse, error) {
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return nil, apierror.Validationf("invalid session_id")
	}
	if _, err := s.register.RequireOpen(ctx, tenantID, sessionID); err != nil {
		return nil, err
	}

	var tableID *uuid.UUID
	if req.TableID != nil {
		tid, err := uuid.Parse(*req.TableID)
		if err != nil {
			return nil, apierror.Validationf("invalid table_id")
		}
		tableID = &tid
	}

	// Resolve products and compute totals (pre-flight, outside TX).
	// Prices are snapshotted here; later catalog edits never touch the sale.
	type resolvedItem struct {
		productID uuid.UUID
		name      string
		price     decimal.Decimal
		quantity  int
		subtotal  decimal.Decimal
	}

	var resolved []resolvedItem
	subtotal := decimal.Zero
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, apierror.Validationf("invalid product_id")
		}
		p, err := s.productRepo.FindByID(ctx, tenantID, pid)
		if err != nil {
			return nil, apierror.ErrNotFound
		}
		if !p.Active {
			return nil, apierror.Validationf(fmt.Sprintf("product %s is inactive and cannot be sold", p.Name))
		}
		lineSubtotal := p.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineSubtotal)
		resolved = append(resolved, resolvedItem{
			productID: pid,
			name:      p.Name,
			price:     p.Price,
			quantity:  item.Quantity,
			subtotal:  lineSubtotal,
		})
	}

	if req.Discount.IsNegative() {
		return nil, apierror.Validationf("discount cannot be negative")
	}
	// The companion ledger movement must carry a positive amount, so the
	// discount can never consume the full subtotal.
	if req.Discount.GreaterThanOrEqual(subtotal) {
		return nil, apierror.Validationf("discount must leave a positive total")
	}
	total := subtotal.Sub(req.Discount)

	var sale model.Sale
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sale = model.Sale{
			TenantID:  tenantID,
			SessionID: sessionID,
			Subtotal:  subtotal,
			Discount:  req.Discount,
			Total:     total,
			Method:    req.Method,
			TableID:   tableID,
		}
		for _, r := range resolved {
			sale.Items = append(sale.Items, model.SaleItem{
				TenantID:    tenantID,
				ProductID:   r.productID,
				ProductName: r.name,
				UnitPrice:   r.price,
				Quantity:    r.quantity,
				Subtotal:    r.subtotal,
			})
		}
		if err := s.repo.Create(ctx, tx, &sale); err != nil {
			return err
		}

		method := req.Method
		mov := &model.CashMovement{
			TenantID:    tenantID,
			SessionID:   sessionID,
			Kind:        model.MovementSale,
			Method:      &method,
			Amount:      total,
			Reason:      fmt.Sprintf("Sale %s", sale.ID),
			Operator:    operatorName,
			ReferenceID: &sale.ID,
		}
		return s.registerRepo.CreateMovementTx(tx, mov)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := saleToResponse(&sale)
	s.publisher.Publish(ctx, tenantID, realtime.Event{Entity: "register", Action: "updated", Payload: resp})
	return resp, nil
}

func (s *saleService) Get(ctx context.Context, tenantID, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, apierror.ErrNotFound
	}
	return saleToResponse(sale), nil
}

func (s *saleService) ListBySession(ctx context.Context, tenantID, sessionID uuid.UUID) ([]dto.SaleResponse, error) {
	sales, err := s.repo.ListBySession(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		out = append(out, *saleToResponse(&sales[i]))
	}
	return out, nil
}

func saleToResponse(v *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, dto.SaleItemResponse{
			Product:   item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	var tableID *string
	if v.TableID != nil {
		t := v.TableID.String()
		tableID = &t
	}
	return &dto.SaleResponse{
		ID:        v.ID.String(),
		SessionID: v.SessionID.String(),
		Items:     items,
		Subtotal:  v.Subtotal,
		Discount:  v.Discount,
		Total:     v.Total,
		Method:    v.Method,
		TableID:   tableID,
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
	}
}
