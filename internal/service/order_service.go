package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mesalivre/internal/apierror"
	"mesalivre/internal/dto"
	"mesalivre/internal/model"
	"mesalivre/internal/realtime"
	"mesalivre/internal/repository"
	"mesalivre/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type OrderService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	Advance(ctx context.Context, tenantID, orderID uuid.UUID, targetStatus string) (*dto.OrderResponse, error)
	ListActive(ctx context.Context, tenantID uuid.UUID, filter dto.OrderFilter) ([]dto.OrderResponse, error)
	Get(ctx context.Context, tenantID, orderID uuid.UUID) (*dto.OrderResponse, error)
}

type orderService struct {
	repo       repository.OrderRepository
	dispatcher *worker.Dispatcher
	publisher  realtime.Publisher
}

func NewOrderService(repo repository.OrderRepository, dispatcher *worker.Dispatcher, publisher realtime.Publisher) OrderService {
	return &orderService{repo: repo, dispatcher: dispatcher, publisher: publisher}
}

// ── Create ────────────────────────────────────────────────────────────────────
// Every order starts at pending regardless of modality.

func (s *orderService) Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	order := &model.Order{
		TenantID:      tenantID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		ItemsText:     req.ItemsText,
		Total:         req.Total,
		DeliveryFee:   req.DeliveryFee,
		Address:       req.Address,
		Method:        req.Method,
		Notes:         req.Notes,
		Status:        model.OrderPending,
		Modality:      req.Modality,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	resp := orderToResponse(order)
	s.publisher.Publish(ctx, tenantID, realtime.Event{Entity: "order", Action: "created", Payload: resp})
	return resp, nil
}

// ── Advance ───────────────────────────────────────────────────────────────────
// Forward-only progression; cancellation allowed from any non-terminal
// state. On success the customer gets a best-effort chat notification —
// a queue failure is logged, never propagated.

func (s *orderService) Advance(ctx context.Context, tenantID, orderID uuid.UUID, targetStatus string) (*dto.OrderResponse, error) {
	if !model.ValidOrderStatus(targetStatus) {
		return nil, apierror.Validationf("unknown status " + targetStatus)
	}

	order, err := s.repo.FindByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, apierror.ErrNotFound
	}
	if !model.CanTransition(order.Status, targetStatus) {
		return nil, fmt.Errorf("%w: %s → %s", apierror.ErrInvalidTransition, order.Status, targetStatus)
	}

	// Conditional write: if another terminal advanced the order after our
	// read, the update matches nothing and this transition loses cleanly.
	if err := s.repo.UpdateStatus(ctx, tenantID, orderID, order.Status, targetStatus); err != nil {
		if errors.Is(err, repository.ErrStaleOrderStatus) {
			return nil, fmt.Errorf("%w: %s → %s", apierror.ErrInvalidTransition, order.Status, targetStatus)
		}
		return nil, err
	}
	order.Status = targetStatus

	s.notifyCustomer(ctx, order)

	resp := orderToResponse(order)
	s.publisher.Publish(ctx, tenantID, realtime.Event{Entity: "order", Action: "updated", Payload: resp})
	return resp, nil
}

var statusMessages = map[string]string{
	model.OrderConfirmed:  "Your order was confirmed!",
	model.OrderPreparing:  "Your order is being prepared.",
	model.OrderDispatched: "Your order is on the way!",
	model.OrderDelivered:  "Your order was delivered. Enjoy!",
	model.OrderCancelled:  "Your order was cancelled.",
}

func (s *orderService) notifyCustomer(ctx context.Context, order *model.Order) {
	if s.dispatcher == nil {
		return
	}
	msg, ok := statusMessages[order.Status]
	if !ok {
		return
	}
	payload := worker.NotifyPayload{
		Phone:   order.CustomerPhone,
		Message: fmt.Sprintf("%s %s — order %s", order.CustomerName, msg, order.ID),
	}
	if err := s.dispatcher.EnqueueNotify(ctx, payload); err != nil {
		log.Warn().Err(err).Str("order_id", order.ID.String()).Msg("order: notification enqueue failed")
	}
}

// ── ListActive ────────────────────────────────────────────────────────────────
// Read-only projection. Transient read failures get one automatic retry;
// the read is idempotent so this is safe, unlike writes, which always
// surface to the caller for an explicit retry.

func (s *orderService) ListActive(ctx context.Context, tenantID uuid.UUID, filter dto.OrderFilter) ([]dto.OrderResponse, error) {
	orders, err := s.repo.ListActive(ctx, tenantID, filter)
	if err != nil {
		time.Sleep(100 * time.Millisecond)
		if orders, err = s.repo.ListActive(ctx, tenantID, filter); err != nil {
			return nil, err
		}
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, *orderToResponse(&orders[i]))
	}
	return out, nil
}

func (s *orderService) Get(ctx context.Context, tenantID, orderID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, apierror.ErrNotFound
	}
	return orderToResponse(order), nil
}

func orderToResponse(o *model.Order) *dto.OrderResponse {
	return &dto.OrderResponse{
		ID:            o.ID.String(),
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		ItemsText:     o.ItemsText,
		Total:         o.Total,
		DeliveryFee:   o.DeliveryFee,
		Address:       o.Address,
		Method:        o.Method,
		Notes:         o.Notes,
		Status:        o.Status,
		Modality:      o.Modality,
		CreatedAt:     o.CreatedAt.UTC().Format(time.RFC3339),
	}
}
