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
	"mesalivre/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type RegisterService interface {
	Open(ctx context.Context, tenantID, operatorID uuid.UUID, operatorName string, req dto.OpenRegisterRequest) (*dto.RegisterSessionResponse, error)
	RecordMovement(ctx context.Context, tenantID uuid.UUID, operatorName string, req dto.CashMovementRequest) (*dto.CashMovementResponse, error)
	BuildReport(ctx context.Context, tenantID, sessionID uuid.UUID) (*dto.RegisterReport, error)
	Close(ctx context.Context, tenantID, sessionID uuid.UUID) (*dto.RegisterReport, error)
	History(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]dto.RegisterSessionResponse, int64, error)
	// RequireOpen is called by SaleService to validate the target session.
	RequireOpen(ctx context.Context, tenantID, sessionID uuid.UUID) (*model.RegisterSession, error)
}

// ReportRenderer renders a closing report to a PDF file. Satisfied by
// infra.PDFRenderer; nil-able in tests.
type ReportRenderer interface {
	RenderRegisterReport(report dto.RegisterReport) (string, error)
}

type registerService struct {
	repo       repository.RegisterRepository
	tenantRepo repository.TenantRepository
	dispatcher *worker.Dispatcher
	renderer   ReportRenderer
	publisher  realtime.Publisher
}

func NewRegisterService(
	repo repository.RegisterRepository,
	tenantRepo repository.TenantRepository,
	dispatcher *worker.Dispatcher,
	renderer ReportRenderer,
	publisher realtime.Publisher,
) RegisterService {
	return &registerService{
		repo:       repo,
		tenantRepo: tenantRepo,
		dispatcher: dispatcher,
		renderer:   renderer,
		publisher:  publisher,
	}
}

// ── Open ──────────────────────────────────────────────────────────────────────

func (s *registerService) Open(ctx context.Context, tenantID, operatorID uuid.UUID, operatorName string, req dto.OpenRegisterRequest) (*dto.RegisterSessionResponse, error) {
	// Guard: no duplicate open session per terminal. The partial unique
	// index is the backstop for two terminals racing past this check.
	if existing, err := s.repo.FindOpenByTerminal(ctx, tenantID, req.Terminal); err == nil && existing != nil && existing.ID != uuid.Nil {
		return nil, apierror.Validationf(fmt.Sprintf("terminal %d already has an open register session", req.Terminal))
	}

	session := &model.RegisterSession{
		TenantID:     tenantID,
		Terminal:     req.Terminal,
		OperatorID:   operatorID,
		OperatorName: operatorName,
		OpeningFloat: req.OpeningFloat,
		Status:       "open",
		OpenedAt:     time.Now().UTC(),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	resp := sessionToResponse(session)
	s.publisher.Publish(ctx, tenantID, realtime.Event{Entity: "register", Action: "created", Payload: resp})
	return resp, nil
}

// ── RecordMovement ────────────────────────────────────────────────────────────
// Sangria / suprimento. Movements are immutable — no Update/Delete exists.

func (s *registerService) RecordMovement(ctx context.Context, tenantID uuid.UUID, operatorName string, req dto.CashMovementRequest) (*dto.CashMovementResponse, error) {
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return nil, apierror.Validationf("invalid session_id")
	}
	if !req.Amount.IsPositive() {
		return nil, apierror.Validationf("amount must be greater than zero")
	}
	if _, err := s.RequireOpen(ctx, tenantID, sessionID); err != nil {
		return nil, err
	}

	mov := &model.CashMovement{
		TenantID:  tenantID,
		SessionID: sessionID,
		Kind:      req.Kind,
		Amount:    req.Amount,
		Reason:    req.Reason,
		Operator:  operatorName,
	}
	if err := s.repo.CreateMovement(ctx, mov); err != nil {
		return nil, err
	}

	return &dto.CashMovementResponse{
		ID:        mov.ID.String(),
		SessionID: sessionID.String(),
		Kind:      mov.Kind,
		Amount:    mov.Amount,
		Reason:    mov.Reason,
		Operator:  mov.Operator,
		CreatedAt: mov.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}

// ── BuildReport ───────────────────────────────────────────────────────────────
// Pure aggregation: every call re-reads the movement ledger instead of
// keeping a running counter. Slower, but cannot drift — and it makes report
// regeneration idempotent by construction.

func (s *registerService) BuildReport(ctx context.Context, tenantID, sessionID uuid.UUID) (*dto.RegisterReport, error) {
	session, err := s.repo.FindSessionByID(ctx, tenantID, sessionID)
	if err != nil {
		return nil, apierror.ErrNotFound
	}
	return s.buildReport(ctx, session)
}

func (s *registerService) buildReport(ctx context.Context, session *model.RegisterSession) (*dto.RegisterReport, error) {
	movements, err := s.repo.ListMovements(ctx, session.TenantID, session.ID)
	if err != nil {
		return nil, err
	}

	sales := dto.TotalsByMethod{}
	sangrias := decimal.Zero
	suprimentos := decimal.Zero
	saleCount := 0

	for _, m := range movements {
		switch m.Kind {
		case model.MovementSale:
			saleCount++
			method := ""
			if m.Method != nil {
				method = *m.Method
			}
			switch method {
			case model.PaymentCash:
				sales.Cash = sales.Cash.Add(m.Amount)
			case model.PaymentDebit:
				sales.Debit = sales.Debit.Add(m.Amount)
			case model.PaymentCredit:
				sales.Credit = sales.Credit.Add(m.Amount)
			case model.PaymentPix:
				sales.Pix = sales.Pix.Add(m.Amount)
			}
		case model.MovementSangria:
			sangrias = sangrias.Add(m.Amount)
		case model.MovementSuprimento:
			suprimentos = suprimentos.Add(m.Amount)
		}
	}
	sales.Total = sales.Cash.Add(sales.Debit).Add(sales.Credit).Add(sales.Pix)

	report := &dto.RegisterReport{
		SessionID:    session.ID.String(),
		Terminal:     session.Terminal,
		Operator:     session.OperatorName,
		Status:       session.Status,
		OpeningFloat: session.OpeningFloat,
		Sales:        sales,
		SaleCount:    saleCount,
		Sangrias:     sangrias,
		Suprimentos:  suprimentos,
		CashInDrawer: session.OpeningFloat.Add(sales.Cash).Sub(sangrias).Add(suprimentos),
		OpenedAt:     session.OpenedAt.UTC().Format(time.RFC3339),
	}
	if session.ClosedAt != nil {
		t := session.ClosedAt.UTC().Format(time.RFC3339)
		report.ClosedAt = &t
	}
	return report, nil
}

// ── Close ─────────────────────────────────────────────────────────────────────
// Freezes the computed cash-in-drawer as the closing float, then mails the
// report to the tenant owner. The email is fire-and-forget: a queue failure
// is logged and never blocks the close.

func (s *registerService) Close(ctx context.Context, tenantID, sessionID uuid.UUID) (*dto.RegisterReport, error) {
	session, err := s.repo.FindSessionByID(ctx, tenantID, sessionID)
	if err != nil {
		return nil, apierror.ErrNotFound
	}
	if session.Status != "open" {
		return nil, apierror.ErrAlreadyClosed
	}

	report, err := s.buildReport(ctx, session)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	closing := report.CashInDrawer
	session.ClosingFloat = &closing
	session.Status = "closed"
	session.ClosedAt = &now
	if err := s.repo.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	report.Status = session.Status
	closedAt := now.Format(time.RFC3339)
	report.ClosedAt = &closedAt

	s.mailReport(ctx, tenantID, report)
	s.publisher.Publish(ctx, tenantID, realtime.Event{Entity: "register", Action: "closed", Payload: report})
	return report, nil
}

func (s *registerService) mailReport(ctx context.Context, tenantID uuid.UUID, report *dto.RegisterReport) {
	if s.dispatcher == nil {
		return
	}
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		log.Warn().Err(err).Str("session_id", report.SessionID).Msg("register: tenant lookup for report mail failed")
		return
	}

	pdfPath := ""
	if s.renderer != nil {
		if pdfPath, err = s.renderer.RenderRegisterReport(*report); err != nil {
			log.Warn().Err(err).Str("session_id", report.SessionID).Msg("register: report PDF render failed")
			pdfPath = ""
		}
	}

	payload := worker.EmailPayload{
		To:      tenant.OwnerEmail,
		Subject: fmt.Sprintf("Register closed — terminal %d", report.Terminal),
		Body:    fmt.Sprintf("Cash in drawer: %s. %d sales recorded.", report.CashInDrawer.StringFixed(2), report.SaleCount),
		PDFPath: pdfPath,
	}
	if err := s.dispatcher.EnqueueEmail(ctx, payload); err != nil {
		log.Warn().Err(err).Str("session_id", report.SessionID).Msg("register: report mail enqueue failed")
	}
}

// ── History ───────────────────────────────────────────────────────────────────

func (s *registerService) History(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]dto.RegisterSessionResponse, int64, error) {
	sessions, total, err := s.repo.ListSessions(ctx, tenantID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.RegisterSessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, *sessionToResponse(&sessions[i]))
	}
	return out, total, nil
}

// ── RequireOpen ───────────────────────────────────────────────────────────────

func (s *registerService) RequireOpen(ctx context.Context, tenantID, sessionID uuid.UUID) (*model.RegisterSession, error) {
	session, err := s.repo.FindSessionByID(ctx, tenantID, sessionID)
	if err != nil {
		return nil, apierror.ErrNotFound
	}
	if session.Status != "open" {
		return nil, apierror.ErrNotOpen
	}
	return session, nil
}

func sessionToResponse(s *model.RegisterSession) *dto.RegisterSessionResponse {
	resp := &dto.RegisterSessionResponse{
		ID:           s.ID.String(),
		Terminal:     s.Terminal,
		Operator:     s.OperatorName,
		Status:       s.Status,
		OpeningFloat: s.OpeningFloat,
		ClosingFloat: s.ClosingFloat,
		OpenedAt:     s.OpenedAt.UTC().Format(time.RFC3339),
	}
	if s.ClosedAt != nil {
		t := s.ClosedAt.UTC().Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}
