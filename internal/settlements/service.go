package settlements

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/esculape1/bizbook/internal/shared"
)

type Auditor interface {
	Record(ctx context.Context, ev shared.AuditEvent) error
}

type CacheInvalidator interface {
	Bump(ctx context.Context) error
}

type Service struct {
	repo        Repository
	auditor     Auditor
	invalidator CacheInvalidator
	validate    *validator.Validate
}

func NewService(repo Repository, auditor Auditor, invalidator CacheInvalidator) *Service {
	return &Service{
		repo:        repo,
		auditor:     auditor,
		invalidator: invalidator,
		validate:    validator.New(),
	}
}

func (s *Service) Create(ctx context.Context, req CreateSettlementRequest) (*Settlement, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate settlement: %w", err)
	}

	created, err := s.repo.Create(ctx, Settlement{
		InvoiceID: req.InvoiceID,
		Amount:    req.Amount,
		Method:    req.Method,
		Date:      req.Date,
		Notes:     req.Notes,
	})
	if err != nil {
		return nil, err
	}

	if s.auditor != nil {
		_ = s.auditor.Record(ctx, shared.AuditEvent{
			Actor:    shared.UserFromContext(ctx),
			Action:   "settlement.create",
			Entity:   "settlement",
			EntityID: created.InvoiceNumber,
			Meta:     map[string]any{"amount": created.Amount, "method": created.Method},
		})
	}
	if s.invalidator != nil {
		_ = s.invalidator.Bump(ctx)
	}
	return created, nil
}

func (s *Service) ListByInvoice(ctx context.Context, invoiceID int64) ([]Settlement, error) {
	return s.repo.ListByInvoice(ctx, invoiceID)
}
