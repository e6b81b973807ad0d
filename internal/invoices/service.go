package invoices

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/esculape1/bizbook/internal/billing"
	"github.com/esculape1/bizbook/internal/clients"
	"github.com/esculape1/bizbook/internal/products"
	"github.com/esculape1/bizbook/internal/shared"
)

var (
	ErrClientNotFound  = errors.New("client not found")
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidStatus   = errors.New("invalid status transition")
)

// Auditor records audit events for invoice mutations.
type Auditor interface {
	Record(ctx context.Context, ev shared.AuditEvent) error
}

// CacheInvalidator bumps derived caches after invoice mutations.
type CacheInvalidator interface {
	Bump(ctx context.Context) error
}

type Service struct {
	repo        Repository
	clientRepo  clients.Repository
	productRepo products.Repository
	auditor     Auditor
	invalidator CacheInvalidator
	validate    *validator.Validate
}

func NewService(repo Repository, clientRepo clients.Repository, productRepo products.Repository, auditor Auditor, invalidator CacheInvalidator) *Service {
	return &Service{
		repo:        repo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		auditor:     auditor,
		invalidator: invalidator,
		validate:    validator.New(),
	}
}

func (s *Service) Create(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate invoice: %w", err)
	}

	client, err := s.clientRepo.Get(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, clients.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrClientNotFound, req.ClientID)
		}
		return nil, fmt.Errorf("verify client: %w", err)
	}

	ids := make([]int64, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}
	resolved, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}

	var subTotal float64
	items := make([]InvoiceItem, 0, len(req.Items))
	for _, reqItem := range req.Items {
		product, ok := resolved[reqItem.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, reqItem.ProductID)
		}
		unitPrice := product.UnitPrice
		if reqItem.UnitPrice != nil {
			unitPrice = *reqItem.UnitPrice
		}
		lineTotal := billing.LineTotal(reqItem.Quantity, unitPrice)
		subTotal += lineTotal
		items = append(items, InvoiceItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Reference:   product.Reference,
			Quantity:    reqItem.Quantity,
			UnitPrice:   unitPrice,
			Total:       lineTotal,
		})
	}

	totals := billing.Compute(subTotal, req.DiscountPercent, req.VATPercent, req.RetenuePercent)

	invoice := Invoice{
		ClientID:        client.ID,
		ClientName:      client.Name,
		Date:            req.Date,
		DueDate:         req.DueDate,
		Status:          InvoiceStatusUnpaid,
		SubTotal:        totals.SubTotal,
		DiscountPercent: totals.DiscountPercent,
		DiscountAmount:  totals.DiscountAmount,
		VATPercent:      totals.VATPercent,
		VATAmount:       totals.VATAmount,
		RetenuePercent:  totals.RetenuePercent,
		RetenueAmount:   totals.RetenueAmount,
		TotalAmount:     totals.TotalAmount,
		NetAPayer:       totals.NetAPayer,
		Notes:           req.Notes,
		Items:           items,
	}

	created, err := s.repo.Create(ctx, invoice)
	if err != nil {
		return nil, fmt.Errorf("persist invoice: %w", err)
	}

	s.afterMutation(ctx, "invoice.create", created.InvoiceNumber, map[string]any{
		"total_amount": created.TotalAmount,
		"net_a_payer":  created.NetAPayer,
	})
	return created, nil
}

func (s *Service) Cancel(ctx context.Context, id int64) (*Invoice, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch existing.Status {
	case InvoiceStatusPaid:
		return nil, fmt.Errorf("%w: paid invoices cannot be cancelled", ErrInvalidStatus)
	case InvoiceStatusCancelled:
		return nil, fmt.Errorf("%w: invoice is already cancelled", ErrInvalidStatus)
	}

	if err := s.repo.Cancel(ctx, id); err != nil {
		return nil, fmt.Errorf("cancel invoice: %w", err)
	}

	s.afterMutation(ctx, "invoice.cancel", existing.InvoiceNumber, nil)
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Invoice, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, 0, fmt.Errorf("validate listing: %w", err)
	}
	return s.repo.List(ctx, req)
}

func (s *Service) afterMutation(ctx context.Context, action, number string, meta map[string]any) {
	if s.auditor != nil {
		_ = s.auditor.Record(ctx, shared.AuditEvent{
			Actor:    shared.UserFromContext(ctx),
			Action:   action,
			Entity:   "invoice",
			EntityID: number,
			Meta:     meta,
		})
	}
	if s.invalidator != nil {
		_ = s.invalidator.Bump(ctx)
	}
}
