package quotes

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/esculape1/bizbook/internal/billing"
	"github.com/esculape1/bizbook/internal/clients"
	"github.com/esculape1/bizbook/internal/invoices"
	"github.com/esculape1/bizbook/internal/products"
	"github.com/esculape1/bizbook/internal/shared"
)

var (
	ErrClientNotFound  = errors.New("client not found")
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidStatus   = errors.New("invalid status transition")
)

// InvoiceCreator builds the invoice a converted quote turns into.
type InvoiceCreator interface {
	Create(ctx context.Context, req invoices.CreateInvoiceRequest) (*invoices.Invoice, error)
}

type Auditor interface {
	Record(ctx context.Context, ev shared.AuditEvent) error
}

type Service struct {
	repo        Repository
	clientRepo  clients.Repository
	productRepo products.Repository
	invoiceSvc  InvoiceCreator
	auditor     Auditor
	validate    *validator.Validate
}

func NewService(repo Repository, clientRepo clients.Repository, productRepo products.Repository, invoiceSvc InvoiceCreator, auditor Auditor) *Service {
	return &Service{
		repo:        repo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		invoiceSvc:  invoiceSvc,
		auditor:     auditor,
		validate:    validator.New(),
	}
}

func (s *Service) Create(ctx context.Context, req CreateQuoteRequest) (*Quote, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate quote: %w", err)
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
	items := make([]QuoteItem, 0, len(req.Items))
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
		items = append(items, QuoteItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Reference:   product.Reference,
			Quantity:    reqItem.Quantity,
			UnitPrice:   unitPrice,
			Total:       lineTotal,
		})
	}

	totals := billing.Compute(subTotal, req.DiscountPercent, req.VATPercent, req.RetenuePercent)

	quote := Quote{
		ClientID:        client.ID,
		ClientName:      client.Name,
		Date:            req.Date,
		ValidUntil:      req.ValidUntil,
		Status:          QuoteStatusDraft,
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

	created, err := s.repo.Create(ctx, quote)
	if err != nil {
		return nil, fmt.Errorf("persist quote: %w", err)
	}

	s.audit(ctx, "quote.create", created.QuoteNumber, map[string]any{"total_amount": created.TotalAmount})
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Quote, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListQuotesRequest) ([]Quote, int, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, 0, fmt.Errorf("validate listing: %w", err)
	}
	return s.repo.List(ctx, req)
}

// UpdateStatus moves a quote between the manual states. Converted is
// reserved for Convert and is never reachable here.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req UpdateQuoteStatusRequest) (*Quote, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate status: %w", err)
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == QuoteStatusConverted {
		return nil, fmt.Errorf("%w: converted quotes are frozen", ErrInvalidStatus)
	}
	if err := s.repo.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, fmt.Errorf("update quote status: %w", err)
	}
	s.audit(ctx, "quote.status", existing.QuoteNumber, map[string]any{"status": req.Status})
	return s.repo.Get(ctx, id)
}

// Convert turns the quote into an invoice, reusing the quoted prices as
// line overrides so the invoice reproduces the quote even when catalog
// prices moved since. Converting twice is a conflict. The quote is
// claimed before the invoice is created, so the loser of a concurrent
// conversion bails out without touching stock; if invoice creation
// fails the claim is released and the quote keeps its prior status.
func (s *Service) Convert(ctx context.Context, id int64) (*invoices.Invoice, error) {
	quote, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote.Status == QuoteStatusConverted {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyConverted, quote.QuoteNumber)
	}
	if err := s.repo.Claim(ctx, quote.ID); err != nil {
		return nil, err
	}

	req := invoices.CreateInvoiceRequest{
		ClientID:        quote.ClientID,
		Date:            quote.Date,
		DiscountPercent: quote.DiscountPercent,
		VATPercent:      quote.VATPercent,
		RetenuePercent:  quote.RetenuePercent,
		Notes:           quote.Notes,
	}
	for _, item := range quote.Items {
		price := item.UnitPrice
		req.Items = append(req.Items, invoices.CreateInvoiceItemReq{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: &price,
		})
	}

	invoice, err := s.invoiceSvc.Create(ctx, req)
	if err != nil {
		_ = s.repo.UpdateStatus(ctx, quote.ID, quote.Status)
		return nil, fmt.Errorf("convert quote %s: %w", quote.QuoteNumber, err)
	}

	if err := s.repo.LinkInvoice(ctx, quote.ID, invoice.ID); err != nil {
		return nil, err
	}

	s.audit(ctx, "quote.convert", quote.QuoteNumber, map[string]any{"invoice_number": invoice.InvoiceNumber})
	return invoice, nil
}

func (s *Service) audit(ctx context.Context, action, number string, meta map[string]any) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Record(ctx, shared.AuditEvent{
		Actor:    shared.UserFromContext(ctx),
		Action:   action,
		Entity:   "quote",
		EntityID: number,
		Meta:     meta,
	})
}
