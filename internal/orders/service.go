package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/esculape1/bizbook/internal/clients"
	"github.com/esculape1/bizbook/internal/products"
	"github.com/esculape1/bizbook/internal/shared"
)

var (
	ErrClientNotFound  = errors.New("client not found")
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidStatus   = errors.New("invalid status transition")
)

// Auditor records audit events for order mutations.
type Auditor interface {
	Record(ctx context.Context, ev shared.AuditEvent) error
}

type Service struct {
	repo        Repository
	clientRepo  clients.Repository
	productRepo products.Repository
	auditor     Auditor
	validate    *validator.Validate
	now         func() time.Time
}

func NewService(repo Repository, clientRepo clients.Repository, productRepo products.Repository, auditor Auditor) *Service {
	return &Service{
		repo:        repo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		auditor:     auditor,
		validate:    validator.New(),
		now:         time.Now,
	}
}

// Submit validates and persists a client order. The order number is
// allocated atomically inside the same transaction as the insert, so a
// failure at any step leaves no partial record behind.
func (s *Service) Submit(ctx context.Context, req SubmitOrderRequest) (*Order, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate order: %w", err)
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

	var totalAmount float64
	items := make([]OrderItem, 0, len(req.Items))
	for _, reqItem := range req.Items {
		product, ok := resolved[reqItem.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, reqItem.ProductID)
		}
		itemTotal := product.UnitPrice * float64(reqItem.Quantity)
		totalAmount += itemTotal
		items = append(items, OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Reference:   product.Reference,
			Quantity:    reqItem.Quantity,
			UnitPrice:   product.UnitPrice,
			Total:       itemTotal,
		})
	}

	order := Order{
		ClientID:    client.ID,
		ClientName:  client.Name,
		Status:      OrderStatusPending,
		TotalAmount: totalAmount,
		OrderDate:   s.now().UTC(),
		Items:       items,
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	if s.auditor != nil {
		_ = s.auditor.Record(ctx, shared.AuditEvent{
			Actor:    shared.UserFromContext(ctx),
			Action:   "order.submit",
			Entity:   "order",
			EntityID: created.OrderNumber,
			Meta:     map[string]any{"total_amount": created.TotalAmount, "items": len(created.Items)},
		})
	}
	return created, nil
}

func (s *Service) Complete(ctx context.Context, id int64) (*Order, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status != OrderStatusPending {
		return nil, fmt.Errorf("%w: only pending orders can be completed", ErrInvalidStatus)
	}
	if err := s.repo.UpdateStatus(ctx, id, OrderStatusCompleted); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Cancel(ctx context.Context, id int64) (*Order, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status != OrderStatusPending {
		return nil, fmt.Errorf("%w: only pending orders can be cancelled", ErrInvalidStatus)
	}
	if err := s.repo.UpdateStatus(ctx, id, OrderStatusCancelled); err != nil {
		return nil, err
	}
	if s.auditor != nil {
		_ = s.auditor.Record(ctx, shared.AuditEvent{
			Actor:    shared.UserFromContext(ctx),
			Action:   "order.cancel",
			Entity:   "order",
			EntityID: existing.OrderNumber,
		})
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListOrdersRequest) ([]Order, int, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, 0, fmt.Errorf("validate listing: %w", err)
	}
	return s.repo.List(ctx, req)
}
