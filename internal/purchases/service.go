package purchases

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/esculape1/bizbook/internal/billing"
	"github.com/esculape1/bizbook/internal/products"
	"github.com/esculape1/bizbook/internal/shared"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

type Auditor interface {
	Record(ctx context.Context, ev shared.AuditEvent) error
}

type CacheInvalidator interface {
	Bump(ctx context.Context) error
}

type Service struct {
	repo        Repository
	productRepo products.Repository
	auditor     Auditor
	invalidator CacheInvalidator
	validate    *validator.Validate
}

func NewService(repo Repository, productRepo products.Repository, auditor Auditor, invalidator CacheInvalidator) *Service {
	return &Service{
		repo:        repo,
		productRepo: productRepo,
		auditor:     auditor,
		invalidator: invalidator,
		validate:    validator.New(),
	}
}

func (s *Service) Create(ctx context.Context, req CreatePurchaseRequest) (*Purchase, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate purchase: %w", err)
	}

	ids := make([]int64, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}
	resolved, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}

	var total float64
	items := make([]PurchaseItem, 0, len(req.Items))
	for _, reqItem := range req.Items {
		product, ok := resolved[reqItem.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, reqItem.ProductID)
		}
		lineTotal := billing.LineTotal(reqItem.Quantity, reqItem.UnitCost)
		total += lineTotal
		items = append(items, PurchaseItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Reference:   product.Reference,
			Quantity:    reqItem.Quantity,
			UnitCost:    reqItem.UnitCost,
			Total:       lineTotal,
		})
	}

	purchase := Purchase{
		Supplier:    req.Supplier,
		Date:        req.Date,
		TotalAmount: total,
		Notes:       req.Notes,
		Items:       items,
	}

	created, err := s.repo.Create(ctx, purchase)
	if err != nil {
		return nil, fmt.Errorf("persist purchase: %w", err)
	}

	if s.auditor != nil {
		_ = s.auditor.Record(ctx, shared.AuditEvent{
			Actor:    shared.UserFromContext(ctx),
			Action:   "purchase.create",
			Entity:   "purchase",
			EntityID: created.PurchaseNumber,
			Meta:     map[string]any{"total_amount": created.TotalAmount},
		})
	}
	if s.invalidator != nil {
		_ = s.invalidator.Bump(ctx)
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Purchase, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListPurchasesRequest) ([]Purchase, int, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, 0, fmt.Errorf("validate listing: %w", err)
	}
	return s.repo.List(ctx, req)
}
