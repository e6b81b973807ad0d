package reports

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/esculape1/bizbook/internal/expenses"
	"github.com/esculape1/bizbook/internal/invoices"
	"github.com/esculape1/bizbook/internal/products"
)

var (
	ErrInvalidRange        = errors.New("date range is required")
	ErrInvalidClientFilter = errors.New("client filter must be \"all\" or a client id")
)

// InvoiceSource yields the full invoice collection with items.
type InvoiceSource interface {
	All(ctx context.Context) ([]invoices.Invoice, error)
}

type ExpenseSource interface {
	All(ctx context.Context) ([]expenses.Expense, error)
}

type ProductSource interface {
	All(ctx context.Context) ([]products.Product, error)
}

type Service struct {
	invoiceSrc InvoiceSource
	expenseSrc ExpenseSource
	productSrc ProductSource
	cache      *Cache
	validate   *validator.Validate
	now        func() time.Time
}

func NewService(invoiceSrc InvoiceSource, expenseSrc ExpenseSource, productSrc ProductSource, cache *Cache) *Service {
	return &Service{
		invoiceSrc: invoiceSrc,
		expenseSrc: expenseSrc,
		productSrc: productSrc,
		cache:      cache,
		validate:   validator.New(),
		now:        time.Now,
	}
}

// Generate computes the report, serving from cache when the current
// version holds a matching entry.
func (s *Service) Generate(ctx context.Context, req GenerateReportRequest) (*Report, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRange, err)
	}
	if req.DateTo.Before(req.DateFrom) {
		return nil, fmt.Errorf("%w: to precedes from", ErrInvalidRange)
	}

	var clientID *int64
	if req.ClientID != ClientFilterAll {
		id, err := strconv.ParseInt(req.ClientID, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidClientFilter, req.ClientID)
		}
		clientID = &id
	}

	key, err := s.cache.BuildKey(ctx, reportKey(req)...)
	if err != nil {
		return nil, fmt.Errorf("build cache key: %w", err)
	}

	var report Report
	err = s.cache.FetchJSON(ctx, key, &report, func(ctx context.Context) (interface{}, error) {
		return s.build(ctx, req, clientID)
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *Service) build(ctx context.Context, req GenerateReportRequest, clientID *int64) (*Report, error) {
	var (
		allInvoices []invoices.Invoice
		allExpenses []expenses.Expense
		allProducts []products.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		allInvoices, err = s.invoiceSrc.All(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		allExpenses, err = s.expenseSrc.All(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		allProducts, err = s.productSrc.All(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch report data: %w", err)
	}

	purchasePrices := make(map[int64]float64, len(allProducts))
	for _, p := range allProducts {
		purchasePrices[p.ID] = p.PurchasePrice
	}

	filtered := make([]invoices.Invoice, 0)
	for _, inv := range allInvoices {
		if !inRange(inv.Date, req.DateFrom, req.DateTo) {
			continue
		}
		if clientID != nil && inv.ClientID != *clientID {
			continue
		}
		if !statusMatches(req.InvoiceStatus, inv.Status) {
			continue
		}
		filtered = append(filtered, inv)
	}

	filteredExpenses := make([]expenses.Expense, 0)
	for _, e := range allExpenses {
		if inRange(e.Date, req.DateFrom, req.DateTo) {
			filteredExpenses = append(filteredExpenses, e)
		}
	}

	var summary Summary
	salesByProduct := make(map[int64]*ProductSale)
	unpaid := make([]invoices.Invoice, 0)
	for _, inv := range filtered {
		if !inv.Active() {
			continue
		}
		summary.TotalRevenue += inv.AmountPaid
		summary.GrossSales += inv.TotalAmount
		summary.TotalUnpaid += inv.Outstanding()
		if inv.Outstanding() > 0 {
			unpaid = append(unpaid, inv)
		}
		for _, item := range inv.Items {
			sale, ok := salesByProduct[item.ProductID]
			if !ok {
				sale = &ProductSale{ProductID: item.ProductID, ProductName: item.ProductName, Reference: item.Reference}
				salesByProduct[item.ProductID] = sale
			}
			sale.QuantitySold += item.Quantity
			sale.TotalValue += item.Total
			// COGS uses the current purchase price, not the cost at
			// sale time.
			summary.CostOfGoodsSold += purchasePrices[item.ProductID] * item.Quantity
		}
	}
	for _, e := range filteredExpenses {
		summary.TotalExpenses += e.Amount
	}
	summary.NetProfit = summary.GrossSales - summary.CostOfGoodsSold - summary.TotalExpenses

	productSales := make([]ProductSale, 0, len(salesByProduct))
	for _, sale := range salesByProduct {
		productSales = append(productSales, *sale)
	}
	sort.Slice(productSales, func(i, j int) bool {
		if productSales[i].QuantitySold != productSales[j].QuantitySold {
			return productSales[i].QuantitySold > productSales[j].QuantitySold
		}
		return productSales[i].ProductID < productSales[j].ProductID
	})

	return &Report{
		DateFrom:       req.DateFrom,
		DateTo:         req.DateTo,
		ClientID:       req.ClientID,
		ClientName:     req.ClientName,
		InvoiceStatus:  req.InvoiceStatus,
		Summary:        summary,
		ProductSales:   productSales,
		UnpaidInvoices: unpaid,
		Invoices:       filtered,
		Expenses:       filteredExpenses,
		GeneratedAt:    s.now().UTC(),
	}, nil
}

func inRange(date, from, to time.Time) bool {
	return !date.Before(from) && !date.After(to)
}

func statusMatches(filter string, status invoices.InvoiceStatus) bool {
	switch filter {
	case StatusFilterAll:
		return true
	case StatusFilterPaid:
		return status == invoices.InvoiceStatusPaid
	case StatusFilterUnpaid:
		return status == invoices.InvoiceStatusUnpaid || status == invoices.InvoiceStatusPartiallyPaid
	case StatusFilterCancelled:
		return status == invoices.InvoiceStatusCancelled
	default:
		return false
	}
}
