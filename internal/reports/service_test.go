package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esculape1/bizbook/internal/expenses"
	"github.com/esculape1/bizbook/internal/invoices"
	"github.com/esculape1/bizbook/internal/products"
)

type staticInvoices []invoices.Invoice

func (s staticInvoices) All(ctx context.Context) ([]invoices.Invoice, error) { return s, nil }

type staticExpenses []expenses.Expense

func (s staticExpenses) All(ctx context.Context) ([]expenses.Expense, error) { return s, nil }

type staticProducts []products.Product

func (s staticProducts) All(ctx context.Context) ([]products.Product, error) { return s, nil }

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func rangeRequest(status string) GenerateReportRequest {
	return GenerateReportRequest{
		DateFrom:      day(1),
		DateTo:        day(30),
		ClientID:      ClientFilterAll,
		InvoiceStatus: status,
	}
}

func TestGenerateExcludesCancelledFromRevenue(t *testing.T) {
	inv := staticInvoices{
		{ID: 1, ClientID: 3, Date: day(5), Status: invoices.InvoiceStatusPartiallyPaid, TotalAmount: 1000, AmountPaid: 600},
		{ID: 2, ClientID: 3, Date: day(9), Status: invoices.InvoiceStatusCancelled, TotalAmount: 500},
	}
	svc := NewService(inv, staticExpenses{}, staticProducts{}, nil)

	report, err := svc.Generate(context.Background(), rangeRequest(StatusFilterAll))
	require.NoError(t, err)
	assert.InDelta(t, 600.0, report.Summary.TotalRevenue, 1e-9)
	assert.InDelta(t, 400.0, report.Summary.TotalUnpaid, 1e-9)
	assert.InDelta(t, 1000.0, report.Summary.GrossSales, 1e-9)
	assert.Len(t, report.Invoices, 2)
	assert.Len(t, report.UnpaidInvoices, 1)
}

func TestGenerateNetProfit(t *testing.T) {
	inv := staticInvoices{
		{ID: 1, ClientID: 3, Date: day(5), Status: invoices.InvoiceStatusPaid, TotalAmount: 1000, AmountPaid: 1000,
			Items: []invoices.InvoiceItem{{ProductID: 1, ProductName: "Compresses", Quantity: 10, UnitPrice: 100, Total: 1000}}},
	}
	prods := staticProducts{{ID: 1, Name: "Compresses", PurchasePrice: 15}}
	exps := staticExpenses{{ID: 1, Date: day(12), Description: "Carburant", Category: "transport", Amount: 100}}
	svc := NewService(inv, exps, prods, nil)

	report, err := svc.Generate(context.Background(), rangeRequest(StatusFilterAll))
	require.NoError(t, err)
	// grossSales 1000 − COGS 150 − expenses 100
	assert.InDelta(t, 150.0, report.Summary.CostOfGoodsSold, 1e-9)
	assert.InDelta(t, 100.0, report.Summary.TotalExpenses, 1e-9)
	assert.InDelta(t, 750.0, report.Summary.NetProfit, 1e-9)
}

func TestGenerateUnpaidFilter(t *testing.T) {
	inv := staticInvoices{
		{ID: 1, ClientID: 3, Date: day(2), Status: invoices.InvoiceStatusUnpaid, TotalAmount: 100},
		{ID: 2, ClientID: 3, Date: day(3), Status: invoices.InvoiceStatusPartiallyPaid, TotalAmount: 200, AmountPaid: 50},
		{ID: 3, ClientID: 3, Date: day(4), Status: invoices.InvoiceStatusPaid, TotalAmount: 300, AmountPaid: 300},
		{ID: 4, ClientID: 3, Date: day(5), Status: invoices.InvoiceStatusCancelled, TotalAmount: 400},
	}
	svc := NewService(inv, staticExpenses{}, staticProducts{}, nil)

	report, err := svc.Generate(context.Background(), rangeRequest(StatusFilterUnpaid))
	require.NoError(t, err)
	require.Len(t, report.Invoices, 2)
	ids := []int64{report.Invoices[0].ID, report.Invoices[1].ID}
	assert.ElementsMatch(t, []int64{1, 2}, ids)

	cancelled, err := svc.Generate(context.Background(), rangeRequest(StatusFilterCancelled))
	require.NoError(t, err)
	require.Len(t, cancelled.Invoices, 1)
	assert.Equal(t, int64(4), cancelled.Invoices[0].ID)
	assert.Zero(t, cancelled.Summary.GrossSales)
}

func TestGenerateFiltersByDateAndClient(t *testing.T) {
	inv := staticInvoices{
		{ID: 1, ClientID: 3, Date: day(2), Status: invoices.InvoiceStatusPaid, TotalAmount: 100, AmountPaid: 100},
		{ID: 2, ClientID: 4, Date: day(3), Status: invoices.InvoiceStatusPaid, TotalAmount: 200, AmountPaid: 200},
		{ID: 3, ClientID: 3, Date: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), Status: invoices.InvoiceStatusPaid, TotalAmount: 400, AmountPaid: 400},
	}
	svc := NewService(inv, staticExpenses{}, staticProducts{}, nil)

	req := rangeRequest(StatusFilterAll)
	req.ClientID = "3"
	report, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, report.Invoices, 1)
	assert.Equal(t, int64(1), report.Invoices[0].ID)
	assert.InDelta(t, 100.0, report.Summary.GrossSales, 1e-9)
}

func TestGenerateProductSalesSorted(t *testing.T) {
	inv := staticInvoices{
		{ID: 1, ClientID: 3, Date: day(2), Status: invoices.InvoiceStatusPaid, TotalAmount: 500, AmountPaid: 500,
			Items: []invoices.InvoiceItem{
				{ProductID: 1, ProductName: "Gants", Quantity: 2, Total: 50},
				{ProductID: 2, ProductName: "Seringues", Quantity: 9, Total: 450},
			}},
		{ID: 2, ClientID: 3, Date: day(3), Status: invoices.InvoiceStatusPaid, TotalAmount: 75, AmountPaid: 75,
			Items: []invoices.InvoiceItem{
				{ProductID: 1, ProductName: "Gants", Quantity: 3, Total: 75},
			}},
	}
	svc := NewService(inv, staticExpenses{}, staticProducts{}, nil)

	report, err := svc.Generate(context.Background(), rangeRequest(StatusFilterAll))
	require.NoError(t, err)
	require.Len(t, report.ProductSales, 2)
	assert.Equal(t, "Seringues", report.ProductSales[0].ProductName)
	assert.InDelta(t, 9.0, report.ProductSales[0].QuantitySold, 1e-9)
	assert.Equal(t, "Gants", report.ProductSales[1].ProductName)
	assert.InDelta(t, 5.0, report.ProductSales[1].QuantitySold, 1e-9)
	assert.InDelta(t, 125.0, report.ProductSales[1].TotalValue, 1e-9)
}

func TestGenerateRejectsBadInput(t *testing.T) {
	svc := NewService(staticInvoices{}, staticExpenses{}, staticProducts{}, nil)

	_, err := svc.Generate(context.Background(), GenerateReportRequest{
		DateFrom: day(10), DateTo: day(1), ClientID: ClientFilterAll, InvoiceStatus: StatusFilterAll,
	})
	require.ErrorIs(t, err, ErrInvalidRange)

	req := rangeRequest(StatusFilterAll)
	req.ClientID = "not-a-number"
	_, err = svc.Generate(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidClientFilter)
}
