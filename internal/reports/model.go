package reports

import (
	"time"

	"github.com/esculape1/bizbook/internal/expenses"
	"github.com/esculape1/bizbook/internal/invoices"
)

// Report is a derived snapshot, recomputed per request and cached.
// Nothing in here is persisted.
type Report struct {
	DateFrom       time.Time          `json:"date_from"`
	DateTo         time.Time          `json:"date_to"`
	ClientID       string             `json:"client_id"`
	ClientName     string             `json:"client_name,omitempty"`
	InvoiceStatus  string             `json:"invoice_status"`
	Summary        Summary            `json:"summary"`
	ProductSales   []ProductSale      `json:"product_sales"`
	UnpaidInvoices []invoices.Invoice `json:"unpaid_invoices"`
	Invoices       []invoices.Invoice `json:"invoices"`
	Expenses       []expenses.Expense `json:"expenses"`
	GeneratedAt    time.Time          `json:"generated_at"`
}

type Summary struct {
	TotalRevenue    float64 `json:"total_revenue"`
	GrossSales      float64 `json:"gross_sales"`
	TotalUnpaid     float64 `json:"total_unpaid"`
	TotalExpenses   float64 `json:"total_expenses"`
	CostOfGoodsSold float64 `json:"cost_of_goods_sold"`
	NetProfit       float64 `json:"net_profit"`
}

type ProductSale struct {
	ProductID    int64   `json:"product_id"`
	ProductName  string  `json:"product_name"`
	Reference    string  `json:"reference"`
	QuantitySold float64 `json:"quantity_sold"`
	TotalValue   float64 `json:"total_value"`
}
