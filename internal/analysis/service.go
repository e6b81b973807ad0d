package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/esculape1/bizbook/internal/reports"
	"github.com/esculape1/bizbook/internal/shared"
)

var (
	ErrDisabled = errors.New("analysis is disabled: no API key configured")
)

// Analyzer is implemented by Agent; split out so tests can stub the
// model call.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string) (*Analysis, error)
}

// ReportGenerator builds the snapshot the prompt is grounded on.
type ReportGenerator interface {
	Generate(ctx context.Context, req reports.GenerateReportRequest) (*reports.Report, error)
}

type Service struct {
	agent    Analyzer
	reports  ReportGenerator
	money    *shared.MoneyFormatter
	validate *validator.Validate
}

// NewService accepts a nil agent; Analyze then fails with ErrDisabled.
func NewService(agent Analyzer, reportSvc ReportGenerator, money *shared.MoneyFormatter) *Service {
	return &Service{
		agent:    agent,
		reports:  reportSvc,
		money:    money,
		validate: validator.New(),
	}
}

func (s *Service) Enabled() bool {
	return s.agent != nil
}

func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (*Analysis, error) {
	if s.agent == nil {
		return nil, ErrDisabled
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate analysis request: %w", err)
	}

	report, err := s.reports.Generate(ctx, reports.GenerateReportRequest{
		DateFrom:      req.DateFrom,
		DateTo:        req.DateTo,
		ClientID:      reports.ClientFilterAll,
		InvoiceStatus: reports.StatusFilterAll,
	})
	if err != nil {
		return nil, fmt.Errorf("build report for analysis: %w", err)
	}

	result, err := s.agent.Analyze(ctx, s.buildPrompt(req.Question, report))
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) buildPrompt(question string, report *reports.Report) string {
	var b strings.Builder
	b.WriteString("You are a financial advisor for a small trading business.\n")
	b.WriteString("Answer the owner's question using ONLY the figures below.\n")
	b.WriteString("Be specific and cite the numbers you rely on.\n\n")

	fmt.Fprintf(&b, "Period: %s to %s\n", report.DateFrom.Format("2006-01-02"), report.DateTo.Format("2006-01-02"))
	fmt.Fprintf(&b, "Total revenue (collected): %s\n", s.money.Format(report.Summary.TotalRevenue))
	fmt.Fprintf(&b, "Gross sales (invoiced): %s\n", s.money.Format(report.Summary.GrossSales))
	fmt.Fprintf(&b, "Outstanding receivables: %s\n", s.money.Format(report.Summary.TotalUnpaid))
	fmt.Fprintf(&b, "Expenses: %s\n", s.money.Format(report.Summary.TotalExpenses))
	fmt.Fprintf(&b, "Cost of goods sold: %s\n", s.money.Format(report.Summary.CostOfGoodsSold))
	fmt.Fprintf(&b, "Net profit: %s\n", s.money.Format(report.Summary.NetProfit))
	fmt.Fprintf(&b, "Invoices in period: %d (%d with an outstanding balance)\n", len(report.Invoices), len(report.UnpaidInvoices))

	if len(report.ProductSales) > 0 {
		b.WriteString("\nTop selling products:\n")
		top := report.ProductSales
		if len(top) > 5 {
			top = top[:5]
		}
		for _, sale := range top {
			fmt.Fprintf(&b, "- %s: %.0f sold, %s\n", sale.ProductName, sale.QuantitySold, s.money.Format(sale.TotalValue))
		}
	}

	fmt.Fprintf(&b, "\nQuestion: %s\n", question)
	return b.String()
}
