package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esculape1/bizbook/internal/reports"
	"github.com/esculape1/bizbook/internal/shared"
)

type stubAnalyzer struct {
	prompt string
	result *Analysis
}

func (s *stubAnalyzer) Analyze(ctx context.Context, prompt string) (*Analysis, error) {
	s.prompt = prompt
	return s.result, nil
}

type stubReports struct {
	report *reports.Report
}

func (s *stubReports) Generate(ctx context.Context, req reports.GenerateReportRequest) (*reports.Report, error) {
	return s.report, nil
}

func analysisRange() (time.Time, time.Time) {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
}

func TestAnalyzeDisabledWithoutAgent(t *testing.T) {
	svc := NewService(nil, &stubReports{}, shared.NewMoneyFormatter("fr", "XOF"))
	from, to := analysisRange()

	_, err := svc.Analyze(context.Background(), AnalyzeRequest{Question: "Comment vont les ventes ?", DateFrom: from, DateTo: to})
	require.ErrorIs(t, err, ErrDisabled)
	assert.False(t, svc.Enabled())
}

func TestAnalyzePromptCarriesFigures(t *testing.T) {
	from, to := analysisRange()
	agent := &stubAnalyzer{result: &Analysis{Summary: "ok"}}
	reportSvc := &stubReports{report: &reports.Report{
		DateFrom: from,
		DateTo:   to,
		Summary: reports.Summary{
			TotalRevenue: 600,
			GrossSales:   1000,
			TotalUnpaid:  400,
			NetProfit:    750,
		},
		ProductSales: []reports.ProductSale{{ProductName: "Seringues", QuantitySold: 9, TotalValue: 450}},
	}}
	svc := NewService(agent, reportSvc, shared.NewMoneyFormatter("fr", "XOF"))

	result, err := svc.Analyze(context.Background(), AnalyzeRequest{
		Question: "Quels produits marchent le mieux ?",
		DateFrom: from,
		DateTo:   to,
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Summary)

	assert.Contains(t, agent.prompt, "Quels produits marchent le mieux ?")
	assert.Contains(t, agent.prompt, "Seringues")
	assert.Contains(t, agent.prompt, "XOF")
	assert.Contains(t, agent.prompt, "2025-01-01")
}

func TestAnalyzeValidatesQuestion(t *testing.T) {
	from, to := analysisRange()
	svc := NewService(&stubAnalyzer{result: &Analysis{}}, &stubReports{report: &reports.Report{}}, shared.NewMoneyFormatter("fr", "XOF"))

	_, err := svc.Analyze(context.Background(), AnalyzeRequest{Question: "", DateFrom: from, DateTo: to})
	require.Error(t, err)
}
