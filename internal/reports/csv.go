package reports

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/esculape1/bizbook/internal/shared"
)

// WriteCSV serialises the report summary and product sales for export.
func WriteCSV(w io.Writer, report *Report, money *shared.MoneyFormatter) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Metric", "Value"}); err != nil {
		return err
	}
	records := [][]string{
		{"Period", report.DateFrom.Format("2006-01-02") + " / " + report.DateTo.Format("2006-01-02")},
		{"Total Revenue", money.Format(report.Summary.TotalRevenue)},
		{"Gross Sales", money.Format(report.Summary.GrossSales)},
		{"Total Unpaid", money.Format(report.Summary.TotalUnpaid)},
		{"Total Expenses", money.Format(report.Summary.TotalExpenses)},
		{"Cost of Goods Sold", money.Format(report.Summary.CostOfGoodsSold)},
		{"Net Profit", money.Format(report.Summary.NetProfit)},
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	if err := writer.Write(nil); err != nil {
		return err
	}
	if err := writer.Write([]string{"Product", "Reference", "Quantity Sold", "Total Value"}); err != nil {
		return err
	}
	for _, sale := range report.ProductSales {
		if err := writer.Write([]string{
			sale.ProductName,
			sale.Reference,
			strconv.FormatFloat(sale.QuantitySold, 'f', -1, 64),
			money.Format(sale.TotalValue),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
