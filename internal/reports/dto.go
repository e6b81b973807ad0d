package reports

import "time"

// Status filter values. "unpaid" covers both Unpaid and Partially Paid.
const (
	StatusFilterAll       = "all"
	StatusFilterPaid      = "paid"
	StatusFilterUnpaid    = "unpaid"
	StatusFilterCancelled = "cancelled"
)

// ClientFilterAll disables client filtering.
const ClientFilterAll = "all"

type GenerateReportRequest struct {
	DateFrom time.Time `json:"date_from" validate:"required"`
	DateTo   time.Time `json:"date_to" validate:"required"`
	// ClientID is "all" or a numeric client id.
	ClientID      string `json:"client_id" validate:"required"`
	ClientName    string `json:"client_name,omitempty"`
	InvoiceStatus string `json:"invoice_status" validate:"required,oneof=all paid unpaid cancelled"`
}
