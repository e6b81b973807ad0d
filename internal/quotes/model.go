package quotes

import "time"

type QuoteStatus string

const (
	QuoteStatusDraft     QuoteStatus = "Draft"
	QuoteStatusSent      QuoteStatus = "Sent"
	QuoteStatusAccepted  QuoteStatus = "Accepted"
	QuoteStatusRejected  QuoteStatus = "Rejected"
	QuoteStatusConverted QuoteStatus = "Converted"
)

// Quote is a priced offer. It carries the same arithmetic as an invoice
// but never touches stock; stock moves only when the quote is converted.
type Quote struct {
	ID              int64       `json:"id" db:"id"`
	QuoteNumber     string      `json:"quote_number" db:"quote_number"`
	ClientID        int64       `json:"client_id" db:"client_id"`
	ClientName      string      `json:"client_name" db:"client_name"`
	Date            time.Time   `json:"date" db:"date"`
	ValidUntil      *time.Time  `json:"valid_until,omitempty" db:"valid_until"`
	Status          QuoteStatus `json:"status" db:"status"`
	SubTotal        float64     `json:"sub_total" db:"sub_total"`
	DiscountPercent float64     `json:"discount_percent" db:"discount_percent"`
	DiscountAmount  float64     `json:"discount_amount" db:"discount_amount"`
	VATPercent      float64     `json:"vat_percent" db:"vat_percent"`
	VATAmount       float64     `json:"vat_amount" db:"vat_amount"`
	RetenuePercent  float64     `json:"retenue_percent" db:"retenue_percent"`
	RetenueAmount   float64     `json:"retenue_amount" db:"retenue_amount"`
	TotalAmount     float64     `json:"total_amount" db:"total_amount"`
	NetAPayer       float64     `json:"net_a_payer" db:"net_a_payer"`
	InvoiceID       *int64      `json:"invoice_id,omitempty" db:"invoice_id"`
	Notes           *string     `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
	Items           []QuoteItem `json:"items,omitempty" db:"-"`
}

type QuoteItem struct {
	ID          int64   `json:"id" db:"id"`
	QuoteID     int64   `json:"quote_id" db:"quote_id"`
	ProductID   int64   `json:"product_id" db:"product_id"`
	ProductName string  `json:"product_name" db:"product_name"`
	Reference   string  `json:"reference" db:"reference"`
	Quantity    float64 `json:"quantity" db:"quantity"`
	UnitPrice   float64 `json:"unit_price" db:"unit_price"`
	Total       float64 `json:"total" db:"total"`
}
