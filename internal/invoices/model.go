package invoices

import "time"

type InvoiceStatus string

const (
	InvoiceStatusUnpaid        InvoiceStatus = "Unpaid"
	InvoiceStatusPartiallyPaid InvoiceStatus = "Partially Paid"
	InvoiceStatusPaid          InvoiceStatus = "Paid"
	InvoiceStatusCancelled     InvoiceStatus = "Cancelled"
)

// Invoice is a sales invoice. Stock is decremented when the invoice is
// created and restored when it is cancelled.
type Invoice struct {
	ID              int64         `json:"id" db:"id"`
	InvoiceNumber   string        `json:"invoice_number" db:"invoice_number"`
	ClientID        int64         `json:"client_id" db:"client_id"`
	ClientName      string        `json:"client_name" db:"client_name"`
	Date            time.Time     `json:"date" db:"date"`
	DueDate         *time.Time    `json:"due_date,omitempty" db:"due_date"`
	Status          InvoiceStatus `json:"status" db:"status"`
	SubTotal        float64       `json:"sub_total" db:"sub_total"`
	DiscountPercent float64       `json:"discount_percent" db:"discount_percent"`
	DiscountAmount  float64       `json:"discount_amount" db:"discount_amount"`
	VATPercent      float64       `json:"vat_percent" db:"vat_percent"`
	VATAmount       float64       `json:"vat_amount" db:"vat_amount"`
	RetenuePercent  float64       `json:"retenue_percent" db:"retenue_percent"`
	RetenueAmount   float64       `json:"retenue_amount" db:"retenue_amount"`
	TotalAmount     float64       `json:"total_amount" db:"total_amount"`
	NetAPayer       float64       `json:"net_a_payer" db:"net_a_payer"`
	AmountPaid      float64       `json:"amount_paid" db:"amount_paid"`
	Notes           *string       `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
	Items           []InvoiceItem `json:"items,omitempty" db:"-"`
}

// InvoiceItem captures the product snapshot at invoicing time.
type InvoiceItem struct {
	ID          int64   `json:"id" db:"id"`
	InvoiceID   int64   `json:"invoice_id" db:"invoice_id"`
	ProductID   int64   `json:"product_id" db:"product_id"`
	ProductName string  `json:"product_name" db:"product_name"`
	Reference   string  `json:"reference" db:"reference"`
	Quantity    float64 `json:"quantity" db:"quantity"`
	UnitPrice   float64 `json:"unit_price" db:"unit_price"`
	Total       float64 `json:"total" db:"total"`
}

// Outstanding returns the unpaid balance.
func (i Invoice) Outstanding() float64 {
	return i.TotalAmount - i.AmountPaid
}

// Active reports whether the invoice participates in revenue math.
func (i Invoice) Active() bool {
	return i.Status != InvoiceStatusCancelled
}
