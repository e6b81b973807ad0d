package settlements

import "time"

// Settlement is a payment applied to an invoice.
type Settlement struct {
	ID            int64     `json:"id" db:"id"`
	InvoiceID     int64     `json:"invoice_id" db:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number" db:"invoice_number"`
	Amount        float64   `json:"amount" db:"amount"`
	Method        string    `json:"method" db:"method"`
	Date          time.Time `json:"date" db:"date"`
	Notes         *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
