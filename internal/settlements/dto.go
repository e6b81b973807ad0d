package settlements

import "time"

type CreateSettlementRequest struct {
	InvoiceID int64     `json:"invoice_id" validate:"required,gt=0"`
	Amount    float64   `json:"amount" validate:"required,gt=0"`
	Method    string    `json:"method" validate:"required,oneof=cash cheque virement mobile_money"`
	Date      time.Time `json:"date" validate:"required"`
	Notes     *string   `json:"notes,omitempty"`
}
