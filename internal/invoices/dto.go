package invoices

import "time"

type CreateInvoiceRequest struct {
	ClientID        int64                  `json:"client_id" validate:"required,gt=0"`
	Date            time.Time              `json:"date" validate:"required"`
	DueDate         *time.Time             `json:"due_date,omitempty"`
	DiscountPercent float64                `json:"discount_percent" validate:"gte=0,lte=100"`
	VATPercent      float64                `json:"vat_percent" validate:"gte=0,lte=100"`
	RetenuePercent  float64                `json:"retenue_percent" validate:"gte=0,lte=100"`
	Notes           *string                `json:"notes,omitempty"`
	Items           []CreateInvoiceItemReq `json:"items" validate:"required,min=1,dive"`
}

type CreateInvoiceItemReq struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
	// UnitPrice overrides the product's current price when set.
	UnitPrice *float64 `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
}

type ListInvoicesRequest struct {
	ClientID *int64         `json:"client_id,omitempty"`
	Status   *InvoiceStatus `json:"status,omitempty"`
	DateFrom *time.Time     `json:"date_from,omitempty"`
	DateTo   *time.Time     `json:"date_to,omitempty"`
	Limit    int            `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int            `json:"offset" validate:"gte=0"`
}
