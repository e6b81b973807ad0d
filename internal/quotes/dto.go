package quotes

import "time"

type CreateQuoteRequest struct {
	ClientID        int64                `json:"client_id" validate:"required,gt=0"`
	Date            time.Time            `json:"date" validate:"required"`
	ValidUntil      *time.Time           `json:"valid_until,omitempty"`
	DiscountPercent float64              `json:"discount_percent" validate:"gte=0,lte=100"`
	VATPercent      float64              `json:"vat_percent" validate:"gte=0,lte=100"`
	RetenuePercent  float64              `json:"retenue_percent" validate:"gte=0,lte=100"`
	Notes           *string              `json:"notes,omitempty"`
	Items           []CreateQuoteItemReq `json:"items" validate:"required,min=1,dive"`
}

type CreateQuoteItemReq struct {
	ProductID int64    `json:"product_id" validate:"required,gt=0"`
	Quantity  float64  `json:"quantity" validate:"required,gt=0"`
	UnitPrice *float64 `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
}

type UpdateQuoteStatusRequest struct {
	Status QuoteStatus `json:"status" validate:"required,oneof=Draft Sent Accepted Rejected"`
}

type ListQuotesRequest struct {
	ClientID *int64       `json:"client_id,omitempty"`
	Status   *QuoteStatus `json:"status,omitempty"`
	DateFrom *time.Time   `json:"date_from,omitempty"`
	DateTo   *time.Time   `json:"date_to,omitempty"`
	Limit    int          `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int          `json:"offset" validate:"gte=0"`
}
