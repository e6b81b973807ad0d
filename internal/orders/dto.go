package orders

import "time"

type SubmitOrderRequest struct {
	ClientID int64                `json:"client_id" validate:"required,gt=0"`
	Items    []SubmitOrderItemReq `json:"items" validate:"required,min=1,dive"`
}

type SubmitOrderItemReq struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

type ListOrdersRequest struct {
	ClientID *int64       `json:"client_id,omitempty"`
	Status   *OrderStatus `json:"status,omitempty"`
	DateFrom *time.Time   `json:"date_from,omitempty"`
	DateTo   *time.Time   `json:"date_to,omitempty"`
	Limit    int          `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int          `json:"offset" validate:"gte=0"`
}
