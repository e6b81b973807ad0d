package purchases

import "time"

type CreatePurchaseRequest struct {
	Supplier string                  `json:"supplier" validate:"required,min=2,max=200"`
	Date     time.Time               `json:"date" validate:"required"`
	Notes    *string                 `json:"notes,omitempty"`
	Items    []CreatePurchaseItemReq `json:"items" validate:"required,min=1,dive"`
}

type CreatePurchaseItemReq struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
	UnitCost  float64 `json:"unit_cost" validate:"required,gt=0"`
}

type ListPurchasesRequest struct {
	Supplier *string    `json:"supplier,omitempty"`
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`
	Limit    int        `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int        `json:"offset" validate:"gte=0"`
}
