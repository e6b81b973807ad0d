package products

type CreateProductRequest struct {
	Name            string  `json:"name" validate:"required,max=200"`
	Reference       string  `json:"reference" validate:"required,max=50"`
	UnitPrice       float64 `json:"unit_price" validate:"gte=0"`
	PurchasePrice   float64 `json:"purchase_price" validate:"gte=0"`
	QuantityInStock float64 `json:"quantity_in_stock" validate:"gte=0"`
	ReorderPoint    float64 `json:"reorder_point" validate:"gte=0"`
}

type UpdateProductRequest struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Reference     *string  `json:"reference,omitempty" validate:"omitempty,max=50"`
	UnitPrice     *float64 `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
	PurchasePrice *float64 `json:"purchase_price,omitempty" validate:"omitempty,gte=0"`
	ReorderPoint  *float64 `json:"reorder_point,omitempty" validate:"omitempty,gte=0"`
	IsActive      *bool    `json:"is_active,omitempty"`
}

type ListProductsRequest struct {
	Search   *string `json:"search,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	LowStock bool    `json:"low_stock,omitempty"`
	Limit    int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int     `json:"offset" validate:"gte=0"`
}
