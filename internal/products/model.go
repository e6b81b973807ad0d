package products

import "time"

// Product is an item sold or purchased by the business.
type Product struct {
	ID              int64     `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Reference       string    `json:"reference" db:"reference"`
	UnitPrice       float64   `json:"unit_price" db:"unit_price"`
	PurchasePrice   float64   `json:"purchase_price" db:"purchase_price"`
	QuantityInStock float64   `json:"quantity_in_stock" db:"quantity_in_stock"`
	ReorderPoint    float64   `json:"reorder_point" db:"reorder_point"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// BelowReorderPoint reports whether stock has reached the reorder threshold.
func (p Product) BelowReorderPoint() bool {
	return p.QuantityInStock <= p.ReorderPoint
}
