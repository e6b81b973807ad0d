package purchases

import "time"

// Purchase is a supplier receipt. Persisting it increments stock and
// refreshes each product's purchase price to the received line cost.
type Purchase struct {
	ID             int64          `json:"id" db:"id"`
	PurchaseNumber string         `json:"purchase_number" db:"purchase_number"`
	Supplier       string         `json:"supplier" db:"supplier"`
	Date           time.Time      `json:"date" db:"date"`
	TotalAmount    float64        `json:"total_amount" db:"total_amount"`
	Notes          *string        `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
	Items          []PurchaseItem `json:"items,omitempty" db:"-"`
}

type PurchaseItem struct {
	ID          int64   `json:"id" db:"id"`
	PurchaseID  int64   `json:"purchase_id" db:"purchase_id"`
	ProductID   int64   `json:"product_id" db:"product_id"`
	ProductName string  `json:"product_name" db:"product_name"`
	Reference   string  `json:"reference" db:"reference"`
	Quantity    float64 `json:"quantity" db:"quantity"`
	UnitCost    float64 `json:"unit_cost" db:"unit_cost"`
	Total       float64 `json:"total" db:"total"`
}
