package orders

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// Order is a client order. Orders are immutable once created; only the
// status moves.
type Order struct {
	ID          int64       `json:"id" db:"id"`
	OrderNumber string      `json:"order_number" db:"order_number"`
	ClientID    int64       `json:"client_id" db:"client_id"`
	ClientName  string      `json:"client_name" db:"client_name"`
	Status      OrderStatus `json:"status" db:"status"`
	TotalAmount float64     `json:"total_amount" db:"total_amount"`
	OrderDate   time.Time   `json:"order_date" db:"order_date"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	Items       []OrderItem `json:"items,omitempty" db:"-"`
}

// OrderItem captures the product snapshot at submission time.
type OrderItem struct {
	ID          int64   `json:"id" db:"id"`
	OrderID     int64   `json:"order_id" db:"order_id"`
	ProductID   int64   `json:"product_id" db:"product_id"`
	ProductName string  `json:"product_name" db:"product_name"`
	Reference   string  `json:"reference" db:"reference"`
	Quantity    int     `json:"quantity" db:"quantity"`
	UnitPrice   float64 `json:"unit_price" db:"unit_price"`
	Total       float64 `json:"total" db:"total"`
}
