package expenses

import "time"

// Expense is a business expense record.
type Expense struct {
	ID          int64     `json:"id" db:"id"`
	Date        time.Time `json:"date" db:"date"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	Amount      float64   `json:"amount" db:"amount"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
