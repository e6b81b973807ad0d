package expenses

import "time"

type CreateExpenseRequest struct {
	Date        time.Time `json:"date" validate:"required"`
	Description string    `json:"description" validate:"required,max=500"`
	Category    string    `json:"category" validate:"required,max=100"`
	Amount      float64   `json:"amount" validate:"required,gt=0"`
}

type UpdateExpenseRequest struct {
	Date        *time.Time `json:"date,omitempty"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=500"`
	Category    *string    `json:"category,omitempty" validate:"omitempty,max=100"`
	Amount      *float64   `json:"amount,omitempty" validate:"omitempty,gt=0"`
}

type ListExpensesRequest struct {
	Category *string    `json:"category,omitempty"`
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`
	Limit    int        `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int        `json:"offset" validate:"gte=0"`
}
