package analysis

import "time"

type AnalyzeRequest struct {
	Question string    `json:"question" validate:"required,min=3,max=500"`
	DateFrom time.Time `json:"date_from" validate:"required"`
	DateTo   time.Time `json:"date_to" validate:"required"`
}
