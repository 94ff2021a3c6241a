package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID            int64           `json:"id" db:"id"`
	Date          time.Time       `json:"date" db:"date"`
	Category      string          `json:"category" db:"category"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	VehicleNumber *string         `json:"vehicle_number,omitempty" db:"vehicle_number"`
	Notes         *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}
