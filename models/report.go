package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DashboardSummary struct {
	TotalTrips       int64           `json:"total_trips"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	TotalProfit      decimal.Decimal `json:"total_profit"`
	PODPending       int64           `json:"pod_pending"`
	PaymentPending   int64           `json:"payment_pending"`
}

// MonthlyPoint is one bucket of a per-month series; Value is profit or trip count.
type MonthlyPoint struct {
	Month time.Time       `json:"month"`
	Value decimal.Decimal `json:"value"`
}

type ReportFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Party     string
}
