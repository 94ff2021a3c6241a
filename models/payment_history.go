package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	Credit TransactionType = "CREDIT"
	Debit  TransactionType = "DEBIT"
)

type PaymentType string

const (
	GaadiAdvancePaid     PaymentType = "Gaadi Advance Paid"
	GaadiBalancePaid     PaymentType = "Gaadi Balance Paid"
	PartyAdvanceReceived PaymentType = "Party Advance Received"
	PartyBalanceReceived PaymentType = "Party Balance Received"
)

// PaymentTypes lists the ledger slots tracked per trip.
var PaymentTypes = []PaymentType{
	GaadiAdvancePaid,
	GaadiBalancePaid,
	PartyAdvanceReceived,
	PartyBalanceReceived,
}

func (p PaymentType) Valid() bool {
	for _, t := range PaymentTypes {
		if t == p {
			return true
		}
	}
	return false
}

// PaymentHistory is one ledger entry mirroring a trip's financial state.
type PaymentHistory struct {
	ID              int64           `json:"id" db:"id"`
	TripID          int64           `json:"trip_id" db:"trip_id"`
	TripCode        string          `json:"trip_code" db:"trip_code"`
	TransactionType TransactionType `json:"transaction_type" db:"transaction_type"`
	PaymentType     PaymentType     `json:"payment_type" db:"payment_type"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	VehicleNumber   string          `json:"vehicle_number" db:"vehicle_number"`
	LoadingDate     time.Time       `json:"loading_date" db:"loading_date"`
	IsDeleted       bool            `json:"is_deleted" db:"is_deleted"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

type PaymentHistoryFilter struct {
	PaymentType    PaymentType
	FromDate       *time.Time
	ToDate         *time.Time
	Vehicle        string
	TripID         int64
	IncludeDeleted bool
}
