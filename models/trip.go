package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	StatusUnpaid PaymentStatus = "UNPAID"
	StatusPaid   PaymentStatus = "PAID"
)

type PODStatus string

const (
	PODPending  PODStatus = "PENDING"
	PODReceived PODStatus = "RECEIVED"
)

// TripState is the lifecycle position of a trip, derived from is_deleted.
type TripState string

const (
	TripActive  TripState = "ACTIVE"
	TripDeleted TripState = "DELETED"
)

type Trip struct {
	ID               int64      `json:"id" db:"id"`
	TripCode         string     `json:"trip_code" db:"trip_code"`
	OriginalTripCode *string    `json:"original_trip_code,omitempty" db:"original_trip_code"`
	LoadingDate      time.Time  `json:"loading_date" db:"loading_date"`
	UnloadingDate    *time.Time `json:"unloading_date,omitempty" db:"unloading_date"`
	FromLocation     string     `json:"from_location" db:"from_location"`
	ToLocation       string     `json:"to_location" db:"to_location"`
	VehicleNumber    string     `json:"vehicle_number" db:"vehicle_number"`
	DriverNumber     *string    `json:"driver_number,omitempty" db:"driver_number"`
	MotorOwnerName   *string    `json:"motor_owner_name,omitempty" db:"motor_owner_name"`
	MotorOwnerNumber *string    `json:"motor_owner_number,omitempty" db:"motor_owner_number"`
	PartyName        string     `json:"party_name" db:"party_name"`
	PartyNumber      *string    `json:"party_number,omitempty" db:"party_number"`

	GaadiFreight decimal.Decimal `json:"gaadi_freight" db:"gaadi_freight"`
	GaadiAdvance decimal.Decimal `json:"gaadi_advance" db:"gaadi_advance"`
	GaadiBalance decimal.Decimal `json:"gaadi_balance" db:"gaadi_balance"`
	PartyFreight decimal.Decimal `json:"party_freight" db:"party_freight"`
	PartyAdvance decimal.Decimal `json:"party_advance" db:"party_advance"`
	PartyBalance decimal.Decimal `json:"party_balance" db:"party_balance"`
	TDS          decimal.Decimal `json:"tds" db:"tds"`
	Himmali      decimal.Decimal `json:"himmali" db:"himmali"`
	Profit       decimal.Decimal `json:"profit" db:"profit"`

	Weight *decimal.Decimal `json:"weight,omitempty" db:"weight"`
	Remark *string          `json:"remark,omitempty" db:"remark"`

	PaymentStatus      PaymentStatus `json:"payment_status" db:"payment_status"`
	GaadiBalanceStatus PaymentStatus `json:"gaadi_balance_status" db:"gaadi_balance_status"`
	PODStatus          PODStatus     `json:"pod_status" db:"pod_status"`
	PODPath            PODPaths      `json:"pod_path" db:"pod_path"`

	PaySlipNumber     *int64 `json:"pay_slip_number" db:"pay_slip_number"`
	LoadingSlipNumber *int64 `json:"loading_slip_number" db:"loading_slip_number"`

	IsOwnVehicle bool      `json:"is_own_vehicle" db:"-"`
	IsDeleted    bool      `json:"is_deleted" db:"is_deleted"`
	State        TripState `json:"state" db:"-"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Clone returns a deep copy; pointer fields are not shared with the original.
func (t *Trip) Clone() *Trip {
	c := *t
	c.OriginalTripCode = cloneString(t.OriginalTripCode)
	c.DriverNumber = cloneString(t.DriverNumber)
	c.MotorOwnerName = cloneString(t.MotorOwnerName)
	c.MotorOwnerNumber = cloneString(t.MotorOwnerNumber)
	c.PartyNumber = cloneString(t.PartyNumber)
	c.Remark = cloneString(t.Remark)
	c.PaySlipNumber = cloneInt(t.PaySlipNumber)
	c.LoadingSlipNumber = cloneInt(t.LoadingSlipNumber)
	if t.UnloadingDate != nil {
		d := *t.UnloadingDate
		c.UnloadingDate = &d
	}
	if t.Weight != nil {
		w := *t.Weight
		c.Weight = &w
	}
	c.PODPath = append(PODPaths(nil), t.PODPath...)
	return &c
}

// SyncState refreshes the derived lifecycle state.
func (t *Trip) SyncState() {
	if t.IsDeleted {
		t.State = TripDeleted
	} else {
		t.State = TripActive
	}
}

// TripFilter drives GET /trips. Own is nil when both own and hired vehicles are wanted.
type TripFilter struct {
	Deleted bool
	Own     *bool
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt(i *int64) *int64 {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
