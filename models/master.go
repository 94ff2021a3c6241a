package models

import (
	"strings"
	"time"
)

type Party struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	MobileNumber *string   `json:"mobile_number,omitempty" db:"mobile_number"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type MotorOwner struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	MobileNumber *string   `json:"mobile_number,omitempty" db:"mobile_number"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type OwnVehicle struct {
	ID            int64     `json:"id" db:"id"`
	VehicleNumber string    `json:"vehicle_number" db:"vehicle_number"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// NormalizeVehicle folds case and strips all whitespace so "mh 12 ab 1234"
// and "MH12AB1234" compare equal.
func NormalizeVehicle(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}
