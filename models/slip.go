package models

import "fmt"

type SlipType string

const (
	PaySlip     SlipType = "pay_slip"
	LoadingSlip SlipType = "loading_slip"
)

func ParseSlipType(s string) (SlipType, error) {
	switch SlipType(s) {
	case PaySlip, LoadingSlip:
		return SlipType(s), nil
	}
	return "", fmt.Errorf("unknown slip type %q", s)
}

// SlipNumbers is the result of a print-metadata allocation.
type SlipNumbers struct {
	TripID            int64  `json:"trip_id"`
	PaySlipNumber     *int64 `json:"pay_slip_number"`
	LoadingSlipNumber *int64 `json:"loading_slip_number"`
}

// SlipNumber returns the trip's serial for the slip type, if already assigned.
func (t *Trip) SlipNumber(st SlipType) *int64 {
	if st == PaySlip {
		return t.PaySlipNumber
	}
	return t.LoadingSlipNumber
}

func (t *Trip) SetSlipNumber(st SlipType, n int64) {
	if st == PaySlip {
		t.PaySlipNumber = &n
		return
	}
	t.LoadingSlipNumber = &n
}
