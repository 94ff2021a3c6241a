package repository

import (
	"context"
	"errors"

	"transporterp/models"
)

var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned for lock timeouts, deadlocks, serialization
	// failures and unique violations. The whole transaction has been rolled
	// back and the caller may retry.
	ErrConflict = errors.New("concurrent modification")
)

// TripStore owns trips and their payment history. Every multi-statement
// mutation goes through WithTx.
type TripStore interface {
	WithTx(ctx context.Context, fn func(tx TripTx) error) error

	GetTrip(ctx context.Context, id int64) (*models.Trip, error)
	ListTrips(ctx context.Context, filter models.TripFilter) ([]*models.Trip, error)
	ListPaymentHistory(ctx context.Context, filter models.PaymentHistoryFilter) ([]*models.PaymentHistory, error)
	ListPODRecords(ctx context.Context) ([]PODRecord, error)
}

// TripTx is the set of statements available inside one transaction.
type TripTx interface {
	// LockSequence serializes code allocation for a YYYY_MM_ prefix until
	// the transaction ends.
	LockSequence(ctx context.Context, prefix string) error
	ActiveTripCodes(ctx context.Context, prefix string) ([]string, error)
	TripCodeTaken(ctx context.Context, code string, excludeID int64) (bool, error)
	IsOwnVehicle(ctx context.Context, vehicleNumber string) (bool, error)

	InsertTrip(ctx context.Context, t *models.Trip) error
	// LockTrip reads the trip row with an exclusive lock held until commit.
	LockTrip(ctx context.Context, id int64) (*models.Trip, error)
	UpdateTrip(ctx context.Context, t *models.Trip) error
	DeleteTrip(ctx context.Context, id int64) error

	// ActivePayment returns nil when no active row exists for the slot.
	ActivePayment(ctx context.Context, tripID int64, pt models.PaymentType) (*models.PaymentHistory, error)
	InsertPayment(ctx context.Context, p *models.PaymentHistory) error
	UpdatePayment(ctx context.Context, p *models.PaymentHistory) error
	SoftDeletePayment(ctx context.Context, id int64) error
	SoftDeleteTripPayments(ctx context.Context, tripID int64) error
	RetagTripPayments(ctx context.Context, tripID int64, tripCode string) error
	DeleteTripPayments(ctx context.Context, tripID int64) error

	NextSlipNumber(ctx context.Context, st models.SlipType) (int64, error)
}

// PODRecord is the raw stored POD state of one trip.
type PODRecord struct {
	TripID int64
	Raw    *string
	Status models.PODStatus
}

// NeedsRepair reports whether the stored value is non-canonical or its
// status disagrees with the list it holds.
func (r PODRecord) NeedsRepair() bool {
	if r.Raw == nil {
		return r.Status != models.PODPending
	}
	if !models.Canonical(*r.Raw) {
		return true
	}
	return models.ParsePODPaths(*r.Raw).Status() != r.Status
}
