package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"transporterp/models"
	"transporterp/repository"

	"github.com/shopspring/decimal"
)

// maxCodeAttempts bounds retries of trip creation when the trip_code
// unique index rejects an insert.
const maxCodeAttempts = 3

// TripService owns the trip lifecycle: creation, edits, soft delete and
// restore, POD uploads and slip numbering.
type TripService struct {
	Store   repository.TripStore
	Masters repository.MasterRepository
	Log     *slog.Logger
	Now     func() time.Time
}

func NewTripService(store repository.TripStore, masters repository.MasterRepository, logger *slog.Logger) *TripService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TripService{
		Store:   store,
		Masters: masters,
		Log:     logger,
		Now:     func() time.Time { return time.Now().UTC() },
	}
}

// ------------------------ Reads ------------------------

func (s *TripService) GetTrip(ctx context.Context, id int64) (*models.Trip, error) {
	t, err := s.Store.GetTrip(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, notFound("trip", id)
	}
	return t, err
}

func (s *TripService) ListTrips(ctx context.Context, filter models.TripFilter) ([]*models.Trip, error) {
	return s.Store.ListTrips(ctx, filter)
}

// ------------------------ Create ------------------------

// CreateTrip validates the input, allocates the next code of the loading
// month and writes the trip together with its ledger rows.
func (s *TripService) CreateTrip(ctx context.Context, in *TripInput) (*models.Trip, error) {
	base, err := in.toTrip()
	if err != nil {
		return nil, err
	}
	base.PODStatus = models.PODPending
	base.PODPath = models.PODPaths{}
	s.upsertMasters(ctx, base)

	var created *models.Trip
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		t := base.Clone()
		err = s.Store.WithTx(ctx, func(tx repository.TripTx) error {
			if err := s.applyVehicleRules(ctx, tx, t); err != nil {
				return err
			}

			prefix := CodePrefix(t.LoadingDate)
			if err := tx.LockSequence(ctx, prefix); err != nil {
				return err
			}
			codes, err := tx.ActiveTripCodes(ctx, prefix)
			if err != nil {
				return err
			}
			t.TripCode = FormatTripCode(prefix, NextSequence(prefix, codes))

			if err := tx.InsertTrip(ctx, t); err != nil {
				return err
			}
			return syncLedger(ctx, tx, t)
		})
		if err == nil {
			created = t
			break
		}
		if !errors.Is(err, ErrConflict) || attempt == maxCodeAttempts {
			return nil, err
		}
		s.Log.Info("trip code conflict, retrying", "attempt", attempt, "loading_date", base.LoadingDate.Format("2006-01-02"), "error", err)
	}

	created.SyncState()
	s.Log.Info("trip created", "trip_id", created.ID, "trip_code", created.TripCode)
	return created, nil
}

// ------------------------ Update ------------------------

// UpdateTrip rewrites every editable field of an active trip. Code, POD
// state, slip numbers and lifecycle state are kept.
func (s *TripService) UpdateTrip(ctx context.Context, id int64, in *TripInput) (*models.Trip, error) {
	t, err := in.toTrip()
	if err != nil {
		return nil, err
	}
	s.upsertMasters(ctx, t)

	err = s.Store.WithTx(ctx, func(tx repository.TripTx) error {
		existing, err := tx.LockTrip(ctx, id)
		if err != nil {
			return err
		}
		if existing.IsDeleted {
			return ErrNotFound
		}

		t.ID = existing.ID
		t.TripCode = existing.TripCode
		t.OriginalTripCode = existing.OriginalTripCode
		t.PODStatus = existing.PODStatus
		t.PODPath = existing.PODPath
		t.PaySlipNumber = existing.PaySlipNumber
		t.LoadingSlipNumber = existing.LoadingSlipNumber
		t.IsDeleted = existing.IsDeleted
		t.CreatedAt = existing.CreatedAt

		if err := s.applyVehicleRules(ctx, tx, t); err != nil {
			return err
		}
		if err := tx.UpdateTrip(ctx, t); err != nil {
			return err
		}
		return syncLedger(ctx, tx, t)
	})
	if errors.Is(err, ErrNotFound) {
		return nil, notFound("active trip", id)
	}
	if err != nil {
		return nil, err
	}
	t.SyncState()
	return t, nil
}

// ------------------------ Derived fields ------------------------

func (s *TripService) applyVehicleRules(ctx context.Context, tx repository.TripTx, t *models.Trip) error {
	own, err := tx.IsOwnVehicle(ctx, t.VehicleNumber)
	if err != nil {
		return err
	}
	if !own && t.MotorOwnerName == nil {
		return invalid("motor_owner_name", "is required for hired vehicles")
	}
	ApplyFinancials(t, own)
	return nil
}

// ApplyFinancials derives balances and profit. Own vehicles have no owner
// payout, so their gaadi amounts and himmali are forced to zero.
func ApplyFinancials(t *models.Trip, own bool) {
	t.IsOwnVehicle = own
	if own {
		t.GaadiFreight = decimal.Zero
		t.GaadiAdvance = decimal.Zero
		t.Himmali = decimal.Zero
	}

	t.GaadiBalance = t.GaadiFreight.Sub(t.GaadiAdvance)
	t.PartyBalance = t.PartyFreight.Sub(t.PartyAdvance).Sub(t.TDS).Sub(t.Himmali)
	if own {
		t.Profit = t.PartyFreight.Sub(t.TDS)
	} else {
		t.Profit = t.PartyFreight.Sub(t.GaadiFreight)
	}
}

// upsertMasters records unseen party and motor owner names. Failures are
// logged and never block the trip write.
func (s *TripService) upsertMasters(ctx context.Context, t *models.Trip) {
	if s.Masters == nil {
		return
	}
	if err := s.Masters.UpsertParty(ctx, t.PartyName, t.PartyNumber); err != nil {
		s.Log.Warn("party upsert failed", "party", t.PartyName, "error", err)
	}
	if t.MotorOwnerName != nil {
		if err := s.Masters.UpsertMotorOwner(ctx, *t.MotorOwnerName, t.MotorOwnerNumber); err != nil {
			s.Log.Warn("motor owner upsert failed", "owner", *t.MotorOwnerName, "error", err)
		}
	}
}
