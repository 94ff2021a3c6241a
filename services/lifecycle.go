package services

import (
	"context"
	"errors"
	"fmt"

	"transporterp/models"
	"transporterp/repository"
)

// =============================================================================
// SOFT DELETE / RESTORE / PERMANENT DELETE
//
// ACTIVE --softDelete--> DELETED --restore--> ACTIVE (original or _RES code)
//                        DELETED --permanentDelete--> gone
// =============================================================================

// SoftDeleteTrip vacates the trip's code slot and tombstones its ledger.
func (s *TripService) SoftDeleteTrip(ctx context.Context, id int64) (*models.Trip, error) {
	var t *models.Trip
	err := s.Store.WithTx(ctx, func(tx repository.TripTx) error {
		var err error
		t, err = tx.LockTrip(ctx, id)
		if err != nil {
			return err
		}
		if t.IsDeleted {
			return ErrNotFound
		}

		original := t.TripCode
		t.OriginalTripCode = &original
		t.TripCode = DeletedCode(original, s.Now())
		t.IsDeleted = true

		if err := tx.UpdateTrip(ctx, t); err != nil {
			return err
		}
		if err := tx.RetagTripPayments(ctx, t.ID, t.TripCode); err != nil {
			return err
		}
		return tx.SoftDeleteTripPayments(ctx, t.ID)
	})
	if errors.Is(err, ErrNotFound) {
		return nil, notFound("active trip", id)
	}
	if err != nil {
		return nil, err
	}

	t.SyncState()
	s.Log.Info("trip soft-deleted", "trip_id", t.ID, "trip_code", t.TripCode)
	return t, nil
}

// RestoreTrip brings a soft-deleted trip back under its original code, or
// under <code>_RES when another active trip holds the original.
func (s *TripService) RestoreTrip(ctx context.Context, id int64) (*models.Trip, error) {
	var t *models.Trip
	err := s.Store.WithTx(ctx, func(tx repository.TripTx) error {
		var err error
		t, err = tx.LockTrip(ctx, id)
		if err != nil {
			return err
		}
		if !t.IsDeleted {
			return ErrNotFound
		}

		original, err := originalCode(t)
		if err != nil {
			return err
		}
		if prefix := prefixOfCode(original); prefix != "" {
			if err := tx.LockSequence(ctx, prefix); err != nil {
				return err
			}
		}

		code := ""
		for _, candidate := range restoreCandidates(original) {
			taken, err := tx.TripCodeTaken(ctx, candidate, t.ID)
			if err != nil {
				return err
			}
			if !taken {
				code = candidate
				break
			}
		}
		if code == "" {
			return fmt.Errorf("%w: codes %v are all held by active trips", ErrConflict, restoreCandidates(original))
		}
		if code != original {
			s.Log.Info("restore slot occupied, using fallback code", "trip_id", t.ID, "original", original, "code", code)
		}

		t.TripCode = code
		t.OriginalTripCode = nil
		t.IsDeleted = false

		if err := tx.UpdateTrip(ctx, t); err != nil {
			return err
		}
		if err := tx.RetagTripPayments(ctx, t.ID, code); err != nil {
			return err
		}
		return syncLedger(ctx, tx, t)
	})
	if errors.Is(err, ErrNotFound) {
		return nil, notFound("deleted trip", id)
	}
	if err != nil {
		return nil, err
	}

	t.SyncState()
	s.Log.Info("trip restored", "trip_id", t.ID, "trip_code", t.TripCode)
	return t, nil
}

func originalCode(t *models.Trip) (string, error) {
	if t.OriginalTripCode != nil && *t.OriginalTripCode != "" {
		return *t.OriginalTripCode, nil
	}
	if code, ok := OriginalFromDeleted(t.TripCode); ok {
		return code, nil
	}
	return "", invalid("trip_code", "cannot recover original code from %q", t.TripCode)
}

// PermanentDeleteTrip removes a soft-deleted trip and its ledger rows.
// Active trips are refused so a hard delete always takes two steps.
func (s *TripService) PermanentDeleteTrip(ctx context.Context, id int64) error {
	err := s.Store.WithTx(ctx, func(tx repository.TripTx) error {
		t, err := tx.LockTrip(ctx, id)
		if err != nil {
			return err
		}
		if !t.IsDeleted {
			return invalid("id", "trip must be soft-deleted before permanent deletion")
		}
		if err := tx.DeleteTripPayments(ctx, id); err != nil {
			return err
		}
		return tx.DeleteTrip(ctx, id)
	})
	if errors.Is(err, ErrNotFound) {
		return notFound("trip", id)
	}
	if err != nil {
		return err
	}
	s.Log.Info("trip permanently deleted", "trip_id", id)
	return nil
}
