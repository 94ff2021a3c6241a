package services

import (
	"context"
	"errors"

	"transporterp/models"
	"transporterp/repository"
)

// AllocateSlipNumbers gives the trip a serial for each requested slip type
// it does not have yet. Existing numbers are returned unchanged.
func (s *TripService) AllocateSlipNumbers(ctx context.Context, id int64, types []models.SlipType) (*models.SlipNumbers, error) {
	types, err := uniqueSlipTypes(types)
	if err != nil {
		return nil, err
	}

	var t *models.Trip
	err = s.Store.WithTx(ctx, func(tx repository.TripTx) error {
		var err error
		t, err = tx.LockTrip(ctx, id)
		if err != nil {
			return err
		}
		if t.IsDeleted {
			return ErrNotFound
		}

		changed := false
		for _, st := range types {
			if t.SlipNumber(st) != nil {
				continue
			}
			n, err := tx.NextSlipNumber(ctx, st)
			if err != nil {
				return err
			}
			t.SetSlipNumber(st, n)
			changed = true
		}
		if !changed {
			return nil
		}
		return tx.UpdateTrip(ctx, t)
	})
	if errors.Is(err, ErrNotFound) {
		return nil, notFound("active trip", id)
	}
	if err != nil {
		return nil, err
	}

	return &models.SlipNumbers{
		TripID:            t.ID,
		PaySlipNumber:     t.PaySlipNumber,
		LoadingSlipNumber: t.LoadingSlipNumber,
	}, nil
}

func uniqueSlipTypes(in []models.SlipType) ([]models.SlipType, error) {
	if len(in) == 0 {
		return nil, invalid("types", "at least one slip type is required")
	}
	seen := map[models.SlipType]bool{}
	var out []models.SlipType
	for _, raw := range in {
		st, err := models.ParseSlipType(string(raw))
		if err != nil {
			return nil, invalid("types", "%v", err)
		}
		if !seen[st] {
			seen[st] = true
			out = append(out, st)
		}
	}
	return out, nil
}
