package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"transporterp/models"
	"transporterp/repository"
)

// UploadPOD appends the URLs not already recorded on the trip and marks the
// POD received. Concurrent uploads to one trip serialize on its row lock.
func (s *TripService) UploadPOD(ctx context.Context, id int64, urls []string) (*models.Trip, error) {
	var clean []string
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			clean = append(clean, u)
		}
	}
	if len(clean) == 0 {
		return nil, invalid("pod_url", "at least one URL is required")
	}

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
		t.PODPath = t.PODPath.Union(clean)
		t.PODStatus = t.PODPath.Status()
		return tx.UpdateTrip(ctx, t)
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

// LatestPOD returns the most recently appended POD URL of the trip.
func (s *TripService) LatestPOD(ctx context.Context, id int64) (string, error) {
	t, err := s.GetTrip(ctx, id)
	if err != nil {
		return "", err
	}
	url, ok := t.PODPath.Latest()
	if !ok {
		return "", fmt.Errorf("trip %d has no POD: %w", id, ErrNotFound)
	}
	return url, nil
}

// NormalizePODs rewrites legacy pod_path values to the JSON array form and
// repairs pod_status wherever it disagrees with the stored list. It returns
// the number of trips repaired.
func (s *TripService) NormalizePODs(ctx context.Context) (int, error) {
	records, err := s.Store.ListPODRecords(ctx)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, rec := range records {
		if !rec.NeedsRepair() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return repaired, err
		}
		err := s.Store.WithTx(ctx, func(tx repository.TripTx) error {
			t, err := tx.LockTrip(ctx, rec.TripID)
			if err != nil {
				return err
			}
			t.PODStatus = t.PODPath.Status()
			return tx.UpdateTrip(ctx, t)
		})
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			s.Log.Warn("pod normalization failed", "trip_id", rec.TripID, "error", err)
			continue
		}
		repaired++
	}
	if repaired > 0 {
		s.Log.Info("pod paths normalized", "repaired", repaired, "scanned", len(records))
	}
	return repaired, nil
}
