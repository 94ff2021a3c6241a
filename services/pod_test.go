package services

import (
	"context"
	"errors"
	"testing"

	"transporterp/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadPODAppendsWithoutDuplicates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	trip, err := svc.CreateTrip(ctx, hiredInput("2025-01-15"))
	require.NoError(t, err)

	got, err := svc.UploadPOD(ctx, trip.ID, []string{"a.jpg"})
	require.NoError(t, err)
	assert.Equal(t, models.PODPaths{"a.jpg"}, got.PODPath)
	assert.Equal(t, models.PODReceived, got.PODStatus)

	_, err = svc.UploadPOD(ctx, trip.ID, []string{"b.jpg"})
	require.NoError(t, err)
	got, err = svc.UploadPOD(ctx, trip.ID, []string{" a.jpg "})
	require.NoError(t, err)
	assert.Equal(t, models.PODPaths{"a.jpg", "b.jpg"}, got.PODPath)

	stored, err := svc.GetTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PODPaths{"a.jpg", "b.jpg"}, stored.PODPath)
	assert.Equal(t, models.PODReceived, stored.PODStatus)

	latest, err := svc.LatestPOD(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, "b.jpg", latest)
}

func TestUploadPODRejectsBlankAndInactive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	trip, err := svc.CreateTrip(ctx, hiredInput("2025-01-15"))
	require.NoError(t, err)

	_, err = svc.UploadPOD(ctx, trip.ID, []string{"", "  "})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = svc.UploadPOD(ctx, 77, []string{"a.jpg"})
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = svc.SoftDeleteTrip(ctx, trip.ID)
	require.NoError(t, err)
	_, err = svc.UploadPOD(ctx, trip.ID, []string{"a.jpg"})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLatestPODWithoutUploads(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	trip, err := svc.CreateTrip(ctx, hiredInput("2025-01-15"))
	require.NoError(t, err)

	_, err = svc.LatestPOD(ctx, trip.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNormalizePODsRepairsLegacyRows(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	legacy, err := svc.CreateTrip(ctx, hiredInput("2025-01-15"))
	require.NoError(t, err)
	wrongStatus, err := svc.CreateTrip(ctx, hiredInput("2025-01-16"))
	require.NoError(t, err)
	clean, err := svc.CreateTrip(ctx, hiredInput("2025-01-17"))
	require.NoError(t, err)
	_, err = svc.UploadPOD(ctx, clean.ID, []string{"c.jpg"})
	require.NoError(t, err)

	commaJoined := "a.jpg, b.jpg"
	store.SetRawPOD(legacy.ID, &commaJoined, models.PODPending)
	empty := "[]"
	store.SetRawPOD(wrongStatus.ID, &empty, models.PODReceived)

	repaired, err := svc.NormalizePODs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repaired)

	got, err := svc.GetTrip(ctx, legacy.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PODPaths{"a.jpg", "b.jpg"}, got.PODPath)
	assert.Equal(t, models.PODReceived, got.PODStatus)

	got, err = svc.GetTrip(ctx, wrongStatus.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PODPending, got.PODStatus)

	records, err := store.ListPODRecords(ctx)
	require.NoError(t, err)
	for _, rec := range records {
		assert.False(t, rec.NeedsRepair(), "trip %d", rec.TripID)
	}

	repaired, err = svc.NormalizePODs(ctx)
	require.NoError(t, err)
	assert.Zero(t, repaired)
}
