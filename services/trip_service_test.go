package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"transporterp/models"
	"transporterp/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*TripService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	svc := NewTripService(store, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, store
}

func hiredInput(date string) *TripInput {
	return &TripInput{
		LoadingDate:      date,
		FromLocation:     "Pune",
		ToLocation:       "Nagpur",
		VehicleNumber:    "MH12AB1234",
		DriverNumber:     "9800000003",
		MotorOwnerName:   "Ramesh Transport",
		MotorOwnerNumber: "9800000001",
		PartyName:        "Shree Traders",
		PartyNumber:      "9800000002",
		GaadiFreight:     NewAmount(10000),
		GaadiAdvance:     NewAmount(2000),
		PartyFreight:     NewAmount(15000),
		PartyAdvance:     NewAmount(5000),
		TDS:              NewAmount(100),
		Himmali:          NewAmount(200),
	}
}

func assertAmount(t *testing.T, want int64, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, got.Equal(decimal.NewFromInt(want)), append([]interface{}{"want %d got %s", want, got.String()}, msgAndArgs...)...)
}

// activeLedger indexes a trip's active ledger rows by payment type.
func activeLedger(t *testing.T, store *repository.MemoryStore, tripID int64) map[models.PaymentType]*models.PaymentHistory {
	t.Helper()
	rows, err := store.ListPaymentHistory(context.Background(), models.PaymentHistoryFilter{TripID: tripID})
	require.NoError(t, err)
	out := map[models.PaymentType]*models.PaymentHistory{}
	for _, r := range rows {
		_, dup := out[r.PaymentType]
		require.False(t, dup, "two active %q rows", r.PaymentType)
		out[r.PaymentType] = r
	}
	return out
}

func allLedger(t *testing.T, store *repository.MemoryStore, tripID int64) []*models.PaymentHistory {
	t.Helper()
	rows, err := store.ListPaymentHistory(context.Background(), models.PaymentHistoryFilter{TripID: tripID, IncludeDeleted: true})
	require.NoError(t, err)
	return rows
}

// ------------------------ Create ------------------------

func TestCreateTripAllocatesMonthlyCodes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateTrip(ctx, hiredInput("2025-01-15"))
	require.NoError(t, err)
	assert.Equal(t, "2025_01_001", first.TripCode)
	assert.Equal(t, models.TripActive, first.State)

	second, err := svc.CreateTrip(ctx, hiredInput("2025-01-20"))
	require.NoError(t, err)
	assert.Equal(t, "2025_01_002", second.TripCode)

	feb, err := svc.CreateTrip(ctx, hiredInput("2025-02-01"))
	require.NoError(t, err)
	assert.Equal(t, "2025_02_001", feb.TripCode)
}

func TestCreateTripDerivesFinancials(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	trip, err := svc.CreateTrip(ctx, hiredInput("2025-01-15"))
	require.NoError(t, err)

	assertAmount(t, 8000, trip.GaadiBalance)
	assertAmount(t, 9700, trip.PartyBalance)
	assertAmount(t, 5000, trip.Profit)
	assert.False(t, trip.IsOwnVehicle)
	assert.Equal(t, models.PODPending, trip.PODStatus)
	assert.Empty(t, trip.PODPath)
	assert.Equal(t, models.StatusUnpaid, trip.PaymentStatus)

	ledger := activeLedger(t, store, trip.ID)
	require.Len(t, ledger, 2)
	assert.Equal(t, models.Debit, ledger[models.GaadiAdvancePaid].TransactionType)
	assertAmount(t, 2000, ledger[models.GaadiAdvancePaid].Amount)
	assert.Equal(t, models.Credit, ledger[models.PartyAdvanceReceived].TransactionType)
	assertAmount(t, 5000, ledger[models.PartyAdvanceReceived].Amount)
	assert.Equal(t, trip.TripCode, ledger[models.PartyAdvanceReceived].TripCode)
}

func TestCreateTripOwnVehicleZeroesGaadiSide(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := store.AddOwnVehicle(ctx, "MH 12 AB 1234")
	require.NoError(t, err)

	in := hiredInput("2025-01-15")
	in.VehicleNumber = "mh12ab1234"
	in.MotorOwnerName = ""
	trip, err := svc.CreateTrip(ctx, in)
	require.NoError(t, err)

	assert.True(t, trip.IsOwnVehicle)
	assert.True(t, trip.GaadiFreight.IsZero())
	assert.True(t, trip.GaadiAdvance.IsZero())
	assert.True(t, trip.Himmali.IsZero())
	assertAmount(t, 14900, trip.Profit)
	assertAmount(t, 9900, trip.PartyBalance)

	ledger := activeLedger(t, store, trip.ID)
	_, hasGaadi := ledger[models.GaadiAdvancePaid]
	assert.False(t, hasGaadi)
}

func TestCreateTripValidation(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		edit  func(in *TripInput)
		field string
	}{
		{"missing party", func(in *TripInput) { in.PartyName = "  " }, "party_name"},
		{"missing loading date", func(in *TripInput) { in.LoadingDate = "" }, "loading_date"},
		{"bad loading date", func(in *TripInput) { in.LoadingDate = "15/01/2025" }, "loading_date"},
		{"unloading before loading", func(in *TripInput) { in.UnloadingDate = "2025-01-10" }, "unloading_date"},
		{"negative freight", func(in *TripInput) { in.PartyFreight = NewAmount(-1) }, "party_freight"},
		{"unknown status", func(in *TripInput) { in.PaymentStatus = "MAYBE" }, "payment_status"},
		{"hired without owner", func(in *TripInput) { in.MotorOwnerName = "" }, "motor_owner_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := hiredInput("2025-01-15")
			tt.edit(in)
			_, err := svc.CreateTrip(ctx, in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	trips, err := store.ListTrips(ctx, models.TripFilter{})
	require.NoError(t, err)
	assert.Empty(t, trips, "failed creates leave nothing behind")
}

func TestCreateTripUpsertsMasters(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateTrip(ctx, hiredInput("2025-01-15"))
	require.NoError(t, err)
	_, err = svc.CreateTrip(ctx, hiredInput("2025-01-16"))
	require.NoError(t, err)

	parties, err := store.SearchParties(ctx, "shree")
	require.NoError(t, err)
	require.Len(t, parties, 1)
	assert.Equal(t, "9800000002", *parties[0].MobileNumber)

	owners, err := store.SearchMotorOwners(ctx, "ramesh")
	require.NoError(t, err)
	assert.Len(t, owners, 1)
}

func TestCreateTripSequenceIsDenseUnderConcurrency(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	const n = 20
	codes := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			trip, err := svc.CreateTrip(ctx, hiredInput("2025-03-05"))
			if assert.NoError(t, err) {
				codes <- trip.TripCode
			}
		}()
	}
	wg.Wait()
	close(codes)

	seen := map[string]bool{}
	for c := range codes {
		assert.False(t, seen[c], "duplicate code %s", c)
		seen[c] = true
	}
	require.Len(t, seen, n)
	for i := 1; i <= n; i++ {
		assert.True(t, seen[FormatTripCode("2025_03_", i)], "missing sequence %d", i)
	}
}

// ------------------------ Update ------------------------

func TestUpdateTripTombstonesClearedAdvance(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	trip, err := svc.CreateTrip(ctx, hiredInput("2025-01-15"))
	require.NoError(t, err)
	before := activeLedger(t, store, trip.ID)[models.GaadiAdvancePaid]
	require.NotNil(t, before)

	in := hiredInput("2025-01-15")
	in.GaadiAdvance = NewAmount(0)
	updated, err := svc.UpdateTrip(ctx, trip.ID, in)
	require.NoError(t, err)
	assertAmount(t, 10000, updated.GaadiBalance)

	_, active := activeLedger(t, store, trip.ID)[models.GaadiAdvancePaid]
	assert.False(t, active)

	var tomb *models.PaymentHistory
	for _, r := range allLedger(t, store, trip.ID) {
		if r.ID == before.ID {
			tomb = r
		}
	}
	require.NotNil(t, tomb, "row is kept, not physically removed")
	assert.True(t, tomb.IsDeleted)
}

func TestUpdateTripMirrorsLedger(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	trip, err := svc.CreateTrip(ctx, hiredInput("2025-01-15"))
	require.NoError(t, err)

	in := hiredInput("2025-01-15")
	in.PaymentStatus = "paid"
	in.GaadiBalanceStatus = "PAID"
	_, err = svc.UpdateTrip(ctx, trip.ID, in)
	require.NoError(t, err)

	ledger := activeLedger(t, store, trip.ID)
	require.Len(t, ledger, 4)
	assertAmount(t, 9700, ledger[models.PartyBalanceReceived].Amount)
	assertAmount(t, 8000, ledger[models.GaadiBalancePaid].Amount)
	partyRowID := ledger[models.PartyBalanceReceived].ID

	in = hiredInput("2025-01-15")
	in.PaymentStatus = "PAID"
	in.GaadiBalanceStatus = "PAID"
	in.PartyFreight = NewAmount(16000)
	in.VehicleNumber = "MH12ZZ0001"
	_, err = svc.UpdateTrip(ctx, trip.ID, in)
	require.NoError(t, err)

	ledger = activeLedger(t, store, trip.ID)
	require.Len(t, ledger, 4)
	assert.Equal(t, partyRowID, ledger[models.PartyBalanceReceived].ID, "row is amended in place")
	assertAmount(t, 10700, ledger[models.PartyBalanceReceived].Amount)
	assert.Equal(t, "MH12ZZ0001", ledger[models.PartyBalanceReceived].VehicleNumber)

	in = hiredInput("2025-01-15")
	_, err = svc.UpdateTrip(ctx, trip.ID, in)
	require.NoError(t, err)
	ledger = activeLedger(t, store, trip.ID)
	assert.Len(t, ledger, 2)
	_, paid := ledger[models.PartyBalanceReceived]
	assert.False(t, paid)
}

func TestUpdateTripKeepsCodeAndPOD(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	trip, err := svc.CreateTrip(ctx, hiredInput("2025-01-15"))
	require.NoError(t, err)
	_, err = svc.UploadPOD(ctx, trip.ID, []string{"a.jpg"})
	require.NoError(t, err)
	_, err = svc.AllocateSlipNumbers(ctx, trip.ID, []models.SlipType{models.PaySlip})
	require.NoError(t, err)

	updated, err := svc.UpdateTrip(ctx, trip.ID, hiredInput("2025-02-03"))
	require.NoError(t, err)
	assert.Equal(t, "2025_01_001", updated.TripCode)
	assert.Equal(t, models.PODPaths{"a.jpg"}, updated.PODPath)
	assert.Equal(t, models.PODReceived, updated.PODStatus)
	require.NotNil(t, updated.PaySlipNumber)
	assert.Equal(t, int64(1), *updated.PaySlipNumber)
}

func TestUpdateTripMissingOrDeleted(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpdateTrip(ctx, 99, hiredInput("2025-01-15"))
	assert.True(t, errors.Is(err, ErrNotFound))

	trip, err := svc.CreateTrip(ctx, hiredInput("2025-01-15"))
	require.NoError(t, err)
	_, err = svc.SoftDeleteTrip(ctx, trip.ID)
	require.NoError(t, err)

	_, err = svc.UpdateTrip(ctx, trip.ID, hiredInput("2025-01-15"))
	assert.True(t, errors.Is(err, ErrNotFound))
}

// ------------------------ Reads ------------------------

func TestListTripsFilters(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := store.AddOwnVehicle(ctx, "MH01OWN0001")
	require.NoError(t, err)

	hired, err := svc.CreateTrip(ctx, hiredInput("2025-01-15"))
	require.NoError(t, err)
	own := hiredInput("2025-01-16")
	own.VehicleNumber = "MH01OWN0001"
	ownTrip, err := svc.CreateTrip(ctx, own)
	require.NoError(t, err)
	gone, err := svc.CreateTrip(ctx, hiredInput("2025-01-17"))
	require.NoError(t, err)
	_, err = svc.SoftDeleteTrip(ctx, gone.ID)
	require.NoError(t, err)

	active, err := svc.ListTrips(ctx, models.TripFilter{})
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, ownTrip.ID, active[0].ID, "newest loading date first")

	yes, no := true, false
	onlyOwn, err := svc.ListTrips(ctx, models.TripFilter{Own: &yes})
	require.NoError(t, err)
	require.Len(t, onlyOwn, 1)
	assert.Equal(t, ownTrip.ID, onlyOwn[0].ID)

	onlyHired, err := svc.ListTrips(ctx, models.TripFilter{Own: &no})
	require.NoError(t, err)
	require.Len(t, onlyHired, 1)
	assert.Equal(t, hired.ID, onlyHired[0].ID)

	deleted, err := svc.ListTrips(ctx, models.TripFilter{Deleted: true})
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, models.TripDeleted, deleted[0].State)
}

func TestGetTripNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.GetTrip(context.Background(), 42)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestApplyFinancials(t *testing.T) {
	trip := &models.Trip{
		GaadiFreight: decimal.NewFromInt(10000),
		GaadiAdvance: decimal.NewFromInt(2500),
		PartyFreight: decimal.RequireFromString("12000.50"),
		PartyAdvance: decimal.NewFromInt(2000),
		TDS:          decimal.NewFromInt(120),
		Himmali:      decimal.NewFromInt(300),
	}
	ApplyFinancials(trip, false)
	assertAmount(t, 7500, trip.GaadiBalance)
	assert.Equal(t, "9580.50", trip.PartyBalance.StringFixed(2))
	assert.Equal(t, "2000.50", trip.Profit.StringFixed(2))

	ApplyFinancials(trip, true)
	assert.True(t, trip.GaadiBalance.IsZero())
	assert.Equal(t, "9880.50", trip.PartyBalance.StringFixed(2))
	assert.Equal(t, "11880.50", trip.Profit.StringFixed(2))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("loading_date", "2025-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("loading_date", "2025-01-15T18:30:00+05:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("loading_date", "yesterday")
	assert.True(t, errors.Is(err, ErrValidation))
}
