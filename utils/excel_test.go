package utils

import (
	"bytes"
	"testing"
	"time"

	"transporterp/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestTripsToExcel(t *testing.T) {
	owner := "Ramesh Transport"
	buf, err := TripsToExcel([]*models.Trip{{
		TripCode:       "2025_01_001",
		LoadingDate:    time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		VehicleNumber:  "MH12AB1234",
		MotorOwnerName: &owner,
		PartyName:      "Shree Traders",
		GaadiFreight:   decimal.NewFromInt(10000),
		PaymentStatus:  models.StatusUnpaid,
		PODStatus:      models.PODPending,
	}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Trips"}, f.GetSheetList())
	cell := func(axis string) string {
		v, err := f.GetCellValue("Trips", axis)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Trip Code", cell("A1"))
	assert.Equal(t, "2025_01_001", cell("A2"))
	assert.Equal(t, "2025-01-15", cell("B2"))
	assert.Equal(t, "No", cell("G2"))
	assert.Equal(t, "Ramesh Transport", cell("H2"))
	assert.Equal(t, "10000", cell("J2"))
	assert.Equal(t, "PENDING", cell("U2"))
}

func TestPaymentHistoryToExcel(t *testing.T) {
	buf, err := PaymentHistoryToExcel([]*models.PaymentHistory{{
		TripCode:        "2025_01_001",
		LoadingDate:     time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		PaymentType:     models.GaadiAdvancePaid,
		TransactionType: models.Debit,
		Amount:          decimal.NewFromInt(2000),
		IsDeleted:       true,
	}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Payment History")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Payment Type", rows[0][3])
	assert.Equal(t, []string{"2025_01_001", "2025-01-15", "", "Gaadi Advance Paid", "DEBIT", "2000", "Yes"}, rows[1])
}
