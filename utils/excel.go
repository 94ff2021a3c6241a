package utils

import (
	"bytes"
	"fmt"

	"transporterp/models"

	"github.com/xuri/excelize/v2"
)

// TripsToExcel builds the trip report workbook.
func TripsToExcel(trips []*models.Trip) (*bytes.Buffer, error) {
	headers := []string{
		"Trip Code", "Loading Date", "Unloading Date", "From", "To", "Vehicle No.",
		"Own Vehicle", "Motor Owner", "Party", "Gaadi Freight", "Gaadi Advance",
		"Gaadi Balance", "Gaadi Balance Status", "Party Freight", "Party Advance",
		"TDS", "Himmali", "Party Balance", "Payment Status", "Profit", "POD Status",
	}

	rows := make([][]interface{}, 0, len(trips))
	for _, t := range trips {
		unloading := ""
		if t.UnloadingDate != nil {
			unloading = t.UnloadingDate.Format("2006-01-02")
		}
		owner := ""
		if t.MotorOwnerName != nil {
			owner = *t.MotorOwnerName
		}
		rows = append(rows, []interface{}{
			t.TripCode,
			t.LoadingDate.Format("2006-01-02"),
			unloading,
			t.FromLocation,
			t.ToLocation,
			t.VehicleNumber,
			yesNo(t.IsOwnVehicle),
			owner,
			t.PartyName,
			t.GaadiFreight.InexactFloat64(),
			t.GaadiAdvance.InexactFloat64(),
			t.GaadiBalance.InexactFloat64(),
			string(t.GaadiBalanceStatus),
			t.PartyFreight.InexactFloat64(),
			t.PartyAdvance.InexactFloat64(),
			t.TDS.InexactFloat64(),
			t.Himmali.InexactFloat64(),
			t.PartyBalance.InexactFloat64(),
			string(t.PaymentStatus),
			t.Profit.InexactFloat64(),
			string(t.PODStatus),
		})
	}
	return writeSheet("Trips", headers, rows)
}

// PaymentHistoryToExcel builds the ledger export workbook.
func PaymentHistoryToExcel(entries []*models.PaymentHistory) (*bytes.Buffer, error) {
	headers := []string{
		"Trip Code", "Loading Date", "Vehicle No.", "Payment Type", "Transaction",
		"Amount", "Deleted",
	}

	rows := make([][]interface{}, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []interface{}{
			e.TripCode,
			e.LoadingDate.Format("2006-01-02"),
			e.VehicleNumber,
			string(e.PaymentType),
			string(e.TransactionType),
			e.Amount.InexactFloat64(),
			yesNo(e.IsDeleted),
		})
	}
	return writeSheet("Payment History", headers, rows)
}

func writeSheet(sheetName string, headers []string, rows [][]interface{}) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6FA"}, Pattern: 1},
	})
	if err == nil {
		f.SetRowStyle(sheetName, 1, 1, headerStyle)
	}

	for r, values := range rows {
		for c, value := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, err
			}
		}
	}

	last, _ := excelize.ColumnNumberToName(len(headers))
	f.SetColWidth(sheetName, "A", last, 16)

	if f.GetSheetName(0) != sheetName {
		f.DeleteSheet("Sheet1")
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing Excel file to buffer: %w", err)
	}
	return &buf, nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
