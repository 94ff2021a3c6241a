package services

import (
	"context"
	"fmt"
	"strconv"

	"transporterp/models"

	"github.com/shopspring/decimal"
)

// SlipRenderer turns a resolved slip sheet into a PDF document.
type SlipRenderer interface {
	RenderSlips(ctx context.Context, sheet *models.SlipSheet) ([]byte, error)
}

// PrintRequest is the body of POST /print/generate.
type PrintRequest struct {
	TripID  int64               `json:"trip_id"`
	Options models.PrintOptions `json:"options"`
	Preview bool                `json:"preview"`
}

const previewNumber = "PREVIEW"

type PrintService struct {
	Trips    *TripService
	Renderer SlipRenderer
	// AmountInWords spells out a rupee amount; nil leaves the line blank.
	AmountInWords func(decimal.Decimal) string
}

// Generate resolves the trip, allocates serials for the selected slip types
// (unless previewing) and renders the sheet.
func (p *PrintService) Generate(ctx context.Context, req PrintRequest) ([]byte, *models.SlipSheet, error) {
	if req.TripID <= 0 {
		return nil, nil, invalid("trip_id", "is required")
	}
	opts := req.Options
	if opts.Left == "" && opts.Right == "" {
		opts = models.PrintOptions{Left: models.LoadingSlip, Right: models.PaySlip}
	}

	var types []models.SlipType
	for _, side := range []models.SlipType{opts.Left, opts.Right} {
		if side == "" {
			continue
		}
		if _, err := models.ParseSlipType(string(side)); err != nil {
			return nil, nil, invalid("options", "%v", err)
		}
		types = append(types, side)
	}

	if !req.Preview {
		if _, err := p.Trips.AllocateSlipNumbers(ctx, req.TripID, types); err != nil {
			return nil, nil, err
		}
	}
	t, err := p.Trips.GetTrip(ctx, req.TripID)
	if err != nil {
		return nil, nil, err
	}

	sheet := &models.SlipSheet{TripCode: t.TripCode}
	if opts.Left != "" {
		sheet.Left = p.buildSlip(t, opts.Left, req.Preview)
	}
	if opts.Right != "" {
		sheet.Right = p.buildSlip(t, opts.Right, req.Preview)
	}

	pdf, err := p.Renderer.RenderSlips(ctx, sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("render slips for trip %d: %w", t.ID, err)
	}
	return pdf, sheet, nil
}

func (p *PrintService) buildSlip(t *models.Trip, st models.SlipType, preview bool) *models.SlipPDFData {
	d := &models.SlipPDFData{
		Kind:      st,
		Number:    previewNumber,
		Date:      t.LoadingDate.Format("02-Jan-2006"),
		From:      t.FromLocation,
		To:        t.ToLocation,
		VehicleNo: t.VehicleNumber,
		Remarks:   deref(t.Remark),
	}
	if !preview {
		if n := t.SlipNumber(st); n != nil {
			d.Number = strconv.FormatInt(*n, 10)
		}
	}
	if t.Weight != nil {
		d.Weight = t.Weight.String()
	}

	var balance decimal.Decimal
	switch st {
	case models.PaySlip:
		d.Title = "Pay Slip"
		d.Counterparty = deref(t.MotorOwnerName)
		d.Contact = deref(t.DriverNumber)
		d.Freight = t.GaadiFreight.StringFixed(2)
		d.Advance = t.GaadiAdvance.StringFixed(2)
		balance = t.GaadiBalance
	default:
		d.Title = "Loading Slip"
		d.Counterparty = t.PartyName
		d.Contact = deref(t.PartyNumber)
		d.Freight = t.PartyFreight.StringFixed(2)
		d.Advance = t.PartyAdvance.StringFixed(2)
		balance = t.PartyBalance
	}
	d.Balance = balance.StringFixed(2)
	if p.AmountInWords != nil {
		d.BalanceWords = p.AmountInWords(balance)
	}
	return d
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
