package services

import (
	"context"

	"transporterp/models"
	"transporterp/repository"

	"github.com/shopspring/decimal"
)

// ledgerSlot is one tracked payment type: while Holds is true the trip has
// exactly one active ledger row of that type carrying Amount.
type ledgerSlot struct {
	Type   models.PaymentType
	Txn    models.TransactionType
	Holds  func(t *models.Trip) bool
	Amount func(t *models.Trip) decimal.Decimal
}

var ledgerSlots = []ledgerSlot{
	{
		Type:   models.GaadiAdvancePaid,
		Txn:    models.Debit,
		Holds:  func(t *models.Trip) bool { return t.GaadiAdvance.IsPositive() },
		Amount: func(t *models.Trip) decimal.Decimal { return t.GaadiAdvance },
	},
	{
		Type:   models.GaadiBalancePaid,
		Txn:    models.Debit,
		Holds:  func(t *models.Trip) bool { return t.GaadiBalanceStatus == models.StatusPaid },
		Amount: func(t *models.Trip) decimal.Decimal { return t.GaadiBalance },
	},
	{
		Type:   models.PartyAdvanceReceived,
		Txn:    models.Credit,
		Holds:  func(t *models.Trip) bool { return t.PartyAdvance.IsPositive() },
		Amount: func(t *models.Trip) decimal.Decimal { return t.PartyAdvance },
	},
	{
		Type:   models.PartyBalanceReceived,
		Txn:    models.Credit,
		Holds:  func(t *models.Trip) bool { return t.PaymentStatus == models.StatusPaid },
		Amount: func(t *models.Trip) decimal.Decimal { return t.PartyBalance },
	},
}

// syncLedger reconciles the four ledger slots of t inside the caller's
// transaction: amend or insert where the condition holds, tombstone where
// it no longer does.
func syncLedger(ctx context.Context, tx repository.TripTx, t *models.Trip) error {
	for _, slot := range ledgerSlots {
		row, err := tx.ActivePayment(ctx, t.ID, slot.Type)
		if err != nil {
			return err
		}

		if !slot.Holds(t) {
			if row != nil {
				if err := tx.SoftDeletePayment(ctx, row.ID); err != nil {
					return err
				}
			}
			continue
		}

		if row != nil {
			row.Amount = slot.Amount(t)
			row.TripCode = t.TripCode
			row.VehicleNumber = t.VehicleNumber
			row.LoadingDate = t.LoadingDate
			if err := tx.UpdatePayment(ctx, row); err != nil {
				return err
			}
			continue
		}

		if err := tx.InsertPayment(ctx, &models.PaymentHistory{
			TripID:          t.ID,
			TripCode:        t.TripCode,
			TransactionType: slot.Txn,
			PaymentType:     slot.Type,
			Amount:          slot.Amount(t),
			VehicleNumber:   t.VehicleNumber,
			LoadingDate:     t.LoadingDate,
		}); err != nil {
			return err
		}
	}
	return nil
}
