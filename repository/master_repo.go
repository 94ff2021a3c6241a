package repository

import (
	"context"

	"transporterp/models"
)

// MasterRepository holds the name-keyed dictionaries referenced by trips.
type MasterRepository interface {
	UpsertParty(ctx context.Context, name string, mobile *string) error
	UpsertMotorOwner(ctx context.Context, name string, mobile *string) error
	SearchParties(ctx context.Context, name string) ([]*models.Party, error)
	GetParty(ctx context.Context, id int64) (*models.Party, error)
	SearchMotorOwners(ctx context.Context, name string) ([]*models.MotorOwner, error)
	GetMotorOwner(ctx context.Context, id int64) (*models.MotorOwner, error)
	ListOwnVehicles(ctx context.Context) ([]string, error)
	AddOwnVehicle(ctx context.Context, vehicleNumber string) (*models.OwnVehicle, error)
}

// ExpenseRepository stores daily expenses.
type ExpenseRepository interface {
	ListExpenses(ctx context.Context) ([]*models.Expense, error)
	CreateExpense(ctx context.Context, e *models.Expense) error
	UpdateExpense(ctx context.Context, e *models.Expense) error
}

// ReportRepository serves dashboard aggregates and exports.
type ReportRepository interface {
	Summary(ctx context.Context) (*models.DashboardSummary, error)
	ProfitTrend(ctx context.Context) ([]models.MonthlyPoint, error)
	TripVolume(ctx context.Context) ([]models.MonthlyPoint, error)
	TripsForReport(ctx context.Context, filter models.ReportFilter) ([]*models.Trip, error)
}
