package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"transporterp/models"
)

// =============================================================================
// EXPENSES
// =============================================================================

type PostgresExpenseRepo struct {
	DB *sql.DB
}

func NewPostgresExpenseRepo(db *sql.DB) *PostgresExpenseRepo {
	return &PostgresExpenseRepo{DB: db}
}

func (r *PostgresExpenseRepo) ListExpenses(ctx context.Context) ([]*models.Expense, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, date, category, amount, vehicle_number, notes, created_at
		FROM daily_expenses
		ORDER BY date DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Expense
	for rows.Next() {
		e := &models.Expense{}
		if err := rows.Scan(&e.ID, &e.Date, &e.Category, &e.Amount, &e.VehicleNumber, &e.Notes, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PostgresExpenseRepo) CreateExpense(ctx context.Context, e *models.Expense) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO daily_expenses (date, category, amount, vehicle_number, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, e.Date, e.Category, e.Amount, e.VehicleNumber, e.Notes).Scan(&e.ID, &e.CreatedAt)
	return classify(err)
}

func (r *PostgresExpenseRepo) UpdateExpense(ctx context.Context, e *models.Expense) error {
	err := r.DB.QueryRowContext(ctx, `
		UPDATE daily_expenses
		SET date=$1, category=$2, amount=$3, vehicle_number=$4, notes=$5
		WHERE id=$6
		RETURNING created_at
	`, e.Date, e.Category, e.Amount, e.VehicleNumber, e.Notes, e.ID).Scan(&e.CreatedAt)
	return classify(err)
}

// =============================================================================
// REPORTS & DASHBOARD
// =============================================================================

type PostgresReportRepo struct {
	DB *sql.DB
}

func NewPostgresReportRepo(db *sql.DB) *PostgresReportRepo {
	return &PostgresReportRepo{DB: db}
}

func (r *PostgresReportRepo) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	s := &models.DashboardSummary{}
	err := r.DB.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(party_balance) FILTER (WHERE payment_status = 'UNPAID'), 0),
			COALESCE(SUM(profit), 0),
			COUNT(*) FILTER (WHERE pod_status = 'PENDING'),
			COUNT(*) FILTER (WHERE payment_status = 'UNPAID')
		FROM trips
		WHERE is_deleted = false
	`).Scan(&s.TotalTrips, &s.TotalOutstanding, &s.TotalProfit, &s.PODPending, &s.PaymentPending)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ProfitTrend sums profit per month over the last twelve months.
func (r *PostgresReportRepo) ProfitTrend(ctx context.Context) ([]models.MonthlyPoint, error) {
	return r.monthly(ctx, "COALESCE(SUM(profit), 0)")
}

// TripVolume counts active trips per month over the last twelve months.
func (r *PostgresReportRepo) TripVolume(ctx context.Context) ([]models.MonthlyPoint, error) {
	return r.monthly(ctx, "COUNT(*)")
}

func (r *PostgresReportRepo) monthly(ctx context.Context, agg string) ([]models.MonthlyPoint, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT date_trunc('month', loading_date) AS month, `+agg+`
		FROM trips
		WHERE is_deleted = false
		  AND loading_date >= date_trunc('month', now()) - interval '11 months'
		GROUP BY month
		ORDER BY month
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.MonthlyPoint
	for rows.Next() {
		var p models.MonthlyPoint
		if err := rows.Scan(&p.Month, &p.Value); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresReportRepo) TripsForReport(ctx context.Context, filter models.ReportFilter) ([]*models.Trip, error) {
	where := []string{"t.is_deleted = false"}
	args := []interface{}{}
	add := func(cond string, v interface{}) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.StartDate != nil {
		add("t.loading_date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("t.loading_date <= $%d", *filter.EndDate)
	}
	if filter.Party != "" {
		add(`t.party_name ILIKE $%d ESCAPE '\'`, "%"+escapeLike(filter.Party)+"%")
	}

	query := `SELECT ` + tripColumns + ` FROM trips t WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY t.loading_date, t.trip_code`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanTrips(rows)
}
