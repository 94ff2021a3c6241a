package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"transporterp/models"
)

type PostgresTripRepo struct {
	DB          *sql.DB
	LockTimeout time.Duration
}

func NewPostgresTripRepo(db *sql.DB, lockTimeout time.Duration) *PostgresTripRepo {
	return &PostgresTripRepo{DB: db, LockTimeout: lockTimeout}
}

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// ------------------------ Column lists ------------------------

const ownVehicleExpr = `EXISTS (
	SELECT 1 FROM own_vehicles o
	WHERE upper(regexp_replace(o.vehicle_number, '\s', '', 'g')) = upper(regexp_replace(t.vehicle_number, '\s', '', 'g'))
)`

const tripColumns = `
	t.id, t.trip_code, t.original_trip_code, t.loading_date, t.unloading_date,
	t.from_location, t.to_location, t.vehicle_number, t.driver_number,
	t.motor_owner_name, t.motor_owner_number, t.party_name, t.party_number,
	t.gaadi_freight, t.gaadi_advance, t.gaadi_balance,
	t.party_freight, t.party_advance, t.party_balance,
	t.tds, t.himmali, t.profit, t.weight, t.remark,
	t.payment_status, t.gaadi_balance_status, t.pod_status, t.pod_path,
	t.pay_slip_number, t.loading_slip_number, t.is_deleted, t.created_at, t.updated_at,
	` + ownVehicleExpr

func scanTrip(row rowScanner) (*models.Trip, error) {
	var t models.Trip
	err := row.Scan(
		&t.ID, &t.TripCode, &t.OriginalTripCode, &t.LoadingDate, &t.UnloadingDate,
		&t.FromLocation, &t.ToLocation, &t.VehicleNumber, &t.DriverNumber,
		&t.MotorOwnerName, &t.MotorOwnerNumber, &t.PartyName, &t.PartyNumber,
		&t.GaadiFreight, &t.GaadiAdvance, &t.GaadiBalance,
		&t.PartyFreight, &t.PartyAdvance, &t.PartyBalance,
		&t.TDS, &t.Himmali, &t.Profit, &t.Weight, &t.Remark,
		&t.PaymentStatus, &t.GaadiBalanceStatus, &t.PODStatus, &t.PODPath,
		&t.PaySlipNumber, &t.LoadingSlipNumber, &t.IsDeleted, &t.CreatedAt, &t.UpdatedAt,
		&t.IsOwnVehicle,
	)
	if err != nil {
		return nil, err
	}
	t.SyncState()
	return &t, nil
}

func scanTrips(rows *sql.Rows) ([]*models.Trip, error) {
	defer rows.Close()
	var out []*models.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

const paymentColumns = `
	id, trip_id, trip_code, transaction_type, payment_type, amount,
	vehicle_number, loading_date, is_deleted, created_at, updated_at`

func scanPayment(row rowScanner) (*models.PaymentHistory, error) {
	var p models.PaymentHistory
	err := row.Scan(
		&p.ID, &p.TripID, &p.TripCode, &p.TransactionType, &p.PaymentType, &p.Amount,
		&p.VehicleNumber, &p.LoadingDate, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ------------------------ Transactions ------------------------

// WithTx runs fn inside one transaction. Any error from fn, including a
// lock timeout, rolls every statement back.
func (r *PostgresTripRepo) WithTx(ctx context.Context, fn func(tx TripTx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return classify(err)
	}
	defer tx.Rollback()

	if r.LockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.LockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return classify(err)
		}
	}

	if err := fn(&postgresTripTx{q: tx}); err != nil {
		return classify(err)
	}
	return classify(tx.Commit())
}

type postgresTripTx struct {
	q queryer
}

func (p *postgresTripTx) LockSequence(ctx context.Context, prefix string) error {
	_, err := p.q.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "trip_code:"+prefix)
	return err
}

func (p *postgresTripTx) ActiveTripCodes(ctx context.Context, prefix string) ([]string, error) {
	rows, err := p.q.QueryContext(ctx, `
		SELECT trip_code
		FROM trips
		WHERE trip_code LIKE $1 AND is_deleted = false
		ORDER BY trip_code DESC
	`, likePrefix(prefix))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}

func (p *postgresTripTx) TripCodeTaken(ctx context.Context, code string, excludeID int64) (bool, error) {
	var taken bool
	err := p.q.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM trips WHERE trip_code = $1 AND is_deleted = false AND id <> $2
		)
	`, code, excludeID).Scan(&taken)
	return taken, err
}

func (p *postgresTripTx) IsOwnVehicle(ctx context.Context, vehicleNumber string) (bool, error) {
	var own bool
	err := p.q.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM own_vehicles
			WHERE upper(regexp_replace(vehicle_number, '\s', '', 'g')) = $1
		)
	`, models.NormalizeVehicle(vehicleNumber)).Scan(&own)
	return own, err
}

// ------------------------ Trips ------------------------

func (p *postgresTripTx) InsertTrip(ctx context.Context, t *models.Trip) error {
	return p.q.QueryRowContext(ctx, `
		INSERT INTO trips (
			trip_code, loading_date, unloading_date, from_location, to_location,
			vehicle_number, driver_number, motor_owner_name, motor_owner_number,
			party_name, party_number,
			gaadi_freight, gaadi_advance, gaadi_balance,
			party_freight, party_advance, party_balance,
			tds, himmali, profit, weight, remark,
			payment_status, gaadi_balance_status, pod_status, pod_path
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26)
		RETURNING id, created_at, updated_at
	`,
		t.TripCode, t.LoadingDate, t.UnloadingDate, t.FromLocation, t.ToLocation,
		t.VehicleNumber, t.DriverNumber, t.MotorOwnerName, t.MotorOwnerNumber,
		t.PartyName, t.PartyNumber,
		t.GaadiFreight, t.GaadiAdvance, t.GaadiBalance,
		t.PartyFreight, t.PartyAdvance, t.PartyBalance,
		t.TDS, t.Himmali, t.Profit, t.Weight, t.Remark,
		t.PaymentStatus, t.GaadiBalanceStatus, t.PODStatus, t.PODPath,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (p *postgresTripTx) LockTrip(ctx context.Context, id int64) (*models.Trip, error) {
	row := p.q.QueryRowContext(ctx, `SELECT `+tripColumns+` FROM trips t WHERE t.id = $1 FOR UPDATE OF t`, id)
	t, err := scanTrip(row)
	if err != nil {
		return nil, classify(err)
	}
	return t, nil
}

func (p *postgresTripTx) UpdateTrip(ctx context.Context, t *models.Trip) error {
	err := p.q.QueryRowContext(ctx, `
		UPDATE trips SET
			trip_code=$1,
			original_trip_code=$2,
			loading_date=$3,
			unloading_date=$4,
			from_location=$5,
			to_location=$6,
			vehicle_number=$7,
			driver_number=$8,
			motor_owner_name=$9,
			motor_owner_number=$10,
			party_name=$11,
			party_number=$12,
			gaadi_freight=$13,
			gaadi_advance=$14,
			gaadi_balance=$15,
			party_freight=$16,
			party_advance=$17,
			party_balance=$18,
			tds=$19,
			himmali=$20,
			profit=$21,
			weight=$22,
			remark=$23,
			payment_status=$24,
			gaadi_balance_status=$25,
			pod_status=$26,
			pod_path=$27,
			pay_slip_number=$28,
			loading_slip_number=$29,
			is_deleted=$30,
			updated_at=now()
		WHERE id=$31
		RETURNING updated_at
	`,
		t.TripCode, t.OriginalTripCode, t.LoadingDate, t.UnloadingDate,
		t.FromLocation, t.ToLocation, t.VehicleNumber, t.DriverNumber,
		t.MotorOwnerName, t.MotorOwnerNumber, t.PartyName, t.PartyNumber,
		t.GaadiFreight, t.GaadiAdvance, t.GaadiBalance,
		t.PartyFreight, t.PartyAdvance, t.PartyBalance,
		t.TDS, t.Himmali, t.Profit, t.Weight, t.Remark,
		t.PaymentStatus, t.GaadiBalanceStatus, t.PODStatus, t.PODPath,
		t.PaySlipNumber, t.LoadingSlipNumber, t.IsDeleted, t.ID,
	).Scan(&t.UpdatedAt)
	if err != nil {
		return classify(err)
	}
	t.SyncState()
	return nil
}

func (p *postgresTripTx) DeleteTrip(ctx context.Context, id int64) error {
	_, err := p.q.ExecContext(ctx, `DELETE FROM trips WHERE id=$1`, id)
	return err
}

// ------------------------ Payment history ------------------------

func (p *postgresTripTx) ActivePayment(ctx context.Context, tripID int64, pt models.PaymentType) (*models.PaymentHistory, error) {
	row := p.q.QueryRowContext(ctx, `
		SELECT `+paymentColumns+`
		FROM payment_history
		WHERE trip_id=$1 AND payment_type=$2 AND is_deleted=false
		ORDER BY id DESC
		LIMIT 1
	`, tripID, pt)
	ph, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return ph, err
}

func (p *postgresTripTx) InsertPayment(ctx context.Context, ph *models.PaymentHistory) error {
	return p.q.QueryRowContext(ctx, `
		INSERT INTO payment_history (
			trip_id, trip_code, transaction_type, payment_type, amount, vehicle_number, loading_date
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at, updated_at
	`, ph.TripID, ph.TripCode, ph.TransactionType, ph.PaymentType, ph.Amount, ph.VehicleNumber, ph.LoadingDate,
	).Scan(&ph.ID, &ph.CreatedAt, &ph.UpdatedAt)
}

func (p *postgresTripTx) UpdatePayment(ctx context.Context, ph *models.PaymentHistory) error {
	return p.q.QueryRowContext(ctx, `
		UPDATE payment_history SET
			amount=$1,
			trip_code=$2,
			vehicle_number=$3,
			loading_date=$4,
			updated_at=now()
		WHERE id=$5
		RETURNING updated_at
	`, ph.Amount, ph.TripCode, ph.VehicleNumber, ph.LoadingDate, ph.ID).Scan(&ph.UpdatedAt)
}

func (p *postgresTripTx) SoftDeletePayment(ctx context.Context, id int64) error {
	_, err := p.q.ExecContext(ctx, `UPDATE payment_history SET is_deleted=true, updated_at=now() WHERE id=$1`, id)
	return err
}

func (p *postgresTripTx) SoftDeleteTripPayments(ctx context.Context, tripID int64) error {
	_, err := p.q.ExecContext(ctx, `
		UPDATE payment_history SET is_deleted=true, updated_at=now()
		WHERE trip_id=$1 AND is_deleted=false
	`, tripID)
	return err
}

func (p *postgresTripTx) RetagTripPayments(ctx context.Context, tripID int64, tripCode string) error {
	_, err := p.q.ExecContext(ctx, `UPDATE payment_history SET trip_code=$1, updated_at=now() WHERE trip_id=$2`, tripCode, tripID)
	return err
}

func (p *postgresTripTx) DeleteTripPayments(ctx context.Context, tripID int64) error {
	_, err := p.q.ExecContext(ctx, `DELETE FROM payment_history WHERE trip_id=$1`, tripID)
	return err
}

// ------------------------ Slip counters ------------------------

// NextSlipNumber increments the counter row atomically; a missing row starts at 1.
func (p *postgresTripTx) NextSlipNumber(ctx context.Context, st models.SlipType) (int64, error) {
	var n int64
	err := p.q.QueryRowContext(ctx, `
		INSERT INTO slip_counters (type, current_value)
		VALUES ($1, 1)
		ON CONFLICT (type) DO UPDATE SET current_value = slip_counters.current_value + 1
		RETURNING current_value
	`, string(st)).Scan(&n)
	return n, err
}

// ------------------------ Reads ------------------------

func (r *PostgresTripRepo) GetTrip(ctx context.Context, id int64) (*models.Trip, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+tripColumns+` FROM trips t WHERE t.id = $1`, id)
	t, err := scanTrip(row)
	if err != nil {
		return nil, classify(err)
	}
	return t, nil
}

func (r *PostgresTripRepo) ListTrips(ctx context.Context, filter models.TripFilter) ([]*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips t WHERE t.is_deleted = $1`
	if filter.Own != nil {
		if *filter.Own {
			query += ` AND ` + ownVehicleExpr
		} else {
			query += ` AND NOT ` + ownVehicleExpr
		}
	}
	query += ` ORDER BY t.loading_date DESC, t.trip_code DESC`

	rows, err := r.DB.QueryContext(ctx, query, filter.Deleted)
	if err != nil {
		return nil, err
	}
	return scanTrips(rows)
}

func (r *PostgresTripRepo) ListPaymentHistory(ctx context.Context, filter models.PaymentHistoryFilter) ([]*models.PaymentHistory, error) {
	where := []string{}
	args := []interface{}{}
	add := func(cond string, v interface{}) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if !filter.IncludeDeleted {
		where = append(where, "is_deleted = false")
	}
	if filter.PaymentType != "" {
		add("payment_type = $%d", filter.PaymentType)
	}
	if filter.TripID != 0 {
		add("trip_id = $%d", filter.TripID)
	}
	if filter.FromDate != nil {
		add("loading_date >= $%d", *filter.FromDate)
	}
	if filter.ToDate != nil {
		add("loading_date <= $%d", *filter.ToDate)
	}
	if filter.Vehicle != "" {
		add(`vehicle_number ILIKE $%d ESCAPE '\'`, "%"+escapeLike(filter.Vehicle)+"%")
	}

	query := `SELECT ` + paymentColumns + ` FROM payment_history`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY loading_date DESC, id DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.PaymentHistory
	for rows.Next() {
		ph, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ph)
	}
	return out, rows.Err()
}

func (r *PostgresTripRepo) ListPODRecords(ctx context.Context) ([]PODRecord, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, pod_path, pod_status FROM trips ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PODRecord
	for rows.Next() {
		var rec PODRecord
		if err := rows.Scan(&rec.TripID, &rec.Raw, &rec.Status); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// likePrefix escapes LIKE wildcards in a code prefix; trip codes use '_'.
func likePrefix(prefix string) string {
	return escapeLike(prefix) + "%"
}
