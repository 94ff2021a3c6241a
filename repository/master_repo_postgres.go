package repository

import (
	"context"
	"database/sql"
	"strings"

	"transporterp/models"
)

type PostgresMasterRepo struct {
	DB *sql.DB
}

func NewPostgresMasterRepo(db *sql.DB) *PostgresMasterRepo {
	return &PostgresMasterRepo{DB: db}
}

// ------------------------ Upserts ------------------------

// UpsertParty inserts the party or backfills its mobile number when the
// stored one is empty.
func (r *PostgresMasterRepo) UpsertParty(ctx context.Context, name string, mobile *string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO parties (name, mobile_number)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE
		SET mobile_number = COALESCE(NULLIF(parties.mobile_number, ''), EXCLUDED.mobile_number)
	`, strings.TrimSpace(name), mobile)
	return classify(err)
}

func (r *PostgresMasterRepo) UpsertMotorOwner(ctx context.Context, name string, mobile *string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO motor_owners (name, mobile_number)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE
		SET mobile_number = COALESCE(NULLIF(motor_owners.mobile_number, ''), EXCLUDED.mobile_number)
	`, strings.TrimSpace(name), mobile)
	return classify(err)
}

// ------------------------ Parties ------------------------

func (r *PostgresMasterRepo) SearchParties(ctx context.Context, name string) ([]*models.Party, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, mobile_number, created_at
		FROM parties
		WHERE name ILIKE $1 ESCAPE '\'
		ORDER BY name
		LIMIT 50
	`, "%"+escapeLike(strings.TrimSpace(name))+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Party
	for rows.Next() {
		p := &models.Party{}
		if err := rows.Scan(&p.ID, &p.Name, &p.MobileNumber, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresMasterRepo) GetParty(ctx context.Context, id int64) (*models.Party, error) {
	p := &models.Party{}
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, mobile_number, created_at FROM parties WHERE id=$1
	`, id).Scan(&p.ID, &p.Name, &p.MobileNumber, &p.CreatedAt)
	if err != nil {
		return nil, classify(err)
	}
	return p, nil
}

// ------------------------ Motor owners ------------------------

func (r *PostgresMasterRepo) SearchMotorOwners(ctx context.Context, name string) ([]*models.MotorOwner, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, mobile_number, created_at
		FROM motor_owners
		WHERE name ILIKE $1 ESCAPE '\'
		ORDER BY name
		LIMIT 50
	`, "%"+escapeLike(strings.TrimSpace(name))+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.MotorOwner
	for rows.Next() {
		o := &models.MotorOwner{}
		if err := rows.Scan(&o.ID, &o.Name, &o.MobileNumber, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PostgresMasterRepo) GetMotorOwner(ctx context.Context, id int64) (*models.MotorOwner, error) {
	o := &models.MotorOwner{}
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, mobile_number, created_at FROM motor_owners WHERE id=$1
	`, id).Scan(&o.ID, &o.Name, &o.MobileNumber, &o.CreatedAt)
	if err != nil {
		return nil, classify(err)
	}
	return o, nil
}

// ------------------------ Own vehicles ------------------------

func (r *PostgresMasterRepo) ListOwnVehicles(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT vehicle_number FROM own_vehicles ORDER BY vehicle_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// AddOwnVehicle stores the normalized vehicle number. Adding an existing
// vehicle returns the stored row.
func (r *PostgresMasterRepo) AddOwnVehicle(ctx context.Context, vehicleNumber string) (*models.OwnVehicle, error) {
	v := &models.OwnVehicle{}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO own_vehicles (vehicle_number)
		VALUES ($1)
		ON CONFLICT (vehicle_number) DO UPDATE SET vehicle_number = EXCLUDED.vehicle_number
		RETURNING id, vehicle_number, created_at
	`, models.NormalizeVehicle(vehicleNumber)).Scan(&v.ID, &v.VehicleNumber, &v.CreatedAt)
	if err != nil {
		return nil, classify(err)
	}
	return v, nil
}
