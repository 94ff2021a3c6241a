package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"transporterp/models"

	"github.com/shopspring/decimal"
)

// ------------------------ Masters ------------------------

func (m *MemoryStore) UpsertParty(ctx context.Context, name string, mobile *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = strings.TrimSpace(name)
	if p, ok := m.state.parties[name]; ok {
		if (p.MobileNumber == nil || *p.MobileNumber == "") && mobile != nil {
			v := *mobile
			p.MobileNumber = &v
		}
		return nil
	}
	m.state.parties[name] = &models.Party{
		ID:           m.state.nextID("parties"),
		Name:         name,
		MobileNumber: cloneStringPtr(mobile),
		CreatedAt:    m.now(),
	}
	return nil
}

func (m *MemoryStore) UpsertMotorOwner(ctx context.Context, name string, mobile *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = strings.TrimSpace(name)
	if o, ok := m.state.owners[name]; ok {
		if (o.MobileNumber == nil || *o.MobileNumber == "") && mobile != nil {
			v := *mobile
			o.MobileNumber = &v
		}
		return nil
	}
	m.state.owners[name] = &models.MotorOwner{
		ID:           m.state.nextID("motor_owners"),
		Name:         name,
		MobileNumber: cloneStringPtr(mobile),
		CreatedAt:    m.now(),
	}
	return nil
}

func (m *MemoryStore) SearchParties(ctx context.Context, name string) ([]*models.Party, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(name))
	var out []*models.Party
	for _, p := range m.state.parties {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			c := *p
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) GetParty(ctx context.Context, id int64) (*models.Party, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.state.parties {
		if p.ID == id {
			c := *p
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) SearchMotorOwners(ctx context.Context, name string) ([]*models.MotorOwner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(name))
	var out []*models.MotorOwner
	for _, o := range m.state.owners {
		if strings.Contains(strings.ToLower(o.Name), needle) {
			c := *o
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) GetMotorOwner(ctx context.Context, id int64) (*models.MotorOwner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.state.owners {
		if o.ID == id {
			c := *o
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) ListOwnVehicles(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.state.ownVehicles))
	for _, v := range m.state.ownVehicles {
		out = append(out, v.VehicleNumber)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryStore) AddOwnVehicle(ctx context.Context, vehicleNumber string) (*models.OwnVehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	norm := models.NormalizeVehicle(vehicleNumber)
	for _, v := range m.state.ownVehicles {
		if v.VehicleNumber == norm {
			c := *v
			return &c, nil
		}
	}
	v := &models.OwnVehicle{ID: m.state.nextID("own_vehicles"), VehicleNumber: norm, CreatedAt: m.now()}
	m.state.ownVehicles = append(m.state.ownVehicles, v)
	c := *v
	return &c, nil
}

// ------------------------ Expenses ------------------------

func (m *MemoryStore) ListExpenses(ctx context.Context) ([]*models.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.Expense, 0, len(m.state.expenses))
	for _, e := range m.state.expenses {
		c := *e
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) CreateExpense(ctx context.Context, e *models.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e.ID = m.state.nextID("daily_expenses")
	e.CreatedAt = m.now()
	c := *e
	m.state.expenses[e.ID] = &c
	return nil
}

func (m *MemoryStore) UpdateExpense(ctx context.Context, e *models.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.state.expenses[e.ID]
	if !ok {
		return ErrNotFound
	}
	e.CreatedAt = stored.CreatedAt
	c := *e
	m.state.expenses[e.ID] = &c
	return nil
}

// ------------------------ Reports ------------------------

func (m *MemoryStore) activeTripsLocked() []*models.Trip {
	var out []*models.Trip
	for id := range m.state.trips {
		if tr, _ := m.readTripLocked(id); !tr.IsDeleted {
			out = append(out, tr)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LoadingDate.Equal(out[j].LoadingDate) {
			return out[i].LoadingDate.Before(out[j].LoadingDate)
		}
		return out[i].TripCode < out[j].TripCode
	})
	return out
}

func (m *MemoryStore) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &models.DashboardSummary{}
	for _, tr := range m.activeTripsLocked() {
		s.TotalTrips++
		s.TotalProfit = s.TotalProfit.Add(tr.Profit)
		if tr.PaymentStatus == models.StatusUnpaid {
			s.PaymentPending++
			s.TotalOutstanding = s.TotalOutstanding.Add(tr.PartyBalance)
		}
		if tr.PODStatus == models.PODPending {
			s.PODPending++
		}
	}
	return s, nil
}

func (m *MemoryStore) ProfitTrend(ctx context.Context) ([]models.MonthlyPoint, error) {
	return m.monthly(func(tr *models.Trip) decimal.Decimal { return tr.Profit })
}

func (m *MemoryStore) TripVolume(ctx context.Context) ([]models.MonthlyPoint, error) {
	return m.monthly(func(*models.Trip) decimal.Decimal { return decimal.NewFromInt(1) })
}

func (m *MemoryStore) monthly(value func(*models.Trip) decimal.Decimal) ([]models.MonthlyPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)

	buckets := map[time.Time]decimal.Decimal{}
	for _, tr := range m.activeTripsLocked() {
		month := time.Date(tr.LoadingDate.Year(), tr.LoadingDate.Month(), 1, 0, 0, 0, 0, time.UTC)
		if month.Before(from) {
			continue
		}
		buckets[month] = buckets[month].Add(value(tr))
	}

	out := make([]models.MonthlyPoint, 0, len(buckets))
	for month, v := range buckets {
		out = append(out, models.MonthlyPoint{Month: month, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out, nil
}

func (m *MemoryStore) TripsForReport(ctx context.Context, filter models.ReportFilter) ([]*models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	party := strings.ToLower(filter.Party)
	var out []*models.Trip
	for _, tr := range m.activeTripsLocked() {
		if filter.StartDate != nil && tr.LoadingDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && tr.LoadingDate.After(*filter.EndDate) {
			continue
		}
		if party != "" && !strings.Contains(strings.ToLower(tr.PartyName), party) {
			continue
		}
		out = append(out, tr)
	}
	return out, nil
}

// ------------------------ Users ------------------------

func (m *MemoryStore) CreateUser(ctx context.Context, user *models.AppUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if _, ok := m.state.users[user.Email]; ok {
		return fmt.Errorf("%w: email already exists", ErrConflict)
	}
	if err := hashUserPassword(user); err != nil {
		return err
	}
	user.ID = m.state.nextID("users")
	if user.CreatedAt.IsZero() {
		user.CreatedAt = m.now()
	}
	c := *user
	m.state.users[user.Email] = &c
	return nil
}

func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.AppUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.state.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (m *MemoryStore) ListUsers(ctx context.Context) ([]*models.AppUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.AppUser, 0, len(m.state.users))
	for _, u := range m.state.users {
		c := *u
		c.Password = ""
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
