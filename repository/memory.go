package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"transporterp/models"
)

// =============================================================================
// MEMORY STORE - in-process implementation of every repository (dev/tests)
// =============================================================================

// MemoryStore serializes all transactions behind one mutex, which is a
// strictly stronger guarantee than the row and advisory locks of the
// PostgreSQL store. Failed transactions restore the snapshot taken at begin.
type MemoryStore struct {
	mu    sync.Mutex
	state *memState
	now   func() time.Time
}

type memState struct {
	trips       map[int64]*models.Trip
	podRaw      map[int64]*string
	payments    map[int64]*models.PaymentHistory
	parties     map[string]*models.Party
	owners      map[string]*models.MotorOwner
	ownVehicles []*models.OwnVehicle
	counters    map[models.SlipType]int64
	expenses    map[int64]*models.Expense
	users       map[string]*models.AppUser
	seq         map[string]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		state: &memState{
			trips:    make(map[int64]*models.Trip),
			podRaw:   make(map[int64]*string),
			payments: make(map[int64]*models.PaymentHistory),
			parties:  make(map[string]*models.Party),
			owners:   make(map[string]*models.MotorOwner),
			counters: map[models.SlipType]int64{models.PaySlip: 0, models.LoadingSlip: 0},
			expenses: make(map[int64]*models.Expense),
			users:    make(map[string]*models.AppUser),
			seq:      make(map[string]int64),
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *memState) clone() *memState {
	c := &memState{
		trips:       make(map[int64]*models.Trip, len(s.trips)),
		podRaw:      make(map[int64]*string, len(s.podRaw)),
		payments:    make(map[int64]*models.PaymentHistory, len(s.payments)),
		parties:     make(map[string]*models.Party, len(s.parties)),
		owners:      make(map[string]*models.MotorOwner, len(s.owners)),
		ownVehicles: append([]*models.OwnVehicle(nil), s.ownVehicles...),
		counters:    make(map[models.SlipType]int64, len(s.counters)),
		expenses:    make(map[int64]*models.Expense, len(s.expenses)),
		users:       make(map[string]*models.AppUser, len(s.users)),
		seq:         make(map[string]int64, len(s.seq)),
	}
	for k, v := range s.trips {
		c.trips[k] = v.Clone()
	}
	for k, v := range s.podRaw {
		c.podRaw[k] = v
	}
	for k, v := range s.payments {
		p := *v
		c.payments[k] = &p
	}
	for k, v := range s.parties {
		p := *v
		c.parties[k] = &p
	}
	for k, v := range s.owners {
		o := *v
		c.owners[k] = &o
	}
	for k, v := range s.counters {
		c.counters[k] = v
	}
	for k, v := range s.expenses {
		e := *v
		c.expenses[k] = &e
	}
	for k, v := range s.users {
		u := *v
		c.users[k] = &u
	}
	for k, v := range s.seq {
		c.seq[k] = v
	}
	return c
}

func (s *memState) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// ------------------------ Transactions ------------------------

func (m *MemoryStore) WithTx(ctx context.Context, fn func(tx TripTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := m.state.clone()
	if err := fn(&memTx{m: m}); err != nil {
		m.state = snapshot
		return err
	}
	if err := ctx.Err(); err != nil {
		m.state = snapshot
		return err
	}
	return nil
}

type memTx struct {
	m *MemoryStore
}

func (t *memTx) st() *memState { return t.m.state }

func (t *memTx) LockSequence(ctx context.Context, prefix string) error { return nil }

func (t *memTx) ActiveTripCodes(ctx context.Context, prefix string) ([]string, error) {
	var codes []string
	for _, tr := range t.st().trips {
		if !tr.IsDeleted && strings.HasPrefix(tr.TripCode, prefix) {
			codes = append(codes, tr.TripCode)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(codes)))
	return codes, nil
}

func (t *memTx) TripCodeTaken(ctx context.Context, code string, excludeID int64) (bool, error) {
	for _, tr := range t.st().trips {
		if !tr.IsDeleted && tr.TripCode == code && tr.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) IsOwnVehicle(ctx context.Context, vehicleNumber string) (bool, error) {
	return t.m.isOwnLocked(vehicleNumber), nil
}

func (m *MemoryStore) isOwnLocked(vehicleNumber string) bool {
	want := models.NormalizeVehicle(vehicleNumber)
	for _, v := range m.state.ownVehicles {
		if models.NormalizeVehicle(v.VehicleNumber) == want {
			return true
		}
	}
	return false
}

func (t *memTx) checkUniqueCode(tr *models.Trip) error {
	if tr.IsDeleted {
		return nil
	}
	for _, other := range t.st().trips {
		if other.ID != tr.ID && !other.IsDeleted && other.TripCode == tr.TripCode {
			return fmt.Errorf("%w: duplicate active trip_code %s", ErrConflict, tr.TripCode)
		}
	}
	return nil
}

func (t *memTx) InsertTrip(ctx context.Context, tr *models.Trip) error {
	if err := t.checkUniqueCode(tr); err != nil {
		return err
	}
	st := t.st()
	tr.ID = st.nextID("trips")
	tr.CreatedAt = t.m.now()
	tr.UpdatedAt = tr.CreatedAt
	t.m.writeTripLocked(tr)
	return nil
}

func (m *MemoryStore) writeTripLocked(tr *models.Trip) {
	stored := tr.Clone()
	v, _ := stored.PODPath.Value()
	raw := v.(string)
	m.state.podRaw[tr.ID] = &raw
	stored.PODPath = nil
	m.state.trips[tr.ID] = stored
}

func (m *MemoryStore) readTripLocked(id int64) (*models.Trip, bool) {
	stored, ok := m.state.trips[id]
	if !ok {
		return nil, false
	}
	tr := stored.Clone()
	tr.PODPath = models.PODPaths{}
	if raw := m.state.podRaw[id]; raw != nil {
		_ = tr.PODPath.Scan(*raw)
	}
	tr.IsOwnVehicle = m.isOwnLocked(tr.VehicleNumber)
	tr.SyncState()
	return tr, true
}

func (t *memTx) LockTrip(ctx context.Context, id int64) (*models.Trip, error) {
	tr, ok := t.m.readTripLocked(id)
	if !ok {
		return nil, ErrNotFound
	}
	return tr, nil
}

func (t *memTx) UpdateTrip(ctx context.Context, tr *models.Trip) error {
	if _, ok := t.st().trips[tr.ID]; !ok {
		return ErrNotFound
	}
	if err := t.checkUniqueCode(tr); err != nil {
		return err
	}
	tr.UpdatedAt = t.m.now()
	tr.SyncState()
	t.m.writeTripLocked(tr)
	return nil
}

func (t *memTx) DeleteTrip(ctx context.Context, id int64) error {
	delete(t.st().trips, id)
	delete(t.st().podRaw, id)
	return nil
}

// ------------------------ Payment history ------------------------

func (t *memTx) ActivePayment(ctx context.Context, tripID int64, pt models.PaymentType) (*models.PaymentHistory, error) {
	var found *models.PaymentHistory
	for _, p := range t.st().payments {
		if p.TripID == tripID && p.PaymentType == pt && !p.IsDeleted {
			if found == nil || p.ID > found.ID {
				found = p
			}
		}
	}
	if found == nil {
		return nil, nil
	}
	c := *found
	return &c, nil
}

func (t *memTx) InsertPayment(ctx context.Context, ph *models.PaymentHistory) error {
	existing, _ := t.ActivePayment(ctx, ph.TripID, ph.PaymentType)
	if existing != nil {
		return fmt.Errorf("%w: active %q row already exists for trip %d", ErrConflict, ph.PaymentType, ph.TripID)
	}
	st := t.st()
	ph.ID = st.nextID("payment_history")
	ph.CreatedAt = t.m.now()
	ph.UpdatedAt = ph.CreatedAt
	c := *ph
	st.payments[ph.ID] = &c
	return nil
}

func (t *memTx) UpdatePayment(ctx context.Context, ph *models.PaymentHistory) error {
	stored, ok := t.st().payments[ph.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Amount = ph.Amount
	stored.TripCode = ph.TripCode
	stored.VehicleNumber = ph.VehicleNumber
	stored.LoadingDate = ph.LoadingDate
	stored.UpdatedAt = t.m.now()
	ph.UpdatedAt = stored.UpdatedAt
	return nil
}

func (t *memTx) SoftDeletePayment(ctx context.Context, id int64) error {
	if p, ok := t.st().payments[id]; ok {
		p.IsDeleted = true
		p.UpdatedAt = t.m.now()
	}
	return nil
}

func (t *memTx) SoftDeleteTripPayments(ctx context.Context, tripID int64) error {
	for _, p := range t.st().payments {
		if p.TripID == tripID && !p.IsDeleted {
			p.IsDeleted = true
			p.UpdatedAt = t.m.now()
		}
	}
	return nil
}

func (t *memTx) RetagTripPayments(ctx context.Context, tripID int64, tripCode string) error {
	for _, p := range t.st().payments {
		if p.TripID == tripID {
			p.TripCode = tripCode
			p.UpdatedAt = t.m.now()
		}
	}
	return nil
}

func (t *memTx) DeleteTripPayments(ctx context.Context, tripID int64) error {
	for id, p := range t.st().payments {
		if p.TripID == tripID {
			delete(t.st().payments, id)
		}
	}
	return nil
}

func (t *memTx) NextSlipNumber(ctx context.Context, st models.SlipType) (int64, error) {
	t.st().counters[st]++
	return t.st().counters[st], nil
}

// ------------------------ Reads ------------------------

func (m *MemoryStore) GetTrip(ctx context.Context, id int64) (*models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tr, ok := m.readTripLocked(id)
	if !ok {
		return nil, ErrNotFound
	}
	return tr, nil
}

func (m *MemoryStore) ListTrips(ctx context.Context, filter models.TripFilter) ([]*models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*models.Trip
	for id := range m.state.trips {
		tr, _ := m.readTripLocked(id)
		if tr.IsDeleted != filter.Deleted {
			continue
		}
		if filter.Own != nil && tr.IsOwnVehicle != *filter.Own {
			continue
		}
		out = append(out, tr)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LoadingDate.Equal(out[j].LoadingDate) {
			return out[i].LoadingDate.After(out[j].LoadingDate)
		}
		return out[i].TripCode > out[j].TripCode
	})
	return out, nil
}

func (m *MemoryStore) ListPaymentHistory(ctx context.Context, f models.PaymentHistoryFilter) ([]*models.PaymentHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*models.PaymentHistory
	for _, p := range m.state.payments {
		if p.IsDeleted && !f.IncludeDeleted {
			continue
		}
		if f.PaymentType != "" && p.PaymentType != f.PaymentType {
			continue
		}
		if f.TripID != 0 && p.TripID != f.TripID {
			continue
		}
		if f.FromDate != nil && p.LoadingDate.Before(*f.FromDate) {
			continue
		}
		if f.ToDate != nil && p.LoadingDate.After(*f.ToDate) {
			continue
		}
		if f.Vehicle != "" && !strings.Contains(strings.ToUpper(p.VehicleNumber), strings.ToUpper(f.Vehicle)) {
			continue
		}
		c := *p
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LoadingDate.Equal(out[j].LoadingDate) {
			return out[i].LoadingDate.After(out[j].LoadingDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) ListPODRecords(ctx context.Context) ([]PODRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []PODRecord
	for id, tr := range m.state.trips {
		out = append(out, PODRecord{TripID: id, Raw: m.state.podRaw[id], Status: tr.PODStatus})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TripID < out[j].TripID })
	return out, nil
}

// SetRawPOD overwrites the stored pod_path column verbatim, bypassing
// normalization. It exists to load rows written by older releases.
func (m *MemoryStore) SetRawPOD(id int64, raw *string, status models.PODStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tr, ok := m.state.trips[id]; ok {
		m.state.podRaw[id] = raw
		tr.PODStatus = status
	}
}

var (
	_ TripStore         = (*MemoryStore)(nil)
	_ MasterRepository  = (*MemoryStore)(nil)
	_ ExpenseRepository = (*MemoryStore)(nil)
	_ ReportRepository  = (*MemoryStore)(nil)
	_ UserRepository    = (*MemoryStore)(nil)
	_ TripStore         = (*PostgresTripRepo)(nil)
	_ MasterRepository  = (*PostgresMasterRepo)(nil)
	_ ExpenseRepository = (*PostgresExpenseRepo)(nil)
	_ ReportRepository  = (*PostgresReportRepo)(nil)
	_ UserRepository    = (*PostgresUserRepo)(nil)
)
