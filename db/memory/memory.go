package memory

import (
	"context"

	"transporterp/repository"
)

// MemoryDB backs DB_TYPE=memory. State lives for the life of the process.
type MemoryDB struct {
	Store  *repository.MemoryStore
	Ctx    context.Context
	Cancel context.CancelFunc
}

func NewMemoryDB() *MemoryDB {
	ctx, cancel := context.WithCancel(context.Background())
	return &MemoryDB{Ctx: ctx, Cancel: cancel}
}

func (m *MemoryDB) Connect() error {
	m.Store = repository.NewMemoryStore()
	return nil
}

func (m *MemoryDB) Disconnect() error {
	m.Cancel()
	return nil
}

func (m *MemoryDB) GetContext() context.Context {
	return m.Ctx
}
