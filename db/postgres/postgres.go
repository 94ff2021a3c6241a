package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// PoolConfig bounds the connection pool; zero keeps the driver default.
type PoolConfig struct {
	MaxOpenConns int
	MaxIdleConns int
}

type PostgresDB struct {
	Conn   *sql.DB
	Ctx    context.Context
	Cancel context.CancelFunc
	URL    string
	Pool   PoolConfig
}

func NewPostgresDB(url string, pool PoolConfig) *PostgresDB {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	return &PostgresDB{
		Ctx:    ctx,
		Cancel: cancel,
		URL:    url,
		Pool:   pool,
	}
}

func (p *PostgresDB) Connect() error {
	conn, err := sql.Open("postgres", p.URL)
	if err != nil {
		return err
	}

	if p.Pool.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(p.Pool.MaxOpenConns)
	}
	if p.Pool.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(p.Pool.MaxIdleConns)
	}
	conn.SetConnMaxLifetime(30 * time.Minute)

	p.Conn = conn
	return p.Conn.PingContext(p.Ctx)
}

func (p *PostgresDB) Disconnect() error {
	p.Cancel()
	if p.Conn != nil {
		return p.Conn.Close()
	}
	return nil
}

func (p *PostgresDB) GetContext() context.Context {
	return p.Ctx
}
