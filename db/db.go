package db

import "context"

type DBType string

const (
	Postgres DBType = "postgres"
	Memory   DBType = "memory"
)

type DB interface {
	Connect() error
	Disconnect() error
	GetContext() context.Context
}
