package database

import (
	"database/sql"
	"errors"
	"sync"

	"github.com/thrasher-corp/marketstream/database/drivers"
)

// Supported database drivers
const (
	DBSQLite3    = "sqlite3"
	DBPostgreSQL = "postgres"
)

var (
	// ErrDatabaseNotEnabled is returned when opening a disabled database
	ErrDatabaseNotEnabled = errors.New("database support is disabled")
	// ErrNoDatabaseProvided is returned when no database name or file is configured
	ErrNoDatabaseProvided = errors.New("no database provided")
	// ErrUnsupportedDriver is returned for drivers other than sqlite3 and postgres
	ErrUnsupportedDriver = errors.New("unsupported database driver")

	errNilConfig   = errors.New("database config is nil")
	errNilInstance = errors.New("database instance is nil")
	errNilSQL      = errors.New("database SQL connection is nil")
)

// Config holds the database configuration
type Config struct {
	Enabled                   bool   `json:"enabled" mapstructure:"enabled"`
	Verbose                   bool   `json:"verbose" mapstructure:"verbose"`
	Driver                    string `json:"driver" mapstructure:"driver"`
	drivers.ConnectionDetails `mapstructure:",squash"`
}

// Instance is an open database connection
type Instance struct {
	SQL       *sql.DB
	config    Config
	connected bool
	m         sync.RWMutex
}
