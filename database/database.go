package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/thrasher-corp/marketstream/database/drivers/postgres"
	sqlite "github.com/thrasher-corp/marketstream/database/drivers/sqlite3"
	"github.com/thrasher-corp/marketstream/log"
)

// Validate checks the configured driver and database name
func (c *Config) Validate() error {
	if c == nil {
		return errNilConfig
	}
	if !c.Enabled {
		return nil
	}
	switch strings.ToLower(c.Driver) {
	case DBSQLite3, DBPostgreSQL:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedDriver, c.Driver)
	}
	if c.Database == "" {
		return ErrNoDatabaseProvided
	}
	return nil
}

// Open connects to the configured database
func Open(cfg *Config) (*Instance, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.Enabled {
		return nil, ErrDatabaseNotEnabled
	}

	var (
		conn *sql.DB
		err  error
	)
	driver := strings.ToLower(cfg.Driver)
	switch driver {
	case DBSQLite3:
		conn, err = sqlite.Connect(cfg.Database)
	case DBPostgreSQL:
		conn, err = postgres.Connect(&cfg.ConnectionDetails)
	}
	if err != nil {
		return nil, fmt.Errorf("%s database %q: %w", driver, cfg.Database, err)
	}

	i := &Instance{SQL: conn, config: *cfg, connected: true}
	i.config.Driver = driver
	if cfg.Verbose {
		log.Infof(log.DatabaseMgr, "Connected to %s database %s", driver, cfg.Database)
	}
	return i, nil
}

// Driver returns the lower cased driver name, which doubles as the SQL dialect
func (i *Instance) Driver() string {
	if i == nil {
		return ""
	}
	i.m.RLock()
	defer i.m.RUnlock()
	return i.config.Driver
}

// GetConfig returns a copy of the config
func (i *Instance) GetConfig() Config {
	i.m.RLock()
	defer i.m.RUnlock()
	return i.config
}

// IsConnected safely checks the SQL connection status
func (i *Instance) IsConnected() bool {
	if i == nil {
		return false
	}
	i.m.RLock()
	defer i.m.RUnlock()
	return i.connected
}

// GetSQL returns the connection pool, nil when not connected
func (i *Instance) GetSQL() *sql.DB {
	if !i.IsConnected() {
		return nil
	}
	i.m.RLock()
	defer i.m.RUnlock()
	return i.SQL
}

// Ping pings the database
func (i *Instance) Ping() error {
	if i == nil {
		return errNilInstance
	}
	i.m.RLock()
	defer i.m.RUnlock()
	if i.SQL == nil {
		return errNilSQL
	}
	return i.SQL.Ping()
}

// Close disconnects the database, repeated calls are no-ops
func (i *Instance) Close() error {
	if i == nil {
		return errNilInstance
	}
	i.m.Lock()
	defer i.m.Unlock()
	if !i.connected {
		return nil
	}
	i.connected = false
	if err := i.SQL.Close(); err != nil {
		return err
	}
	if i.config.Verbose {
		log.Infoln(log.DatabaseMgr, "Database connection closed")
	}
	return nil
}
