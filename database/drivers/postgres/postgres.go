package postgres

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	// import postgres driver
	_ "github.com/lib/pq"
	"github.com/thrasher-corp/marketstream/database/drivers"
)

// DriverName is the database/sql name of the driver
const DriverName = "postgres"

// DSN returns the lib/pq connection URL for the connection details
func DSN(cfg *drivers.ConnectionDetails) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.Username, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Database,
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}
	return u.String()
}

// Connect establishes a connection pool to the database
func Connect(cfg *drivers.ConnectionDetails) (*sql.DB, error) {
	dbConn, err := sql.Open(DriverName, DSN(cfg))
	if err != nil {
		return nil, err
	}
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	dbConn.SetMaxOpenConns(2)
	dbConn.SetMaxIdleConns(1)
	dbConn.SetConnMaxLifetime(time.Hour)
	return dbConn, nil
}
