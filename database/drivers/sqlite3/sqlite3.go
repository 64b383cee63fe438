package sqlite

import (
	"database/sql"
	"errors"

	// import sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

// DriverName is the database/sql name of the driver
const DriverName = "sqlite3"

var errNoDatabaseFile = errors.New("no sqlite database file provided")

// Connect opens the sqlite database file, ":memory:" opens a private in memory
// database
func Connect(file string) (*sql.DB, error) {
	if file == "" {
		return nil, errNoDatabaseFile
	}
	dbConn, err := sql.Open(DriverName, file+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	// sqlite only supports a single writer
	dbConn.SetMaxOpenConns(1)
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	return dbConn, nil
}
