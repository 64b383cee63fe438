// Package repository holds helpers shared by every table repository
package repository

import (
	"errors"
	"strconv"
	"strings"

	"github.com/thrasher-corp/marketstream/database"
)

var (
	// ErrNotConnected is returned when the database instance has no open connection
	ErrNotConnected = errors.New("database not connected")
	// ErrUnsupportedDialect is returned for drivers with no query dialect
	ErrUnsupportedDialect = errors.New("unsupported SQL dialect")
)

// Rebind rewrites ? placeholders into the bind style of the dialect
func Rebind(dialect, query string) (string, error) {
	switch dialect {
	case database.DBSQLite3:
		return query, nil
	case database.DBPostgreSQL:
		var (
			sb strings.Builder
			n  int
		)
		sb.Grow(len(query) + 8)
		for _, r := range query {
			if r != '?' {
				sb.WriteRune(r)
				continue
			}
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
		}
		return sb.String(), nil
	}
	return "", ErrUnsupportedDialect
}
