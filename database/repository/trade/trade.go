package trade

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/thrasher-corp/marketstream/database"
	"github.com/thrasher-corp/marketstream/database/repository"
	"github.com/thrasher-corp/marketstream/exchanges/trade"
	"github.com/thrasher-corp/marketstream/log"
)

var errExchangeNameUnset = errors.New("exchange name not set, cannot insert")

const (
	createSQLite = `
CREATE TABLE IF NOT EXISTS trade
(
	id        TEXT PRIMARY KEY NOT NULL,
	exchange  TEXT NOT NULL,
	base      TEXT NOT NULL,
	quote     TEXT NOT NULL,
	price     TEXT NOT NULL,
	amount    TEXT NOT NULL,
	side      TEXT NOT NULL DEFAULT '',
	tid       TEXT NOT NULL DEFAULT '',
	timestamp TEXT NOT NULL,
	UNIQUE (exchange, base, quote, tid, timestamp)
);
CREATE INDEX IF NOT EXISTS trade_pair_timestamp ON trade (exchange, base, quote, timestamp);`

	createPostgres = `
CREATE TABLE IF NOT EXISTS trade
(
	id        UUID PRIMARY KEY NOT NULL,
	exchange  VARCHAR(64) NOT NULL,
	base      VARCHAR(30) NOT NULL,
	quote     VARCHAR(30) NOT NULL,
	price     NUMERIC NOT NULL,
	amount    NUMERIC NOT NULL,
	side      VARCHAR(10) NOT NULL DEFAULT '',
	tid       VARCHAR(64) NOT NULL DEFAULT '',
	timestamp TIMESTAMPTZ NOT NULL,
	UNIQUE (exchange, base, quote, tid, timestamp)
);
CREATE INDEX IF NOT EXISTS trade_pair_timestamp ON trade (exchange, base, quote, timestamp);`

	insertQuery = `INSERT INTO trade (id, exchange, base, quote, price, amount, side, tid, timestamp)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT DO NOTHING`

	selectRangeQuery = `SELECT id, exchange, base, quote, price, amount, side, tid, timestamp FROM trade
WHERE exchange = ? AND base = ? AND quote = ? AND timestamp >= ? AND timestamp <= ?
ORDER BY timestamp ASC`
)

// FromTrade converts a streamed trade into a row
func FromTrade(td *trade.Data) Data {
	return Data{
		Exchange:  td.Exchange,
		Base:      td.Pair.Base.String(),
		Quote:     td.Pair.Quote.String(),
		Price:     td.Price,
		Amount:    td.Quantity,
		Side:      td.Side.String(),
		TID:       strconv.FormatInt(td.TradeID, 10),
		Timestamp: td.Timestamp,
	}
}

// Setup creates the trade table for the dialect of db
func Setup(ctx context.Context, db *database.Instance) error {
	conn := db.GetSQL()
	if conn == nil {
		return repository.ErrNotConnected
	}
	var query string
	switch db.Driver() {
	case database.DBSQLite3:
		query = createSQLite
	case database.DBPostgreSQL:
		query = createPostgres
	default:
		return repository.ErrUnsupportedDialect
	}
	_, err := conn.ExecContext(ctx, query)
	return err
}

// Insert saves trade data to the database in a single transaction, assigning
// ids to rows without one. Trades already stored are skipped.
func Insert(ctx context.Context, db *database.Instance, trades ...Data) (err error) {
	for i := range trades {
		if trades[i].Exchange == "" {
			return errExchangeNameUnset
		}
	}
	conn := db.GetSQL()
	if conn == nil {
		return repository.ErrNotConnected
	}
	dialect := db.Driver()
	query, err := repository.Rebind(dialect, insertQuery)
	if err != nil {
		return err
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginTx %w", err)
	}
	defer func() {
		if err != nil {
			if errRB := tx.Rollback(); errRB != nil {
				log.Errorf(log.DatabaseMgr, "Insert tx.Rollback %v", errRB)
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range trades {
		if trades[i].ID == "" {
			var freshUUID uuid.UUID
			freshUUID, err = uuid.NewV4()
			if err != nil {
				return err
			}
			trades[i].ID = freshUUID.String()
		}
		if _, err = stmt.ExecContext(ctx,
			trades[i].ID,
			strings.ToLower(trades[i].Exchange),
			strings.ToUpper(trades[i].Base),
			strings.ToUpper(trades[i].Quote),
			trades[i].Price,
			trades[i].Amount,
			strings.ToUpper(trades[i].Side),
			trades[i].TID,
			timeArg(dialect, trades[i].Timestamp),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetInRange returns the trades of a pair between start and end inclusive,
// oldest first
func GetInRange(ctx context.Context, db *database.Instance, exchangeName, base, quote string, start, end time.Time) ([]Data, error) {
	conn := db.GetSQL()
	if conn == nil {
		return nil, repository.ErrNotConnected
	}
	dialect := db.Driver()
	query, err := repository.Rebind(dialect, selectRangeQuery)
	if err != nil {
		return nil, err
	}
	rows, err := conn.QueryContext(ctx, query,
		strings.ToLower(exchangeName),
		strings.ToUpper(base),
		strings.ToUpper(quote),
		timeArg(dialect, start),
		timeArg(dialect, end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resp []Data
	for rows.Next() {
		d, err := scanRow(dialect, rows)
		if err != nil {
			return nil, err
		}
		resp = append(resp, d)
	}
	return resp, rows.Err()
}

func scanRow(dialect string, rows *sql.Rows) (Data, error) {
	var d Data
	if dialect == database.DBSQLite3 {
		var ts string
		if err := rows.Scan(&d.ID, &d.Exchange, &d.Base, &d.Quote, &d.Price, &d.Amount, &d.Side, &d.TID, &ts); err != nil {
			return d, err
		}
		t, err := time.Parse(sqliteTimeLayout, ts)
		if err != nil {
			return d, err
		}
		d.Timestamp = t
		return d, nil
	}
	if err := rows.Scan(&d.ID, &d.Exchange, &d.Base, &d.Quote, &d.Price, &d.Amount, &d.Side, &d.TID, &d.Timestamp); err != nil {
		return d, err
	}
	d.Timestamp = d.Timestamp.UTC()
	return d, nil
}

func timeArg(dialect string, t time.Time) any {
	if dialect == database.DBSQLite3 {
		return t.UTC().Format(sqliteTimeLayout)
	}
	return t.UTC()
}
