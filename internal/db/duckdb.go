// Package db loads a chat table into an in-memory DuckDB database so it can
// be queried with SQL.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/strrl/chatpulse/internal/table"
)

// TableName is the name of the loaded messages table.
const TableName = "messages"

const createMessages = `CREATE TABLE messages (
	seq        INTEGER,
	sent_at    TIMESTAMP,
	sender     VARCHAR,
	body       VARCHAR,
	is_media   BOOLEAN,
	is_deleted BOOLEAN,
	urls       VARCHAR,
	url_count  INTEGER,
	year       INTEGER,
	month_name VARCHAR,
	month_num  INTEGER,
	day        INTEGER,
	hour       INTEGER,
	minute     INTEGER,
	day_name   VARCHAR,
	only_date  DATE,
	hour_block VARCHAR
)`

const insertMessage = `INSERT INTO messages VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CAST(? AS DATE), ?)`

// Open returns a fresh in-memory DuckDB database.
func Open() (*sql.DB, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB: %w", err)
	}

	// Each connection to an in-memory DuckDB is its own database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to DuckDB: %w", err)
	}

	return db, nil
}

// LoadTable creates the messages table and inserts every row of tbl in
// table order. URLs are stored space-separated.
func LoadTable(ctx context.Context, db *sql.DB, tbl *table.Table) error {
	if _, err := db.ExecContext(ctx, createMessages); err != nil {
		return fmt.Errorf("failed to create messages table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertMessage)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range tbl.Rows() {
		_, err := stmt.ExecContext(ctx,
			i,
			row.Timestamp,
			row.Sender,
			row.Body,
			row.IsMedia,
			row.IsDeleted,
			strings.Join(row.URLs, " "),
			len(row.URLs),
			row.Year,
			row.MonthName,
			row.MonthNum,
			row.Day,
			row.Hour,
			row.Minute,
			row.DayName,
			row.OnlyDate.Format("2006-01-02"),
			row.HourBlock,
		)
		if err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit messages: %w", err)
	}
	return nil
}

// Query runs q and returns the column names and every row rendered as text.
// NULL renders as "NULL".
func Query(ctx context.Context, db *sql.DB, q string) ([]string, [][]string, error) {
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to run query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var out [][]string
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}

		record := make([]string, len(columns))
		for i, v := range values {
			record[i] = formatValue(v)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return columns, out, nil
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}
