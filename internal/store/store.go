package store

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"StockVault/internal/frame"
)

// StorageError wraps any failure opening, querying, or writing the store,
// including primary-key violations on append. The storage layer never
// retries; retry policy belongs to the fetch path.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// Store owns the single persistent SQLite connection. It is a
// single-writer handle; concurrent use from multiple processes is
// unsupported. A lost connection is fatal to the process — there is no
// reconnect logic.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the SQLite database file.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storageErr("open", err)
	}
	// One handle: the pool must not hand out a second connection, both
	// for single-writer semantics and because :memory: databases are
	// per-connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, storageErr("set WAL mode", err)
	}
	return &Store{db: db}, nil
}

// Init creates all tables if absent. Safe to call repeatedly.
func (s *Store) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS daily_kline (
			stock_code TEXT NOT NULL,
			date       TEXT NOT NULL,
			open       REAL,
			high       REAL,
			low        REAL,
			close      REAL,
			volume     INTEGER,
			amount     REAL,
			adj_factor REAL,
			PRIMARY KEY (stock_code, date)
		)`,
		`CREATE TABLE IF NOT EXISTS weekly_kline (
			stock_code TEXT NOT NULL,
			date       TEXT NOT NULL,
			open       REAL,
			high       REAL,
			low        REAL,
			close      REAL,
			volume     INTEGER,
			amount     REAL,
			adj_factor REAL,
			PRIMARY KEY (stock_code, date)
		)`,
		`CREATE TABLE IF NOT EXISTS monthly_kline (
			stock_code TEXT NOT NULL,
			date       TEXT NOT NULL,
			open       REAL,
			high       REAL,
			low        REAL,
			close      REAL,
			volume     INTEGER,
			amount     REAL,
			adj_factor REAL,
			PRIMARY KEY (stock_code, date)
		)`,
		`CREATE TABLE IF NOT EXISTS dividend_data (
			stock_code                 TEXT NOT NULL,
			report_date                TEXT,
			ex_dividend_date           TEXT NOT NULL,
			dividend_per_share_pre_tax REAL,
			dividend_yield             REAL,
			PRIMARY KEY (stock_code, ex_dividend_date)
		)`,
		`CREATE TABLE IF NOT EXISTS financial_summary (
			stock_code             TEXT NOT NULL,
			date                   TEXT NOT NULL,
			pe_ttm                 REAL,
			pb_mrq                 REAL,
			market_cap             REAL,
			circulating_market_cap REAL,
			PRIMARY KEY (stock_code, date)
		)`,
		`CREATE TABLE IF NOT EXISTS historical_signals (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			stock_code    TEXT NOT NULL,
			date          TEXT NOT NULL,
			strategy_name TEXT NOT NULL,
			signal_type   TEXT NOT NULL,
			price         REAL,
			description   TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS data_update_log (
			table_name                           TEXT NOT NULL,
			stock_code                           TEXT NOT NULL,
			last_update_date                     TEXT NOT NULL,
			last_successful_fetch_date_for_stock TEXT,
			PRIMARY KEY (table_name, stock_code)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return storageErr(fmt.Sprintf("init %q", stmt[:40]), err)
		}
	}
	return nil
}

// Query runs a read-only parameterized statement and returns the result
// as a frame with explicit column names. An empty result is a normal,
// non-error outcome.
func (s *Store) Query(query string, args ...any) (*frame.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, storageErr("query", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, storageErr("query columns", err)
	}

	f := frame.New(cols...)
	for rows.Next() {
		cells := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, storageErr("query scan", err)
		}
		for i, v := range cells {
			if b, ok := v.([]byte); ok {
				cells[i] = string(b)
			}
		}
		f.Rows = append(f.Rows, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("query rows", err)
	}
	return f, nil
}

// Exec runs a write statement inside a transaction: commit on success,
// rollback on failure.
func (s *Store) Exec(query string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return storageErr("begin", err)
	}
	if _, err := tx.Exec(query, args...); err != nil {
		tx.Rollback()
		return storageErr("exec", err)
	}
	return storageErr("commit", tx.Commit())
}

// AppendFrame bulk-appends a frame to the named table, all-or-nothing:
// the batch runs in one transaction and any failure, including a
// primary-key violation, rolls back every row. No deduplication is
// attempted — the caller must not re-insert rows already present.
func (s *Store) AppendFrame(table string, f *frame.Frame) error {
	if f.Empty() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(f.Columns)), ",")
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(f.Columns, ", "), placeholders)

	tx, err := s.db.Begin()
	if err != nil {
		return storageErr("begin", err)
	}
	stmt, err := tx.Prepare(insert)
	if err != nil {
		tx.Rollback()
		return storageErr("prepare append", err)
	}
	defer stmt.Close()

	for _, row := range f.Rows {
		if _, err := stmt.Exec(row...); err != nil {
			tx.Rollback()
			return storageErr(fmt.Sprintf("append %s", table), err)
		}
	}
	return storageErr("commit", tx.Commit())
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return storageErr("close", s.db.Close())
}
