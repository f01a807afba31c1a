package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database holding booking rows.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the bookings table.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open bookings db: %w", err)
	}
	// WAL lets the dashboard read while an import is writing; busy_timeout
	// makes the writer wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure bookings db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS bookings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    arrival_date_year INTEGER NOT NULL,
    arrival_date_month TEXT NOT NULL,
    arrival_date_day_of_month INTEGER NOT NULL,
    adults INTEGER NOT NULL DEFAULT 0,
    children INTEGER NOT NULL DEFAULT 0,
    babies INTEGER NOT NULL DEFAULT 0,
    country TEXT NOT NULL DEFAULT ''
);
`)
	return err
}

// InsertBookings appends records in a single transaction.
func (s *Store) InsertBookings(ctx context.Context, records []BookingRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO bookings
		(arrival_date_year, arrival_date_month, arrival_date_day_of_month, adults, children, babies, country)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, r.ArrivalYear, r.ArrivalMonth, r.ArrivalDayOfMonth,
			r.Adults, r.Children, r.Babies, r.Country); err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// ListBookings returns every booking in insertion order with resolved dates.
func (s *Store) ListBookings(ctx context.Context) ([]BookingRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT arrival_date_year, arrival_date_month, arrival_date_day_of_month,
		adults, children, babies, country FROM bookings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var records []BookingRecord
	for rows.Next() {
		var r BookingRecord
		if err := rows.Scan(&r.ArrivalYear, &r.ArrivalMonth, &r.ArrivalDayOfMonth,
			&r.Adults, &r.Children, &r.Babies, &r.Country); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		if err := r.resolve(); err != nil {
			return nil, fmt.Errorf("booking row %d: %w", len(records)+1, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return records, nil
}

// Count returns the number of stored bookings.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}
