package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"smcScanBot/internal/domain"
	"smcScanBot/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements the ports.KlineRepository interface using SQLite. It
// caches raw candle history so restarts can warm up without refetching the
// whole window from the exchange.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/smc_scanner.db" // Default path
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// WAL mode for better concurrency between the stream writer and readers
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// SQLite handles concurrency internally, the Go driver benefits from a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cfg.Logger.Info(context.Background(), "SQLite database connection established", map[string]interface{}{"path": dbPath})

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	return repo, nil
}

// initializeSchema creates tables if they don't exist.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS klines (
		symbol TEXT NOT NULL,
		interval TEXT NOT NULL,
		open_time TIMESTAMP NOT NULL,
		close_time TIMESTAMP NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume REAL NOT NULL,
		PRIMARY KEY (symbol, interval, open_time)
	);
	CREATE INDEX IF NOT EXISTS idx_klines_symbol_interval_open_time ON klines (symbol, interval, open_time);
	`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// SaveKlines upserts a batch of klines keyed by (symbol, interval, open_time).
// Only final candles are persisted; an in-progress candle would otherwise
// overwrite its own slot repeatedly with partial data.
func (r *Repository) SaveKlines(ctx context.Context, klines []*domain.Kline) error {
	if len(klines) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin kline save transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
	INSERT INTO klines (symbol, interval, open_time, close_time, open, high, low, close, volume)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (symbol, interval, open_time) DO UPDATE SET
		close_time = excluded.close_time,
		open = excluded.open,
		high = excluded.high,
		low = excluded.low,
		close = excluded.close,
		volume = excluded.volume`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare kline upsert: %w", err)
	}
	defer stmt.Close()

	saved := 0
	for _, k := range klines {
		if k == nil || !k.IsFinal {
			continue
		}
		if _, err := stmt.ExecContext(ctx,
			k.Symbol, k.Interval, k.OpenTime.UTC(), k.CloseTime.UTC(),
			k.Open, k.High, k.Low, k.Close, k.Volume); err != nil {
			return fmt.Errorf("failed to upsert kline %s/%s at %s: %w: %w",
				k.Symbol, k.Interval, k.OpenTime, ports.ErrUpdateFailed, err)
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit kline save transaction: %w", err)
	}
	r.logger.Debug(ctx, "Klines saved", map[string]interface{}{"count": saved})
	return nil
}

// FindRecent retrieves the most recent klines for a symbol and interval,
// ordered ascending by open time, up to a limit.
func (r *Repository) FindRecent(ctx context.Context, symbol, interval string, limit int) ([]*domain.Kline, error) {
	const query = `
	SELECT symbol, interval, open_time, close_time, open, high, low, close, volume
	FROM (
		SELECT symbol, interval, open_time, close_time, open, high, low, close, volume
		FROM klines
		WHERE symbol = ? AND interval = ?
		ORDER BY open_time DESC
		LIMIT ?
	) ORDER BY open_time ASC`

	rows, err := r.db.QueryContext(ctx, query, symbol, interval, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent klines for %s/%s: %w: %w", symbol, interval, ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	return collectKlines(rows)
}

// FindRange retrieves klines within [start, end], ordered ascending by open time.
func (r *Repository) FindRange(ctx context.Context, symbol, interval string, start, end time.Time) ([]*domain.Kline, error) {
	const query = `
	SELECT symbol, interval, open_time, close_time, open, high, low, close, volume
	FROM klines
	WHERE symbol = ? AND interval = ? AND open_time >= ? AND open_time <= ?
	ORDER BY open_time ASC`

	rows, err := r.db.QueryContext(ctx, query, symbol, interval, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query kline range for %s/%s: %w: %w", symbol, interval, ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	return collectKlines(rows)
}

// LatestOpenTime returns the open time of the newest cached kline, or the zero
// time when the cache is empty for that symbol and interval.
func (r *Repository) LatestOpenTime(ctx context.Context, symbol, interval string) (time.Time, error) {
	const query = `SELECT open_time FROM klines WHERE symbol = ? AND interval = ? ORDER BY open_time DESC LIMIT 1`

	var openTime time.Time
	err := r.db.QueryRowContext(ctx, query, symbol, interval).Scan(&openTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to query latest kline open time for %s/%s: %w: %w", symbol, interval, ports.ErrQueryFailed, err)
	}
	return openTime, nil
}

// Count returns the number of cached klines for a symbol and interval.
func (r *Repository) Count(ctx context.Context, symbol, interval string) (int, error) {
	const query = `SELECT COUNT(*) FROM klines WHERE symbol = ? AND interval = ?`

	var count int
	if err := r.db.QueryRowContext(ctx, query, symbol, interval).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count klines for %s/%s: %w: %w", symbol, interval, ports.ErrQueryFailed, err)
	}
	return count, nil
}

// --- Helper Scan Functions ---

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanKline scans a row into a domain.Kline struct.
func scanKline(s scanner) (*domain.Kline, error) {
	k := &domain.Kline{IsFinal: true}
	err := s.Scan(
		&k.Symbol, &k.Interval, &k.OpenTime, &k.CloseTime,
		&k.Open, &k.High, &k.Low, &k.Close, &k.Volume)
	if err != nil {
		return nil, err // Handle sql.ErrNoRows in the caller
	}
	return k, nil
}

func collectKlines(rows *sql.Rows) ([]*domain.Kline, error) {
	klines := make([]*domain.Kline, 0)
	for rows.Next() {
		k, err := scanKline(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan kline row: %w", err)
		}
		klines = append(klines, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating kline rows: %w", err)
	}
	return klines, nil
}
