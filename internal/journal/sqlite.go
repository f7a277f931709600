package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"options-journal/internal/errors"
	"options-journal/internal/strategy"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based position store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Journaled option positions
	CREATE TABLE IF NOT EXISTS positions (
		id TEXT PRIMARY KEY,
		symbol TEXT NOT NULL,
		strategy TEXT NOT NULL,
		strike REAL NOT NULL,
		premium REAL NOT NULL,
		fee REAL NOT NULL DEFAULT 0,
		share_basis REAL NOT NULL DEFAULT 0,
		cash_secured REAL NOT NULL DEFAULT 0,
		current_price REAL NOT NULL DEFAULT 0,
		current_premium REAL NOT NULL DEFAULT 0,
		contracts INTEGER NOT NULL,
		open_date DATETIME NOT NULL,
		expiration DATETIME NOT NULL,
		status TEXT NOT NULL DEFAULT 'open',
		closed_pnl REAL NOT NULL DEFAULT 0,
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_positions_symbol ON positions(symbol);
	CREATE INDEX IF NOT EXISTS idx_positions_status ON positions(status);
	CREATE INDEX IF NOT EXISTS idx_positions_expiration ON positions(expiration);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SavePosition inserts or replaces a position.
func (s *SQLiteStore) SavePosition(ctx context.Context, p *Position) error {
	if p.Status == "" {
		p.Status = StatusOpen
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO positions (
			id, symbol, strategy, strike, premium, fee, share_basis,
			cash_secured, current_price, current_premium, contracts,
			open_date, expiration, status, closed_pnl, notes, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		p.ID, p.Symbol, string(p.Strategy), p.Strike, p.Premium, p.Fee,
		p.ShareBasis, p.CashSecured, p.CurrentPrice, p.CurrentPremium,
		p.Contracts, p.OpenDate, p.Expiration, string(p.Status), p.ClosedPnL, p.Notes,
	)
	if err != nil {
		return errors.NewStoreError("save", p.ID, err)
	}
	return nil
}

// GetPosition fetches a single position by ID.
func (s *SQLiteStore) GetPosition(ctx context.Context, id string) (*Position, error) {
	row := s.db.QueryRowContext(ctx, selectPositions+" WHERE id = ?", id)
	p, err := scanPosition(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrPositionNotFound
	}
	if err != nil {
		return nil, errors.NewStoreError("get", id, err)
	}
	return p, nil
}

// GetPositions fetches positions matching the filter, newest first.
func (s *SQLiteStore) GetPositions(ctx context.Context, filter Filter) ([]Position, error) {
	query := selectPositions
	var conditions []string
	var args []interface{}

	if filter.Symbol != "" {
		conditions = append(conditions, "symbol = ?")
		args = append(args, filter.Symbol)
	}
	if filter.Strategy != "" {
		conditions = append(conditions, "strategy = ?")
		args = append(args, string(filter.Strategy))
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(filter.Status))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY open_date DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewStoreError("list", "", err)
	}
	defer rows.Close()

	var positions []Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, errors.NewStoreError("list", "", err)
		}
		positions = append(positions, *p)
	}
	return positions, rows.Err()
}

// UpdateMark updates the current underlying price and option premium marks.
func (s *SQLiteStore) UpdateMark(ctx context.Context, id string, price, premium float64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE positions
		SET current_price = ?, current_premium = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, price, premium, id)
	if err != nil {
		return errors.NewStoreError("mark", id, err)
	}
	return requireRow(res, id)
}

// ClosePosition marks a position closed with its realized P&L.
func (s *SQLiteStore) ClosePosition(ctx context.Context, id string, pnl float64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE positions
		SET status = ?, closed_pnl = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?`, string(StatusClosed), pnl, id, string(StatusOpen))
	if err != nil {
		return errors.NewStoreError("close", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewStoreError("close", id, err)
	}
	if n == 0 {
		// Distinguish a missing position from one that is already closed.
		var status string
		err := s.db.QueryRowContext(ctx,
			"SELECT status FROM positions WHERE id = ?", id).Scan(&status)
		if err == sql.ErrNoRows {
			return errors.ErrPositionNotFound
		}
		if err != nil {
			return errors.NewStoreError("close", id, err)
		}
		if Status(status) == StatusClosed {
			return errors.ErrPositionClosed
		}
		return errors.ErrPositionNotFound
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const selectPositions = `
	SELECT id, symbol, strategy, strike, premium, fee, share_basis,
		cash_secured, current_price, current_premium, contracts,
		open_date, expiration, status, closed_pnl, notes,
		created_at, updated_at
	FROM positions`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPosition(row rowScanner) (*Position, error) {
	var p Position
	var strat, status string
	var notes sql.NullString
	if err := row.Scan(
		&p.ID, &p.Symbol, &strat, &p.Strike, &p.Premium, &p.Fee,
		&p.ShareBasis, &p.CashSecured, &p.CurrentPrice, &p.CurrentPremium,
		&p.Contracts, &p.OpenDate, &p.Expiration, &status, &p.ClosedPnL,
		&notes, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Strategy = strategy.Kind(strat)
	p.Status = Status(status)
	p.Notes = notes.String
	return &p, nil
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewStoreError("update", id, err)
	}
	if n == 0 {
		return errors.ErrPositionNotFound
	}
	return nil
}
