package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/iwvelando/claim-settlement/internal/settlement"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLite persists results in a SQLite database. Rows are only ever inserted;
// triggers reject UPDATE and DELETE on the results table.
type SQLite struct {
	mu     sync.Mutex
	db     *sql.DB
	logger *zap.Logger
	closed bool
	now    func() time.Time
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS settlement_results (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	claim_id TEXT NOT NULL,
	calculation_seconds INTEGER NOT NULL,
	calculation_nanos INTEGER NOT NULL,
	estimated_settlement TEXT NOT NULL,
	saved_at INTEGER NOT NULL,
	payload BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_settlement_results_claim
	ON settlement_results(claim_id, calculation_seconds, calculation_nanos, seq);

CREATE TRIGGER IF NOT EXISTS settlement_results_no_update
BEFORE UPDATE ON settlement_results
BEGIN
	SELECT RAISE(ABORT, 'settlement results are append-only');
END;

CREATE TRIGGER IF NOT EXISTS settlement_results_no_delete
BEFORE DELETE ON settlement_results
BEGIN
	SELECT RAISE(ABORT, 'settlement results are append-only');
END;
`

// NewSQLite opens (creating if needed) the database at path and applies the
// schema.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewSQLite(path string, logger *zap.Logger) (*SQLite, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, ioFailure("store.NewSQLite", fmt.Errorf("failed to create directory %s: %w", dir, err))
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, ioFailure("store.NewSQLite", fmt.Errorf("failed to open database: %w", err))
	}
	// One connection keeps writes serialized and lets ":memory:" work.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, ioFailure("store.NewSQLite", fmt.Errorf("failed to create schema: %w", err))
	}

	logger.Debug("sqlite store opened",
		zap.String("op", "store.NewSQLite"),
		zap.String("path", path),
	)
	return &SQLite{db: db, logger: logger, now: time.Now}, nil
}

// Save implements Store.
func (s *SQLite) Save(ctx context.Context, result settlement.SettlementResult) (string, error) {
	const op = "store.SQLite.Save"

	payload, err := json.Marshal(result)
	if err != nil {
		return "", ioFailure(op, fmt.Errorf("failed to encode result: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ioFailure(op, ErrClosed)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settlement_results (id, claim_id, calculation_seconds, calculation_nanos, estimated_settlement, saved_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		result.ClaimID,
		result.CalculationDate.Unix(),
		result.CalculationDate.Nanosecond(),
		result.EstimatedSettlement.String(),
		s.now().UTC().UnixNano(),
		payload,
	)
	if err != nil {
		return "", ioFailure(op, err)
	}

	s.logger.Debug("settlement result saved",
		zap.String("op", op),
		zap.String("id", id),
		zap.String("claimID", result.ClaimID),
	)
	return id, nil
}

// Get implements Store.
func (s *SQLite) Get(ctx context.Context, id string) (settlement.SettlementResult, error) {
	const op = "store.SQLite.Get"

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return settlement.SettlementResult{}, ioFailure(op, ErrClosed)
	}

	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM settlement_results WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return settlement.SettlementResult{}, notFound(op, id)
	}
	if err != nil {
		return settlement.SettlementResult{}, ioFailure(op, err)
	}

	var result settlement.SettlementResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return settlement.SettlementResult{}, ioFailure(op, fmt.Errorf("failed to decode result %s: %w", id, err))
	}
	return result, nil
}

// ListForClaim implements Store.
func (s *SQLite) ListForClaim(ctx context.Context, claimID string) ([]Record, error) {
	const op = "store.SQLite.ListForClaim"

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ioFailure(op, ErrClosed)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, saved_at, payload
		FROM settlement_results
		WHERE claim_id = ?
		ORDER BY calculation_seconds ASC, calculation_nanos ASC, seq ASC
	`, claimID)
	if err != nil {
		return nil, ioFailure(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := []Record{}
	for rows.Next() {
		var (
			record  Record
			savedAt int64
			payload []byte
		)
		if err := rows.Scan(&record.ID, &savedAt, &payload); err != nil {
			return nil, ioFailure(op, err)
		}
		if err := json.Unmarshal(payload, &record.Result); err != nil {
			return nil, ioFailure(op, fmt.Errorf("failed to decode result %s: %w", record.ID, err))
		}
		record.SavedAt = time.Unix(0, savedAt).UTC()
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, ioFailure(op, err)
	}
	return records, nil
}

// Stats implements Store.
func (s *SQLite) Stats(ctx context.Context) (Statistics, error) {
	const op = "store.SQLite.Stats"

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Statistics{}, ioFailure(op, ErrClosed)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT estimated_settlement FROM settlement_results`)
	if err != nil {
		return Statistics{}, ioFailure(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var settlements []decimal.Decimal
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return Statistics{}, ioFailure(op, err)
		}
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return Statistics{}, ioFailure(op, fmt.Errorf("corrupt estimated_settlement %q: %w", raw, err))
		}
		settlements = append(settlements, value)
	}
	if err := rows.Err(); err != nil {
		return Statistics{}, ioFailure(op, err)
	}
	return summarize(settlements), nil
}

// Close implements Store.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
