package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/louisbranch/palletrun/internal/platform/id"
	"github.com/louisbranch/palletrun/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/call"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/engine"
	"github.com/louisbranch/palletrun/internal/services/runtime/storage/sqlite/migrations"
)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Receipt is one journaled extrinsic outcome.
type Receipt struct {
	RunID          string
	BlockNumber    uint64
	ExtrinsicIndex int
	Caller         string
	Call           call.Type
	Success        bool
	ErrorCode      string
	ErrorMessage   string
	RecordedAt     time.Time
}

// ReceiptStore implements engine.Reporter on top of SQLite.
type ReceiptStore struct {
	sqlDB *sql.DB
	runID string
	now   func() time.Time
}

var _ engine.Reporter = (*ReceiptStore)(nil)

// Option configures a ReceiptStore.
type Option func(*ReceiptStore)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *ReceiptStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(runID string) Option {
	return func(s *ReceiptStore) {
		if strings.TrimSpace(runID) != "" {
			s.runID = strings.TrimSpace(runID)
		}
	}
}

// Open opens the receipt journal at path and applies migrations.
func Open(path string, opts ...Option) (*ReceiptStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.ReceiptsFS, "receipts"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	store := &ReceiptStore{sqlDB: sqlDB, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	if store.runID == "" {
		runID, err := id.NewID()
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		store.runID = runID
	}
	return store, nil
}

// Close closes the database. It is nil-safe.
func (s *ReceiptStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RunID identifies the receipts written through this store.
func (s *ReceiptStore) RunID() string { return s.runID }

// ReportExtrinsic journals one outcome.
func (s *ReceiptStore) ReportExtrinsic(ctx context.Context, outcome engine.ExtrinsicOutcome) error {
	if s == nil || s.sqlDB == nil {
		return errors.New("receipt store is not open")
	}
	var errorMessage string
	if outcome.Err != nil {
		errorMessage = outcome.Err.Error()
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO receipts (run_id, block_number, extrinsic_index, caller, call_type, success, error_code, error_message, recorded_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.runID,
		int64(outcome.BlockNumber),
		outcome.Index,
		outcome.Caller,
		string(outcome.Call),
		boolToInt(!outcome.Failed()),
		string(outcome.Code()),
		errorMessage,
		toMillis(s.now()),
	)
	if err != nil {
		return fmt.Errorf("insert receipt block=%d extrinsic=%d: %w", outcome.BlockNumber, outcome.Index, err)
	}
	return nil
}

// ListReceipts returns this run's receipts in execution order.
func (s *ReceiptStore) ListReceipts(ctx context.Context) ([]Receipt, error) {
	return s.query(ctx, `WHERE run_id = ?`, s.runID)
}

// ListFailures returns this run's failed receipts in execution order.
func (s *ReceiptStore) ListFailures(ctx context.Context) ([]Receipt, error) {
	return s.query(ctx, `WHERE run_id = ? AND success = 0`, s.runID)
}

func (s *ReceiptStore) query(ctx context.Context, where string, args ...any) ([]Receipt, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT run_id, block_number, extrinsic_index, caller, call_type, success, error_code, error_message, recorded_at
FROM receipts `+where+`
ORDER BY block_number, extrinsic_index`, args...)
	if err != nil {
		return nil, fmt.Errorf("query receipts: %w", err)
	}
	defer rows.Close()

	var receipts []Receipt
	for rows.Next() {
		var (
			r          Receipt
			block      int64
			callType   string
			success    int
			recordedAt int64
		)
		if err := rows.Scan(&r.RunID, &block, &r.ExtrinsicIndex, &r.Caller, &callType, &success, &r.ErrorCode, &r.ErrorMessage, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		r.BlockNumber = uint64(block)
		r.Call = call.Type(callType)
		r.Success = success != 0
		r.RecordedAt = fromMillis(recordedAt)
		receipts = append(receipts, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read receipts: %w", err)
	}
	return receipts, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
