// Package journal is the caller-side record of submitted transactions.
// The orchestration core stays stateless; this ledger exists so an
// operator can look up what was submitted and how it ended.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

// Entry is one submitted transaction attempt.
type Entry struct {
	ID        int64  `json:"id"`
	Op        string `json:"op"`
	Chain     string `json:"chain"`
	Token     string `json:"token,omitempty"`
	Amount    string `json:"amount,omitempty"`
	TxHash    string `json:"tx_hash,omitempty"`
	Status    string `json:"status"`
	ErrKind   string `json:"err_kind,omitempty"`
	CreatedAt string `json:"created_at"`
}

const (
	OpSwap            = "swap"
	OpAddLiquidity    = "add_liquidity"
	OpRemoveLiquidity = "remove_liquidity"
	OpSetMaxAmount    = "set_max_amount"
	OpSetFees         = "set_fees"
)

type Store struct {
	db   *sql.DB
	lock *flock.Flock
}

func Open(path, lockPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create journal lock directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal sqlite: %w", err)
	}

	queries := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		`CREATE TABLE IF NOT EXISTS submissions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			op TEXT NOT NULL,
			chain TEXT NOT NULL,
			token TEXT NOT NULL DEFAULT '',
			amount TEXT NOT NULL DEFAULT '',
			tx_hash TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			err_kind TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		);`,
		"CREATE INDEX IF NOT EXISTS idx_submissions_created ON submissions(created_at DESC);",
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init journal schema: %w", err)
		}
	}
	return &Store{db: db, lock: flock.New(lockPath)}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Record(entry Entry) error {
	if strings.TrimSpace(entry.Op) == "" {
		return fmt.Errorf("record submission: missing op")
	}
	locked, err := s.lock.TryLockContext(context.Background(), 5*time.Second)
	if err != nil {
		return fmt.Errorf("lock journal: %w", err)
	}
	if !locked {
		return fmt.Errorf("lock journal: timeout acquiring lock")
	}
	defer func() { _ = s.lock.Unlock() }()

	_, err = s.db.Exec(`
		INSERT INTO submissions (op, chain, token, amount, tx_hash, status, err_kind, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.Op, entry.Chain, entry.Token, entry.Amount, entry.TxHash, entry.Status, entry.ErrKind, time.Now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("record submission: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, op, chain, token, amount, tx_hash, status, err_kind, created_at
		FROM submissions ORDER BY created_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdUnix int64
		if err := rows.Scan(&e.ID, &e.Op, &e.Chain, &e.Token, &e.Amount, &e.TxHash, &e.Status, &e.ErrKind, &createdUnix); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		e.CreatedAt = time.Unix(createdUnix, 0).UTC().Format(time.RFC3339)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
