package storage

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var _ Store = (*SQLiteStore)(nil)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS scores (
			fingerprint TEXT,
			algorithm TEXT,
			node_count INTEGER,
			scores BLOB,
			computed_at TEXT,
			PRIMARY KEY (fingerprint, algorithm)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_scores_computed ON scores(computed_at);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func fingerprintKey(fingerprint uint64) string {
	return fmt.Sprintf("%016x", fingerprint)
}

func (s *SQLiteStore) GetScores(ctx context.Context, fingerprint uint64, key string) ([]float64, bool, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT node_count, scores FROM scores WHERE fingerprint = ? AND algorithm = ?",
		fingerprintKey(fingerprint), key)

	var count int
	var blob []byte
	if err := row.Scan(&count, &blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read scores: %w", err)
	}

	scores := make([]float64, count)
	if err := binary.Read(bytes.NewReader(blob), binary.LittleEndian, scores); err != nil {
		return nil, false, fmt.Errorf("failed to decode scores: %w", err)
	}
	return scores, true, nil
}

func (s *SQLiteStore) SaveScores(ctx context.Context, fingerprint uint64, key string, scores []float64) error {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, scores); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scores (fingerprint, algorithm, node_count, scores, computed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint, algorithm) DO UPDATE SET
			node_count=excluded.node_count,
			scores=excluded.scores,
			computed_at=excluded.computed_at
	`, fingerprintKey(fingerprint), key, len(scores), buf.Bytes(), time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

func (s *SQLiteStore) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT fingerprint, algorithm, node_count, computed_at FROM scores ORDER BY computed_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var computedAt string
		if err := rows.Scan(&e.Fingerprint, &e.Key, &e.Nodes, &computedAt); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		e.ComputedAt, _ = time.Parse(time.RFC3339Nano, computedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM scores")
	return err
}
