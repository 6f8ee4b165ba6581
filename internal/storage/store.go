package storage

import (
	"context"
	"time"
)

// Store keeps computed ranking scores between runs.
type Store interface {
	ScoreStore
	Close() error
}

// ScoreStore persists raw scores keyed by FBAS fingerprint and algorithm key.
type ScoreStore interface {
	// GetScores returns the cached scores, or ok=false on a miss.
	GetScores(ctx context.Context, fingerprint uint64, key string) (scores []float64, ok bool, err error)

	// SaveScores upserts scores for the fingerprint and key.
	SaveScores(ctx context.Context, fingerprint uint64, key string, scores []float64) error

	// Entries lists what is cached, newest first.
	Entries(ctx context.Context) ([]Entry, error)

	// Clear drops every cached entry.
	Clear(ctx context.Context) error
}

// Entry describes one cached score vector.
type Entry struct {
	Fingerprint string
	Key         string
	Nodes       int
	ComputedAt  time.Time
}
