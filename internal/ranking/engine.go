// Package ranking computes one influence score per FBAS node. Scores are
// returned in NodeID order so they line up with the graph builders' rows.
package ranking

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"fbasgraph/internal/fbas"
)

var (
	ErrNoQuorumIntersection  = errors.New("FBAS does not enjoy quorum intersection")
	ErrIntersectionUndecided = errors.New("FBAS too large for the exhaustive quorum intersection check")
	ErrTooManyNodes          = errors.New("FBAS too large for exact power index enumeration")
)

// Model is the part of the FBAS the engine reads.
type Model interface {
	NumberOfNodes() int
	QuorumMembers(id fbas.NodeID) []fbas.NodeID
	ContainsQuorumMask(members []bool) bool
	Fingerprint() uint64
}

// ScoreCache persists raw scores between runs.
type ScoreCache interface {
	GetScores(ctx context.Context, fingerprint uint64, key string) ([]float64, bool, error)
	SaveScores(ctx context.Context, fingerprint uint64, key string, scores []float64) error
}

// Options tune the engine. Zero numeric limits fall back to DefaultOptions.
type Options struct {
	Damping              float64
	Tolerance            float64
	Seed                 int64
	MaxExactNodes        int
	MaxIntersectionNodes int
	// CheckIntersection asserts quorum intersection before power index
	// computations.
	CheckIntersection bool
}

func DefaultOptions() Options {
	return Options{
		Damping:              0.85,
		Tolerance:            1e-8,
		Seed:                 1,
		MaxExactNodes:        20,
		MaxIntersectionNodes: 20,
		CheckIntersection:    true,
	}
}

// Engine dispatches to the ranking algorithms.
type Engine struct {
	opts   Options
	cache  ScoreCache
	logger zerolog.Logger
}

func NewEngine(opts Options, cache ScoreCache, logger zerolog.Logger) *Engine {
	def := DefaultOptions()
	if opts.Damping <= 0 {
		opts.Damping = def.Damping
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = def.Tolerance
	}
	if opts.MaxExactNodes <= 0 {
		opts.MaxExactNodes = def.MaxExactNodes
	}
	if opts.MaxIntersectionNodes <= 0 {
		opts.MaxIntersectionNodes = def.MaxIntersectionNodes
	}
	return &Engine{opts: opts, cache: cache, logger: logger}
}

// Rank returns one score per node, position i describing NodeID i.
func (e *Engine) Rank(ctx context.Context, m Model, alg Algorithm) ([]float64, error) {
	if _, ok := alg.(Unweighted); ok {
		return uniform(m.NumberOfNodes()), nil
	}

	// Checked on every call, cache hits included.
	if err := e.validate(m, alg); err != nil {
		return nil, err
	}

	key := e.cacheKey(alg)
	if e.cache != nil {
		scores, ok, err := e.cache.GetScores(ctx, m.Fingerprint(), key)
		if err != nil {
			e.logger.Warn().Err(err).Msg("score cache lookup failed")
		} else if ok && len(scores) == m.NumberOfNodes() {
			e.logger.Info().Str("key", key).Msg("using cached scores")
			return scores, nil
		}
	}

	scores, err := e.compute(m, alg)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if err := e.cache.SaveScores(ctx, m.Fingerprint(), key, scores); err != nil {
			e.logger.Warn().Err(err).Msg("failed to cache scores")
		}
	}
	return scores, nil
}

// validate checks the algorithm's parameters and, for power indices, the
// node limit and quorum intersection.
func (e *Engine) validate(m Model, alg Algorithm) error {
	switch a := alg.(type) {
	case NodeRank:
		return nil
	case PowerIndexEnum:
		if err := e.checkIntersection(m); err != nil {
			return err
		}
		if n := m.NumberOfNodes(); n > e.opts.MaxExactNodes {
			return fmt.Errorf("%w: %d nodes, limit %d", ErrTooManyNodes, n, e.opts.MaxExactNodes)
		}
		return nil
	case PowerIndexApprox:
		if a.Samples <= 0 {
			return fmt.Errorf("power index approximation needs a positive sample count, got %d", a.Samples)
		}
		return e.checkIntersection(m)
	default:
		return fmt.Errorf("unsupported ranking algorithm %T", alg)
	}
}

// compute assumes validate has passed.
func (e *Engine) compute(m Model, alg Algorithm) ([]float64, error) {
	switch a := alg.(type) {
	case NodeRank:
		return nodeRank(m, e.opts.Damping, e.opts.Tolerance), nil
	case PowerIndexEnum:
		return powerIndexExact(m), nil
	case PowerIndexApprox:
		return powerIndexApprox(m, a.Samples, e.opts.Seed), nil
	default:
		return nil, fmt.Errorf("unsupported ranking algorithm %T", alg)
	}
}

func (e *Engine) checkIntersection(m Model) error {
	if !e.opts.CheckIntersection {
		return nil
	}
	e.logger.Info().Int("nodes", m.NumberOfNodes()).Msg("checking quorum intersection")
	ok, err := HasQuorumIntersection(m, e.opts.MaxIntersectionNodes)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoQuorumIntersection
	}
	return nil
}

func (e *Engine) cacheKey(alg Algorithm) string {
	switch a := alg.(type) {
	case NodeRank:
		return fmt.Sprintf("%s:d=%g:tol=%g", a.Name(), e.opts.Damping, e.opts.Tolerance)
	case PowerIndexApprox:
		return fmt.Sprintf("%s:s=%d:seed=%d", a.Name(), a.Samples, e.opts.Seed)
	default:
		return alg.Name()
	}
}

func uniform(n int) []float64 {
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1
	}
	return scores
}
