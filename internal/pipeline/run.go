// Package pipeline runs one FBAS report: load, build the trust graph, rank,
// assemble the node list and write both files.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"fbasgraph/internal/fbas"
	"fbasgraph/internal/graph"
	"fbasgraph/internal/output"
	"fbasgraph/internal/ranking"
	"fbasgraph/internal/report"
)

// StdinName is the base name used when the FBAS is read from standard input.
const StdinName = "stdin"

// Ranker is satisfied by *ranking.Engine.
type Ranker interface {
	Rank(ctx context.Context, m ranking.Model, alg ranking.Algorithm) ([]float64, error)
}

type Options struct {
	// InputPath is the nodes JSON file; "" or "-" reads Stdin.
	InputPath      string
	Stdin          io.Reader
	OutputDir      string
	Overwrite      bool
	IgnoreInactive bool
	// Pretty labels nodes with their public keys.
	Pretty    bool
	Format    graph.Kind
	Algorithm ranking.Algorithm
}

// Result summarizes a finished run.
type Result struct {
	Paths   output.Paths
	Nodes   int
	Edges   int
	Summary report.Summary
}

type Pipeline struct {
	ranker Ranker
	logger zerolog.Logger
}

func New(ranker Ranker, logger zerolog.Logger) *Pipeline {
	return &Pipeline{ranker: ranker, logger: logger}
}

// BaseName is the input file stem (or "stdin") joined with the algorithm name.
func BaseName(inputPath string, alg ranking.Algorithm) string {
	stem := StdinName
	if inputPath != "" && inputPath != "-" {
		name := filepath.Base(inputPath)
		stem = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return stem + "_" + alg.Name()
}

func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Algorithm == nil {
		opts.Algorithm = ranking.Unweighted{}
	}
	base := BaseName(opts.InputPath, opts.Algorithm)

	// Directory and overwrite problems are reported before any computation.
	writer, err := p.prepareOutputStage(opts, base)
	if err != nil {
		return nil, err
	}

	f, err := p.loadStage(opts)
	if err != nil {
		return nil, err
	}

	repr := p.graphStage(f, opts.Format)

	rep, err := p.rankStage(ctx, f, opts)
	if err != nil {
		return nil, err
	}

	paths, err := p.writeStage(writer, base, rep, repr)
	if err != nil {
		return nil, err
	}

	return &Result{
		Paths:   paths,
		Nodes:   f.NumberOfNodes(),
		Edges:   repr.EdgeCount(),
		Summary: rep.Summary(),
	}, nil
}

func (p *Pipeline) prepareOutputStage(opts Options, base string) (*output.Writer, error) {
	dir, err := output.CreateOutputDir(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("will not create output files: %w", err)
	}
	writer := output.NewWriter(dir, opts.Overwrite)
	err = writer.Check(
		output.NodeListPath(dir, base),
		output.GraphPath(dir, base, opts.Format.FileSuffix()),
	)
	if err != nil {
		return nil, err
	}
	return writer, nil
}

func (p *Pipeline) loadStage(opts Options) (*fbas.FBAS, error) {
	start := time.Now()
	loadOpts := fbas.LoadOptions{IgnoreInactive: opts.IgnoreInactive}

	var (
		f   *fbas.FBAS
		err error
	)
	if opts.InputPath == "" || opts.InputPath == "-" {
		p.logger.Info().Msg("reading FBAS JSON from stdin")
		stdin := opts.Stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		f, err = fbas.Load(stdin, loadOpts)
	} else {
		p.logger.Info().Str("path", opts.InputPath).Msg("reading FBAS JSON from file")
		f, err = fbas.LoadFile(opts.InputPath, loadOpts)
	}
	if err != nil {
		return nil, err
	}

	p.logger.Info().
		Int("nodes", f.NumberOfNodes()).
		Bool("ignore_inactive", opts.IgnoreInactive).
		Dur("took", time.Since(start)).
		Msg("loaded FBAS")
	return f, nil
}

func (p *Pipeline) graphStage(f *fbas.FBAS, kind graph.Kind) graph.Representation {
	start := time.Now()
	repr := graph.Build(f, kind)
	p.logger.Info().
		Str("format", string(repr.Kind())).
		Int("edges", repr.EdgeCount()).
		Dur("took", time.Since(start)).
		Msg("built trust graph")
	if hub, inDegree := graph.MaxInDegree(repr); hub >= 0 {
		p.logger.Debug().
			Int("id", hub).
			Str("public_key", f.PublicKey(hub)).
			Str("name", f.Name(hub)).
			Int("in_degree", inDegree).
			Msg("most trusted node")
	}
	return repr
}

func (p *Pipeline) rankStage(ctx context.Context, f *fbas.FBAS, opts Options) (report.Report, error) {
	start := time.Now()
	scores, err := p.ranker.Rank(ctx, f, opts.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("%s ranking failed: %w", opts.Algorithm.Name(), err)
	}
	if len(scores) != f.NumberOfNodes() {
		return nil, fmt.Errorf("%s ranking returned %d scores for %d nodes",
			opts.Algorithm.Name(), len(scores), f.NumberOfNodes())
	}
	if ranking.IsNodeRank(opts.Algorithm) {
		scores = report.NormalizeNodeRank(scores)
	}

	rep := report.Assemble(scores, f, opts.Pretty)
	summary := rep.Summary()
	p.logger.Info().
		Str("algorithm", opts.Algorithm.Name()).
		Float64("sum", summary.Sum).
		Float64("min", summary.Min).
		Float64("max", summary.Max).
		Dur("took", time.Since(start)).
		Msg("ranked nodes")
	return rep, nil
}

func (p *Pipeline) writeStage(w *output.Writer, base string, rep report.Report, repr graph.Representation) (output.Paths, error) {
	paths, err := w.WriteAll(output.Artifacts{
		Base:        base,
		NodeList:    rep.Lines(),
		GraphSuffix: repr.Kind().FileSuffix(),
		GraphLines:  repr.Lines(),
	})
	if err != nil {
		return output.Paths{}, err
	}
	p.logger.Info().Str("path", paths.NodeList).Msg("wrote node list")
	p.logger.Info().Str("path", paths.Graph).Msg("wrote trust graph")
	return paths, nil
}
