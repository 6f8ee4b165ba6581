package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"fbasgraph/internal/config"
	"fbasgraph/internal/graph"
	"fbasgraph/internal/pipeline"
	"fbasgraph/internal/ranking"
	"fbasgraph/internal/storage"
)

var (
	rootCmd = &cobra.Command{
		Use:   "fbasgraph [nodes.json] <algorithm>",
		Short: "Generate the trust graph of an FBAS and rank its nodes",
		Long: `Rank nodes of an FBAS and write the results as a graph in CSV files.
Output files are named after the input with the ranking algorithm and the
kind of data stored appended. The input path may be given before or after
the algorithm; standard input is read when it is omitted or "-".`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	flagConfig         string
	flagOutput         string
	flagOverwrite      bool
	flagIgnoreInactive bool
	flagNoQI           bool
	flagPretty         bool
	flagMatrix         bool
	flagCache          string
	flagLogLevel       string
	flagSamples        int

	cfg *config.Config
)

func main() {
	if err := execute(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("fbasgraph failed")
	}
}

func init() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagConfig, "config", config.DefaultPath, "Path to the YAML config file (optional)")
	flags.StringVarP(&flagOutput, "output", "o", "", `Directory to write the CSV files to (default "graphs")`)
	flags.BoolVar(&flagOverwrite, "overwrite", false, "Overwrite output files if they already exist")
	flags.BoolVarP(&flagIgnoreInactive, "ignore-inactive-nodes", "i", false,
		`Filter out nodes marked "active": false before any analysis`)
	flags.BoolVar(&flagNoQI, "no-quorum-intersection", false,
		"Do not assert that the FBAS has quorum intersection before computing power indices")
	flags.BoolVarP(&flagPretty, "pretty", "p", false, "Label nodes with their public keys")
	flags.BoolVar(&flagMatrix, "matrix", false, "Write an adjacency matrix instead of an adjacency list")
	flags.StringVar(&flagCache, "cache", "", "SQLite file caching computed scores (empty disables)")
	flags.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	powerIndexApproxCmd.Flags().IntVarP(&flagSamples, "samples", "s", 0, "Number of random orderings to sample")
	_ = powerIndexApproxCmd.MarkFlagRequired("samples")

	rootCmd.AddCommand(unweightedCmd, nodeRankCmd, powerIndexEnumCmd, powerIndexApproxCmd, cacheCmd)
	cacheCmd.AddCommand(cacheListCmd, cacheClearCmd)
}

// setup loads the config file and applies the log level.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.LoadConfig(flagConfig)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Log.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

func rankCommand(use, short string, alg func() (ranking.Algorithm, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [nodes.json]",
		Short: short,
		Long: short + `

The input is a JSON file in stellarbeat.org "nodes" format. Standard input is
read when the path is omitted or "-".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := alg()
			if err != nil {
				return err
			}
			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			return run(cmd.Context(), input, a)
		},
	}
}

var (
	unweightedCmd = rankCommand("unweighted",
		"Give every node the same weight",
		func() (ranking.Algorithm, error) { return ranking.Unweighted{}, nil })

	nodeRankCmd = rankCommand("node-rank",
		"Use NodeRank, an extension of PageRank, to measure nodes' weight in the FBAS",
		func() (ranking.Algorithm, error) { return ranking.NodeRank{}, nil })

	powerIndexEnumCmd = rankCommand("power-index-enum",
		"Use exact Shapley-Shubik power indices; not recommended for FBAS with many nodes",
		func() (ranking.Algorithm, error) { return ranking.PowerIndexEnum{}, nil })

	powerIndexApproxCmd = rankCommand("power-index-approx",
		"Approximate Shapley-Shubik power indices from --samples random orderings",
		func() (ranking.Algorithm, error) {
			return ranking.ParseAlgorithm(ranking.PowerIndexApprox{}.Name(), flagSamples)
		})
)

func run(ctx context.Context, input string, alg ranking.Algorithm) error {
	if ctx == nil {
		ctx = context.Background()
	}

	format := cfg.Output.Format
	if flagMatrix {
		format = string(graph.KindMatrix)
	}
	kind, err := graph.ParseKind(format)
	if err != nil {
		return err
	}

	outDir := cfg.Output.Dir
	if flagOutput != "" {
		outDir = flagOutput
	}

	cache, err := openCache()
	if err != nil {
		return err
	}
	var scoreCache ranking.ScoreCache
	if cache != nil {
		defer cache.Close()
		scoreCache = cache
	}

	engine := ranking.NewEngine(ranking.Options{
		Damping:              cfg.Ranking.Damping,
		Tolerance:            cfg.Ranking.Tolerance,
		Seed:                 cfg.Ranking.Seed,
		MaxExactNodes:        cfg.Ranking.MaxExactNodes,
		MaxIntersectionNodes: cfg.Ranking.MaxIntersectionNodes,
		CheckIntersection:    !flagNoQI,
	}, scoreCache, log.Logger)

	res, err := pipeline.New(engine, log.Logger).Run(ctx, pipeline.Options{
		InputPath:      input,
		Stdin:          os.Stdin,
		OutputDir:      outDir,
		Overwrite:      flagOverwrite,
		IgnoreInactive: flagIgnoreInactive,
		Pretty:         flagPretty,
		Format:         kind,
		Algorithm:      alg,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Writing report to file %s\n", res.Paths.NodeList)
	fmt.Printf("Writing report to file %s\n", res.Paths.Graph)
	return nil
}

// openCache returns nil when caching is disabled.
func openCache() (storage.Store, error) {
	path := cfg.Cache.Path
	if flagCache != "" {
		path = flagCache
	}
	if path == "" {
		return nil, nil
	}
	store, err := storage.NewSQLiteStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open score cache %s: %w", path, err)
	}
	return store, nil
}
