package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go.ngs.io/jplaw-cite/pkg/config"
	jplawcontext "go.ngs.io/jplaw-cite/pkg/context"
	"go.ngs.io/jplaw-cite/pkg/detector"
	"go.ngs.io/jplaw-cite/pkg/errs"
	"go.ngs.io/jplaw-cite/pkg/graph"
	"go.ngs.io/jplaw-cite/pkg/impact"
	"go.ngs.io/jplaw-cite/pkg/lawdict"
	"go.ngs.io/jplaw-cite/pkg/lawsource"
	"go.ngs.io/jplaw-cite/pkg/logging"
	"go.ngs.io/jplaw-cite/pkg/orchestrator"
	"go.ngs.io/jplaw-cite/pkg/pattern"
)

var version = "0.1.0"

// Exit codes (spec §6): 0 success, 1 unexpected failure, 2 usage error,
// 3 requested entity not found.
const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 2
	exitNotFound = 3
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "jplaw-cite",
		Short:   "Detect and resolve citations between Japanese statutes",
		Version: version,
	}
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(detectCmd())
	rootCmd.AddCommand(buildGraphCmd())
	rootCmd.AddCommand(impactCmd())
	rootCmd.AddCommand(buildDictionaryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	switch {
	case errs.Is(err, errs.ErrNotFound):
		return exitNotFound
	case errs.Is(err, errs.ErrInvalidInput):
		return exitUsage
	default:
		return exitFailure
	}
}

func newLogger(cmd *cobra.Command) *zap.Logger {
	debug, _ := cmd.Flags().GetBool("debug")
	logger, err := logging.New(debug)
	if err != nil {
		return logging.Nop()
	}
	return logger
}

func loadDictionary(cfg config.Config) (*lawdict.Dictionary, error) {
	dict := lawdict.New()
	if err := dict.LoadFile(cfg.DictionaryPath); err != nil {
		return nil, err
	}
	return dict, nil
}

func openGraphStore(ctx context.Context, cfg config.Config) (graph.GraphStore, func(), error) {
	if cfg.UsesRemoteGraph() {
		store, err := graph.NewNeo4jStore(ctx, cfg.GraphURI, cfg.GraphUser, cfg.GraphPassword)
		if err != nil {
			return nil, nil, fmt.Errorf("opening graph store: %w", err)
		}
		return store, func() { store.Close(ctx) }, nil
	}
	return graph.NewMemStore(), func() {}, nil
}

// detectCmd implements `detect --text <s> [--law-id][--law-name]`:
// runs the detector on a single string and prints the citations found.
func detectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect citations in a single string of article text",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _ := cmd.Flags().GetString("text")
			lawId, _ := cmd.Flags().GetString("law-id")
			lawName, _ := cmd.Flags().GetString("law-name")
			if text == "" {
				return fmt.Errorf("--text is required: %w", errs.ErrInvalidInput)
			}

			cfg := config.FromEnv()
			dict, err := loadDictionary(cfg)
			if err != nil {
				return err
			}
			catalog, err := pattern.DefaultCatalog()
			if err != nil {
				return fmt.Errorf("loading pattern catalog: %w", err)
			}
			det := detector.New(catalog, dict, nil)

			if lawName != "" && lawId == "" {
				if id, ok := dict.Resolve(lawName); ok {
					lawId = string(id)
				}
			}
			tracker := jplawcontext.NewTracker(lawdict.LawId(lawId))
			tracker.EnterArticle("")

			citations := det.Detect(cmd.Context(), text, tracker)
			return printJSON(citations)
		},
	}
	cmd.Flags().String("text", "", "article text to run detection against")
	cmd.Flags().String("law-id", "", "law id of the document the text belongs to")
	cmd.Flags().String("law-name", "", "canonical name of the document's law, for context")
	return cmd
}

// buildGraphCmd implements `build-graph [--law-id][--fresh]`: orchestrates
// detection over one or all statutes and populates the graph store.
func buildGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build-graph",
		Short: "Run detection over statutes and populate the citation graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			lawId, _ := cmd.Flags().GetString("law-id")
			fresh, _ := cmd.Flags().GetBool("fresh")

			logger := newLogger(cmd)
			cfg := config.FromEnv()

			dict, err := loadDictionary(cfg)
			if err != nil {
				return err
			}
			catalog, err := pattern.DefaultCatalog()
			if err != nil {
				return fmt.Errorf("loading pattern catalog: %w", err)
			}
			det := detector.New(catalog, dict, nil)

			ctx := cmd.Context()
			store, closeStore, err := openGraphStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			builder := graph.NewBuilder(store).WithLogger(logger)

			source := lawsource.NewMemSource() // replaced by a real StatuteSource in deployment
			orch := orchestrator.New(source, det, builder, logger)

			runCfg := orchestrator.Config{CheckpointDir: cfg.CheckpointDir, Fresh: fresh}
			if lawId != "" {
				runCfg.LawIds = []lawdict.LawId{lawdict.LawId(lawId)}
			}

			report, err := orch.Run(ctx, runCfg)
			if err != nil {
				return fmt.Errorf("orchestrator run: %w", err)
			}
			logger.Info("build-graph finished",
				zap.String("run_id", report.RunID),
				zap.Int("processed", report.Counters.Processed),
				zap.Int("failed", report.Counters.Failed),
				zap.Int("edges_inserted", report.Counters.EdgesInserted))
			return printJSON(report)
		},
	}
	cmd.Flags().String("law-id", "", "restrict the run to a single statute")
	cmd.Flags().Bool("fresh", false, "ignore any existing checkpoint and start over")
	return cmd
}

// impactCmd implements `impact --law <id> --article <label> [--depth][--min-confidence]`:
// prints statutes impacted by an amendment, ranked by score.
func impactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "impact",
		Short: "Analyze the blast radius of an amendment to one statute",
		RunE: func(cmd *cobra.Command, args []string) error {
			lawId, _ := cmd.Flags().GetString("law")
			article, _ := cmd.Flags().GetString("article")
			depth, _ := cmd.Flags().GetInt("depth")
			minConfidence, _ := cmd.Flags().GetFloat64("min-confidence")
			includeIndirect, _ := cmd.Flags().GetBool("include-indirect")

			if lawId == "" {
				return fmt.Errorf("--law is required: %w", errs.ErrInvalidInput)
			}
			if depth < 1 || depth > 5 {
				return fmt.Errorf("--depth must be in 1..5: %w", errs.ErrInvalidInput)
			}
			if minConfidence < 0 || minConfidence > 1 {
				return fmt.Errorf("--min-confidence must be in 0..1: %w", errs.ErrInvalidInput)
			}

			cfg := config.FromEnv()
			ctx := cmd.Context()
			store, closeStore, err := openGraphStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			if _, ok, err := store.Node(ctx, lawdict.LawId(lawId)); err != nil {
				return err
			} else if !ok {
				return fmt.Errorf("law %s: %w", lawId, errs.ErrNotFound)
			}

			analyzer := impact.NewAnalyzer(store)
			result, err := analyzer.Analyze(ctx, lawdict.LawId(lawId), depth, minConfidence, includeIndirect)
			if err != nil {
				return fmt.Errorf("impact analysis: %w", err)
			}
			return printJSON(struct {
				Article string `json:"amended_article,omitempty"`
				*impact.Result
			}{Article: article, Result: result})
		},
	}
	cmd.Flags().String("law", "", "law id to analyze the impact of amending")
	cmd.Flags().String("article", "", "article label within --law that was amended, for the report header")
	cmd.Flags().Int("depth", 3, "maximum traversal depth (1..5)")
	cmd.Flags().Float64("min-confidence", 0.7, "minimum edge confidence followed during traversal")
	cmd.Flags().Bool("include-indirect", true, "follow citations past depth 1")
	return cmd
}

// buildDictionaryCmd implements `build-dictionary`: loads the dictionary
// source file and reports how many entries it registered.
func buildDictionaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build-dictionary",
		Short: "Build the law dictionary index from the source file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			dict, err := loadDictionary(cfg)
			if err != nil {
				return err
			}
			fmt.Printf("dictionary built from %s: %d laws indexed\n", cfg.DictionaryPath, dict.Len())
			return nil
		},
	}
	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
