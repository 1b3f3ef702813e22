package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/dircrawl/internal/config"
	"github.com/dbsmedya/dircrawl/internal/crawler"
	"github.com/dbsmedya/dircrawl/internal/fingerprint"
	"github.com/dbsmedya/dircrawl/internal/lister"
	"github.com/dbsmedya/dircrawl/internal/logger"
	"github.com/dbsmedya/dircrawl/internal/pathkey"
	"github.com/dbsmedya/dircrawl/internal/runlock"
	"github.com/dbsmedya/dircrawl/internal/sink"
)

var scanCmd = &cobra.Command{
	Use:   "scan [roots...]",
	Short: "Walk one or more root directories and record every node",
	Long: `Scan enumerates every reachable directory and file beneath the given
roots exactly once, fingerprints file contents, and writes the records
into a timestamped run directory (and optionally a SQL database).

The scan process follows these steps:
  1. Seed the worklist with every valid root (invalid roots are reported, not fatal)
  2. Unfold each root's subtree in discovery order, one directory at a time
  3. Fingerprint and record every file of each directory
  4. Write the run statistics summary

Example:
  dircrawl scan /data /srv --config dircrawl.yaml --algorithm sha256`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&algorithm, "algorithm", "a", "",
		"Override fingerprint algorithm (md5, sha256)")
	scanCmd.Flags().StringVarP(&outputDir, "output", "o", "",
		"Override output base directory")
	scanCmd.Flags().StringVar(&outFormat, "format", "",
		"Override text record layout (delimited, fixed)")
	scanCmd.Flags().BoolVarP(&quiet, "quiet", "q", false,
		"Suppress per-directory console echo")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat,
		overrides.Algorithm, overrides.OutputDir, overrides.Format)
	if quiet {
		cfg.Output.Console = false
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	runID := uuid.New().String()
	log = log.WithRun(runID)

	algo, err := fingerprint.ParseAlgorithm(cfg.Hashing.Algorithm)
	if err != nil {
		return err
	}
	format, err := sink.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	baseDir, err := filepath.Abs(cfg.Output.Directory)
	if err != nil {
		return fmt.Errorf("resolve output directory: %w", err)
	}

	// One run per output base at a time; run directories are named at
	// second resolution.
	lock, err := runlock.New(baseDir)
	if err != nil {
		return err
	}
	if err := lock.Acquire(); err != nil {
		if errors.Is(err, runlock.ErrHeld) {
			return fmt.Errorf("output directory %s: %w", baseDir, err)
		}
		return err
	}
	defer lock.Release()

	runDir, err := sink.CreateRunDir(baseDir, time.Now())
	if err != nil {
		return err
	}
	log.Infow("Run directory created", "dir", runDir, "algorithm", algo, "format", format)

	textSink, err := sink.NewTextSink(runDir, format)
	if err != nil {
		return err
	}
	defer textSink.Close()

	sinks := []crawler.RecordSink{textSink}
	if cfg.Output.Console {
		sinks = append(sinks, sink.NewConsole(os.Stdout))
	}
	if cfg.Database.Enabled {
		db, err := sink.OpenDatabase(&cfg.Database)
		if err != nil {
			return err
		}
		dbSink, err := sink.NewDBSink(db, runID)
		if err != nil {
			db.Close()
			return err
		}
		defer dbSink.Close()
		sinks = append(sinks, dbSink)
	}

	canon := pathkey.New()
	exclusions := buildExclusions(canon, cfg.Exclude, baseDir)

	engine, err := crawler.NewEngine(
		lister.New(),
		fingerprint.New(algo),
		canon,
		sink.NewMulti(sinks...),
		crawler.SystemClock{},
		exclusions,
		log,
	)
	if err != nil {
		return err
	}

	stats, err := engine.Run(args)
	if err != nil {
		return err
	}

	log.Infow("Scan finished",
		"run_dir", runDir,
		"directories", stats.DistinctDirectories,
		"files", stats.DistinctFiles,
		"errors", stats.TotalErrors(),
	)
	return nil
}

// buildExclusions canonicalizes the configured exclusion paths and always
// adds the tool's own output location so a run never walks its results.
func buildExclusions(canon pathkey.CaseFolding, configured []string, baseDir string) crawler.StaticExclusions {
	keys := make([]string, 0, len(configured)+1)
	keys = append(keys, canon.Key(filepath.Join(baseDir, "dircrawl")))
	for _, path := range configured {
		keys = append(keys, canon.Key(path))
	}
	return crawler.NewStaticExclusions(keys...)
}
