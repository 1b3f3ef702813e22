package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile   string
	logLevel  string
	logFormat string
	algorithm string
	outputDir string
	outFormat string
	quiet     bool
)

var rootCmd = &cobra.Command{
	Use:   "dircrawl",
	Short: "Filesystem Inventory & Fingerprinting",
	Long: `A CLI tool that walks directory trees, records identity and metadata
for every reachable directory and file, and fingerprints file contents.

Output records carry stable run-unique identifiers with parent/child
linkage, so they import directly into relational tooling for duplicate
detection, change detection, and history reconstruction.

Features:
  - Iterative worklist traversal, each directory visited exactly once
  - Revisit (cycle) detection on canonicalized paths
  - MD5 or SHA-256 content fingerprints
  - Classified, recoverable per-node error handling
  - Delimited or fixed-width text records plus optional SQL destination`,
	Version: Version,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "dircrawl.yaml",
		"Path to configuration file")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel  string
	LogFormat string
	Algorithm string
	OutputDir string
	Format    string
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:  logLevel,
		LogFormat: logFormat,
		Algorithm: algorithm,
		OutputDir: outputDir,
		Format:    outFormat,
	}
}
