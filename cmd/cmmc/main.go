package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cmmc-org/cmmc/frame"
	"github.com/cmmc-org/cmmc/internal/config"
	"github.com/cmmc-org/cmmc/internal/logging"
)

// ============================================================================
// CMMC CLI — file discovery, NDJSON loading, filtering and argument parsing
// ============================================================================

const version = "0.3.0"

var (
	// Global flags
	verbose    bool
	formatName string
	outFile    string
	configArgs config.Args

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cmmc",
	Short: "cmmc - small data-handling toolkit",
	Long: `cmmc discovers data files, loads NDJSON records, filters tabular data
and parses command lines against YAML argument specs.

Examples:
  cmmc discover ./runs --ext ndjson,jsonl
  cmmc load runs/*.ndjson --format table
  cmmc filter results.csv --where "score>=0.9" --where "model==alpha"
  cmmc args --spec train.yaml -- --lr 0.01 data.csv`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configArgs.ConfigPath)
		if err != nil {
			return err
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level, cfg.LogFormat)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if formatName == "" {
			formatName = cfg.Output
		}
		if _, err := frame.ParseFormat(formatName); err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "cmmc %s\n", version)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&formatName, "format", "f", "", "Output format: table, csv, json, pretty, ndjson (default from config)")
	rootCmd.PersistentFlags().StringVarP(&outFile, "out", "o", "", "Write output to file instead of stdout")
	config.ProcessArgs(&config.Config{}, &configArgs, rootCmd)

	rootCmd.AddCommand(discoverCmd, loadCmd, filterCmd, argsCmd, versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
