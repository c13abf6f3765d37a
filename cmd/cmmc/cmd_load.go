package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cmmc-org/cmmc/console"
	"github.com/cmmc-org/cmmc/files"
	"github.com/cmmc-org/cmmc/frame"
	"github.com/cmmc-org/cmmc/state"
)

var (
	loadEncoding  string
	loadKeepBlank bool
	loadQuiet     bool
)

// loadCmd reads NDJSON files into one table
var loadCmd = &cobra.Command{
	Use:   "load FILE...",
	Short: "Load NDJSON/JSONL files and print their records",
	Long: `Reads every FILE concurrently (see Workers in the config) and prints the
records in file order. Blank lines are skipped unless --keep-blank is set,
in which case they are reported as errors.

Example:
  cmmc load runs/*.ndjson --format table`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadEncoding, "encoding", "utf-8", "Text encoding of the files (IANA name)")
	loadCmd.Flags().BoolVar(&loadKeepBlank, "keep-blank", false, "Treat blank lines as malformed")
	loadCmd.Flags().BoolVarP(&loadQuiet, "quiet", "q", false, "Suppress per-file progress on stderr")
}

func runLoad(cmd *cobra.Command, paths []string) error {
	perFile, err := files.LoadNDJSONFiles(cmd.Context(), paths,
		files.WithEncoding(loadEncoding),
		files.WithSkipBlank(!loadKeepBlank),
		files.WithWorkers(cfg.Workers),
		files.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	progress := console.New(cmd.ErrOrStderr(), console.WithIntZeros(len(strconv.Itoa(len(paths)))))
	var rows []*state.State
	for i, recs := range perFile {
		if !loadQuiet {
			progress.Printf(i+1, "%s: %d records", paths[i], len(recs))
		}
		rows = append(rows, recs...)
	}
	return writeView(cmd, frame.FromRecords(rows))
}
