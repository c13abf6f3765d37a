package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cmmc-org/cmmc/files"
	"github.com/cmmc-org/cmmc/frame"
	"github.com/cmmc-org/cmmc/state"
)

var (
	discoverPattern  string
	discoverExts     []string
	discoverMaxDepth int
	discoverHidden   bool
)

// discoverCmd lists files below a directory
var discoverCmd = &cobra.Command{
	Use:   "discover ROOT",
	Short: "List files below ROOT in natural order",
	Long: `Walks ROOT and lists the regular files matching --pattern and --ext,
sorted so that part2 comes before part10.

Example:
  cmmc discover ./runs --ext ndjson,jsonl --max-depth 1`,
	Args: cobra.ExactArgs(1),
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().StringVar(&discoverPattern, "pattern", "", "Glob the file name must match, e.g. 'run_*'")
	discoverCmd.Flags().StringSliceVar(&discoverExts, "ext", nil, "Extensions to keep (comma separated)")
	discoverCmd.Flags().IntVar(&discoverMaxDepth, "max-depth", -1, "Directories to descend below ROOT (-1 = unlimited)")
	discoverCmd.Flags().BoolVar(&discoverHidden, "hidden", false, "Include dot files and dot directories")
}

func runDiscover(cmd *cobra.Command, argv []string) error {
	root := argv[0]
	paths, err := files.Discover(root,
		files.WithPattern(discoverPattern),
		files.WithExtensions(discoverExts...),
		files.WithMaxDepth(discoverMaxDepth),
		files.WithHidden(discoverHidden),
	)
	if err != nil {
		return err
	}
	logger.Debug("discovered files", zap.String("root", root), zap.Int("count", len(paths)))

	rows := make([]*state.State, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return errors.Wrapf(err, "stat %s", p)
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			rel = p
		}
		rows = append(rows, state.FromPairs(
			state.Pair{Key: "path", Value: rel},
			state.Pair{Key: "bytes", Value: info.Size()},
			state.Pair{Key: "size", Value: humanize.Bytes(uint64(info.Size()))},
			state.Pair{Key: "modified", Value: info.ModTime().Format(time.RFC3339)},
		))
	}
	return writeView(cmd, frame.New([]string{"path", "bytes", "size", "modified"}, rows))
}
