package main

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cmmc-org/cmmc/frame"
	"github.com/cmmc-org/cmmc/state"
)

// ============================================================================
// OUTPUT — --out and --format handling shared by every command
// ============================================================================

// openOutput returns stdout, or the --out file when one was given.
func openOutput(cmd *cobra.Command) (io.Writer, func() error, error) {
	if outFile == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create output file")
	}
	return f, f.Close, nil
}

// writeView renders view in the selected format.
func writeView(cmd *cobra.Command, view frame.View) error {
	format, err := frame.ParseFormat(formatName)
	if err != nil {
		return err
	}

	w, closeFn, err := openOutput(cmd)
	if err != nil {
		return err
	}
	if err := frame.Render(w, view, format); err != nil {
		_ = closeFn()
		return err
	}
	if err := closeFn(); err != nil {
		return errors.Wrap(err, "failed to close output file")
	}
	if outFile != "" {
		logger.Info("output written", zap.String("path", outFile), zap.Int("rows", view.Len()))
	}
	return nil
}

// writeValue renders a single mapping: an object for json and pretty, a
// one-row table otherwise.
func writeValue(cmd *cobra.Command, v *state.State) error {
	format, err := frame.ParseFormat(formatName)
	if err != nil {
		return err
	}
	if format != frame.FormatJSON && format != frame.FormatPretty {
		return writeView(cmd, frame.FromRecords([]*state.State{v}))
	}

	w, closeFn, err := openOutput(cmd)
	if err != nil {
		return err
	}
	if err := frame.RenderValue(w, v, format == frame.FormatPretty); err != nil {
		_ = closeFn()
		return err
	}
	return errors.Wrap(closeFn(), "failed to close output file")
}
