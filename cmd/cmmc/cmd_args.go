package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cmmc-org/cmmc/args"
)

var (
	argsSpecPath    string
	argsDescription string
)

// argsCmd parses a command line against a YAML spec file
var argsCmd = &cobra.Command{
	Use:   "args --spec FILE -- [ARGV...]",
	Short: "Parse ARGV against argument specs and print the result",
	Long: `Defines the arguments listed in a YAML spec file, parses everything after
"--" against them and prints the resulting name/value mapping.

Spec file:
  - name: input_file
    shortform: i
    required: yes
  - name: epochs
    type: int
    default: 10
  - name: target
    flag: false

Example:
  cmmc args --spec train.yaml -- -i data.ndjson --epochs 3 out/`,
	RunE: runArgs,
}

func init() {
	argsCmd.Flags().StringVarP(&argsSpecPath, "spec", "s", "", "YAML file listing the argument specs (required)")
	argsCmd.Flags().StringVar(&argsDescription, "description", "", "Description shown in the parsed program's help")
	_ = argsCmd.MarkFlagRequired("spec")
}

func runArgs(cmd *cobra.Command, argv []string) error {
	specs, err := args.LoadSpecs(argsSpecPath)
	if err != nil {
		return err
	}

	args.ResetArgs(argsDescription)
	args.SetLogger(logger)
	logger.Debug("parsing", zap.Int("specs", len(specs)), zap.Strings("argv", argv))

	parsed, err := args.Get(append([]string{}, argv...), specs...)
	if errors.Is(err, args.ErrHelp) {
		_, err = fmt.Fprint(cmd.OutOrStdout(), args.Usage())
		return err
	}
	if err != nil {
		return err
	}
	return writeValue(cmd, parsed.State())
}
