package args

import (
	"os"
	"sync"

	"go.uber.org/zap"
)

// ============================================================================
// PACKAGE-LEVEL HELPER
// ============================================================================
// Scripts define arguments from anywhere (init functions, helper packages)
// and parse once in main. These functions share one Helper, created lazily.
// ============================================================================

var (
	stdMu sync.Mutex
	std   *Helper
)

func helper() *Helper {
	if std == nil {
		std = New("", WithProgramName(programName()))
	}
	return std
}

func programName() string {
	if len(os.Args) > 0 {
		return os.Args[0]
	}
	return "program"
}

// SetDescription sets the shared helper's description if it has none yet.
func SetDescription(description string) {
	stdMu.Lock()
	defer stdMu.Unlock()
	if h := helper(); h.Description() == "" {
		h.SetDescription(description)
	}
}

// SetLogger sets the shared helper's logger.
func SetLogger(l *zap.Logger) {
	stdMu.Lock()
	defer stdMu.Unlock()
	WithLogger(l)(helper())
}

// Define adds one argparse-style argument to the shared helper.
func Define(flags []string, opts Options) (string, error) {
	stdMu.Lock()
	defer stdMu.Unlock()
	return helper().Add(flags, opts)
}

// DefineSpecs adds friendly Specs to the shared helper and returns their dests.
func DefineSpecs(specs ...Spec) ([]string, error) {
	stdMu.Lock()
	defer stdMu.Unlock()
	dests := make([]string, 0, len(specs))
	for _, s := range specs {
		dest, err := helper().AddSpec(s)
		if err != nil {
			return dests, err
		}
		dests = append(dests, dest)
	}
	return dests, nil
}

// Get defines any extra specs, then parses argv against everything defined so
// far. A nil argv means os.Args[1:].
func Get(argv []string, specs ...Spec) (*Args, error) {
	if _, err := DefineSpecs(specs...); err != nil {
		return nil, err
	}
	if argv == nil && len(os.Args) > 1 {
		argv = os.Args[1:]
	}
	stdMu.Lock()
	defer stdMu.Unlock()
	return helper().Parse(argv)
}

// DeleteArg removes one argument from the shared helper.
func DeleteArg(name string) bool {
	stdMu.Lock()
	defer stdMu.Unlock()
	return helper().Delete(name)
}

// DeleteArgs removes several arguments and reports, per name, whether it was
// defined.
func DeleteArgs(names ...string) map[string]bool {
	stdMu.Lock()
	defer stdMu.Unlock()
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = helper().Delete(n)
	}
	return out
}

// ResetArgs drops every definition of the shared helper.
func ResetArgs(description string) {
	stdMu.Lock()
	defer stdMu.Unlock()
	helper().Reset(description)
}

// Usage renders help for the shared helper.
func Usage() string {
	stdMu.Lock()
	defer stdMu.Unlock()
	return helper().Usage()
}
