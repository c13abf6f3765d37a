// Package cmmc is a small data-handling toolkit.
//
// Usage:
//
//	import "github.com/cmmc-org/cmmc/state"
//
//	s := state.New(map[string]any{"lr": 0.01})
//	s.Set("epochs", 3)
//	lr, _ := s.Attr("lr")
//
// The packages are independent of each other except for state, which they
// all share as their record type:
//
//	state    ordered string-keyed mapping with attribute-style access
//	args     command-line definitions and parsing over pflag
//	files    natural-order file discovery and NDJSON loading
//	frame    row views, filtering and rendering
//	console  timestamped, labeled terminal lines
//
// cmd/cmmc wraps them in a CLI.
package cmmc
