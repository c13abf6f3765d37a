package args

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/cmmc-org/cmmc/state"
)

// ============================================================================
// HELPER — a registry of argument definitions over pflag
// ============================================================================
// Definitions live in an ordered registry keyed by dest. A fresh FlagSet is
// built from the registry on every Parse, so deleting a definition is just a
// registry delete: no parser internals to patch up afterwards.
// ============================================================================

// Helper collects argument definitions and parses command lines against them.
type Helper struct {
	name        string
	description string
	defined     *state.State // dest → *definition, in definition order
	logger      *zap.Logger
}

// ErrHelp is returned by Parse when -h or --help was given.
var ErrHelp = pflag.ErrHelp

// Option configures a Helper.
type Option func(*Helper)

// WithLogger sets the logger used for redefinition warnings.
func WithLogger(l *zap.Logger) Option {
	return func(h *Helper) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithProgramName sets the program name shown in usage output.
func WithProgramName(name string) Option {
	return func(h *Helper) {
		h.name = name
	}
}

// New creates an empty Helper.
func New(description string, opts ...Option) *Helper {
	h := &Helper{
		name:        "program",
		description: description,
		defined:     state.New(nil),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type definition struct {
	dest       string
	flags      []string
	long       string
	aliases    []string
	shorthand  string
	positional bool
	kind       kind
	required   bool
	def        any
	help       string
}

// Description returns the helper's description.
func (h *Helper) Description() string { return h.description }

// SetDescription replaces the helper's description.
func (h *Helper) SetDescription(d string) { h.description = d }

// Add defines one argument from argparse-style flags:
//
//	h.Add([]string{"input_file"}, Options{})                  // positional
//	h.Add([]string{"-i", "--input-file"}, Options{Type: "str"}) // option
//
// It returns the dest under which the parsed value is stored.
func (h *Helper) Add(flags []string, opts Options) (string, error) {
	if len(flags) == 0 {
		return "", fmt.Errorf("at least one flag or name is required")
	}

	d := &definition{
		flags:    append([]string(nil), flags...),
		required: opts.Required,
		help:     opts.Help,
	}

	k, err := parseKind(opts.Type)
	if err != nil {
		return "", err
	}
	d.kind = k

	d.dest = opts.Dest
	if d.dest == "" {
		d.dest = inferDest(flags)
	}

	if !strings.HasPrefix(flags[0], "-") {
		if len(flags) > 1 {
			return "", fmt.Errorf("positional argument %q takes exactly one name", flags[0])
		}
		d.positional = true
	} else if err := d.splitFlags(); err != nil {
		return "", err
	}

	if opts.Default != nil {
		if d.def, err = convert(d.kind, opts.Default); err != nil {
			return "", fmt.Errorf("argument %q: default: %w", d.dest, err)
		}
	}

	if err := h.checkConflicts(d); err != nil {
		return "", err
	}

	if h.defined.Contains(d.dest) {
		h.logger.Warn("argument already defined, overriding previous definition",
			zap.String("dest", d.dest))
	}
	h.defined.Set(d.dest, d)
	return d.dest, nil
}

// AddSpec defines one argument from a friendly Spec.
func (h *Helper) AddSpec(spec Spec) (string, error) {
	flags, opts, err := spec.normalize()
	if err != nil {
		return "", err
	}
	return h.Add(flags, opts)
}

// splitFlags sorts option strings into the long name, aliases and shorthand.
func (d *definition) splitFlags() error {
	for _, f := range d.flags {
		switch {
		case strings.HasPrefix(f, "--") && len(f) > 2:
			if d.long == "" {
				d.long = f[2:]
			} else {
				d.aliases = append(d.aliases, f[2:])
			}
		case strings.HasPrefix(f, "-") && len([]rune(f)) == 2:
			if d.shorthand != "" {
				return fmt.Errorf("argument %q: only one single-character flag is supported, got %q and %q", d.dest, "-"+d.shorthand, f)
			}
			d.shorthand = f[1:]
		default:
			return fmt.Errorf("argument %q: invalid option string %q", d.dest, f)
		}
	}
	if d.long == "" {
		d.long = d.shorthand
	}
	return nil
}

// names lists every option name the definition claims.
func (d *definition) names() []string {
	if d.positional {
		return nil
	}
	out := append([]string{d.long}, d.aliases...)
	if d.shorthand != "" {
		out = append(out, "-"+d.shorthand)
	}
	return out
}

func (h *Helper) checkConflicts(d *definition) error {
	claimed := make(map[string]string)
	for v := range h.defined.Values() {
		other := v.(*definition)
		if other.dest == d.dest {
			continue
		}
		for _, n := range other.names() {
			claimed[n] = other.dest
		}
	}
	for _, n := range d.names() {
		if owner, ok := claimed[n]; ok {
			return fmt.Errorf("argument %q: option %q conflicts with argument %q", d.dest, n, owner)
		}
	}
	return nil
}

// inferDest derives a dest from flags: the first long flag, else the first
// flag, without leading dashes and with '-' replaced by '_'.
func inferDest(flags []string) string {
	base := strings.TrimLeft(flags[0], "-")
	for _, f := range flags {
		if strings.HasPrefix(f, "--") {
			base = f[2:]
			break
		}
	}
	return strings.ReplaceAll(base, "-", "_")
}

// Delete removes the argument stored under name along with every flag it
// defined. It reports whether anything was removed.
func (h *Helper) Delete(name string) bool {
	return h.defined.Delete(name) == nil
}

// Reset drops every definition and replaces the description.
func (h *Helper) Reset(description string) {
	h.defined = state.New(nil)
	h.description = description
}

// Defined lists the dests of all current definitions in definition order.
func (h *Helper) Defined() []string {
	var out []string
	for k := range h.defined.Keys() {
		out = append(out, k)
	}
	return out
}

// ============================================================================
// PARSING
// ============================================================================

// boundFlag remembers where a parsed option value lands.
type boundFlag struct {
	def   *definition
	value func() any
}

func (h *Helper) flagSet(out io.Writer) (*pflag.FlagSet, []boundFlag, []*definition) {
	fs := pflag.NewFlagSet(h.name, pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.SortFlags = false

	var bound []boundFlag
	var positionals []*definition
	for v := range h.defined.Values() {
		d := v.(*definition)
		if d.positional {
			positionals = append(positionals, d)
			continue
		}
		bound = append(bound, boundFlag{def: d, value: d.register(fs)})
	}

	fs.Usage = func() {
		fmt.Fprint(out, h.usage(fs, positionals))
	}
	return fs, bound, positionals
}

// register adds the definition's flag (and hidden aliases) to fs.
func (d *definition) register(fs *pflag.FlagSet) func() any {
	var value func() any
	switch d.kind {
	case kindInt:
		def, _ := d.def.(int)
		p := fs.IntP(d.long, d.shorthand, def, d.help)
		value = func() any { return *p }
	case kindFloat:
		def, _ := d.def.(float64)
		p := fs.Float64P(d.long, d.shorthand, def, d.help)
		value = func() any { return *p }
	case kindBool:
		def, _ := d.def.(bool)
		p := fs.BoolP(d.long, d.shorthand, def, d.help)
		value = func() any { return *p }
	default:
		def, _ := d.def.(string)
		p := fs.StringP(d.long, d.shorthand, def, d.help)
		value = func() any { return *p }
	}

	f := fs.Lookup(d.long)
	for _, alias := range d.aliases {
		fs.Var(f.Value, alias, d.help)
		_ = fs.MarkHidden(alias)
		fs.Lookup(alias).NoOptDefVal = f.NoOptDefVal
	}
	return value
}

// changed reports whether the user set the flag under any of its names.
func (d *definition) changed(fs *pflag.FlagSet) bool {
	if fs.Changed(d.long) {
		return true
	}
	for _, a := range d.aliases {
		if fs.Changed(a) {
			return true
		}
	}
	return false
}

// Parse parses argv (without the program name) and returns the result.
// Every defined dest is present: unset options without a default hold nil,
// except bool switches which default to false.
func (h *Helper) Parse(argv []string) (*Args, error) {
	return h.parse(argv, io.Discard)
}

func (h *Helper) parse(argv []string, out io.Writer) (*Args, error) {
	fs, bound, positionals := h.flagSet(out)
	if err := fs.Parse(argv); err != nil {
		return nil, err
	}

	result := state.New(nil)
	var missing []string
	for _, b := range bound {
		d := b.def
		if d.changed(fs) || d.def != nil || d.kind == kindBool {
			result.Set(d.dest, b.value())
		} else {
			result.Set(d.dest, nil)
		}
		if d.required && !d.changed(fs) {
			missing = append(missing, "--"+d.long)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required flag(s) %s not set", strings.Join(missing, ", "))
	}

	rest := fs.Args()
	for _, d := range positionals {
		if len(rest) == 0 {
			if d.def == nil {
				missing = append(missing, d.dest)
				continue
			}
			result.Set(d.dest, d.def)
			continue
		}
		v, err := convert(d.kind, rest[0])
		if err != nil {
			return nil, fmt.Errorf("argument %s: invalid %s value %q", d.dest, d.kind, rest[0])
		}
		result.Set(d.dest, v)
		rest = rest[1:]
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("the following arguments are required: %s", strings.Join(missing, ", "))
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("unrecognized arguments: %s", strings.Join(rest, " "))
	}

	return newArgs(h.orderLike(result)), nil
}

// orderLike rebuilds result in definition order, since options and
// positionals were filled in two passes.
func (h *Helper) orderLike(result *state.State) *state.State {
	out := state.New(nil)
	for k := range h.defined.Keys() {
		if v, err := result.Get(k); err == nil {
			out.Set(k, v)
		}
	}
	return out
}

// Usage renders a help text for the current definitions.
func (h *Helper) Usage() string {
	fs, _, positionals := h.flagSet(io.Discard)
	return h.usage(fs, positionals)
}

func (h *Helper) usage(fs *pflag.FlagSet, positionals []*definition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage: %s [flags]", h.name)
	for _, d := range positionals {
		fmt.Fprintf(&b, " %s", d.dest)
	}
	b.WriteString("\n")
	if h.description != "" {
		fmt.Fprintf(&b, "\n%s\n", h.description)
	}
	if len(positionals) > 0 {
		b.WriteString("\nPositional arguments:\n")
		for _, d := range positionals {
			fmt.Fprintf(&b, "  %-20s %s\n", d.dest, d.help)
		}
	}
	if fs.HasAvailableFlags() {
		b.WriteString("\nFlags:\n")
		b.WriteString(fs.FlagUsages())
	}
	return b.String()
}
