package files

import (
	"strings"

	"go.uber.org/zap"
)

// ============================================================================
// OPTIONS — Functional options for Discover() and the NDJSON loaders
// ============================================================================

// DiscoverOption configures Discover.
type DiscoverOption func(*discoverConfig)

type discoverConfig struct {
	Pattern    string   // glob matched against the base name; empty = any
	Extensions []string // lower-case, with leading dot; empty = any
	MaxDepth   int      // 0 = root only, negative = unlimited
	Hidden     bool     // include dot-files and dot-directories
}

// WithPattern keeps only files whose base name matches the glob pattern.
func WithPattern(pattern string) DiscoverOption {
	return func(c *discoverConfig) {
		c.Pattern = pattern
	}
}

// WithExtensions keeps only files with one of the given extensions.
// "json" and ".json" are equivalent; matching is case-insensitive.
func WithExtensions(exts ...string) DiscoverOption {
	return func(c *discoverConfig) {
		for _, e := range exts {
			e = strings.ToLower(strings.TrimSpace(e))
			if e == "" {
				continue
			}
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			c.Extensions = append(c.Extensions, e)
		}
	}
}

// WithMaxDepth limits how many directory levels below root are searched.
// Depth 0 searches root only.
func WithMaxDepth(depth int) DiscoverOption {
	return func(c *discoverConfig) {
		c.MaxDepth = depth
	}
}

// WithHidden includes hidden files and directories.
func WithHidden(hidden bool) DiscoverOption {
	return func(c *discoverConfig) {
		c.Hidden = hidden
	}
}

func applyDiscoverOptions(opts []DiscoverOption) *discoverConfig {
	cfg := &discoverConfig{
		MaxDepth: -1,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// LoadOption configures the NDJSON loaders.
type LoadOption func(*loadConfig)

type loadConfig struct {
	Encoding  string
	SkipBlank bool
	Workers   int
	Logger    *zap.Logger
}

// WithEncoding sets the text encoding of the input by IANA name, such as
// "utf-8", "latin1" or "utf-16le".
func WithEncoding(name string) LoadOption {
	return func(c *loadConfig) {
		c.Encoding = name
	}
}

// WithSkipBlank controls whether whitespace-only lines are skipped (the
// default) or rejected as malformed.
func WithSkipBlank(skip bool) LoadOption {
	return func(c *loadConfig) {
		c.SkipBlank = skip
	}
}

// WithWorkers bounds how many files LoadNDJSONFiles reads at once.
func WithWorkers(n int) LoadOption {
	return func(c *loadConfig) {
		c.Workers = n
	}
}

// WithLogger sets the logger for load progress.
func WithLogger(l *zap.Logger) LoadOption {
	return func(c *loadConfig) {
		if l != nil {
			c.Logger = l
		}
	}
}

func applyLoadOptions(opts []LoadOption) *loadConfig {
	cfg := &loadConfig{
		Encoding:  "utf-8",
		SkipBlank: true,
		Workers:   4,
		Logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
