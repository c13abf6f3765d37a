// Package files finds files on disk and loads newline-delimited JSON.
package files

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/facette/natsort"
	"github.com/pkg/errors"
)

// Discover walks root and returns the regular files that pass every filter,
// in natural sort order ("part2" before "part10"). Paths are joined to root.
func Discover(root string, opts ...DiscoverOption) ([]string, error) {
	cfg := applyDiscoverOptions(opts)

	if cfg.Pattern != "" {
		if _, err := filepath.Match(cfg.Pattern, ""); err != nil {
			return nil, errors.Wrapf(err, "invalid pattern %q", cfg.Pattern)
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrapf(err, "discover %s", root)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("discover %s: not a directory", root)
	}

	var found []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		depth := strings.Count(rel, string(filepath.Separator))

		if !cfg.Hidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if cfg.MaxDepth >= 0 && depth >= cfg.MaxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if cfg.matches(d.Name()) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "discover %s", root)
	}

	natsort.Sort(found)
	return found, nil
}

func (c *discoverConfig) matches(name string) bool {
	if len(c.Extensions) > 0 && !slices.Contains(c.Extensions, strings.ToLower(filepath.Ext(name))) {
		return false
	}
	if c.Pattern != "" {
		ok, _ := filepath.Match(c.Pattern, name)
		return ok
	}
	return true
}
