package files

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/cmmc-org/cmmc/state"
)

// maxLineSize bounds a single NDJSON record.
const maxLineSize = 64 << 20

// LoadNDJSON reads a newline-delimited JSON file and returns one State per
// line, with object keys in document order. Every line must hold exactly one
// JSON object; unlike plain NDJSON, arrays and scalars are rejected.
func LoadNDJSON(path string, opts ...LoadOption) ([]*state.State, error) {
	return loadFile(context.Background(), path, applyLoadOptions(opts))
}

// LoadJSONL is LoadNDJSON under its other common name.
func LoadJSONL(path string, opts ...LoadOption) ([]*state.State, error) {
	return LoadNDJSON(path, opts...)
}

// ReadNDJSON decodes newline-delimited JSON objects from r.
func ReadNDJSON(r io.Reader, opts ...LoadOption) ([]*state.State, error) {
	cfg := applyLoadOptions(opts)
	return decodeLines(context.Background(), r, cfg)
}

// LoadNDJSONFiles loads several files concurrently. Results keep the order of
// paths. The first failure cancels the remaining loads and is returned.
func LoadNDJSONFiles(ctx context.Context, paths []string, opts ...LoadOption) ([][]*state.State, error) {
	cfg := applyLoadOptions(opts)
	results := make([][]*state.State, len(paths))

	p := pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()
	if cfg.Workers > 0 {
		p = p.WithMaxGoroutines(cfg.Workers)
	}

	for i, path := range paths {
		p.Go(func(ctx context.Context) error {
			rows, err := loadFile(ctx, path, cfg)
			if err != nil {
				return err
			}
			results[i] = rows
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func loadFile(ctx context.Context, path string, cfg *loadConfig) ([]*state.State, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open ndjson")
	}
	defer f.Close()

	rows, err := decodeLines(ctx, f, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	cfg.Logger.Debug("loaded ndjson", zap.String("path", path), zap.Int("records", len(rows)))
	return rows, nil
}

func decodeLines(ctx context.Context, r io.Reader, cfg *loadConfig) ([]*state.State, error) {
	r, err := decodeText(r, cfg.Encoding)
	if err != nil {
		return nil, err
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var rows []*state.State
	line := 0
	for sc.Scan() {
		line++
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			if cfg.SkipBlank {
				continue
			}
			return nil, errors.Errorf("line %d: empty line", line)
		}

		row := state.New(nil)
		if err := row.UnmarshalJSON(text); err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "line %d", line+1)
	}
	return rows, nil
}

// decodeText wraps r so that it yields UTF-8.
func decodeText(r io.Reader, name string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return r, nil
	case "utf-8-sig", "utf-8-bom":
		return unicode.UTF8BOM.NewDecoder().Reader(r), nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %q", name)
	}
	if enc == nil {
		return nil, errors.Errorf("encoding %q is not supported", name)
	}
	return enc.NewDecoder().Reader(r), nil
}
