package frame

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/cmmc-org/cmmc/state"
)

// ============================================================================
// CSV READER — Parses CSV data into a Frame
// ============================================================================
// Consumer opens the CSV from wherever it lives (file, HTTP body, stdin).
// Columns are typed by inference (see infer.go): a column whose non-empty
// cells all parse as numbers holds float64/int64, booleans hold bool, the
// rest stay strings. Empty cells become nil.
// ============================================================================

// CSVOption configures ReadCSV.
type CSVOption func(*csvConfig)

type csvConfig struct {
	SnakeCase bool
	Comma     rune
	Infer     bool
}

// WithSnakeCase normalizes headers: "Column Name" → "column_name".
func WithSnakeCase(on bool) CSVOption {
	return func(c *csvConfig) {
		c.SnakeCase = on
	}
}

// WithComma sets the field delimiter.
func WithComma(r rune) CSVOption {
	return func(c *csvConfig) {
		c.Comma = r
	}
}

// WithInference toggles column type inference. Off keeps every cell a string.
func WithInference(on bool) CSVOption {
	return func(c *csvConfig) {
		c.Infer = on
	}
}

// ReadCSV parses CSV with a header row into a Frame.
func ReadCSV(r io.Reader, opts ...CSVOption) (*Frame, error) {
	cfg := &csvConfig{Comma: ',', Infer: true}
	for _, opt := range opts {
		opt(cfg)
	}

	reader := csv.NewReader(r)
	reader.Comma = cfg.Comma
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV headers")
	}
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if cfg.SnakeCase {
			h = toSnakeCase(h)
		}
		headers[i] = h
	}

	var raw [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read CSV row %d", len(raw)+2)
		}
		raw = append(raw, row)
	}

	kinds := make([]columnKind, len(headers))
	if cfg.Infer {
		for i := range headers {
			kinds[i] = detectKind(columnValues(raw, i))
		}
	}

	rows := make([]*state.State, 0, len(raw))
	for _, row := range raw {
		rec := state.New(nil)
		for i, h := range headers {
			if i >= len(row) {
				rec.Set(h, nil)
				continue
			}
			rec.Set(h, kinds[i].parse(strings.TrimSpace(row[i])))
		}
		rows = append(rows, rec)
	}

	return New(headers, rows), nil
}

func columnValues(rows [][]string, col int) []string {
	values := make([]string, 0, len(rows))
	for _, r := range rows {
		if col < len(r) {
			if v := strings.TrimSpace(r[col]); v != "" {
				values = append(values, v)
			}
		}
	}
	return values
}
