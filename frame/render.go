package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/cmmc-org/cmmc/state"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Format names an output rendering.
type Format string

const (
	FormatTable  Format = "table"
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatPretty Format = "pretty"
	FormatNDJSON Format = "ndjson"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatTable, FormatCSV, FormatJSON, FormatPretty, FormatNDJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q: want table, csv, json, pretty or ndjson", s)
}

// Render writes the view to w in the given format.
func Render(w io.Writer, view View, format Format) error {
	switch format {
	case FormatTable:
		return renderTable(w, view)
	case FormatCSV:
		return renderCSV(w, view)
	case FormatJSON, FormatPretty:
		return renderJSON(w, Rows(view), format == FormatPretty)
	case FormatNDJSON:
		return renderNDJSON(w, view)
	}
	return fmt.Errorf("unknown format %q", format)
}

func renderTable(w io.Writer, view View) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	cols := view.Columns()
	header := make(table.Row, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	t.AppendHeader(header)

	for i := 0; i < view.Len(); i++ {
		row := make(table.Row, len(cols))
		for j, c := range cols {
			v, ok := view.Value(i, c)
			if ok {
				row[j] = cell(v)
			}
		}
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d rows", view.Len())})
	t.Render()
	return nil
}

func renderCSV(w io.Writer, view View) error {
	cw := csv.NewWriter(w)
	cols := view.Columns()
	if err := cw.Write(cols); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	for i := 0; i < view.Len(); i++ {
		rec := make([]string, len(cols))
		for j, c := range cols {
			if v, ok := view.Value(i, c); ok {
				rec[j] = cell(v)
			}
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrapf(err, "write csv row %d", i)
		}
	}
	cw.Flush()
	return cw.Error()
}

// RenderValue writes any value as JSON, indented when pretty is set.
func RenderValue(w io.Writer, v any, pretty bool) error {
	return renderJSON(w, v, pretty)
}

func renderJSON(w io.Writer, v any, pretty bool) error {
	var out []byte
	var err error
	if pretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return errors.Wrap(err, "marshal output")
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func renderNDJSON(w io.Writer, view View) error {
	for i := 0; i < view.Len(); i++ {
		if err := renderJSON(w, view.Row(i), false); err != nil {
			return err
		}
	}
	return nil
}

// cell formats a value for table and CSV output.
// Whole floats drop their decimals; nested States and lists are JSON.
func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case *state.State, []any, map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
	return fmt.Sprint(v)
}
