package files

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/text/encoding/charmap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

// ============================================================================
// DISCOVERY
// ============================================================================

func discoveryTree(t *testing.T) string {
	root := t.TempDir()
	for _, p := range []string{
		"part10.ndjson",
		"part2.ndjson",
		"part1.NDJSON",
		"notes.txt",
		".hidden.ndjson",
		".cache/skip.ndjson",
		"nested/part3.ndjson",
		"nested/deeper/part4.ndjson",
	} {
		writeFile(t, filepath.Join(root, p), []byte("{}\n"))
	}
	return root
}

func rel(t *testing.T, root string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out[i] = filepath.ToSlash(r)
	}
	return out
}

func TestDiscover(t *testing.T) {
	root := discoveryTree(t)

	tests := []struct {
		name string
		opts []DiscoverOption
		want []string
	}{
		{
			name: "everything visible",
			want: []string{"nested/deeper/part4.ndjson", "nested/part3.ndjson", "notes.txt", "part1.NDJSON", "part2.ndjson", "part10.ndjson"},
		},
		{
			name: "extension filter is case-insensitive",
			opts: []DiscoverOption{WithExtensions("ndjson"), WithMaxDepth(0)},
			want: []string{"part1.NDJSON", "part2.ndjson", "part10.ndjson"},
		},
		{
			name: "pattern on base name",
			opts: []DiscoverOption{WithPattern("part*.ndjson"), WithMaxDepth(1)},
			want: []string{"nested/part3.ndjson", "part2.ndjson", "part10.ndjson"},
		},
		{
			name: "hidden included",
			opts: []DiscoverOption{WithHidden(true), WithExtensions(".ndjson"), WithMaxDepth(1)},
			want: []string{".cache/skip.ndjson", ".hidden.ndjson", "nested/part3.ndjson", "part1.NDJSON", "part2.ndjson", "part10.ndjson"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Discover(root, tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rel(t, root, got))
		})
	}
}

func TestDiscoverErrors(t *testing.T) {
	root := discoveryTree(t)

	_, err := Discover(filepath.Join(root, "missing"))
	assert.Error(t, err)

	_, err = Discover(filepath.Join(root, "notes.txt"))
	assert.ErrorContains(t, err, "not a directory")

	_, err = Discover(root, WithPattern("[unclosed"))
	assert.ErrorContains(t, err, "invalid pattern")
}

// ============================================================================
// NDJSON
// ============================================================================

func TestLoadNDJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.ndjson")
	writeFile(t, path, []byte(`{"id": 1, "name": "alpha", "tags": ["a"]}
{"name": "beta", "id": 2}

  {"id": 3, "nested": {"z": 1, "a": 2}}
`))

	rows, err := LoadNDJSON(path)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"id", "name", "tags"}, slices.Collect(rows[0].Keys()))
	assert.Equal(t, []string{"name", "id"}, slices.Collect(rows[1].Keys()))

	name, err := rows[1].Attr("name")
	require.NoError(t, err)
	assert.Equal(t, "beta", name)

	id, err := rows[2].Get("id")
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)

	jsonl, err := LoadJSONL(path)
	require.NoError(t, err)
	require.Len(t, jsonl, 3)
	for i := range rows {
		assert.True(t, rows[i].Equal(jsonl[i]))
	}
}

func TestLoadNDJSONErrors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.ndjson")
	writeFile(t, bad, []byte("{\"ok\": true}\n{broken\n"))
	_, err := LoadNDJSON(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.ndjson")
	assert.Contains(t, err.Error(), "line 2")

	arr := filepath.Join(dir, "array.ndjson")
	writeFile(t, arr, []byte("[1, 2]\n"))
	_, err = LoadNDJSON(arr)
	assert.ErrorContains(t, err, "expected JSON object")

	joined := filepath.Join(dir, "joined.ndjson")
	writeFile(t, joined, []byte("{\"a\": 1}\n{\"a\": 1}{\"b\": 2}\n"))
	_, err = LoadNDJSON(joined)
	assert.ErrorContains(t, err, "line 2")
	assert.ErrorContains(t, err, "extra data")

	blank := filepath.Join(dir, "blank.ndjson")
	writeFile(t, blank, []byte("{}\n\n{}\n"))
	_, err = LoadNDJSON(blank, WithSkipBlank(false))
	assert.ErrorContains(t, err, "line 2")

	_, err = LoadNDJSON(filepath.Join(dir, "missing.ndjson"))
	assert.Error(t, err)

	_, err = LoadNDJSON(blank, WithEncoding("no-such-charset"))
	assert.ErrorContains(t, err, "encoding")
}

func TestReadNDJSONWithEncoding(t *testing.T) {
	latin, err := charmap.ISO8859_1.NewEncoder().String(`{"city": "Zürich"}` + "\n")
	require.NoError(t, err)

	rows, err := ReadNDJSON(strings.NewReader(latin), WithEncoding("ISO-8859-1"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	city, _ := rows[0].Get("city")
	assert.Equal(t, "Zürich", city)

	rows, err = ReadNDJSON(strings.NewReader("\ufeff{\"a\": 1}\n"), WithEncoding("utf-8-sig"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Contains("a"))
}

func TestLoadNDJSONFiles(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, content := range []string{
		"{\"file\": 0}\n",
		"{\"file\": 1}\n{\"file\": 1}\n",
		"{\"file\": 2}\n{\"file\": 2}\n{\"file\": 2}\n",
	} {
		p := filepath.Join(dir, "f"+string(rune('0'+i))+".ndjson")
		writeFile(t, p, []byte(content))
		paths = append(paths, p)
	}

	results, err := LoadNDJSONFiles(context.Background(), paths, WithWorkers(2))
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, rows := range results {
		assert.Len(t, rows, i+1)
		v, _ := rows[0].Get("file")
		assert.Equal(t, int64(i), v)
	}

	writeFile(t, filepath.Join(dir, "broken.ndjson"), []byte("nope\n"))
	_, err = LoadNDJSONFiles(context.Background(), append(paths, filepath.Join(dir, "broken.ndjson")))
	assert.ErrorContains(t, err, "broken.ndjson")
}

func TestLoadNDJSONFilesCancelled(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "big.ndjson")
	writeFile(t, p, []byte(strings.Repeat("{\"x\": 1}\n", 5000)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadNDJSONFiles(ctx, []string{p})
	assert.ErrorIs(t, err, context.Canceled)
}
