package state

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalKeepsInsertionOrder(t *testing.T) {
	s := FromPairs(Pair{"zeta", 1}, Pair{"alpha", "two"}, Pair{"mid", []any{true, nil}})

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":"two","mid":[true,null]}`, string(out))
}

func TestMarshalNested(t *testing.T) {
	s := FromPairs(Pair{"outer", FromPairs(Pair{"b", 1}, Pair{"a", 2})})

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"outer":{"b":1,"a":2}}`, string(out))
}

func TestUnmarshalKeepsDocumentOrder(t *testing.T) {
	var s State
	require.NoError(t, json.Unmarshal([]byte(`{"b": 1, "a": 2.5, "c": {"y": "v", "x": [1, {"k": null}]}}`), &s))

	assert.Equal(t, []string{"b", "a", "c"}, slices.Collect(s.Keys()))

	b, _ := s.Get("b")
	assert.Equal(t, int64(1), b)
	a, _ := s.Get("a")
	assert.Equal(t, 2.5, a)

	c, err := s.Attr("c")
	require.NoError(t, err)
	inner, ok := c.(*State)
	require.True(t, ok)
	assert.Equal(t, []string{"y", "x"}, slices.Collect(inner.Keys()))

	x, _ := inner.Get("x")
	list := x.([]any)
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0])
	assert.True(t, list[1].(*State).Equals(map[string]any{"k": nil}))
}

func TestUnmarshalRejectsNonObjects(t *testing.T) {
	for _, doc := range []string{`[1,2]`, `"text"`, `12`} {
		var s State
		err := json.Unmarshal([]byte(doc), &s)
		assert.Error(t, err, doc)
	}
}

func TestUnmarshalRejectsTrailingData(t *testing.T) {
	for _, doc := range []string{`{"a":1}{"b":2}`, `{"a":1} junk`, `{"a":1},`} {
		var s State
		assert.ErrorContains(t, s.UnmarshalJSON([]byte(doc)), "extra data", doc)
		assert.Equal(t, 0, s.Len())
	}

	var s State
	require.NoError(t, s.UnmarshalJSON([]byte("  {\"a\": 1}  \r\n")))
	assert.Equal(t, []string{"a"}, slices.Collect(s.Keys()))
}

func TestJSONRoundTripPreservesEquality(t *testing.T) {
	src := FromPairs(Pair{"name", "run-7"}, Pair{"score", int64(3)}, Pair{"tags", []any{"a", "b"}})

	out, err := json.Marshal(src)
	require.NoError(t, err)

	var back State
	require.NoError(t, json.Unmarshal(out, &back))
	assert.True(t, src.Equal(&back), cmp.Diff(src.AsMap(), back.AsMap()))
	assert.Equal(t, slices.Collect(src.Keys()), slices.Collect(back.Keys()))
}

type runConfig struct {
	Name    string
	Retries int
	Model   struct {
		ID   string `state:"id"`
		Temp float64
	}
}

func TestDecodeBindsFieldsByName(t *testing.T) {
	s := FromPairs(
		Pair{"name", "nightly"},
		Pair{"retries", "3"},
		Pair{"model", FromPairs(Pair{"id", "m-1"}, Pair{"temp", 0.5})},
	)

	var cfg runConfig
	require.NoError(t, s.Decode(&cfg))
	assert.Equal(t, "nightly", cfg.Name)
	assert.Equal(t, 3, cfg.Retries)
	assert.Equal(t, "m-1", cfg.Model.ID)
	assert.Equal(t, 0.5, cfg.Model.Temp)
}

func TestFromStruct(t *testing.T) {
	type point struct {
		X int `state:"x"`
		Y int `state:"y"`
	}
	s, err := FromStruct(point{X: 1, Y: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, slices.Collect(s.Keys()))
	assert.True(t, s.Equals(map[string]any{"x": 1, "y": 2}))
}
