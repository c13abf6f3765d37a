package state

import (
	"errors"
	"slices"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// ACCESS PATHS
// ============================================================================

func TestKeyAndNameAccessShareStorage(t *testing.T) {
	s := New(nil)

	s.Set("model", "gpt")
	v, err := s.Attr("model")
	require.NoError(t, err)
	assert.Equal(t, "gpt", v)

	s.SetAttr("temperature", 0.2)
	v, err = s.Get("temperature")
	require.NoError(t, err)
	assert.Equal(t, 0.2, v)
}

func TestMissingEntries(t *testing.T) {
	s := New(map[string]any{"present": true})

	_, err := s.Get("absent")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingKey))
	var keyErr *KeyError
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, "absent", keyErr.Key)

	_, err = s.Attr("absent")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingAttribute))
	assert.False(t, errors.Is(err, ErrMissingKey))
	var attrErr *AttributeError
	require.ErrorAs(t, err, &attrErr)
	assert.Equal(t, "absent", attrErr.Name)

	err = s.Delete("absent")
	assert.ErrorIs(t, err, ErrMissingKey)
	assert.Equal(t, 1, s.Len())
}

func TestGetOr(t *testing.T) {
	s := New(map[string]any{"a": 1})
	assert.Equal(t, 1, s.GetOr("a", 9))
	assert.Equal(t, 9, s.GetOr("b", 9))
	assert.Nil(t, s.GetOr("b", nil))
}

func TestZeroValueIsUsable(t *testing.T) {
	var s State
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Contains("x"))

	s.SetAttr("x", 1)
	assert.True(t, s.Contains("x"))
	assert.Equal(t, []string{"x"}, slices.Collect(s.Keys()))
}

// ============================================================================
// CONSTRUCTION
// ============================================================================

func TestNewCopiesSeed(t *testing.T) {
	nested := []any{1, 2}
	seed := map[string]any{"list": nested, "n": 1}
	s := New(seed)

	seed["n"] = 2
	seed["extra"] = true
	v, err := s.Get("n")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.False(t, s.Contains("extra"))

	// values are shared, not deep-copied
	nested[0] = 100
	v, err = s.Get("list")
	require.NoError(t, err)
	assert.Equal(t, 100, v.([]any)[0])
}

func TestFromPairsKeepsOrder(t *testing.T) {
	s := FromPairs(Pair{"z", 1}, Pair{"a", 2}, Pair{"m", 3})
	assert.Equal(t, []string{"z", "a", "m"}, slices.Collect(s.Keys()))
	assert.Equal(t, []any{1, 2, 3}, slices.Collect(s.Values()))
}

func TestCloneIsShallowAndIndependent(t *testing.T) {
	s := FromPairs(Pair{"b", 1}, Pair{"a", 2})
	c := s.Clone()
	require.True(t, s.Equal(c))

	c.Set("c", 3)
	assert.False(t, s.Contains("c"))
	assert.Equal(t, []string{"b", "a", "c"}, slices.Collect(c.Keys()))
}

// ============================================================================
// LENGTH, ORDER, ITERATION
// ============================================================================

func TestLengthAfterSetsAndDeletes(t *testing.T) {
	s := New(nil)
	s.Set("a", 1)
	s.Set("b", 2)
	s.SetAttr("c", 3)
	require.NoError(t, s.Delete("b"))
	assert.Equal(t, 2, s.Len())
}

func TestInsertionOrderIgnoresReassignment(t *testing.T) {
	s := New(nil)
	s.Set("b", 1)
	s.Set("a", 2)
	s.Set("b", 3)

	assert.Equal(t, []string{"b", "a"}, slices.Collect(s.Keys()))
	v, _ := s.Get("b")
	assert.Equal(t, 3, v)
}

func TestDeletedKeyReinsertsAtEnd(t *testing.T) {
	s := FromPairs(Pair{"a", 1}, Pair{"b", 2})
	require.NoError(t, s.Delete("a"))
	s.Set("a", 1)
	assert.Equal(t, []string{"b", "a"}, slices.Collect(s.Keys()))
}

func TestKeysIsRestartable(t *testing.T) {
	s := FromPairs(Pair{"x", 1}, Pair{"y", 2})
	seq := s.Keys()
	assert.Equal(t, []string{"x", "y"}, slices.Collect(seq))
	assert.Equal(t, []string{"x", "y"}, slices.Collect(seq))

	// early exit
	for k := range s.Keys() {
		assert.Equal(t, "x", k)
		break
	}
}

func TestAllYieldsPairs(t *testing.T) {
	s := FromPairs(Pair{"x", 1}, Pair{"y", "two"})
	var keys []string
	var values []any
	for k, v := range s.All() {
		keys = append(keys, k)
		values = append(values, v)
	}
	assert.Equal(t, []string{"x", "y"}, keys)
	assert.Equal(t, []any{1, "two"}, values)
}

// ============================================================================
// LIVE MAP VIEW
// ============================================================================

func TestAsMapIsLive(t *testing.T) {
	s := New(map[string]any{"x": 1})
	m := s.AsMap()

	s.Set("y", 2)
	assert.Equal(t, map[string]any{"x": 1, "y": 2}, m)

	m["w"] = 0
	m["v"] = 0
	delete(m, "x")
	assert.Equal(t, 3, s.Len())
	assert.False(t, s.Contains("x"))
	assert.Equal(t, []string{"y", "v", "w"}, slices.Collect(s.Keys()))
}

func TestSetAfterDeleteThroughMap(t *testing.T) {
	s := New(map[string]any{"x": 1})
	delete(s.AsMap(), "x")
	s.Set("x", 2)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, []string{"x"}, slices.Collect(s.Keys()))
	assert.Equal(t, `State({"x": 2})`, s.String())

	// delete and add through the map before the next Set
	s = FromPairs(Pair{"a", 1}, Pair{"b", 2})
	m := s.AsMap()
	delete(m, "a")
	m["c"] = 3
	s.Set("a", 4)
	assert.Equal(t, []string{"b", "c", "a"}, slices.Collect(s.Keys()))
}

func TestConcreteScenario(t *testing.T) {
	s := New(map[string]any{"x": 1})

	v, err := s.Attr("x")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	s.SetAttr("y", 2)
	assert.Equal(t, map[string]any{"x": 1, "y": 2}, s.AsMap())

	require.NoError(t, s.Delete("x"))
	assert.False(t, s.Contains("x"))
}

// ============================================================================
// EQUALITY
// ============================================================================

func TestEquality(t *testing.T) {
	a := New(map[string]any{"k": []any{1, "v"}, "n": nil})
	b := New(map[string]any{"n": nil, "k": []any{1, "v"}})
	require.True(t, a.Equal(b))
	require.True(t, a.Equals(b))
	require.True(t, a.Equals(map[string]any{"k": []any{1, "v"}, "n": nil}))

	b.Set("extra", 1)
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equals(map[string]any{"k": []any{1, "v"}}))
}

func TestEqualityIgnoresOrder(t *testing.T) {
	a := FromPairs(Pair{"a", 1}, Pair{"b", 2})
	b := FromPairs(Pair{"b", 2}, Pair{"a", 1})
	assert.True(t, a.Equal(b))
}

func TestEqualityWithNestedStates(t *testing.T) {
	a := New(map[string]any{"inner": New(map[string]any{"x": 1})})
	b := New(map[string]any{"inner": New(map[string]any{"x": 1})})
	assert.True(t, a.Equal(b))

	inner, _ := b.Get("inner")
	inner.(*State).Set("y", 2)
	assert.False(t, a.Equal(b))
}

func TestEqualityWithIncomparableValues(t *testing.T) {
	s := New(map[string]any{"a": 1})
	assert.False(t, s.Equals("not a mapping"))
	assert.False(t, s.Equals(42))
	assert.False(t, s.Equals(nil))
	assert.False(t, s.Equal(nil))
	assert.True(t, New(nil).Equals(map[string]any{}))
}

func TestString(t *testing.T) {
	s := FromPairs(Pair{"b", 1}, Pair{"a", "x"})
	assert.Equal(t, `State({"b": 1, "a": x})`, s.String())
	assert.Equal(t, "State({})", New(nil).String())
}

// ============================================================================
// RANDOMIZED PROPERTIES
// ============================================================================

func TestRandomizedRoundTrips(t *testing.T) {
	faker := gofakeit.New(42)

	for range 200 {
		s := New(nil)
		expected := map[string]any{}
		var order []string

		n := faker.IntRange(1, 20)
		for range n {
			key := faker.LetterN(uint(faker.IntRange(1, 4)))
			value := faker.Int64()

			if faker.Bool() {
				s.Set(key, value)
			} else {
				s.SetAttr(key, value)
			}
			if _, ok := expected[key]; !ok {
				order = append(order, key)
			}
			expected[key] = value

			byName, err := s.Attr(key)
			require.NoError(t, err)
			byKey, err := s.Get(key)
			require.NoError(t, err)
			require.Equal(t, value, byName)
			require.Equal(t, value, byKey)
		}

		require.Equal(t, len(expected), s.Len())
		require.Equal(t, order, slices.Collect(s.Keys()))
		require.True(t, s.EqualMap(expected))

		victim := order[faker.IntRange(0, len(order)-1)]
		require.NoError(t, s.Delete(victim))
		require.Equal(t, len(expected)-1, s.Len())
		_, err := s.Attr(victim)
		require.ErrorIs(t, err, ErrMissingAttribute)
		require.False(t, s.EqualMap(expected))
	}
}
