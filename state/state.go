// Package state provides State, a mutable key-value container that can be read
// and written both by key and by name against the same backing storage.
//
// State keeps its entries in insertion order, exposes its live storage for code
// that expects a plain map, and compares by value. It is not safe for concurrent
// mutation; callers sharing a State across goroutines must synchronize access.
package state

import (
	"fmt"
	"iter"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// ============================================================================
// STATE — one store, two access paths
// ============================================================================
// Keyed access (Get/Set/Delete) and named access (Attr/SetAttr) read and write
// the same map. Bookkeeping (the key order) lives in its own field, so no user
// key can ever shadow it.
// ============================================================================

// State is a hybrid map/record container.
type State struct {
	data  map[string]any
	order []string
}

// Pair is a single key/value entry, used to seed a State in a fixed order.
type Pair struct {
	Key   string
	Value any
}

// New creates a State holding a shallow copy of initial.
// Go maps are unordered, so the seed keys are inserted in sorted order.
// Use FromPairs when the seed order matters.
func New(initial map[string]any) *State {
	s := &State{data: make(map[string]any, len(initial))}
	for _, k := range slices.Sorted(maps.Keys(initial)) {
		s.Set(k, initial[k])
	}
	return s
}

// FromPairs creates a State from entries inserted in the given order.
func FromPairs(pairs ...Pair) *State {
	s := &State{data: make(map[string]any, len(pairs))}
	for _, p := range pairs {
		s.Set(p.Key, p.Value)
	}
	return s
}

// Clone returns a shallow copy that preserves key order.
func (s *State) Clone() *State {
	c := &State{data: make(map[string]any, s.Len())}
	for k, v := range s.All() {
		c.Set(k, v)
	}
	return c
}

func (s *State) init() {
	if s.data == nil {
		s.data = make(map[string]any)
	}
}

// Get returns the value stored under key, or a *KeyError.
func (s *State) Get(key string) (any, error) {
	v, ok := s.data[key]
	if !ok {
		return nil, &KeyError{Key: key}
	}
	return v, nil
}

// GetOr returns the value stored under key, or def when key is absent.
func (s *State) GetOr(key string, def any) any {
	if v, ok := s.data[key]; ok {
		return v
	}
	return def
}

// Attr returns the value stored under name, or an *AttributeError.
func (s *State) Attr(name string) (any, error) {
	v, ok := s.data[name]
	if !ok {
		return nil, &AttributeError{Name: name}
	}
	return v, nil
}

// Set stores value under key. An existing key keeps its position.
func (s *State) Set(key string, value any) {
	s.init()
	if _, ok := s.data[key]; !ok {
		// settle edits made through AsMap first, so a key deleted there
		// leaves no stale slot behind
		s.order = append(s.ordered(), key)
	}
	s.data[key] = value
}

// SetAttr stores value under name. It is the named-access twin of Set.
func (s *State) SetAttr(name string, value any) {
	s.Set(name, value)
}

// Update sets every entry of m, in sorted key order for new keys.
func (s *State) Update(m map[string]any) {
	for _, k := range slices.Sorted(maps.Keys(m)) {
		s.Set(k, m[k])
	}
}

// Delete removes key, or returns a *KeyError when it is absent.
func (s *State) Delete(key string) error {
	if _, ok := s.data[key]; !ok {
		return &KeyError{Key: key}
	}
	delete(s.data, key)
	if i := slices.Index(s.order, key); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return nil
}

// Contains reports whether key is stored.
func (s *State) Contains(key string) bool {
	_, ok := s.data[key]
	return ok
}

// Len returns the number of entries.
func (s *State) Len() int { return len(s.data) }

// AsMap returns the live backing map. Writes through it are visible to the
// State; keys added this way are ordered after existing keys, sorted.
func (s *State) AsMap() map[string]any {
	s.init()
	return s.data
}

// Keys yields keys in insertion order. Each call starts a new sequence.
// Mutating the State while iterating has undefined results.
func (s *State) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, k := range s.ordered() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values yields values in key insertion order.
func (s *State) Values() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, k := range s.ordered() {
			if !yield(s.data[k]) {
				return
			}
		}
	}
}

// All yields key/value pairs in insertion order.
func (s *State) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range s.ordered() {
			if !yield(k, s.data[k]) {
				return
			}
		}
	}
}

// ordered reconciles the key order with the backing map, which callers may
// have edited through AsMap, and returns it.
func (s *State) ordered() []string {
	if len(s.order) == len(s.data) {
		synced := true
		for _, k := range s.order {
			if _, ok := s.data[k]; !ok {
				synced = false
				break
			}
		}
		if synced {
			return s.order
		}
	}

	known := make(map[string]struct{}, len(s.order))
	order := s.order[:0]
	for _, k := range s.order {
		if _, dup := known[k]; dup {
			continue
		}
		if _, ok := s.data[k]; ok {
			known[k] = struct{}{}
			order = append(order, k)
		}
	}
	var foreign []string
	for k := range s.data {
		if _, ok := known[k]; !ok {
			foreign = append(foreign, k)
		}
	}
	slices.Sort(foreign)
	s.order = append(order, foreign...)
	return s.order
}

// exportAll lets values with unexported struct fields be compared instead of
// making cmp panic.
var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

// Equal reports whether both States hold equal entries. Order is ignored.
// A nil State equals only another nil State.
func (s *State) Equal(other *State) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.EqualMap(other.data)
}

// EqualMap reports whether the State holds exactly the entries of m.
func (s *State) EqualMap(m map[string]any) bool {
	if s == nil {
		return false
	}
	if len(s.data) != len(m) {
		return false
	}
	if len(m) == 0 {
		return true
	}
	return cmp.Equal(s.data, m, exportAll)
}

// Equals compares against any mapping-like value: *State, State or
// map[string]any. Any other value is not comparable and yields false.
func (s *State) Equals(other any) bool {
	switch o := other.(type) {
	case *State:
		return s.Equal(o)
	case State:
		return s.Equal(&o)
	case map[string]any:
		return s.EqualMap(o)
	default:
		return false
	}
}

// String renders the State as State({k: v, ...}) in insertion order.
func (s *State) String() string {
	var b strings.Builder
	b.WriteString("State({")
	i := 0
	for k, v := range s.All() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q: %v", k, v)
		i++
	}
	b.WriteString("})")
	return b.String()
}
