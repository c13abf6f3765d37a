package args

import (
	"iter"
	"strings"

	"github.com/cmmc-org/cmmc/state"
)

// Args is the read-only result of Parse. Values can be read by key or by name:
//
//	in, _ := a.Get("input")
//	in, _ := a.Attr("input")
//
// Use ToMap for a plain, independent copy.
type Args struct {
	st *state.State
}

func newArgs(st *state.State) *Args {
	return &Args{st: st}
}

// Get returns the value parsed for key, or a *state.KeyError.
func (a *Args) Get(key string) (any, error) { return a.st.Get(key) }

// Attr returns the value parsed for name, or a *state.AttributeError.
func (a *Args) Attr(name string) (any, error) { return a.st.Attr(name) }

// GetOr returns the value parsed for key, or def.
func (a *Args) GetOr(key string, def any) any { return a.st.GetOr(key, def) }

// GetString returns the value for key if it is a string, or "" when the key
// is absent or unset.
func (a *Args) GetString(key string) string {
	v := a.st.GetOr(key, nil)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Contains reports whether key was defined.
func (a *Args) Contains(key string) bool { return a.st.Contains(key) }

// Len returns the number of parsed arguments.
func (a *Args) Len() int { return a.st.Len() }

// Keys yields argument names in definition order.
func (a *Args) Keys() iter.Seq[string] { return a.st.Keys() }

// All yields name/value pairs in definition order.
func (a *Args) All() iter.Seq2[string, any] { return a.st.All() }

// ToMap returns a copy of the parsed values.
func (a *Args) ToMap() map[string]any {
	out := make(map[string]any, a.st.Len())
	for k, v := range a.st.All() {
		out[k] = v
	}
	return out
}

// State returns an independent copy of the parsed values, in definition order.
func (a *Args) State() *state.State { return a.st.Clone() }

// Decode binds the parsed values onto a struct, see state.State.Decode.
func (a *Args) Decode(out any) error { return a.st.Decode(out) }

// MarshalJSON encodes the arguments as an object in definition order.
func (a *Args) MarshalJSON() ([]byte, error) { return a.st.MarshalJSON() }

// GoString renders Args({...}).
func (a *Args) GoString() string {
	return "Args(" + strings.TrimSuffix(strings.TrimPrefix(a.st.String(), "State("), ")") + ")"
}
