package state

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Decode binds the State's entries onto the fields of out, which must be a
// pointer to a struct or map. Fields match keys by name (case-insensitive) or
// by a `state:"key"` tag; nested *State values bind onto nested structs.
func (s *State) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "state",
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("state: decoder: %w", err)
	}
	if err := dec.Decode(s.toPlain()); err != nil {
		return fmt.Errorf("state: decode: %w", err)
	}
	return nil
}

// FromStruct creates a State from the exported fields of a struct.
// Keys are inserted in sorted order.
func FromStruct(in any) (*State, error) {
	var m map[string]any
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "state",
		Result:  &m,
	})
	if err != nil {
		return nil, fmt.Errorf("state: decoder: %w", err)
	}
	if err := dec.Decode(in); err != nil {
		return nil, fmt.Errorf("state: decode: %w", err)
	}
	return New(m), nil
}

// toPlain converts nested States into plain maps for mapstructure.
func (s *State) toPlain() map[string]any {
	out := make(map[string]any, s.Len())
	for k, v := range s.All() {
		out[k] = plain(v)
	}
	return out
}

func plain(v any) any {
	switch t := v.(type) {
	case *State:
		return t.toPlain()
	case []any:
		items := make([]any, len(t))
		for i, item := range t {
			items[i] = plain(item)
		}
		return items
	default:
		return v
	}
}
