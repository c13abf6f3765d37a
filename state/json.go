package state

import (
	"bytes"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MarshalJSON encodes the State as a JSON object with keys in insertion order.
func (s *State) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	stream := json.BorrowStream(&buf)
	defer json.ReturnStream(stream)

	stream.WriteObjectStart()
	first := true
	for k, v := range s.All() {
		if !first {
			stream.WriteMore()
		}
		first = false
		stream.WriteObjectField(k)
		stream.WriteVal(v)
	}
	stream.WriteObjectEnd()

	if stream.Error != nil {
		return nil, stream.Error
	}
	if err := stream.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces the State's entries with the object in data, keeping
// document key order. Nested objects decode as *State as well.
func (s *State) UnmarshalJSON(data []byte) error {
	it := json.BorrowIterator(data)
	defer json.ReturnIterator(it)

	if it.WhatIsNext() != jsoniter.ObjectValue {
		return fmt.Errorf("state: expected JSON object, got %s", describe(it.WhatIsNext()))
	}
	decoded := readObject(it)
	if it.Error != nil {
		return fmt.Errorf("state: %w", it.Error)
	}
	// only whitespace may follow the object
	if it.WhatIsNext(); it.Error != io.EOF {
		return fmt.Errorf("state: extra data after JSON object")
	}
	*s = *decoded
	return nil
}

func readObject(it *jsoniter.Iterator) *State {
	out := &State{data: make(map[string]any)}
	it.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
		out.Set(field, readValue(it))
		return it.Error == nil
	})
	return out
}

func readValue(it *jsoniter.Iterator) any {
	switch it.WhatIsNext() {
	case jsoniter.ObjectValue:
		return readObject(it)
	case jsoniter.ArrayValue:
		items := []any{}
		it.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			items = append(items, readValue(it))
			return it.Error == nil
		})
		return items
	case jsoniter.NumberValue:
		n := it.ReadNumber()
		if i, err := n.Int64(); err == nil {
			return i
		}
		f, _ := n.Float64()
		return f
	default:
		return it.Read()
	}
}

func describe(t jsoniter.ValueType) string {
	switch t {
	case jsoniter.StringValue:
		return "string"
	case jsoniter.NumberValue:
		return "number"
	case jsoniter.NilValue:
		return "null"
	case jsoniter.BoolValue:
		return "bool"
	case jsoniter.ArrayValue:
		return "array"
	default:
		return "invalid value"
	}
}
