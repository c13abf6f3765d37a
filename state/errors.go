package state

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingKey matches every *KeyError.
	ErrMissingKey = errors.New("missing key")
	// ErrMissingAttribute matches every *AttributeError.
	ErrMissingAttribute = errors.New("missing attribute")
)

// KeyError is returned by keyed access and deletion when the key is absent.
type KeyError struct {
	Key string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("missing key %q", e.Key)
}

func (e *KeyError) Is(target error) bool { return target == ErrMissingKey }

// AttributeError is returned by named access when the name is absent.
type AttributeError struct {
	Name string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("'State' object has no attribute %q", e.Name)
}

func (e *AttributeError) Is(target error) bool { return target == ErrMissingAttribute }
