package attrly

import (
	"fmt"
	"reflect"
	"strings"
)

// Path identifies a location within a nested conversion, one key per level.
type Path []string

// Append returns a new path extended with key; the receiver is not mutated so
// sibling branches keep independent error contexts.
func (p Path) Append(key string) Path {
	ret := make(Path, len(p)+1)
	copy(ret, p)
	ret[len(p)] = key
	return ret
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

// MissingKeyError reports a required key absent from the source mapping
type MissingKeyError struct {
	Path Path
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("missing key %q", e.Path.String())
}

// TypeMismatchError reports a value that could not be coerced to its declared
// type during recursive deserialization
type TypeMismatchError struct {
	Value interface{}
	Type  reflect.Type
	Path  Path
	Cause error
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("unable to deserialize %v as %s at %q: %v", e.Value, e.Type, e.Path.String(), e.Cause)
}

func (e *TypeMismatchError) Unwrap() error {
	return e.Cause
}

// UnknownAttributeError reports a change naming a field that does not exist
// on the target type
type UnknownAttributeError struct {
	Name string
	Type reflect.Type
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("%v is not a declared attribute on %s", e.Name, e.Type)
}
