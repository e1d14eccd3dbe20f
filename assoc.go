package attrly

import (
	"fmt"
	"reflect"

	"github.com/viant/xunsafe"
)

// Assoc returns a copy of instance with the supplied attribute changes
// applied. Values are written directly into the copy, bypassing any
// construction or validation logic the owning package may run; the original
// instance is left untouched. A change naming an undeclared attribute yields
// UnknownAttributeError.
func Assoc[T any](instance T, changes map[string]interface{}) (T, error) {
	var empty T
	rValue := reflect.ValueOf(instance)
	isPtr := rValue.Kind() == reflect.Ptr
	if isPtr {
		if rValue.IsNil() {
			return empty, fmt.Errorf("expected non-nil instance, had %T", instance)
		}
		rValue = rValue.Elem()
	}
	if rValue.Kind() != reflect.Struct {
		return empty, fmt.Errorf("expected declarative struct, had %T", instance)
	}
	def, err := DefinitionOf(rValue.Type())
	if err != nil {
		return empty, err
	}
	holder := reflect.New(rValue.Type())
	holder.Elem().Set(rValue)
	ptr := xunsafe.AsPointer(holder.Interface())
	for name, value := range changes {
		attr := def.Lookup(name)
		if attr == nil {
			return empty, &UnknownAttributeError{Name: name, Type: def.Type()}
		}
		if value != nil {
			coerced, cErr := coerce(value, attr.Type, attr.Tag.TimeLayout)
			if cErr != nil {
				return empty, &TypeMismatchError{Value: value, Type: attr.Type, Path: Path{attr.Name}, Cause: cErr}
			}
			value = coerced
		}
		if err = attr.set(ptr, value); err != nil {
			return empty, &TypeMismatchError{Value: value, Type: attr.Type, Path: Path{attr.Name}, Cause: err}
		}
	}
	if isPtr {
		return holder.Interface().(T), nil
	}
	return holder.Elem().Interface().(T), nil
}
