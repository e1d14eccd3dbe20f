package attrly

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/viant/attrly/visitor"
	"github.com/viant/xunsafe"
)

// Definition holds ordered attribute metadata for a declarative struct type
type Definition struct {
	rType reflect.Type
	attrs Attributes
	index map[string]int
}

// Type returns the underlying struct type
func (d *Definition) Type() reflect.Type {
	return d.rType
}

// Attributes returns attributes in declaration order
func (d *Definition) Attributes() Attributes {
	return d.attrs
}

// Lookup returns an attribute matched by declared name or Go field name
func (d *Definition) Lookup(name string) *Attribute {
	pos, ok := d.index[name]
	if !ok {
		return nil
	}
	return d.attrs[pos]
}

var definitions = visitor.NewSyncMap[reflect.Type, *Definition]()

// DefinitionOf returns a cached definition for a declarative struct type;
// candidate can be an instance, a pointer to one, or a reflect.Type.
func DefinitionOf(candidate interface{}) (*Definition, error) {
	rType := typeOf(candidate)
	if rType == nil || !hasMarker(rType) {
		return nil, fmt.Errorf("expected declarative struct, had: %v", candidate)
	}
	if ret, ok := definitions.Get(rType); ok {
		return ret, nil
	}
	ret, err := newDefinition(rType)
	if err != nil {
		return nil, err
	}
	definitions.Put(rType, ret)
	return ret, nil
}

// AttributesOf returns ordered field descriptors of a declarative struct
func AttributesOf(candidate interface{}) (Attributes, error) {
	def, err := DefinitionOf(candidate)
	if err != nil {
		return nil, err
	}
	return def.Attributes(), nil
}

func newDefinition(rType reflect.Type) (*Definition, error) {
	result := &Definition{rType: rType, index: map[string]int{}}
	for i := 0; i < rType.NumField(); i++ {
		rField := rType.Field(i)
		if rField.Anonymous && rField.Type == attrsType {
			continue
		}
		if rField.PkgPath != "" { //unexported
			continue
		}
		attr, err := newAttribute(rField, len(result.attrs))
		if err != nil {
			return nil, err
		}
		if attr.Tag.Ignore {
			continue
		}
		result.index[attr.Name] = len(result.attrs)
		if attr.Name != rField.Name {
			result.index[rField.Name] = len(result.attrs)
		}
		result.attrs = append(result.attrs, attr)
	}
	return result, nil
}

// instancePointer normalizes an instance to its struct type and base pointer;
// non-pointer values are re-boxed so the pointer stays addressable.
func instancePointer(instance interface{}) (reflect.Type, unsafe.Pointer, error) {
	rType := reflect.TypeOf(instance)
	if rType == nil {
		return nil, nil, fmt.Errorf("expected struct or pointer to struct, had nil")
	}
	switch rType.Kind() {
	case reflect.Ptr:
		rValue := reflect.ValueOf(instance)
		if rValue.IsNil() {
			return nil, nil, fmt.Errorf("expected non-nil instance, had %T", instance)
		}
		return rType.Elem(), xunsafe.AsPointer(instance), nil
	case reflect.Struct:
		rPtr := reflect.New(rType)
		rPtr.Elem().Set(reflect.ValueOf(instance))
		return rType, xunsafe.AsPointer(rPtr.Interface()), nil
	}
	return nil, nil, fmt.Errorf("expected struct or pointer to struct, had: %T", instance)
}
