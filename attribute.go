package attrly

import (
	"reflect"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/viant/tagly/format"
	ftime "github.com/viant/tagly/format/time"
	"github.com/viant/xunsafe"
)

type (
	//Attribute represents a field descriptor of a declarative struct
	Attribute struct {
		Name  string
		Type  reflect.Type
		Tag   *format.Tag
		Union *Union
		field *xunsafe.Field
		index int
	}

	//Attributes represents ordered field descriptors
	Attributes []*Attribute
)

// Index returns attribute declaration position
func (a *Attribute) Index() int {
	return a.index
}

// FieldName returns the underlying Go field name
func (a *Attribute) FieldName() string {
	return a.field.Name
}

// Value returns attribute value for the supplied struct pointer
func (a *Attribute) Value(ptr unsafe.Pointer) interface{} {
	return a.field.Value(ptr)
}

// set writes value directly into the field, bypassing any construction logic;
// value has to be assignable to the attribute type.
func (a *Attribute) set(ptr unsafe.Pointer, value interface{}) error {
	addr := a.field.Pointer(ptr)
	if value == nil {
		reflect.NewAt(a.Type, addr).Elem().Set(reflect.Zero(a.Type))
		return nil
	}
	rValue := reflect.ValueOf(value)
	if rValue.Type() == a.Type && a.Type.Kind() != reflect.Interface {
		a.field.SetValue(ptr, value)
		return nil
	}
	if !rValue.Type().AssignableTo(a.Type) {
		return errors.Errorf("cannot assign %s to %s", rValue.Type(), a.Type)
	}
	reflect.NewAt(a.Type, addr).Elem().Set(rValue)
	return nil
}

// Lookup returns matched by name attribute
func (a Attributes) Lookup(name string) *Attribute {
	for _, candidate := range a {
		if candidate.Name == name || candidate.field.Name == name {
			return candidate
		}
	}
	return nil
}

// Each visits attributes in declaration order
func (a Attributes) Each(cb func(attr *Attribute)) {
	for _, attr := range a {
		cb(attr)
	}
}

func newAttribute(rField reflect.StructField, index int) (*Attribute, error) {
	tag, _ := format.Parse(rField.Tag)
	if tag == nil {
		tag = &format.Tag{}
	}
	if tag.TimeLayout == "" && tag.DateFormat != "" {
		tag.TimeLayout = ftime.DateFormatToTimeLayout(tag.DateFormat)
	}
	name := rField.Name
	if tag.Name != "" {
		name = tag.Name
	}
	union, err := parseUnion(rField.Tag)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid union tag on field %v", rField.Name)
	}
	if union != nil && rField.Type.Kind() != reflect.Interface {
		return nil, errors.Errorf("union tag requires interface field, field %v had %s", rField.Name, rField.Type)
	}
	return &Attribute{
		Name:  name,
		Type:  rField.Type,
		Tag:   tag,
		Union: union,
		field: xunsafe.NewField(rField),
		index: index,
	}, nil
}
