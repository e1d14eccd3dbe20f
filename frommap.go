package attrly

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/viant/attrly/visitor"
	"github.com/viant/xunsafe"
)

type (
	fromOptions struct {
		recurse       bool
		ignoreMissing bool
		rename        func(name string) string
		discriminator Discriminator
	}

	//FromOption customizes FromMap deserialization
	FromOption func(o *fromOptions)
)

func newFromOptions(opts []FromOption) *fromOptions {
	result := &fromOptions{
		recurse:       true,
		rename:        func(name string) string { return name },
		discriminator: anyResolver,
	}
	for _, opt := range opts {
		opt(result)
	}
	return result
}

// WithoutRecursion assigns raw source values without type-directed dispatch
func WithoutRecursion() FromOption {
	return func(o *fromOptions) {
		o.recurse = false
	}
}

// WithIgnoreMissing leaves attributes absent from the source at their zero
// value instead of failing with a missing key error.
func WithIgnoreMissing() FromOption {
	return func(o *fromOptions) {
		o.ignoreMissing = true
	}
}

// WithRename returns an option renaming attribute names before source lookup
func WithRename(rename func(name string) string) FromOption {
	return func(o *fromOptions) {
		o.rename = rename
	}
}

// WithDiscriminator returns an option resolving union-typed values; the
// default resolver passes union values through unchanged.
func WithDiscriminator(discriminator Discriminator) FromOption {
	return func(o *fromOptions) {
		o.discriminator = discriminator
	}
}

// FromMap builds a declarative struct from a source mapping; dest has to be a
// non-nil pointer to a declarative struct, source a plain map or a Mapping.
// Attribute values deserialize according to their declared types: nested
// declarative structs recurse, pointers are optional, interface fields with a
// union tag dispatch through the discriminator, containers rebuild
// element-wise and anything else is a leaf.
func FromMap(dest interface{}, source interface{}, opts ...FromOption) error {
	options := newFromOptions(opts)
	rValue := reflect.ValueOf(dest)
	if dest == nil || rValue.Kind() != reflect.Ptr || rValue.IsNil() {
		return fmt.Errorf("expected pointer to declarative struct, had: %T", dest)
	}
	def, err := DefinitionOf(rValue.Type().Elem())
	if err != nil {
		return err
	}
	return assemble(def, source, xunsafe.AsPointer(dest), options, Path{})
}

// FromMapOf builds a declarative struct of type T from a source mapping
func FromMapOf[T any](source interface{}, opts ...FromOption) (T, error) {
	var result T
	err := FromMap(&result, source, opts...)
	return result, err
}

func assemble(def *Definition, source interface{}, ptr unsafe.Pointer, options *fromOptions, context Path) error {
	if !isMappingSource(source) {
		return &TypeMismatchError{Value: source, Type: def.Type(), Path: context, Cause: errors.Errorf("expected mapping source, had %T", source)}
	}
	for _, attr := range def.Attributes() {
		key := options.rename(attr.Name)
		raw, ok := lookupKey(source, key)
		if !ok {
			if options.ignoreMissing {
				continue //zero value stands in for the absent entry
			}
			return &MissingKeyError{Path: context.Append(key)}
		}
		value := raw
		if options.recurse {
			var err error
			if value, err = deserialize(raw, attr.Type, attr.Union, attr.Tag.TimeLayout, options, context.Append(key)); err != nil {
				return err
			}
		}
		if err := attr.set(ptr, value); err != nil {
			return &TypeMismatchError{Value: raw, Type: attr.Type, Path: context.Append(key), Cause: err}
		}
	}
	return nil
}

// deserialize dispatches a raw value against its declared type; the result is
// assignable to rType, or nil for an absent optional.
func deserialize(raw interface{}, rType reflect.Type, union *Union, timeLayout string, options *fromOptions, context Path) (interface{}, error) {
	if isNilValue(raw) {
		raw = nil
	}
	switch {
	case rType.Kind() == reflect.Struct && hasMarker(rType):
		return deserializeStruct(raw, rType, options, context)
	case rType.Kind() == reflect.Ptr:
		if raw == nil {
			return nil, nil
		}
		elem, err := deserialize(raw, rType.Elem(), union, timeLayout, options, context)
		if err != nil {
			return nil, err
		}
		if elem == nil {
			return nil, nil
		}
		holder := reflect.New(rType.Elem())
		holder.Elem().Set(reflect.ValueOf(elem))
		return holder.Interface(), nil
	case rType.Kind() == reflect.Map:
		if raw == nil {
			return nil, nil
		}
		return deserializeMap(raw, rType, timeLayout, options, context)
	case (rType.Kind() == reflect.Slice || rType.Kind() == reflect.Array) && rType.Elem().Kind() != reflect.Uint8:
		if raw == nil {
			return nil, nil
		}
		return deserializeSequence(raw, rType, timeLayout, options, context)
	case rType.Kind() == reflect.Interface && union != nil:
		if raw == nil {
			return nil, nil
		}
		alternative, err := options.discriminator(raw, union)
		if err != nil {
			return nil, err
		}
		if alternative == nil {
			return raw, nil
		}
		return deserialize(raw, alternative, nil, timeLayout, options, context)
	}
	if raw == nil {
		return nil, nil
	}
	value, err := coerce(raw, rType, timeLayout)
	if err != nil {
		return nil, &TypeMismatchError{Value: raw, Type: rType, Path: context, Cause: err}
	}
	return value, nil
}

func deserializeStruct(raw interface{}, rType reflect.Type, options *fromOptions, context Path) (interface{}, error) {
	if raw == nil {
		return nil, nil
	}
	def, err := DefinitionOf(rType)
	if err != nil {
		return nil, err
	}
	holder := reflect.New(rType)
	if err := assemble(def, raw, xunsafe.AsPointer(holder.Interface()), options, context); err != nil {
		return nil, err
	}
	return holder.Elem().Interface(), nil
}

func deserializeMap(raw interface{}, rType reflect.Type, timeLayout string, options *fromOptions, context Path) (interface{}, error) {
	keyType, elemType := rType.Key(), rType.Elem()
	result := reflect.MakeMap(rType)
	if items, ok := sequenceItems(raw); ok && isSetElem(elemType) { //set-like target fed from a sequence
		for _, item := range items {
			key, err := deserialize(item, keyType, nil, timeLayout, options, context)
			if err != nil {
				return nil, err
			}
			result.SetMapIndex(valueOf(key, keyType), setElemValue(elemType))
		}
		return result.Interface(), nil
	}
	if !isMappingSource(raw) {
		return nil, &TypeMismatchError{Value: raw, Type: rType, Path: context, Cause: errors.Errorf("expected mapping, had %T", raw)}
	}
	err := eachPair(raw, func(k, v interface{}) error {
		key, err := deserialize(k, keyType, nil, timeLayout, options, context)
		if err != nil {
			return err
		}
		value, err := deserialize(v, elemType, nil, timeLayout, options, context.Append(fmt.Sprintf("%v", k)))
		if err != nil {
			return err
		}
		result.SetMapIndex(valueOf(key, keyType), valueOf(value, elemType))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result.Interface(), nil
}

func deserializeSequence(raw interface{}, rType reflect.Type, timeLayout string, options *fromOptions, context Path) (interface{}, error) {
	items, ok := sequenceItems(raw)
	if !ok {
		return nil, &TypeMismatchError{Value: raw, Type: rType, Path: context, Cause: errors.Errorf("expected sequence, had %T", raw)}
	}
	elemType := rType.Elem()
	var result reflect.Value
	switch rType.Kind() {
	case reflect.Array:
		if len(items) != rType.Len() {
			return nil, &TypeMismatchError{Value: raw, Type: rType, Path: context, Cause: errors.Errorf("expected %d elements, had %d", rType.Len(), len(items))}
		}
		result = reflect.New(rType).Elem()
	default:
		result = reflect.MakeSlice(rType, len(items), len(items))
	}
	for i, item := range items {
		value, err := deserialize(item, elemType, nil, timeLayout, options, context.Append(fmt.Sprintf("[%d]", i)))
		if err != nil {
			return nil, err
		}
		result.Index(i).Set(valueOf(value, elemType))
	}
	return result.Interface(), nil
}

// valueOf boxes value for reflect use, substituting a typed zero for nil
func valueOf(value interface{}, rType reflect.Type) reflect.Value {
	if value == nil {
		return reflect.Zero(rType)
	}
	return reflect.ValueOf(value)
}

func sequenceItems(raw interface{}) ([]interface{}, bool) {
	if items, ok := raw.([]interface{}); ok {
		return items, true
	}
	rValue := reflect.ValueOf(raw)
	if !rValue.IsValid() {
		return nil, false
	}
	switch rValue.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		return nil, false
	}
	items := make([]interface{}, rValue.Len())
	for i := range items {
		items[i] = rValue.Index(i).Interface()
	}
	return items, true
}

func eachPair(source interface{}, cb func(k, v interface{}) error) error {
	if mapping, ok := source.(Mapping); ok {
		var err error
		mapping.Each(func(k, v interface{}) bool {
			err = cb(k, v)
			return err == nil
		})
		return err
	}
	visit, err := visitor.OfMap(source)
	if err != nil {
		return err
	}
	return visit(func(k any, v any) (bool, error) {
		if err := cb(k, v); err != nil {
			return false, err
		}
		return true, nil
	})
}

var emptyStructType = reflect.TypeOf(struct{}{})

func isSetElem(rType reflect.Type) bool {
	return rType == emptyStructType || rType.Kind() == reflect.Bool
}

func setElemValue(rType reflect.Type) reflect.Value {
	if rType.Kind() == reflect.Bool {
		return reflect.ValueOf(true)
	}
	return reflect.Zero(rType)
}
