package attrly

import (
	"reflect"

	"github.com/viant/attrly/visitor"
)

type (
	//Filter decides whether an attribute value is included in the output
	Filter func(attr *Attribute, value interface{}) bool

	//SliceFactory materializes nested sequences produced by AsSlice
	SliceFactory func(items []interface{}) interface{}

	asOptions struct {
		recurse      bool
		filter       Filter
		mapFactory   MapFactory
		sliceFactory SliceFactory
		retainTypes  bool
	}

	//AsOption customizes AsMap and AsSlice traversal
	AsOption func(o *asOptions)
)

func newAsOptions(opts []AsOption) *asOptions {
	result := &asOptions{
		recurse:      true,
		mapFactory:   func() Mapping { return NewOrderedMap() },
		sliceFactory: func(items []interface{}) interface{} { return items },
	}
	for _, opt := range opts {
		opt(result)
	}
	return result
}

// WithShallow disables recursion into nested declarative values
func WithShallow() AsOption {
	return func(o *asOptions) {
		o.recurse = false
	}
}

// WithFilter returns an option with an attribute filter; attributes for which
// filter returns false are omitted, independently at every recursion level.
func WithFilter(filter Filter) AsOption {
	return func(o *asOptions) {
		o.filter = filter
	}
}

// WithMapFactory returns an option with a custom Mapping constructor
func WithMapFactory(factory MapFactory) AsOption {
	return func(o *asOptions) {
		o.mapFactory = factory
	}
}

// WithSliceFactory returns an option with a custom sequence constructor,
// applied by AsSlice to nested conversion results.
func WithSliceFactory(factory SliceFactory) AsOption {
	return func(o *asOptions) {
		o.sliceFactory = factory
	}
}

// WithRetainCollectionTypes keeps the runtime container type of slice, array
// and map values instead of converting to generic containers. Retention only
// applies when no element required conversion; typed Go containers cannot
// hold converted elements.
func WithRetainCollectionTypes(flag bool) AsOption {
	return func(o *asOptions) {
		o.retainTypes = flag
	}
}

// withoutRetain scopes off type retention for nested conversions
func (o *asOptions) withoutRetain() *asOptions {
	if !o.retainTypes {
		return o
	}
	ret := *o
	ret.retainTypes = false
	return &ret
}

// entry scopes options for mapping keys and values: neither filter nor type
// retention cross into mapping entries.
func (o *asOptions) entry() *asOptions {
	if o.filter == nil && !o.retainTypes {
		return o
	}
	ret := *o
	ret.filter = nil
	ret.retainTypes = false
	return &ret
}

// AsMap returns the attribute values of a declarative instance as a Mapping,
// in declaration order, recursing into nested declarative values, sequences
// and mappings. The default factory preserves insertion order.
func AsMap(instance interface{}, opts ...AsOption) (Mapping, error) {
	return asMap(instance, newAsOptions(opts))
}

func asMap(instance interface{}, options *asOptions) (Mapping, error) {
	def, err := DefinitionOf(instance)
	if err != nil {
		return nil, err
	}
	_, ptr, err := instancePointer(instance)
	if err != nil {
		return nil, err
	}
	result := options.mapFactory()
	for _, attr := range def.Attributes() {
		value := attr.Value(ptr)
		if attr.Tag.Omitempty && isEmptyValue(value) {
			continue
		}
		if options.filter != nil && !options.filter(attr, value) {
			continue
		}
		if !options.recurse {
			result.Put(attr.Name, value)
			continue
		}
		converted, err := convertValue(value, options, asMapNested)
		if err != nil {
			return nil, err
		}
		result.Put(attr.Name, converted)
	}
	return result, nil
}

// AsSlice returns the attribute values of a declarative instance as a
// positional sequence, one item per attribute in declaration order, with the
// same traversal rules as AsMap.
func AsSlice(instance interface{}, opts ...AsOption) ([]interface{}, error) {
	return asSlice(instance, newAsOptions(opts))
}

func asSlice(instance interface{}, options *asOptions) ([]interface{}, error) {
	def, err := DefinitionOf(instance)
	if err != nil {
		return nil, err
	}
	_, ptr, err := instancePointer(instance)
	if err != nil {
		return nil, err
	}
	result := make([]interface{}, 0, len(def.Attributes()))
	for _, attr := range def.Attributes() {
		value := attr.Value(ptr)
		if options.filter != nil && !options.filter(attr, value) {
			continue
		}
		if !options.recurse {
			result = append(result, value)
			continue
		}
		converted, err := convertValue(value, options, asSliceNested)
		if err != nil {
			return nil, err
		}
		result = append(result, converted)
	}
	return result, nil
}

// nestedConverter converts a nested declarative instance in either map or
// slice mode.
type nestedConverter func(instance interface{}, options *asOptions) (interface{}, error)

// Nested conversions do not forward collection type retention; top level
// containers and containers inside nested values behave differently on
// purpose, matching the documented conversion contract.
func asMapNested(instance interface{}, options *asOptions) (interface{}, error) {
	return asMap(instance, options.withoutRetain())
}

func asSliceNested(instance interface{}, options *asOptions) (interface{}, error) {
	items, err := asSlice(instance, options.withoutRetain())
	if err != nil {
		return nil, err
	}
	return options.sliceFactory(items), nil
}

func convertValue(value interface{}, options *asOptions, nested nestedConverter) (interface{}, error) {
	if isNilValue(value) {
		return value, nil
	}
	if Has(value) {
		return nested(value, options)
	}
	rValue := reflect.ValueOf(value)
	switch rValue.Kind() {
	case reflect.Slice, reflect.Array:
		if rValue.Type().Elem().Kind() == reflect.Uint8 { //[]byte is a leaf
			return value, nil
		}
		return convertSequence(value, rValue, options, nested)
	case reflect.Map:
		return convertMapping(value, options, nested)
	}
	return value, nil
}

func convertSequence(value interface{}, rValue reflect.Value, options *asOptions, nested nestedConverter) (interface{}, error) {
	visit, err := visitor.OfSlice(value)
	if err != nil {
		return nil, err
	}
	items := make([]interface{}, 0, rValue.Len())
	changed := false
	err = visit(func(key int, element any) (bool, error) {
		if !isNilValue(element) && Has(element) {
			converted, convErr := nested(element, options)
			if convErr != nil {
				return false, convErr
			}
			items = append(items, converted)
			changed = true
			return true, nil
		}
		items = append(items, element)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if options.retainTypes && !changed {
		return retainedCopy(rValue), nil
	}
	return items, nil
}

func convertMapping(value interface{}, options *asOptions, nested nestedConverter) (interface{}, error) {
	visit, err := visitor.OfMap(value)
	if err != nil {
		return nil, err
	}
	result := options.mapFactory()
	entryOptions := options.entry()
	err = visit(func(key any, element any) (bool, error) {
		if !isNilValue(key) && Has(key) {
			converted, convErr := nested(key, entryOptions)
			if convErr != nil {
				return false, convErr
			}
			key = converted
		}
		if !isNilValue(element) && Has(element) {
			converted, convErr := nested(element, entryOptions)
			if convErr != nil {
				return false, convErr
			}
			element = converted
		}
		result.Put(key, element)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func retainedCopy(rValue reflect.Value) interface{} {
	if rValue.Kind() == reflect.Slice {
		ret := reflect.MakeSlice(rValue.Type(), rValue.Len(), rValue.Len())
		reflect.Copy(ret, rValue)
		return ret.Interface()
	}
	return rValue.Interface() //arrays copy by value
}

// isEmptyValue reports zero scalars and empty or nil containers
func isEmptyValue(value interface{}) bool {
	if value == nil {
		return true
	}
	rValue := reflect.ValueOf(value)
	switch rValue.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rValue.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return rValue.IsNil()
	}
	return rValue.IsZero()
}

func isNilValue(value interface{}) bool {
	if value == nil {
		return true
	}
	rValue := reflect.ValueOf(value)
	switch rValue.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rValue.IsNil()
	}
	return false
}
