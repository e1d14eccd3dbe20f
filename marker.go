package attrly

import "reflect"

// Attrs is the declarative metadata slot. Embedding it (anonymously) opts a
// struct into attribute introspection; detection is structural, there is no
// registration step.
//
//	type Account struct {
//	    attrly.Attrs
//	    Id   int
//	    Name string
//	}
type Attrs struct{}

var attrsType = reflect.TypeOf(Attrs{})

// Has returns true if candidate carries the declarative metadata slot.
// Candidate can be an instance, a pointer to one, or a reflect.Type; a struct
// with no fields beyond the slot still qualifies.
func Has(candidate interface{}) bool {
	rType := typeOf(candidate)
	if rType == nil {
		return false
	}
	return hasMarker(rType)
}

func hasMarker(rType reflect.Type) bool {
	if rType.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < rType.NumField(); i++ {
		field := rType.Field(i)
		if field.Anonymous && field.Type == attrsType {
			return true
		}
	}
	return false
}

// typeOf normalizes candidate to a struct type, stripping pointers
func typeOf(candidate interface{}) reflect.Type {
	if candidate == nil {
		return nil
	}
	rType, ok := candidate.(reflect.Type)
	if !ok {
		rType = reflect.TypeOf(candidate)
	}
	for rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	return rType
}
