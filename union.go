package attrly

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"github.com/viant/attrly/visitor"
)

// UnionTag declares union alternatives on an interface field, i.e.
// `union:"Cat,Dog"`; names have to be registered with RegisterType.
const UnionTag = "union"

// Union represents declared union alternatives
type Union struct {
	names []string
	types []reflect.Type
}

// Alternatives returns union alternative types
func (u *Union) Alternatives() []reflect.Type {
	return u.types
}

// Names returns registered names of the alternatives
func (u *Union) Names() []string {
	return u.names
}

// Lookup returns the alternative registered under name, or nil
func (u *Union) Lookup(name string) reflect.Type {
	for i, candidate := range u.names {
		if candidate == name {
			return u.types[i]
		}
	}
	return nil
}

var registry = visitor.NewSyncMap[string, reflect.Type]()

// RegisterType registers a named type for union tag resolution; value can be
// an instance, a pointer to one, or a reflect.Type.
func RegisterType(name string, value interface{}) {
	registry.Put(name, typeOf(value))
}

// LookupType returns a registered type
func LookupType(name string) (reflect.Type, bool) {
	return registry.Get(name)
}

// DeregisterType removes a registered type; definitions already built against
// the name keep their resolved alternatives.
func DeregisterType(name string) {
	registry.Delete(name)
}

func parseUnion(tag reflect.StructTag) (*Union, error) {
	literal, ok := tag.Lookup(UnionTag)
	if !ok {
		return nil, nil
	}
	result := &Union{}
	for _, name := range strings.Split(literal, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		rType, ok := registry.Get(name)
		if !ok {
			return nil, errors.Errorf("unknown union alternative %q", name)
		}
		result.names = append(result.names, name)
		result.types = append(result.types, rType)
	}
	if len(result.types) == 0 {
		return nil, errors.Errorf("empty union tag %q", literal)
	}
	return result, nil
}

// Discriminator resolves which union alternative a value deserializes as;
// returning a nil type passes the value through unchanged.
type Discriminator func(value interface{}, union *Union) (reflect.Type, error)

func anyResolver(value interface{}, union *Union) (reflect.Type, error) {
	return nil, nil
}

// ByMarkerField returns a discriminator that reads the supplied key from the
// source mapping and resolves it against the union's registered names.
func ByMarkerField(key string) Discriminator {
	return func(value interface{}, union *Union) (reflect.Type, error) {
		marker, ok := lookupKey(value, key)
		if !ok {
			return nil, errors.Errorf("discriminator key %q was missing", key)
		}
		name, ok := marker.(string)
		if !ok {
			return nil, errors.Errorf("discriminator key %q: expected string, had %T", key, marker)
		}
		rType := union.Lookup(name)
		if rType == nil {
			return nil, errors.Errorf("discriminator key %q: %q is not a union alternative", key, name)
		}
		return rType, nil
	}
}
