// Package yaml marshals declarative structs to and from YAML through their
// attribute mappings.
package yaml

import (
	goyaml "github.com/goccy/go-yaml"
	"github.com/viant/attrly"
)

// Marshal encodes a declarative instance as a YAML document; attributes keep
// their declaration order.
func Marshal(value interface{}, opts ...attrly.AsOption) ([]byte, error) {
	mapping, err := attrly.AsMap(value, opts...)
	if err != nil {
		return nil, err
	}
	return goyaml.Marshal(asMapSlice(mapping))
}

// Unmarshal decodes a YAML document into a declarative struct; dest has to be
// a non-nil pointer to one.
func Unmarshal(data []byte, dest interface{}, opts ...attrly.FromOption) error {
	var source map[string]interface{}
	if err := goyaml.Unmarshal(data, &source); err != nil {
		return err
	}
	return attrly.FromMap(dest, source, opts...)
}

func asMapSlice(mapping attrly.Mapping) goyaml.MapSlice {
	result := make(goyaml.MapSlice, 0, mapping.Len())
	mapping.Each(func(key, value interface{}) bool {
		result = append(result, goyaml.MapItem{Key: normalize(key), Value: normalize(value)})
		return true
	})
	return result
}

// normalize rewrites nested Mapping and sequence values into YAML encodable
// containers, preserving entry order.
func normalize(value interface{}) interface{} {
	switch actual := value.(type) {
	case attrly.Mapping:
		return asMapSlice(actual)
	case []interface{}:
		items := make([]interface{}, len(actual))
		for i, item := range actual {
			items[i] = normalize(item)
		}
		return items
	}
	return value
}
