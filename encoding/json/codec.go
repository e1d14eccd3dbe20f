// Package json marshals declarative structs to and from JSON through their
// attribute mappings.
package json

import (
	"fmt"
	"time"

	"github.com/francoispqt/gojay"
	"github.com/viant/attrly"
)

// Marshal encodes a declarative instance as a JSON object; attributes appear
// in declaration order and nested declarative values encode recursively.
func Marshal(value interface{}, opts ...attrly.AsOption) ([]byte, error) {
	mapping, err := attrly.AsMap(value, opts...)
	if err != nil {
		return nil, err
	}
	return gojay.MarshalJSONObject(&objectEncoder{mapping: mapping})
}

// Unmarshal decodes a JSON object into a declarative struct; dest has to be a
// non-nil pointer to one.
func Unmarshal(data []byte, dest interface{}, opts ...attrly.FromOption) error {
	mapping := attrly.NewOrderedMap()
	if err := gojay.UnmarshalJSONObject(data, &objectDecoder{mapping: mapping}); err != nil {
		return err
	}
	return attrly.FromMap(dest, mapping, opts...)
}

type objectEncoder struct {
	mapping attrly.Mapping
}

func (e *objectEncoder) MarshalJSONObject(enc *gojay.Encoder) {
	e.mapping.Each(func(key, value interface{}) bool {
		addKeyed(enc, fmt.Sprintf("%v", key), value)
		return true
	})
}

func (e *objectEncoder) IsNil() bool {
	return e == nil || e.mapping == nil
}

func addKeyed(enc *gojay.Encoder, key string, value interface{}) {
	switch actual := value.(type) {
	case nil:
		enc.AddNullKey(key)
	case attrly.Mapping:
		enc.AddObjectKey(key, &objectEncoder{mapping: actual})
	case []interface{}:
		enc.AddArrayKey(key, arrayEncoder(actual))
	case time.Time:
		enc.AddTimeKey(key, &actual, time.RFC3339)
	case *time.Time:
		if actual == nil {
			enc.AddNullKey(key)
			return
		}
		enc.AddTimeKey(key, actual, time.RFC3339)
	default:
		enc.AddInterfaceKey(key, value)
	}
}

type arrayEncoder []interface{}

func (a arrayEncoder) MarshalJSONArray(enc *gojay.Encoder) {
	for _, item := range a {
		addItem(enc, item)
	}
}

func (a arrayEncoder) IsNil() bool {
	return a == nil
}

func addItem(enc *gojay.Encoder, value interface{}) {
	switch actual := value.(type) {
	case nil:
		enc.AddNull()
	case attrly.Mapping:
		enc.AddObject(&objectEncoder{mapping: actual})
	case []interface{}:
		enc.AddArray(arrayEncoder(actual))
	case time.Time:
		enc.AddTime(&actual, time.RFC3339)
	default:
		enc.AddInterface(value)
	}
}

// objectDecoder accumulates top level keys into an ordered mapping; nested
// objects decode as plain map[string]interface{} values.
type objectDecoder struct {
	mapping *attrly.OrderedMap
}

func (d *objectDecoder) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	var value interface{}
	if err := dec.Interface(&value); err != nil {
		return err
	}
	d.mapping.Put(key, value)
	return nil
}

func (d *objectDecoder) NKeys() int {
	return 0
}
