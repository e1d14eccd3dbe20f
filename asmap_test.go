package attrly

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type coordinate struct {
	Attrs
	X int
	Y int
}

type account struct {
	Attrs
	Id    int
	Name  string `format:"name=userName"`
	Email *string
}

type team struct {
	Attrs
	Name    string
	Lead    account
	Members []account
	Labels  map[string]string
}

type inventory struct {
	Attrs
	Nums   []int
	Points []coordinate
}

// asGo rewrites Mapping values into plain maps for assertions
func asGo(value interface{}) interface{} {
	switch actual := value.(type) {
	case Mapping:
		ret := map[string]interface{}{}
		actual.Each(func(k, v interface{}) bool {
			ret[fmt.Sprintf("%v", k)] = asGo(v)
			return true
		})
		return ret
	case []interface{}:
		ret := make([]interface{}, len(actual))
		for i, item := range actual {
			ret[i] = asGo(item)
		}
		return ret
	}
	return value
}

func TestAsMap(t *testing.T) {
	email := "bob@corp.io"
	var testCases = []struct {
		description string
		instance    interface{}
		options     []AsOption
		expect      interface{}
		expectError bool
	}{
		{
			description: "flat attributes with tag name override",
			instance:    account{Id: 1, Name: "bob", Email: &email},
			expect:      map[string]interface{}{"Id": 1, "userName": "bob", "Email": &email},
		},
		{
			description: "nil optional passes through",
			instance:    account{Id: 1, Name: "bob"},
			expect:      map[string]interface{}{"Id": 1, "userName": "bob", "Email": (*string)(nil)},
		},
		{
			description: "nested declarative values recurse",
			instance: team{
				Name:    "core",
				Lead:    account{Id: 1, Name: "bob"},
				Members: []account{{Id: 2, Name: "ann"}},
				Labels:  map[string]string{"tier": "gold"},
			},
			expect: map[string]interface{}{
				"Name": "core",
				"Lead": map[string]interface{}{"Id": 1, "userName": "bob", "Email": (*string)(nil)},
				"Members": []interface{}{
					map[string]interface{}{"Id": 2, "userName": "ann", "Email": (*string)(nil)},
				},
				"Labels": map[string]interface{}{"tier": "gold"},
			},
		},
		{
			description: "shallow keeps nested values as is",
			instance:    team{Name: "core", Lead: account{Id: 1, Name: "bob"}},
			options:     []AsOption{WithShallow()},
			expect: map[string]interface{}{
				"Name":    "core",
				"Lead":    account{Id: 1, Name: "bob"},
				"Members": []account(nil),
				"Labels":  map[string]string(nil),
			},
		},
		{
			description: "filter omits attributes independently per level",
			instance:    team{Name: "core", Lead: account{Id: 1, Name: "bob"}},
			options: []AsOption{WithFilter(func(attr *Attribute, value interface{}) bool {
				return attr.Name != "Id" && attr.Name != "Members" && attr.Name != "Labels"
			})},
			expect: map[string]interface{}{
				"Name": "core",
				"Lead": map[string]interface{}{"userName": "bob", "Email": (*string)(nil)},
			},
		},
		{
			description: "omitempty drops zero values",
			instance: struct {
				Attrs
				Id   int
				Note string `format:"omitempty"`
			}{Id: 1},
			expect: map[string]interface{}{"Id": 1},
		},
		{
			description: "pointer instance",
			instance:    &coordinate{X: 1, Y: 2},
			expect:      map[string]interface{}{"X": 1, "Y": 2},
		},
		{
			description: "non declarative instance errors",
			instance:    "abc",
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		actual, err := AsMap(testCase.instance, testCase.options...)
		if testCase.expectError {
			assert.NotNil(t, err, testCase.description)
			continue
		}
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		assert.EqualValues(t, testCase.expect, asGo(actual), testCase.description)
	}
}

func TestAsMap_Order(t *testing.T) {
	actual, err := AsMap(account{Id: 1, Name: "bob"})
	assert.Nil(t, err)
	ordered, ok := actual.(*OrderedMap)
	assert.True(t, ok)
	assert.EqualValues(t, []interface{}{"Id", "userName", "Email"}, ordered.Keys())
}

func TestAsMap_RetainCollectionTypes(t *testing.T) {
	instance := inventory{Nums: []int{1, 2}, Points: []coordinate{{X: 1, Y: 2}}}

	plain, err := AsMap(instance)
	if assert.Nil(t, err) {
		nums, _ := plain.Get("Nums")
		assert.EqualValues(t, []interface{}{1, 2}, nums, "default converts to generic sequence")
	}

	retained, err := AsMap(instance, WithRetainCollectionTypes(true))
	if assert.Nil(t, err) {
		nums, _ := retained.Get("Nums")
		assert.EqualValues(t, []int{1, 2}, nums, "scalar sequence keeps its type")
		points, _ := retained.Get("Points")
		_, generic := points.([]interface{})
		assert.True(t, generic, "sequence with converted elements turns generic")
	}
}

func TestAsMap_RetainNotForwarded(t *testing.T) {
	type holder struct {
		Attrs
		Inner inventory
	}
	actual, err := AsMap(holder{Inner: inventory{Nums: []int{1, 2}}}, WithRetainCollectionTypes(true))
	if !assert.Nil(t, err) {
		return
	}
	inner, _ := actual.Get("Inner")
	nums, _ := inner.(Mapping).Get("Nums")
	assert.EqualValues(t, []interface{}{1, 2}, nums, "retention does not cross into nested conversions")
}

func TestAsSlice_RetainCollectionTypes(t *testing.T) {
	instance := inventory{Nums: []int{1, 2}, Points: []coordinate{{X: 1, Y: 2}}}
	actual, err := AsSlice(instance, WithRetainCollectionTypes(true))
	if !assert.Nil(t, err) {
		return
	}
	assert.EqualValues(t, []int{1, 2}, actual[0], "scalar sequence keeps its type")
	_, generic := actual[1].([]interface{})
	assert.True(t, generic, "sequence with converted elements turns generic")
}

func TestAsSlice_RetainNotForwarded(t *testing.T) {
	type holder struct {
		Attrs
		Inner inventory
	}
	actual, err := AsSlice(holder{Inner: inventory{Nums: []int{1, 2}}}, WithRetainCollectionTypes(true))
	if !assert.Nil(t, err) {
		return
	}
	inner, ok := actual[0].([]interface{})
	if !assert.True(t, ok) {
		return
	}
	_, concrete := inner[0].([]int)
	assert.False(t, concrete, "retention does not cross into nested conversions")
	assert.EqualValues(t, []interface{}{1, 2}, inner[0])
}

func TestAsSlice(t *testing.T) {
	var testCases = []struct {
		description string
		instance    interface{}
		options     []AsOption
		expect      interface{}
		expectError bool
	}{
		{
			description: "flat attributes in declaration order",
			instance:    account{Id: 1, Name: "bob"},
			expect:      []interface{}{1, "bob", (*string)(nil)},
		},
		{
			description: "nested declarative values turn positional",
			instance: team{
				Name:    "core",
				Lead:    account{Id: 1, Name: "bob"},
				Members: []account{{Id: 2, Name: "ann"}},
			},
			expect: []interface{}{
				"core",
				[]interface{}{1, "bob", (*string)(nil)},
				[]interface{}{[]interface{}{2, "ann", (*string)(nil)}},
				map[string]string(nil),
			},
		},
		{
			description: "shallow keeps nested values as is",
			instance:    coordinate{X: 1, Y: 2},
			options:     []AsOption{WithShallow()},
			expect:      []interface{}{1, 2},
		},
		{
			description: "non declarative instance errors",
			instance:    42,
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		actual, err := AsSlice(testCase.instance, testCase.options...)
		if testCase.expectError {
			assert.NotNil(t, err, testCase.description)
			continue
		}
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		assert.EqualValues(t, testCase.expect, asGo(actual), testCase.description)
	}
}

func TestAsSlice_SliceFactory(t *testing.T) {
	type wrapped struct {
		items []interface{}
	}
	actual, err := AsSlice(
		team{Name: "core", Lead: account{Id: 1, Name: "bob"}},
		WithSliceFactory(func(items []interface{}) interface{} { return wrapped{items: items} }),
	)
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, "core", actual[0], "top level stays a plain sequence")
	_, ok := actual[1].(wrapped)
	assert.True(t, ok, "nested conversions go through the factory")
}
