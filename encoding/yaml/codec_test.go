package yaml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/attrly"
)

type address struct {
	attrly.Attrs
	City string
}

type person struct {
	attrly.Attrs
	Id      int
	Name    string `format:"name=name"`
	Address address
	Tags    []string
}

func TestMarshal(t *testing.T) {
	instance := person{
		Id:      1,
		Name:    "bob",
		Address: address{City: "NYC"},
		Tags:    []string{"a", "b"},
	}
	data, err := Marshal(instance)
	if !assert.Nil(t, err) {
		return
	}
	text := string(data)
	assert.True(t, strings.Index(text, "Id:") < strings.Index(text, "name:"), "keys keep declaration order")
	assert.Contains(t, text, "name: bob")
	assert.Contains(t, text, "City: NYC")
}

func TestRoundtrip(t *testing.T) {
	instance := person{Id: 7, Name: "ann", Address: address{City: "LA"}, Tags: []string{"x"}}
	data, err := Marshal(instance)
	if !assert.Nil(t, err) {
		return
	}
	var decoded person
	if !assert.Nil(t, Unmarshal(data, &decoded)) {
		return
	}
	assert.EqualValues(t, instance, decoded)
}
