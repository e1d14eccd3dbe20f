package json

import (
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
	Alias   *string
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
	assert.Equal(t, `{"Id":1,"name":"bob","Address":{"City":"NYC"},"Tags":["a","b"],"Alias":null}`, string(data), "keys keep declaration order")
}

func TestUnmarshal(t *testing.T) {
	var actual person
	err := Unmarshal([]byte(`{"Id":1,"name":"bob","Address":{"City":"NYC"},"Tags":["a","b"],"Alias":"bb"}`), &actual)
	if !assert.Nil(t, err) {
		return
	}
	alias := "bb"
	assert.EqualValues(t, person{
		Id:      1,
		Name:    "bob",
		Address: address{City: "NYC"},
		Tags:    []string{"a", "b"},
		Alias:   &alias,
	}, actual)
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
