package attrly

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestRoundtrip(t *testing.T) {
	email := "ann@corp.io"
	var testCases = []struct {
		description string
		instance    team
	}{
		{
			description: "fully populated",
			instance: team{
				Name: "core",
				Lead: account{Id: 1, Name: "bob", Email: &email},
				Members: []account{
					{Id: 2, Name: "ann"},
					{Id: 3, Name: "ced", Email: &email},
				},
				Labels: map[string]string{"tier": "gold"},
			},
		},
		{
			description: "zero valued",
			instance:    team{Labels: map[string]string{}, Members: []account{}},
		},
	}

	for _, testCase := range testCases {
		mapping, err := AsMap(testCase.instance)
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		restored, err := FromMapOf[team](mapping)
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		if diff := cmp.Diff(testCase.instance, restored); diff != "" {
			t.Errorf("%v: roundtrip mismatch (-want +got):\n%s", testCase.description, diff)
		}
	}
}
