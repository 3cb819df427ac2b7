package envtools

import (
	"reflect"
	"testing"
)

func TestParseResidual(t *testing.T) {
	cases := []struct {
		Name     string
		Args     []string
		Expected map[string]string
	}{
		{
			Name:     "Empty",
			Args:     nil,
			Expected: map[string]string{},
		},
		{
			Name:     "TrailingBareKey",
			Args:     []string{"--x", "1", "--y=2", "--z"},
			Expected: map[string]string{"x": "1", "y": "2"},
		},
		{
			Name:     "IgnoredPositional",
			Args:     []string{"--a=1", "ignored", "--b", "2"},
			Expected: map[string]string{"a": "1", "b": "2"},
		},
		{
			Name:     "LastOccurrenceWins",
			Args:     []string{"--k", "1", "--k", "2"},
			Expected: map[string]string{"k": "2"},
		},
		{
			Name:     "KeyBeforeFlagGetsNoValue",
			Args:     []string{"--a", "--b", "3"},
			Expected: map[string]string{"b": "3"},
		},
		{
			Name:     "EmptyValueAfterEquals",
			Args:     []string{"--a=", "--b=x=y"},
			Expected: map[string]string{"a": "", "b": "x=y"},
		},
	}
	for _, test := range cases {
		t.Run(test.Name, func(t *testing.T) {
			actual := ParseResidual(test.Args)
			if !reflect.DeepEqual(actual, test.Expected) {
				t.Errorf("expected %v but got %v", test.Expected, actual)
			}
		})
	}
}
