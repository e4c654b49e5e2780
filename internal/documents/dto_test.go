package documents

import (
	"reflect"
	"testing"
)

func TestParseTags(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace only", "  ,  , ", nil},
		{"trims and keeps order", "fasting, glucose", []string{"fasting", "glucose"}},
		{"dedup by first occurrence", "a, b, a, c, b", []string{"a", "b", "c"}},
		{"drops empties", "x,,y,", []string{"x", "y"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseTags(tc.raw)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ParseTags(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}
