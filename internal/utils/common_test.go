package utils

import (
	"reflect"
	"testing"
)

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , ,b ", []string{"a", "b"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		if got := SplitAndTrim(tt.in, ","); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitAndTrim(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"héllo wörld", 8, "héllo..."},
		{"abcdef", 2, "ab"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d): got %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"#", ""},
		{"/title", "title"},
		{"#/tasks/0/title", "tasks[0].title"},
		{"/a~1b/c~0d", "a/b.c~d"},
	}
	for _, tt := range tests {
		if got := JSONPointerToPath(tt.in); got != tt.want {
			t.Errorf("JSONPointerToPath(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}
