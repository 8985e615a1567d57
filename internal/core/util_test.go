package core

import (
	"reflect"
	"testing"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"A.md", "A.md"},
		{"./A.md", "A.md"},
		{"sub//B.md", "sub/B.md"},
		{"sub/../C.md", "C.md"},
	}
	for _, tt := range tests {
		if got := NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBasename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"A.md", "A"},
		{"sub/Apple Pie.md", "Apple Pie"},
		{"v1.2 notes.md", "v1.2 notes"},
	}
	for _, tt := range tests {
		if got := basename(tt.in); got != tt.want {
			t.Errorf("basename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDedupePaths(t *testing.T) {
	got := dedupePaths([]string{"./A.md", "A.md", "sub/B.md", "sub//B.md"})
	want := []string{"A.md", "sub/B.md"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("dedupePaths = %v, want %v", got, want)
	}
}

func TestIsFieldActive(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		fields []string
		want   bool
	}{
		{"empty means all", "notes_total", nil, true},
		{"listed", "notes_total", []string{"notes_total"}, true},
		{"not listed", "aliases_total", []string{"notes_total"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isFieldActive(tt.field, tt.fields); got != tt.want {
				t.Errorf("isFieldActive(%q, %v) = %v, want %v", tt.field, tt.fields, got, tt.want)
			}
		})
	}
}
