package core

import (
	"reflect"
	"testing"
)

func TestParseNoteMetaAliasesSequence(t *testing.T) {
	content := "---\naliases:\n  - Plantain\n  - Musa\n---\n# Banana\n"
	meta := parseNoteMeta(content, []string{"parents"})
	want := []string{"Plantain", "Musa"}
	if !reflect.DeepEqual(meta.aliases, want) {
		t.Errorf("aliases = %v, want %v", meta.aliases, want)
	}
}

func TestParseNoteMetaAliasScalar(t *testing.T) {
	content := "---\nalias: Plantain, Musa ,\n---\n"
	meta := parseNoteMeta(content, nil)
	want := []string{"Plantain", "Musa"}
	if !reflect.DeepEqual(meta.aliases, want) {
		t.Errorf("aliases = %v, want %v", meta.aliases, want)
	}
}

func TestParseNoteMetaAliasesDeduplicated(t *testing.T) {
	content := "---\naliases: [Musa]\nalias: Musa\n---\n"
	meta := parseNoteMeta(content, nil)
	if !reflect.DeepEqual(meta.aliases, []string{"Musa"}) {
		t.Errorf("aliases = %v, want [Musa]", meta.aliases)
	}
}

func TestParseNoteMetaBlacklist(t *testing.T) {
	content := "---\nparents:\n  - \"[[Fruit]]\"\n  - \"[[Plants/Tree|tree]]\"\n  - \"[[Food#Sweet]]\"\n  - Kitchen\n---\n"
	meta := parseNoteMeta(content, []string{"parents"})
	want := []string{"Fruit", "Tree", "Food", "Kitchen"}
	if !reflect.DeepEqual(meta.blacklist, want) {
		t.Errorf("blacklist = %v, want %v", meta.blacklist, want)
	}
}

func TestParseNoteMetaBlacklistUnquotedLink(t *testing.T) {
	// Unquoted [[Fruit]] is a nested YAML flow sequence.
	content := "---\nparents: [[Fruit]]\n---\n"
	meta := parseNoteMeta(content, []string{"parents"})
	if !reflect.DeepEqual(meta.blacklist, []string{"Fruit"}) {
		t.Errorf("blacklist = %v, want [Fruit]", meta.blacklist)
	}
}

func TestParseNoteMetaBlacklistKeys(t *testing.T) {
	content := "---\nparents: \"[[Fruit]]\"\nnolink: Bread\nother: Cherry\n---\n"
	meta := parseNoteMeta(content, []string{"parents", "nolink"})
	want := []string{"Fruit", "Bread"}
	if !reflect.DeepEqual(meta.blacklist, want) {
		t.Errorf("blacklist = %v, want %v", meta.blacklist, want)
	}
}

func TestParseNoteMetaNoFrontmatter(t *testing.T) {
	meta := parseNoteMeta("# Title\naliases: X\n", []string{"parents"})
	if len(meta.aliases) != 0 || len(meta.blacklist) != 0 {
		t.Errorf("meta = %+v, want empty", meta)
	}
}

func TestParseNoteMetaInvalidYAML(t *testing.T) {
	meta := parseNoteMeta("---\naliases: [unclosed\n---\n", nil)
	if len(meta.aliases) != 0 {
		t.Errorf("aliases = %v, want none", meta.aliases)
	}
}

func TestBlacklistName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Fruit", "Fruit"},
		{" [[Fruit]] ", "Fruit"},
		{"[[Fruit|the fruit]]", "Fruit"},
		{"[[Fruit#Kinds]]", "Fruit"},
		{"[[dir/Fruit.md]]", "Fruit"},
		{"[[]]", ""},
	}
	for _, tt := range tests {
		if got := blacklistName(tt.in); got != tt.want {
			t.Errorf("blacklistName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripFrontmatter(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"---\na: b\n---\nbody\n", "body\n"},
		{"no frontmatter", "no frontmatter"},
		{"---\nunterminated", "---\nunterminated"},
	}
	for _, tt := range tests {
		if got := stripFrontmatter(tt.in); got != tt.want {
			t.Errorf("stripFrontmatter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
