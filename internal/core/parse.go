package core

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ryotapoi/mdlink/internal/autolink"
)

// noteMeta holds the frontmatter fields that affect autolinking.
type noteMeta struct {
	aliases   []string
	blacklist []string // note names, already stripped of link syntax
}

// parseNoteMeta extracts aliases and blacklisted note names from the
// frontmatter of content. blacklistKeys are the frontmatter keys to read.
func parseNoteMeta(content string, blacklistKeys []string) noteMeta {
	lines := strings.Split(content, "\n")
	fmEnd := autolink.FrontmatterEnd(lines)
	if fmEnd <= 0 {
		return noteMeta{}
	}
	return parseFrontmatter(lines[:fmEnd+1], blacklistKeys)
}

// stripFrontmatter returns content without its leading frontmatter block.
func stripFrontmatter(content string) string {
	lines := strings.Split(content, "\n")
	fmEnd := autolink.FrontmatterEnd(lines)
	if fmEnd <= 0 {
		return content
	}
	return strings.Join(lines[fmEnd+1:], "\n")
}

// parseFrontmatter reads aliases and blacklist values from YAML frontmatter.
// lines should include the opening and closing "---".
func parseFrontmatter(lines []string, blacklistKeys []string) noteMeta {
	var meta noteMeta
	if len(lines) < 3 {
		return meta
	}
	yamlContent := strings.Join(lines[1:len(lines)-1], "\n")

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(yamlContent), &doc); err != nil {
		return meta
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return meta
	}
	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return meta
	}

	keys := make(map[string]bool, len(blacklistKeys))
	for _, k := range blacklistKeys {
		keys[k] = true
	}

	for i := 0; i < len(mapping.Content)-1; i += 2 {
		key := mapping.Content[i]
		val := mapping.Content[i+1]
		switch {
		case key.Value == "aliases" || key.Value == "alias":
			for _, a := range aliasValues(val) {
				meta.aliases = appendUnique(meta.aliases, a)
			}
		case keys[key.Value]:
			for _, v := range scalarValues(val) {
				if name := blacklistName(v); name != "" {
					meta.blacklist = append(meta.blacklist, name)
				}
			}
		}
	}
	return meta
}

// aliasValues reads a sequence of aliases, or a comma-separated scalar.
func aliasValues(val *yaml.Node) []string {
	var out []string
	switch val.Kind {
	case yaml.SequenceNode:
		for _, v := range scalarValues(val) {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	case yaml.ScalarNode:
		for _, a := range strings.Split(val.Value, ",") {
			if a = strings.TrimSpace(a); a != "" {
				out = append(out, a)
			}
		}
	}
	return out
}

// scalarValues flattens a scalar or (possibly nested) sequence into its
// scalar values. An unquoted "[[Note]]" parses as nested flow sequences.
func scalarValues(val *yaml.Node) []string {
	switch val.Kind {
	case yaml.ScalarNode:
		if val.Value == "" {
			return nil
		}
		return []string{val.Value}
	case yaml.SequenceNode:
		var out []string
		for _, item := range val.Content {
			out = append(out, scalarValues(item)...)
		}
		return out
	}
	return nil
}

// blacklistName reduces a blacklist value to a note name.
// "[[Note]]", "[[Note|alias]]", "[[dir/Note#Heading]]" and "Note" all yield "Note".
func blacklistName(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "[[") && strings.HasSuffix(v, "]]") {
		v = v[2 : len(v)-2]
	}
	target, _ := extractSubpath(splitAlias(v))
	target = normalizeBasename(strings.TrimSpace(target))
	if idx := strings.LastIndex(target, "/"); idx >= 0 {
		target = target[idx+1:]
	}
	return strings.TrimSpace(target)
}

func splitAlias(input string) string {
	if idx := strings.Index(input, "|"); idx != -1 {
		return input[:idx]
	}
	return input
}

// extractSubpath splits "target#subpath" into (target, "#subpath").
// Returns (input, "") if no subpath.
func extractSubpath(input string) (string, string) {
	if idx := strings.Index(input, "#"); idx != -1 {
		return input[:idx], input[idx:]
	}
	return input, ""
}

func normalizeBasename(input string) string {
	lower := strings.ToLower(input)
	if strings.HasSuffix(lower, ".md") && len(input) >= 3 {
		return input[:len(input)-3]
	}
	return input
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
