package autolink

import (
	"sort"
	"strings"
)

// LineEdit records one rewritten line.
type LineEdit struct {
	Line    int // 1-based
	Before  string
	After   string
	Matches []Match
}

// LinkText returns the wikilink markup inserted for m.
func LinkText(m Match) string {
	return "[[" + m.Target + "|" + m.Text + "]]"
}

// Splice replaces each match span in line with its wikilink markup.
// Matches must be non-overlapping.
func Splice(line string, matches []Match) string {
	return SpliceWith(line, matches, LinkText)
}

// SpliceWith replaces each match span in s with render(match). Spans are
// applied in descending start order so earlier offsets stay valid.
// Matches must be non-overlapping.
func SpliceWith(s string, matches []Match, render func(Match) string) string {
	if len(matches) == 0 {
		return s
	}
	sorted := make([]Match, len(matches))
	copy(sorted, matches)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start > sorted[j].Start })

	out := s
	for _, m := range sorted {
		if m.Start < 0 || m.End > len(out) || m.Start > m.End {
			continue
		}
		out = out[:m.Start] + render(m) + out[m.End:]
	}
	return out
}

// Rewrite inserts link markup for every resolved match in text, line by line.
// The frontmatter block and fenced code blocks are left untouched, as is any
// line without matches.
func (e *Engine) Rewrite(text string, cat *Catalog) (string, []LineEdit, error) {
	if cat == nil {
		return "", nil, ErrNilCatalog
	}
	lines := strings.Split(text, "\n")

	start := 0
	if fm := FrontmatterEnd(lines); fm > 0 {
		start = fm + 1
	}

	var edits []LineEdit
	inFence := false
	for i := start; i < len(lines); i++ {
		trim := strings.TrimSpace(lines[i])
		if strings.HasPrefix(trim, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		report, err := e.ScanDocument(NewDocument(lines[i], SourceContext), cat)
		if err != nil {
			return "", nil, err
		}
		if len(report.Matches) == 0 {
			continue
		}
		after := Splice(lines[i], report.Matches)
		edits = append(edits, LineEdit{
			Line:    i + 1,
			Before:  lines[i],
			After:   after,
			Matches: report.Matches,
		})
		lines[i] = after
	}
	return strings.Join(lines, "\n"), edits, nil
}
