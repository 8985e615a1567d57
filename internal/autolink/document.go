package autolink

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Context selects which exclusion rules apply to a text.
type Context int

const (
	// SourceContext is markdown source text (decorate and rewrite modes).
	SourceContext Context = iota
	// RenderedContext is HTML produced by the preview renderer.
	RenderedContext
)

// Class is the classification of a raw occurrence.
type Class int

const (
	Plain Class = iota
	Linked
	Headered
	Anchored
	Coded
)

func (c Class) String() string {
	switch c {
	case Plain:
		return "plain"
	case Linked:
		return "linked"
	case Headered:
		return "headered"
	case Anchored:
		return "anchored"
	case Coded:
		return "coded"
	}
	return "unknown"
}

// Span is a half-open byte range [Start, End) within a text.
type Span struct {
	Start int
	End   int
}

// Len returns the byte length of the span.
func (s Span) Len() int { return s.End - s.Start }

// Overlaps reports whether s and o share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && s.End > o.Start
}

// Document is a text with its exclusion zones precomputed.
// Zones are computed once and shared by every matcher run against the text.
type Document struct {
	text    string
	ctx     Context
	links   []Span
	headers []Span
	anchors []Span
	refs    []Span // character references, rendered context only
	code    []Span
}

// NewDocument computes the exclusion zones of text for the given context.
func NewDocument(text string, ctx Context) *Document {
	d := &Document{text: text, ctx: ctx}
	switch ctx {
	case RenderedContext:
		d.scanRendered()
	default:
		d.scanSource()
	}
	return d
}

// Text returns the underlying text.
func (d *Document) Text() string { return d.text }

// Context returns the context the document was built for.
func (d *Document) Context() Context { return d.ctx }

// Classify returns the class of an occurrence at span s.
func (d *Document) Classify(s Span) Class {
	switch {
	case overlapsAny(s, d.links):
		return Linked
	case overlapsAny(s, d.headers):
		return Headered
	case overlapsAny(s, d.anchors), splitsAny(s, d.refs):
		return Anchored
	case overlapsAny(s, d.code):
		return Coded
	}
	return Plain
}

func overlapsAny(s Span, zones []Span) bool {
	for _, z := range zones {
		if s.Overlaps(z) {
			return true
		}
	}
	return false
}

// splitsAny reports whether s overlaps a zone without covering all of it.
func splitsAny(s Span, zones []Span) bool {
	for _, z := range zones {
		if s.Overlaps(z) && (z.Start < s.Start || z.End > s.End) {
			return true
		}
	}
	return false
}

// line is one line of a text with its absolute byte offset.
type line struct {
	start int
	text  string
}

func splitLines(text string) []line {
	var out []line
	pos := 0
	for {
		idx := strings.IndexByte(text[pos:], '\n')
		if idx == -1 {
			out = append(out, line{start: pos, text: text[pos:]})
			return out
		}
		out = append(out, line{start: pos, text: text[pos : pos+idx]})
		pos += idx + 1
	}
}

func (d *Document) scanSource() {
	lines := splitLines(d.text)

	texts := make([]string, len(lines))
	for i, ln := range lines {
		texts[i] = ln.text
	}
	bodyStart := 0
	if fm := FrontmatterEnd(texts); fm > 0 {
		end := lines[fm].start + len(lines[fm].text)
		d.headers = append(d.headers, Span{Start: 0, End: end})
		bodyStart = fm + 1
	}

	inFence := false
	fenceStart := 0
	for i := bodyStart; i < len(lines); i++ {
		ln := lines[i]
		lineEnd := ln.start + len(ln.text)
		trim := strings.TrimSpace(ln.text)
		if strings.HasPrefix(trim, "```") {
			if inFence {
				d.code = append(d.code, Span{Start: fenceStart, End: lineEnd})
			} else {
				fenceStart = ln.start
			}
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		code := inlineCodeSpans(ln.text)
		for _, c := range code {
			d.code = append(d.code, shift(c, ln.start))
		}

		if isHeadingLine(ln.text) || isMetadataLine(ln.text) || isTableRow(ln.text) {
			d.headers = append(d.headers, Span{Start: ln.start, End: lineEnd})
			continue
		}

		for _, s := range wikiLinkSpans(ln.text) {
			d.links = append(d.links, shift(s, ln.start))
		}
		for _, s := range markdownLinkSpans(ln.text) {
			d.links = append(d.links, shift(s, ln.start))
		}
		for _, s := range tagSpans(ln.text) {
			if insideAny(s, code) {
				continue
			}
			d.headers = append(d.headers, shift(s, ln.start))
		}
	}
	if inFence {
		d.code = append(d.code, Span{Start: fenceStart, End: len(d.text)})
	}
}

func (d *Document) scanRendered() {
	d.refs = charRefSpans(d.text)
	for _, ln := range splitLines(d.text) {
		for _, s := range wikiLinkSpans(ln.text) {
			d.links = append(d.links, shift(s, ln.start))
		}
		for _, s := range tagSpans(ln.text) {
			s = shift(s, ln.start)
			// "&#38;" is a numeric reference, not a tag.
			if overlapsAny(Span{Start: s.Start, End: s.Start + 1}, d.refs) {
				continue
			}
			d.headers = append(d.headers, s)
		}
	}
	d.anchors = append(d.anchors, htmlTagSpans(d.text)...)
	d.anchors = append(d.anchors, elementSpans(d.text, "a")...)
	d.code = append(d.code, elementSpans(d.text, "code")...)
	d.code = append(d.code, elementSpans(d.text, "pre")...)
	for _, h := range []string{"h1", "h2", "h3", "h4", "h5", "h6"} {
		d.headers = append(d.headers, elementSpans(d.text, h)...)
	}
}

func shift(s Span, off int) Span {
	return Span{Start: s.Start + off, End: s.End + off}
}

func insideAny(s Span, zones []Span) bool {
	for _, z := range zones {
		if s.Start >= z.Start && s.End <= z.End {
			return true
		}
	}
	return false
}

// FrontmatterEnd returns the line index of the closing "---" of frontmatter.
// Returns -1 if no valid frontmatter is found.
func FrontmatterEnd(lines []string) int {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return -1
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return i
		}
	}
	return -1
}

// isHeadingLine reports whether the line begins with a heading marker.
func isHeadingLine(s string) bool {
	return strings.HasPrefix(strings.TrimLeft(s, " \t"), "#")
}

// isTableRow reports whether the line is a pipe table row. A link inserted
// into a cell would split it at the "|" of the link text.
func isTableRow(s string) bool {
	return strings.HasPrefix(strings.TrimLeft(s, " \t"), "|")
}

// isMetadataLine reports whether the line is an inline field ("key:: value").
func isMetadataLine(s string) bool {
	trim := strings.TrimLeft(s, " \t")
	idx := strings.Index(trim, "::")
	if idx <= 0 {
		return false
	}
	for _, r := range trim[:idx] {
		if unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// inlineCodeSpans returns backtick code spans (delimiters included). A run
// of backticks is closed only by a run of the same length; an unmatched run
// is literal text.
func inlineCodeSpans(s string) []Span {
	var out []Span
	i := 0
	for i < len(s) {
		if s[i] != '`' {
			i++
			continue
		}
		open := backtickRun(s, i)
		closeAt := -1
		for j := i + open; j < len(s); {
			if s[j] != '`' {
				j++
				continue
			}
			n := backtickRun(s, j)
			if n == open {
				closeAt = j
				break
			}
			j += n
		}
		if closeAt < 0 {
			i += open
			continue
		}
		out = append(out, Span{Start: i, End: closeAt + open})
		i = closeAt + open
	}
	return out
}

func backtickRun(s string, i int) int {
	n := 0
	for i+n < len(s) && s[i+n] == '`' {
		n++
	}
	return n
}

// wikiLinkSpans returns the spans of [[...]] on a single line.
func wikiLinkSpans(s string) []Span {
	var out []Span
	pos := 0
	for {
		start := strings.Index(s[pos:], "[[")
		if start == -1 {
			break
		}
		start += pos
		end := strings.Index(s[start+2:], "]]")
		if end == -1 {
			break
		}
		end = start + 2 + end + 2
		out = append(out, Span{Start: start, End: end})
		pos = end
	}
	return out
}

// markdownLinkSpans returns the spans of [text](url) on a single line.
func markdownLinkSpans(s string) []Span {
	var out []Span
	pos := 0
	for {
		open := strings.IndexByte(s[pos:], '[')
		if open == -1 {
			break
		}
		open += pos
		if open+1 < len(s) && s[open+1] == '[' {
			// wikilink; skip past its closing brackets if any
			if end := strings.Index(s[open+2:], "]]"); end != -1 {
				pos = open + 2 + end + 2
			} else {
				pos = open + 2
			}
			continue
		}
		mid := strings.Index(s[open:], "](")
		if mid == -1 {
			break
		}
		mid += open
		if strings.IndexByte(s[open+1:mid], '[') != -1 {
			pos = open + 1
			continue
		}
		close := strings.IndexByte(s[mid+2:], ')')
		if close == -1 {
			break
		}
		close = mid + 2 + close + 1
		out = append(out, Span{Start: open, End: close})
		pos = close
	}
	return out
}

// isTagRune reports whether r is allowed in a tag body (blacklist approach, Obsidian-compatible).
func isTagRune(r rune) bool {
	if r <= 0x20 || unicode.IsSpace(r) {
		return false
	}
	switch r {
	case '\'', '"', '!', '#', '$', '%', '&', '(', ')', '*', '+', ',', '.', ':', ';',
		'<', '=', '>', '?', '@', '^', '{', '|', '}', '~', '[', ']', '\\', '`':
		return false
	}
	if r >= 0x2000 && r <= 0x206F {
		return false
	}
	if r >= 0x2E00 && r <= 0x2E7F {
		return false
	}
	return true
}

// tagSpans returns the spans of #tags on a single line, '#' included.
// Any run directly following a '#' is treated as tagged, even mid-word.
func tagSpans(s string) []Span {
	var out []Span
	for i := 0; i < len(s); i++ {
		if s[i] != '#' {
			continue
		}
		end := i + 1
		for end < len(s) {
			r, size := utf8.DecodeRuneInString(s[end:])
			if !isTagRune(r) {
				break
			}
			end += size
		}
		if end == i+1 {
			continue
		}
		out = append(out, Span{Start: i, End: end})
		i = end - 1
	}
	return out
}

// charRefSpans returns the spans of HTML character references: "&name;",
// "&#123;" and "&#x1F;".
func charRefSpans(s string) []Span {
	var out []Span
	for i := 0; i < len(s); i++ {
		if s[i] != '&' {
			continue
		}
		j := i + 1
		if j < len(s) && s[j] == '#' {
			j++
			if j < len(s) && (s[j] == 'x' || s[j] == 'X') {
				j++
			}
		}
		k := j
		for k < len(s) && k-j < 32 && isASCIIAlnum(s[k]) {
			k++
		}
		if k > j && k < len(s) && s[k] == ';' {
			out = append(out, Span{Start: i, End: k + 1})
			i = k
		}
	}
	return out
}

func isASCIIAlnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// htmlTagSpans returns the spans of every <...> tag.
func htmlTagSpans(s string) []Span {
	var out []Span
	pos := 0
	for {
		open := strings.IndexByte(s[pos:], '<')
		if open == -1 {
			break
		}
		open += pos
		close := strings.IndexByte(s[open:], '>')
		if close == -1 {
			break
		}
		close += open + 1
		out = append(out, Span{Start: open, End: close})
		pos = close
	}
	return out
}

// elementSpans returns the spans of <name ...>...</name> elements, tags included.
// Matching is case-insensitive and does not handle nesting of the same element.
func elementSpans(s, name string) []Span {
	var out []Span
	lower := asciiLower(s)
	closeTag := "</" + name + ">"
	pos := 0
	for {
		open := strings.Index(lower[pos:], "<"+name)
		if open == -1 {
			break
		}
		open += pos
		after := open + 1 + len(name)
		if after < len(lower) {
			if c := lower[after]; c != '>' && c != ' ' && c != '\t' && c != '\n' && c != '/' {
				pos = after
				continue
			}
		}
		end := strings.Index(lower[after:], closeTag)
		if end == -1 {
			out = append(out, Span{Start: open, End: len(s)})
			break
		}
		end = after + end + len(closeTag)
		out = append(out, Span{Start: open, End: end})
		pos = end
	}
	return out
}

// asciiLower lowercases ASCII letters only, keeping byte offsets stable.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
