package autolink

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxTitleLength is the longest title, in bytes, that Compile accepts.
const MaxTitleLength = 1024

var (
	ErrEmptyTitle    = errors.New("title is empty")
	ErrTitleTooLong  = errors.New("title is too long")
	ErrNilCatalog    = errors.New("catalog is nil")
	errInvalidRegexp = errors.New("invalid pattern")
)

// PatternCompilationError reports a title that could not produce a matcher.
type PatternCompilationError struct {
	Title string
	Err   error
}

func (e *PatternCompilationError) Error() string {
	return fmt.Sprintf("compile pattern for %q: %v", e.Title, e.Err)
}

func (e *PatternCompilationError) Unwrap() error { return e.Err }

// Occurrence is one raw hit of a matcher with its classification.
type Occurrence struct {
	Span  Span
	Text  string
	Class Class
}

// Matcher finds bare occurrences of one title, optionally followed by a
// plural or past-tense suffix.
type Matcher struct {
	title     string
	re        *regexp.Regexp
	wordStart bool // title starts with a word rune
}

// Compile builds a matcher for title. Every regexp metacharacter in the title
// is escaped and matching is case-insensitive.
func Compile(title string) (*Matcher, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &PatternCompilationError{Title: title, Err: ErrEmptyTitle}
	}
	if len(title) > MaxTitleLength {
		return nil, &PatternCompilationError{Title: title, Err: ErrTitleTooLong}
	}
	if !utf8.ValidString(title) {
		return nil, &PatternCompilationError{Title: title, Err: fmt.Errorf("%w: not valid UTF-8", errInvalidRegexp)}
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(title))
	if err != nil {
		return nil, &PatternCompilationError{Title: title, Err: fmt.Errorf("%w: %v", errInvalidRegexp, err)}
	}
	first, _ := utf8.DecodeRuneInString(title)
	return &Matcher{
		title:     title,
		re:        re,
		wordStart: isWordRune(first),
	}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(title string) *Matcher {
	m, err := Compile(title)
	if err != nil {
		panic(err)
	}
	return m
}

// Title returns the title the matcher was compiled from.
func (m *Matcher) Title() string { return m.title }

// Find returns every occurrence of the title in text, classified under ctx.
func (m *Matcher) Find(text string, ctx Context) []Occurrence {
	return m.FindIn(NewDocument(text, ctx))
}

// FindIn returns every occurrence of the title in doc, in text order.
// A hit that fails the word-boundary test is retried one rune after its
// start, so overlapping occurrences are not lost.
func (m *Matcher) FindIn(doc *Document) []Occurrence {
	text := doc.Text()
	var out []Occurrence
	pos := 0
	for pos < len(text) {
		loc := m.re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if end, ok := m.bounded(text, start, end); ok {
			s := Span{Start: start, End: end}
			out = append(out, Occurrence{Span: s, Text: text[start:end], Class: doc.Classify(s)})
			pos = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		pos = start + size
	}
	return out
}

// bounded checks word boundaries around a raw hit [start, end) and extends
// it with the longest suffix variant that still ends on a boundary.
func (m *Matcher) bounded(text string, start, end int) (int, bool) {
	if m.wordStart && start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return 0, false
		}
	}
	for _, n := range suffixLengths(text[end:]) {
		e := end + n
		last, _ := utf8.DecodeLastRuneInString(text[:e])
		if !isWordRune(last) {
			return e, true
		}
		if e == len(text) {
			return e, true
		}
		next, _ := utf8.DecodeRuneInString(text[e:])
		if !isWordRune(next) {
			return e, true
		}
	}
	return 0, false
}

// suffixLengths returns the lengths of every prefix of rest accepted by the
// suffix grammar [es]?s?[ed]?, longest first. Zero is always included.
func suffixLengths(rest string) []int {
	var seen [4]bool
	for a := 0; a <= 1; a++ {
		for b := 0; b <= 1; b++ {
			for c := 0; c <= 1; c++ {
				n := 0
				if a == 1 {
					if !suffixByteIn(rest, n, "es") {
						continue
					}
					n++
				}
				if b == 1 {
					if !suffixByteIn(rest, n, "s") {
						continue
					}
					n++
				}
				if c == 1 {
					if !suffixByteIn(rest, n, "ed") {
						continue
					}
					n++
				}
				seen[n] = true
			}
		}
	}
	out := make([]int, 0, 4)
	for n := 3; n >= 0; n-- {
		if seen[n] {
			out = append(out, n)
		}
	}
	return out
}

func suffixByteIn(rest string, i int, set string) bool {
	if i >= len(rest) {
		return false
	}
	c := rest[i]
	if 'A' <= c && c <= 'Z' {
		c += 'a' - 'A'
	}
	return strings.IndexByte(set, c) >= 0
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
