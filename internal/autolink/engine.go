// Package autolink finds plain-text occurrences of note titles in markdown
// and HTML and resolves them into non-overlapping link spans.
package autolink

import (
	"errors"
	"hash/fnv"
	"log/slog"
	"sort"
	"sync"

	"github.com/yuin/goldmark/util"
)

// Entry is one linkable note known to the catalog.
type Entry struct {
	Name         string   // canonical name, used as link target
	Aliases      []string // alternate surface forms resolving to Name
	IsSelf       bool     // the document being scanned
	ExcludedHere bool     // blacklisted by the scanned document's metadata
	Path         string   // vault-relative path, informational
}

// Catalog is the read-only set of titles a scan runs against.
type Catalog struct {
	Entries []Entry
}

// Match is a resolved, linkable occurrence.
type Match struct {
	Start   int
	End     int
	Text    string // matched text, possibly with a suffix variant
	Target  string // canonical name of the entry
	Surface string // title or alias that produced the match
	Entry   int    // index into Catalog.Entries
}

// Span returns the byte range of the match.
func (m Match) Span() Span { return Span{Start: m.Start, End: m.End} }

// AmbiguousOverlap records two candidates of equal start and length from
// different entries. Winner is the one kept.
type AmbiguousOverlap struct {
	Winner Match
	Loser  Match
}

// Report is the full outcome of one scan.
type Report struct {
	Matches       []Match
	CompileErrors []*PatternCompilationError
	Ambiguities   []AmbiguousOverlap
	SelfSkipped   int
	Excluded      int
}

// Options configures an Engine.
type Options struct {
	Logger *slog.Logger
}

// Engine scans texts against a catalog. It caches compiled matchers keyed by
// title; the cache is dropped whenever the catalog's title set changes.
// An Engine is safe for concurrent use.
type Engine struct {
	logger *slog.Logger

	mu          sync.Mutex
	fingerprint uint64
	matchers    map[string]*Matcher
	failures    map[string]*PatternCompilationError
}

// NewEngine returns an engine with an empty matcher cache.
func NewEngine(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		logger:   logger,
		matchers: make(map[string]*Matcher),
		failures: make(map[string]*PatternCompilationError),
	}
}

// Invalidate drops every cached matcher.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset()
}

func (e *Engine) reset() {
	e.matchers = make(map[string]*Matcher)
	e.failures = make(map[string]*PatternCompilationError)
}

// Scan returns the resolved matches of cat in a markdown source text.
func (e *Engine) Scan(text string, cat *Catalog) ([]Match, error) {
	r, err := e.ScanDocument(NewDocument(text, SourceContext), cat)
	if err != nil {
		return nil, err
	}
	return r.Matches, nil
}

// Decorate scans a full markdown document for non-destructive marking.
// Frontmatter and fenced code blocks are exclusion zones.
func (e *Engine) Decorate(text string, cat *Catalog) (*Report, error) {
	return e.ScanDocument(NewDocument(text, SourceContext), cat)
}

// candidate is a provisional match with its catalog position.
type candidate struct {
	Match
	order int
}

// ScanDocument runs every eligible catalog entry against doc and resolves
// overlaps. Per-title compile failures are reported, never returned.
func (e *Engine) ScanDocument(doc *Document, cat *Catalog) (*Report, error) {
	if cat == nil {
		return nil, ErrNilCatalog
	}
	matchers, failures := e.matchersFor(cat, doc.Context())

	report := &Report{CompileErrors: failures}
	var cands []candidate
	for i, entry := range cat.Entries {
		if entry.IsSelf {
			report.SelfSkipped++
			continue
		}
		if entry.ExcludedHere {
			report.Excluded++
			continue
		}
		seen := make(map[Span]bool)
		for _, surface := range surfaces(entry) {
			m := matchers[surface]
			if m == nil {
				continue
			}
			for _, occ := range m.FindIn(doc) {
				if occ.Class != Plain || seen[occ.Span] {
					continue
				}
				seen[occ.Span] = true
				cands = append(cands, candidate{
					Match: Match{
						Start:   occ.Span.Start,
						End:     occ.Span.End,
						Text:    occ.Text,
						Target:  entry.Name,
						Surface: surface,
						Entry:   i,
					},
					order: i,
				})
			}
		}
	}

	report.Matches, report.Ambiguities = resolve(cands)
	for _, a := range report.Ambiguities {
		e.logger.Debug("ambiguous autolink overlap",
			slog.Int("start", a.Winner.Start),
			slog.String("text", a.Winner.Text),
			slog.String("winner", a.Winner.Target),
			slog.String("loser", a.Loser.Target),
		)
	}
	return report, nil
}

// resolve sorts candidates by start and greedily drops overlaps: the longer
// text wins, and on equal length the earlier catalog entry wins.
func resolve(cands []candidate) ([]Match, []AmbiguousOverlap) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Start < cands[j].Start
	})

	var accepted []candidate
	var ambiguous []AmbiguousOverlap
	for _, c := range cands {
		if len(accepted) == 0 {
			accepted = append(accepted, c)
			continue
		}
		last := &accepted[len(accepted)-1]
		if !c.Span().Overlaps(last.Span()) {
			accepted = append(accepted, c)
			continue
		}
		cl, ll := len(c.Text), len(last.Text)
		switch {
		case cl > ll:
			*last = c
		case cl == ll:
			winner, loser := *last, c
			if c.order < last.order {
				winner, loser = c, *last
			}
			if c.Start == last.Start && c.order != last.order {
				ambiguous = append(ambiguous, AmbiguousOverlap{Winner: winner.Match, Loser: loser.Match})
			}
			*last = winner
		}
	}

	out := make([]Match, len(accepted))
	for i, c := range accepted {
		out[i] = c.Match
	}
	return out, ambiguous
}

// surfaces returns the canonical name followed by the aliases of an entry.
func surfaces(entry Entry) []string {
	out := make([]string, 0, 1+len(entry.Aliases))
	out = append(out, entry.Name)
	out = append(out, entry.Aliases...)
	return out
}

// patternText returns the text a surface appears as in ctx. The renderer
// escapes "&", "<", ">" and `"` in paragraph text.
func patternText(surface string, ctx Context) string {
	if ctx == RenderedContext {
		return string(util.EscapeHTML([]byte(surface)))
	}
	return surface
}

// matchersFor returns compiled matchers for every surface in cat as it appears
// in ctx, compiling and caching missing ones, plus the failures among them.
// The result is keyed by surface.
func (e *Engine) matchersFor(cat *Catalog, ctx Context) (map[string]*Matcher, []*PatternCompilationError) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if fp := fingerprint(cat); fp != e.fingerprint {
		e.reset()
		e.fingerprint = fp
	}

	out := make(map[string]*Matcher)
	var failures []*PatternCompilationError
	reported := make(map[string]bool)
	for _, entry := range cat.Entries {
		if entry.IsSelf || entry.ExcludedHere {
			continue
		}
		for _, s := range surfaces(entry) {
			if _, ok := out[s]; ok || reported[s] {
				continue
			}
			p := patternText(s, ctx)
			if m, ok := e.matchers[p]; ok {
				out[s] = m
				continue
			}
			if f, ok := e.failures[p]; ok {
				failures = append(failures, f)
				reported[s] = true
				continue
			}
			m, err := Compile(p)
			if err != nil {
				pe := &PatternCompilationError{Title: s, Err: err}
				var ce *PatternCompilationError
				if errors.As(err, &ce) {
					pe.Err = ce.Err
				}
				e.failures[p] = pe
				failures = append(failures, pe)
				reported[s] = true
				e.logger.Warn("skipping title", slog.String("title", s), slog.Any("error", pe.Err))
				continue
			}
			e.matchers[p] = m
			out[s] = m
		}
	}
	return out, failures
}

// fingerprint hashes the ordered title and alias set of cat.
func fingerprint(cat *Catalog) uint64 {
	h := fnv.New64a()
	for _, entry := range cat.Entries {
		for _, s := range surfaces(entry) {
			h.Write([]byte(s))
			h.Write([]byte{0})
		}
		h.Write([]byte{1})
	}
	return h.Sum64()
}
