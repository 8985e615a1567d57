package core

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"github.com/ryotapoi/mdlink/internal/autolink"
)

// ScanOptions selects the note to decorate.
type ScanOptions struct {
	File string // vault-relative path
}

// Decoration is one autolink span in a note. The note is not modified.
type Decoration struct {
	Line   int // 1-based
	Column int // 1-based, in runes
	Start  int // byte offset into the file
	End    int
	Text   string
	Target string
}

// ScanResult lists the decorations of one note.
type ScanResult struct {
	File          string
	Decorations   []Decoration
	InvalidTitles []string // titles skipped because they cannot be matched
	Ambiguities   int      // equal spans claimed by different notes
}

// Scan finds every autolink in a note without modifying it.
func Scan(vaultPath string, opts ScanOptions) (*ScanResult, error) {
	if opts.File == "" {
		return nil, fmt.Errorf("file is required")
	}
	cfg, err := LoadConfig(vaultPath)
	if err != nil {
		return nil, err
	}
	notes, err := loadNotes(vaultPath, cfg)
	if err != nil {
		return nil, err
	}
	e := autolink.NewEngine(autolink.Options{Logger: slog.Default()})
	return scanNote(e, vaultPath, NormalizePath(opts.File), notes, cfg)
}

// scanNote decorates file against notes using e.
func scanNote(e *autolink.Engine, vaultPath, file string, notes []noteRecord, cfg Config) (*ScanResult, error) {
	data, err := os.ReadFile(filepath.Join(vaultPath, file))
	if err != nil {
		return nil, err
	}
	content := string(data)
	meta := parseNoteMeta(content, cfg.Blacklist())
	report, err := e.Decorate(content, catalogFor(notes, file, meta.blacklist))
	if err != nil {
		return nil, err
	}

	result := &ScanResult{
		File:        file,
		Decorations: decorations(content, report.Matches),
		Ambiguities: len(report.Ambiguities),
	}
	for _, ce := range report.CompileErrors {
		result.InvalidTitles = append(result.InvalidTitles, ce.Title)
	}
	slog.Debug("scanned note",
		slog.String("file", file),
		slog.Int("decorations", len(result.Decorations)),
		slog.Int("self_skipped", report.SelfSkipped),
		slog.Int("excluded", report.Excluded),
	)
	return result, nil
}

// decorations converts byte-offset matches into line/column positions.
func decorations(content string, matches []autolink.Match) []Decoration {
	if len(matches) == 0 {
		return nil
	}
	lineStarts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}

	out := make([]Decoration, 0, len(matches))
	for _, m := range matches {
		line := sort.Search(len(lineStarts), func(i int) bool { return lineStarts[i] > m.Start }) - 1
		out = append(out, Decoration{
			Line:   line + 1,
			Column: utf8.RuneCountInString(content[lineStarts[line]:m.Start]) + 1,
			Start:  m.Start,
			End:    m.End,
			Text:   m.Text,
			Target: m.Target,
		})
	}
	return out
}

// String renders a decoration as "line:col text -> target".
func (d Decoration) String() string {
	return fmt.Sprintf("%d:%d %s -> %s", d.Line, d.Column, d.Text, d.Target)
}
