package core

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ryotapoi/mdlink/internal/autolink"
)

// DiagnoseOptions controls which fields to return.
type DiagnoseOptions struct {
	Fields []string // nil/empty = all
}

// TitleConflict is a title or alias claimed by more than one note.
// Autolinks for it resolve to the first claimant in path order.
type TitleConflict struct {
	Title string   // spelling used by the first claimant
	Paths []string // vault-relative paths (sorted)
}

// InvalidTitle is a title or alias that cannot be matched.
type InvalidTitle struct {
	Path  string
	Title string
	Error string
}

// DiagnoseResult contains diagnostic information about the indexed vault.
type DiagnoseResult struct {
	TitleConflicts []TitleConflict // sorted by folded title
	InvalidTitles  []InvalidTitle  // sorted by path
}

// ValidDiagnoseFields lists the field names accepted by Diagnose.
var ValidDiagnoseFields = map[string]bool{
	"title_conflicts": true,
	"invalid_titles":  true,
}

// Diagnose returns diagnostic information for the indexed vault.
func Diagnose(vaultPath string, opts DiagnoseOptions) (*DiagnoseResult, error) {
	for _, f := range opts.Fields {
		if !ValidDiagnoseFields[f] {
			return nil, fmt.Errorf("unknown diagnose field: %s", f)
		}
	}

	db, err := openIndex(vaultPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	notes, err := loadIndexedNotes(db)
	if err != nil {
		return nil, err
	}

	result := &DiagnoseResult{}

	if isFieldActive("title_conflicts", opts.Fields) {
		result.TitleConflicts = titleConflicts(notes)
	}

	if isFieldActive("invalid_titles", opts.Fields) {
		for _, n := range notes {
			for _, title := range append([]string{n.name}, n.aliases...) {
				if _, err := autolink.Compile(title); err != nil {
					msg := err.Error()
					var pe *autolink.PatternCompilationError
					if errors.As(err, &pe) {
						msg = pe.Err.Error()
					}
					result.InvalidTitles = append(result.InvalidTitles, InvalidTitle{
						Path:  n.path,
						Title: title,
						Error: msg,
					})
				}
			}
		}
	}

	return result, nil
}

// titleConflicts groups notes by folded title and alias. notes must be sorted by path.
func titleConflicts(notes []noteRecord) []TitleConflict {
	type group struct {
		title string
		paths []string
	}
	groups := make(map[string]*group)
	var order []string
	for _, n := range notes {
		claimed := make(map[string]bool)
		for _, title := range append([]string{n.name}, n.aliases...) {
			key := foldTitle(title)
			if claimed[key] {
				continue
			}
			claimed[key] = true
			g, ok := groups[key]
			if !ok {
				g = &group{title: title}
				groups[key] = g
				order = append(order, key)
			}
			g.paths = append(g.paths, n.path)
		}
	}

	sort.Strings(order)
	var out []TitleConflict
	for _, key := range order {
		g := groups[key]
		if len(g.paths) < 2 {
			continue
		}
		out = append(out, TitleConflict{Title: g.title, Paths: g.paths})
	}
	return out
}
