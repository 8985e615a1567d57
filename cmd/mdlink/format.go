package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ryotapoi/mdlink/internal/core"
)

// parseFields splits a comma-separated field string into a slice.
// Returns nil for empty input.
func parseFields(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// validateFormat checks that format is "json" or "text".
func validateFormat(format string) error {
	if format != "json" && format != "text" {
		return fmt.Errorf("invalid format: %q (must be json or text)", format)
	}
	return nil
}

// validateFields checks that all fields are in the valid set.
// name is used in the error message (e.g. "stats", "diagnose").
func validateFields(fields []string, valid map[string]bool, name string) error {
	for _, f := range fields {
		if !valid[f] {
			return fmt.Errorf("unknown %s field: %s", name, f)
		}
	}
	return nil
}

// fieldSet returns a set of fields to show. If fields is nil/empty, all valid fields are shown.
func fieldSet(fields []string, valid map[string]bool) map[string]bool {
	if len(fields) == 0 {
		all := make(map[string]bool)
		for k := range valid {
			all[k] = true
		}
		return all
	}
	m := make(map[string]bool, len(fields))
	for _, f := range fields {
		m[f] = true
	}
	return m
}

func encodeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// --- Scan output ---

type jsonDecoration struct {
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Text   string `json:"text"`
	Target string `json:"target"`
}

type scanJSONOutput struct {
	File          string           `json:"file"`
	Decorations   []jsonDecoration `json:"decorations"`
	InvalidTitles []string         `json:"invalid_titles,omitempty"`
	Ambiguities   int              `json:"ambiguities,omitempty"`
}

func printScanJSON(w io.Writer, r *core.ScanResult, indent bool) error {
	out := scanJSONOutput{
		File:          r.File,
		Decorations:   make([]jsonDecoration, len(r.Decorations)),
		InvalidTitles: r.InvalidTitles,
		Ambiguities:   r.Ambiguities,
	}
	for i, d := range r.Decorations {
		out.Decorations[i] = jsonDecoration(d)
	}
	return encodeJSON(w, out, indent)
}

// printScanText writes one "file:line:col text -> target" line per decoration.
func printScanText(w io.Writer, r *core.ScanResult) error {
	for _, d := range r.Decorations {
		fmt.Fprintf(w, "%s:%s\n", r.File, d)
	}
	for _, title := range r.InvalidTitles {
		fmt.Fprintf(w, "skipped title: %q\n", title)
	}
	return nil
}

// --- Link output ---

type jsonLineEdit struct {
	Line   int    `json:"line"`
	Before string `json:"before"`
	After  string `json:"after"`
	Links  int    `json:"links"`
}

type jsonFileEdit struct {
	File  string         `json:"file"`
	Edits []jsonLineEdit `json:"edits"`
}

type linkJSONOutput struct {
	DryRun bool           `json:"dry_run"`
	Links  int            `json:"links"`
	Files  []jsonFileEdit `json:"files"`
}

func printLinkJSON(w io.Writer, r *core.LinkResult, dryRun bool) error {
	out := linkJSONOutput{
		DryRun: dryRun,
		Links:  r.Links,
		Files:  make([]jsonFileEdit, len(r.Rewritten)),
	}
	for i, fe := range r.Rewritten {
		edits := make([]jsonLineEdit, len(fe.Edits))
		for j, e := range fe.Edits {
			edits[j] = jsonLineEdit{Line: e.Line, Before: e.Before, After: e.After, Links: len(e.Matches)}
		}
		out.Files[i] = jsonFileEdit{File: fe.File, Edits: edits}
	}
	return encodeJSON(w, out, true)
}

// printLinkText writes a diff-like listing of rewritten lines and a summary.
func printLinkText(w io.Writer, r *core.LinkResult, dryRun bool) error {
	for _, fe := range r.Rewritten {
		for _, e := range fe.Edits {
			fmt.Fprintf(w, "%s:%d\n", fe.File, e.Line)
			fmt.Fprintf(w, "- %s\n", e.Before)
			fmt.Fprintf(w, "+ %s\n", e.After)
		}
	}
	verb := "linked"
	if dryRun {
		verb = "would link"
	}
	fmt.Fprintf(w, "%s %d spans in %d files\n", verb, r.Links, len(r.Rewritten))
	return nil
}

// --- Stats output ---

func printStatsJSON(w io.Writer, r *core.StatsResult, fields []string) error {
	show := fieldSet(fields, core.ValidStatsFields)
	m := make(map[string]int)
	if show["notes_total"] {
		m["notes_total"] = r.NotesTotal
	}
	if show["aliases_total"] {
		m["aliases_total"] = r.AliasesTotal
	}
	return encodeJSON(w, m, true)
}

func printStatsText(w io.Writer, r *core.StatsResult, fields []string) error {
	show := fieldSet(fields, core.ValidStatsFields)
	if show["notes_total"] {
		fmt.Fprintf(w, "notes_total: %d\n", r.NotesTotal)
	}
	if show["aliases_total"] {
		fmt.Fprintf(w, "aliases_total: %d\n", r.AliasesTotal)
	}
	return nil
}

// --- Diagnose output ---

type diagnoseJSONConflict struct {
	Title string   `json:"title"`
	Paths []string `json:"paths"`
}

type diagnoseJSONInvalid struct {
	Path  string `json:"path"`
	Title string `json:"title"`
	Error string `json:"error"`
}

func printDiagnoseJSON(w io.Writer, r *core.DiagnoseResult, fields []string) error {
	show := fieldSet(fields, core.ValidDiagnoseFields)
	m := make(map[string]any)
	if show["title_conflicts"] {
		conflicts := make([]diagnoseJSONConflict, len(r.TitleConflicts))
		for i, c := range r.TitleConflicts {
			conflicts[i] = diagnoseJSONConflict(c)
		}
		m["title_conflicts"] = conflicts
	}
	if show["invalid_titles"] {
		invalid := make([]diagnoseJSONInvalid, len(r.InvalidTitles))
		for i, it := range r.InvalidTitles {
			invalid[i] = diagnoseJSONInvalid(it)
		}
		m["invalid_titles"] = invalid
	}
	return encodeJSON(w, m, true)
}

func printDiagnoseText(w io.Writer, r *core.DiagnoseResult, fields []string) error {
	show := fieldSet(fields, core.ValidDiagnoseFields)
	if show["title_conflicts"] {
		fmt.Fprintln(w, "title_conflicts:")
		for _, c := range r.TitleConflicts {
			fmt.Fprintf(w, "- title: %s\n", c.Title)
			fmt.Fprintln(w, "  paths:")
			for _, p := range c.Paths {
				fmt.Fprintf(w, "  - %s\n", p)
			}
		}
	}
	if show["invalid_titles"] {
		fmt.Fprintln(w, "invalid_titles:")
		for _, it := range r.InvalidTitles {
			fmt.Fprintf(w, "- path: %s\n", it.Path)
			fmt.Fprintf(w, "  title: %q\n", it.Title)
			fmt.Fprintf(w, "  error: %s\n", it.Error)
		}
	}
	return nil
}
