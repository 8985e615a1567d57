package core

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ryotapoi/mdlink/internal/autolink"
)

// LinkOptions controls which files to rewrite.
type LinkOptions struct {
	Files  []string // vault-relative paths; empty means every note
	DryRun bool     // compute edits without writing
}

// FileEdit lists the rewritten lines of one file.
type FileEdit struct {
	File  string
	Edits []autolink.LineEdit
}

// LinkResult reports the files that were (or, on dry run, would be) rewritten.
type LinkResult struct {
	Rewritten []FileEdit
	Links     int
}

// Link inserts [[Target|text]] wikilinks for every autolink match in the
// selected notes. Frontmatter and fenced code blocks are never modified.
// Files are written only after every rewrite has been computed, and already
// written files are restored if a later write fails.
func Link(vaultPath string, opts LinkOptions) (*LinkResult, error) {
	cfg, err := LoadConfig(vaultPath)
	if err != nil {
		return nil, err
	}
	notes, err := loadNotes(vaultPath, cfg)
	if err != nil {
		return nil, err
	}

	files := dedupePaths(opts.Files)
	if len(files) == 0 {
		all, err := collectMarkdownFiles(vaultPath)
		if err != nil {
			return nil, err
		}
		files = filterBuildExcludes(all, cfg.Build.ExcludePaths)
	}

	e := autolink.NewEngine(autolink.Options{Logger: slog.Default()})
	result := &LinkResult{}
	contents := make(map[string]string)
	for _, f := range files {
		if !isMarkdownFile(f) {
			return nil, fmt.Errorf("not a markdown file: %s", f)
		}
		data, err := os.ReadFile(filepath.Join(vaultPath, f))
		if err != nil {
			return nil, err
		}
		content := string(data)
		meta := parseNoteMeta(content, cfg.Blacklist())
		out, edits, err := e.Rewrite(content, catalogFor(notes, f, meta.blacklist))
		if err != nil {
			return nil, err
		}
		if len(edits) == 0 {
			continue
		}
		contents[f] = out
		result.Rewritten = append(result.Rewritten, FileEdit{File: f, Edits: edits})
		for _, ed := range edits {
			result.Links += len(ed.Matches)
		}
	}

	if opts.DryRun || len(contents) == 0 {
		return result, nil
	}

	backups, err := applyFileRewrites(vaultPath, contents)
	if err != nil {
		return nil, err
	}
	if indexExists(vaultPath) {
		changed := make([]string, 0, len(result.Rewritten))
		for _, fe := range result.Rewritten {
			changed = append(changed, fe.File)
		}
		if _, err := Update(vaultPath, UpdateOptions{Files: changed}); err != nil {
			restoreBackups(vaultPath, backups)
			return nil, fmt.Errorf("refresh index: %w", err)
		}
	}

	slog.Info("linked notes",
		slog.Int("files", len(result.Rewritten)),
		slog.Int("links", result.Links),
	)
	return result, nil
}
