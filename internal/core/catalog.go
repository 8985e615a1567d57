package core

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/ryotapoi/mdlink/internal/autolink"
)

// normalizeTitle converts a title to NFC. macOS file systems hand out NFD names.
func normalizeTitle(s string) string {
	return norm.NFC.String(s)
}

// foldTitle returns the case-insensitive comparison key of a title.
func foldTitle(s string) string {
	// A Caser is stateful and must not be shared between goroutines.
	return cases.Fold().String(normalizeTitle(s))
}

// LoadCatalog returns the title catalog as seen from the note at active
// (vault-relative). Notes come from the index when one exists, otherwise from
// a walk of the vault. The active note is marked IsSelf, and notes named in
// its blacklist frontmatter are marked ExcludedHere.
func LoadCatalog(vaultPath, active string, cfg Config) (*autolink.Catalog, error) {
	notes, err := loadNotes(vaultPath, cfg)
	if err != nil {
		return nil, err
	}
	active = NormalizePath(active)
	content, err := os.ReadFile(filepath.Join(vaultPath, active))
	if err != nil {
		return nil, err
	}
	meta := parseNoteMeta(string(content), cfg.Blacklist())
	return catalogFor(notes, active, meta.blacklist), nil
}

// loadNotes reads the note set from the index, falling back to the vault
// when there is no index or the index no longer matches the files on disk.
func loadNotes(vaultPath string, cfg Config) ([]noteRecord, error) {
	if !indexExists(vaultPath) {
		return scanVaultNotes(vaultPath, cfg)
	}
	db, err := openIndex(vaultPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	current, err := indexIsCurrent(db, vaultPath, cfg)
	if err != nil {
		return nil, err
	}
	if !current {
		slog.Warn("index is out of date, reading notes from the vault; run 'mdlink update' or 'mdlink build'",
			slog.String("vault", vaultPath))
		return scanVaultNotes(vaultPath, cfg)
	}
	return loadIndexedNotes(db)
}

// indexIsCurrent reports whether the indexed paths and mtimes (seconds) are
// exactly those of the notes on disk.
func indexIsCurrent(db dbExecer, vaultPath string, cfg Config) (bool, error) {
	indexed, err := indexedMtimes(db)
	if err != nil {
		return false, err
	}
	files, err := collectMarkdownFiles(vaultPath)
	if err != nil {
		return false, err
	}
	files = filterBuildExcludes(files, cfg.Build.ExcludePaths)
	if len(files) != len(indexed) {
		return false, nil
	}
	for _, rel := range files {
		mtime, ok := indexed[rel]
		if !ok {
			return false, nil
		}
		info, err := os.Stat(filepath.Join(vaultPath, rel))
		if err != nil {
			return false, err
		}
		if info.ModTime().Unix() != mtime {
			return false, nil
		}
	}
	return true, nil
}

// catalogFor builds the catalog for one document. Entries are ordered by path
// so that equal-length ties resolve the same way on every run.
func catalogFor(notes []noteRecord, active string, blacklist []string) *autolink.Catalog {
	excluded := make(map[string]bool, len(blacklist))
	for _, b := range blacklist {
		excluded[foldTitle(b)] = true
	}

	sorted := make([]noteRecord, len(notes))
	copy(sorted, notes)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].path < sorted[j].path })

	cat := &autolink.Catalog{Entries: make([]autolink.Entry, 0, len(sorted))}
	for _, n := range sorted {
		cat.Entries = append(cat.Entries, autolink.Entry{
			Name:         n.name,
			Aliases:      n.aliases,
			IsSelf:       n.path == active,
			ExcludedHere: excluded[foldTitle(n.name)],
			Path:         n.path,
		})
	}
	return cat
}
