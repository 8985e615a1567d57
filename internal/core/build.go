package core

import (
	"os"
	"path/filepath"
	"strings"
)

// noteRecord is one note as known to the title index.
type noteRecord struct {
	path    string // vault-relative, forward slashes
	name    string // basename without .md, NFC
	aliases []string
}

// Build parses the vault and creates the index DB.
func Build(vaultPath string) error {
	cfg, err := LoadConfig(vaultPath)
	if err != nil {
		return err
	}
	if _, err := ensureDataDir(vaultPath); err != nil {
		return err
	}

	files, err := collectMarkdownFiles(vaultPath)
	if err != nil {
		return err
	}
	files = filterBuildExcludes(files, cfg.Build.ExcludePaths)

	tmpPath := dbPath(vaultPath) + ".tmp"
	_ = os.Remove(tmpPath)
	defer os.Remove(tmpPath)

	db, err := openDBAt(tmpPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := initSchema(db); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, rel := range files {
		rec, mtime, err := readNoteRecord(vaultPath, rel)
		if err != nil {
			return err
		}
		if _, err := upsertNote(tx, rec, mtime); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	if err := db.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, dbPath(vaultPath))
}

// readNoteRecord reads a note's title and aliases from disk along with its mtime.
func readNoteRecord(vaultPath, rel string) (noteRecord, int64, error) {
	full := filepath.Join(vaultPath, rel)
	info, err := os.Stat(full)
	if err != nil {
		return noteRecord{}, 0, err
	}
	content, err := os.ReadFile(full)
	if err != nil {
		return noteRecord{}, 0, err
	}
	meta := parseNoteMeta(string(content), nil)
	rec := noteRecord{path: rel, name: normalizeTitle(basename(rel))}
	for _, a := range meta.aliases {
		rec.aliases = appendUnique(rec.aliases, normalizeTitle(a))
	}
	return rec, info.ModTime().Unix(), nil
}

// scanVaultNotes reads every note of the vault directly from disk.
func scanVaultNotes(vaultPath string, cfg Config) ([]noteRecord, error) {
	files, err := collectMarkdownFiles(vaultPath)
	if err != nil {
		return nil, err
	}
	files = filterBuildExcludes(files, cfg.Build.ExcludePaths)
	out := make([]noteRecord, 0, len(files))
	for _, rel := range files {
		rec, _, err := readNoteRecord(vaultPath, rel)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// collectMarkdownFiles returns every .md file of the vault in lexical order.
// Hidden directories (.mdlink, .obsidian, .git, ...) are skipped.
func collectMarkdownFiles(vaultPath string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(vaultPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != vaultPath && isHiddenDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if isMarkdownFile(d.Name()) {
			rel, err := filepath.Rel(vaultPath, path)
			if err != nil {
				return err
			}
			files = append(files, NormalizePath(rel))
		}
		return nil
	})
	return files, err
}

func isHiddenDir(name string) bool {
	return strings.HasPrefix(name, ".")
}

func isMarkdownFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".md")
}
