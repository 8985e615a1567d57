package core

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// UpdateOptions controls which files to re-parse and update in the index.
type UpdateOptions struct {
	Files []string // vault-relative paths
}

// UpdateResult reports the outcome for each processed file.
type UpdateResult struct {
	Added   []string // on disk, not previously indexed
	Updated []string // re-parsed title and aliases
	Deleted []string // indexed, but gone from disk or now build-excluded
}

// Update re-parses the specified files and updates the existing index DB in-place.
// Unregistered files on disk are added; registered files missing on disk are removed.
func Update(vaultPath string, opts UpdateOptions) (*UpdateResult, error) {
	cfg, err := LoadConfig(vaultPath)
	if err != nil {
		return nil, err
	}
	db, err := openIndex(vaultPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	type plannedFile struct {
		path       string
		id         int64 // 0 if not registered
		onDisk     bool
		rec        noteRecord
		mtime      int64
		registered bool
	}

	// Pre-mutation: classify and read every file before opening the transaction.
	var planned []plannedFile
	for _, np := range dedupePaths(opts.Files) {
		pf := plannedFile{path: np}
		id, err := noteID(db, np)
		switch {
		case err == nil:
			pf.id, pf.registered = id, true
		case errors.Is(err, sql.ErrNoRows):
		default:
			return nil, err
		}

		_, statErr := os.Stat(filepath.Join(vaultPath, np))
		switch {
		case statErr == nil:
			pf.onDisk = !isBuildExcluded(np, cfg.Build.ExcludePaths)
		case os.IsNotExist(statErr):
		default:
			return nil, statErr
		}

		if pf.onDisk {
			if !isMarkdownFile(np) {
				return nil, fmt.Errorf("not a markdown file: %s", np)
			}
			pf.rec, pf.mtime, err = readNoteRecord(vaultPath, np)
			if err != nil {
				return nil, err
			}
		} else if !pf.registered {
			return nil, fmt.Errorf("file not found: %s", np)
		}
		planned = append(planned, pf)
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result := &UpdateResult{}
	for _, pf := range planned {
		if !pf.onDisk {
			if err := deleteNote(tx, pf.id); err != nil {
				return nil, err
			}
			result.Deleted = append(result.Deleted, pf.path)
			continue
		}
		if _, err := upsertNote(tx, pf.rec, pf.mtime); err != nil {
			return nil, err
		}
		if pf.registered {
			result.Updated = append(result.Updated, pf.path)
		} else {
			result.Added = append(result.Added, pf.path)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}
