package core

import (
	"database/sql"
	"errors"
	"fmt"
)

// DeleteOptions controls which files to remove from the index.
type DeleteOptions struct {
	Files []string // vault-relative paths
}

// DeleteResult reports which notes were removed from the index.
type DeleteResult struct {
	Deleted []string
}

// Delete removes the specified files from the index DB.
// Files on disk are left untouched.
func Delete(vaultPath string, opts DeleteOptions) (*DeleteResult, error) {
	db, err := openIndex(vaultPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	type nodeInfo struct {
		id   int64
		path string
	}
	var nodes []nodeInfo
	for _, np := range dedupePaths(opts.Files) {
		id, err := noteID(db, np)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("file not registered: %s", np)
		}
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, nodeInfo{id: id, path: np})
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result := &DeleteResult{}
	for _, n := range nodes {
		if err := deleteNote(tx, n.id); err != nil {
			return nil, err
		}
		result.Deleted = append(result.Deleted, n.path)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}
