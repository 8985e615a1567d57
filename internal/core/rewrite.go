package core

import (
	"os"
	"path/filepath"
	"sort"
)

// rewriteBackup holds original file content for rollback on failure.
type rewriteBackup struct {
	path    string
	content []byte
	perm    os.FileMode
}

// writeFilePreservePerm writes data to path with the given permission bits.
// os.WriteFile applies umask on file creation, so os.Chmod is called to
// ensure the exact permission bits are set.
func writeFilePreservePerm(path string, data []byte, perm os.FileMode) error {
	if err := os.WriteFile(path, data, perm); err != nil {
		return err
	}
	return os.Chmod(path, perm)
}

// restoreBackups restores files to their original content (best-effort).
func restoreBackups(vaultPath string, backups []rewriteBackup) {
	for _, fb := range backups {
		_ = writeFilePreservePerm(filepath.Join(vaultPath, fb.path), fb.content, fb.perm)
	}
}

// applyFileRewrites replaces the content of each vault-relative path.
// All originals are read before any write. On a write error the files
// already written are restored (best-effort) and the error is returned.
func applyFileRewrites(vaultPath string, contents map[string]string) ([]rewriteBackup, error) {
	paths := make([]string, 0, len(contents))
	for p := range contents {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	// Phase 1: read all originals before any writes.
	originals := make([]rewriteBackup, 0, len(paths))
	for _, p := range paths {
		fullPath := filepath.Join(vaultPath, p)
		info, err := os.Stat(fullPath)
		if err != nil {
			return nil, err
		}
		content, err := os.ReadFile(fullPath)
		if err != nil {
			return nil, err
		}
		originals = append(originals, rewriteBackup{path: p, content: content, perm: info.Mode().Perm()})
	}

	// Phase 2: write new content.
	var written []rewriteBackup
	for _, orig := range originals {
		fullPath := filepath.Join(vaultPath, orig.path)
		if err := writeFilePreservePerm(fullPath, []byte(contents[orig.path]), orig.perm); err != nil {
			restoreBackups(vaultPath, written)
			return nil, err
		}
		written = append(written, orig)
	}
	return written, nil
}
