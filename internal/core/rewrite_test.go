package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRestoreBackupsPreservesPermission(t *testing.T) {
	dir := t.TempDir()
	filePath := "test.md"
	fullPath := filepath.Join(dir, filePath)

	// Create file with 0o600.
	if err := os.WriteFile(fullPath, []byte("modified\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	backups := []rewriteBackup{
		{path: filePath, content: []byte("original\n"), perm: 0o600},
	}

	restoreBackups(dir, backups)

	content, err := os.ReadFile(fullPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "original\n" {
		t.Errorf("content = %q, want %q", string(content), "original\n")
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want %o", perm, 0o600)
	}
}

func TestApplyFileRewritesPreservesPermission(t *testing.T) {
	vault := t.TempDir()

	filePath := "source.md"
	fullPath := filepath.Join(vault, filePath)
	if err := os.WriteFile(fullPath, []byte("banana\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// Ensure permission is exactly 0o600 (not masked by umask).
	if err := os.Chmod(fullPath, 0o600); err != nil {
		t.Fatal(err)
	}

	backups, err := applyFileRewrites(vault, map[string]string{filePath: "[[Banana|banana]]\n"})
	if err != nil {
		t.Fatalf("applyFileRewrites: %v", err)
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "[[Banana|banana]]\n" {
		t.Errorf("content = %q, want %q", string(content), "[[Banana|banana]]\n")
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want %o", perm, 0o600)
	}

	if len(backups) != 1 {
		t.Fatalf("len(backups) = %d, want 1", len(backups))
	}
	if string(backups[0].content) != "banana\n" || backups[0].perm != 0o600 {
		t.Errorf("backup = %+v", backups[0])
	}
}

func TestApplyFileRewritesMissingFileWritesNothing(t *testing.T) {
	vault := t.TempDir()
	fullPath := filepath.Join(vault, "A.md")
	if err := os.WriteFile(fullPath, []byte("a\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := applyFileRewrites(vault, map[string]string{
		"A.md":       "changed\n",
		"missing.md": "x\n",
	})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	content, err := os.ReadFile(fullPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "a\n" {
		t.Errorf("A.md = %q, want untouched", string(content))
	}
}
