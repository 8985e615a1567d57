package core

import (
	"database/sql"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ryotapoi/mdlink/internal/testutil"
)

// --- Test helpers ---

func copyVault(t *testing.T, name string) string {
	t.Helper()
	root := filepath.Join("..", "..", "testdata", name)
	dst := filepath.Join(t.TempDir(), "vault")
	if err := testutil.CopyDir(root, dst); err != nil {
		t.Fatalf("copy vault: %v", err)
	}
	return dst
}

// writeVault creates a vault in a temp dir from path → content pairs.
func writeVault(t *testing.T, files map[string]string) string {
	t.Helper()
	vault := t.TempDir()
	for rel, content := range files {
		writeNote(t, vault, rel, content)
	}
	return vault
}

func writeNote(t *testing.T, vault, rel, content string) {
	t.Helper()
	full := filepath.Join(vault, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func readNote(t *testing.T, vault, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(vault, rel))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

func buildVault(t *testing.T, vault string) {
	t.Helper()
	if err := Build(vault); err != nil {
		t.Fatalf("build: %v", err)
	}
}

func openTestDB(t *testing.T, dbp string) *sql.DB {
	t.Helper()
	db, err := openDBAt(dbp)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return db
}

func countNotes(t *testing.T, dbp string) int {
	t.Helper()
	db := openTestDB(t, dbp)
	defer db.Close()
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&count); err != nil {
		t.Fatalf("scan count: %v", err)
	}
	return count
}

// indexedNotes returns path → note record as stored in the index.
func indexedNotes(t *testing.T, vault string) map[string]noteRecord {
	t.Helper()
	db := openTestDB(t, dbPath(vault))
	defer db.Close()
	notes, err := loadIndexedNotes(db)
	if err != nil {
		t.Fatalf("load notes: %v", err)
	}
	out := make(map[string]noteRecord, len(notes))
	for _, n := range notes {
		out[n.path] = n
	}
	return out
}

// --- Build ---

func TestBuildCreatesDB(t *testing.T) {
	vault := copyVault(t, "vault_fruit")
	buildVault(t, vault)
	if _, err := os.Stat(dbPath(vault)); err != nil {
		t.Fatalf("db not created: %v", err)
	}
	if _, err := os.Stat(dbPath(vault) + ".tmp"); err == nil {
		t.Fatalf("temp db should be renamed away")
	}
}

func TestBuildFruitVault(t *testing.T) {
	vault := copyVault(t, "vault_fruit")
	buildVault(t, vault)

	notes := indexedNotes(t, vault)
	var paths []string
	for p := range notes {
		paths = append(paths, p)
	}
	// templates/* is excluded by mdlink.yaml.
	if len(notes) != 5 {
		t.Fatalf("notes = %v, want 5", paths)
	}
	if _, ok := notes["templates/Template.md"]; ok {
		t.Error("build-excluded template indexed")
	}
	if got := notes["Apple.md"]; got.name != "Apple" || !reflect.DeepEqual(got.aliases, []string{"Malus"}) {
		t.Errorf("Apple.md = %+v", got)
	}
	if got := notes["sub/Cinnamon.md"]; got.name != "Cinnamon" || len(got.aliases) != 0 {
		t.Errorf("sub/Cinnamon.md = %+v", got)
	}
}

func TestBuildEmptyVaultCreatesDB(t *testing.T) {
	vault := t.TempDir()
	buildVault(t, vault)
	if count := countNotes(t, dbPath(vault)); count != 0 {
		t.Fatalf("expected 0 notes, got %d", count)
	}
}

func TestBuildRebuildOverwritesDB(t *testing.T) {
	vault := writeVault(t, map[string]string{"A.md": "# A\n", "B.md": "# B\n"})
	buildVault(t, vault)
	if err := os.Remove(filepath.Join(vault, "B.md")); err != nil {
		t.Fatal(err)
	}
	writeNote(t, vault, "C.md", "# C\n")
	buildVault(t, vault)

	notes := indexedNotes(t, vault)
	if _, ok := notes["B.md"]; ok {
		t.Error("removed note still indexed after rebuild")
	}
	if _, ok := notes["C.md"]; !ok {
		t.Error("new note missing after rebuild")
	}
}

func TestBuildSkipsHiddenDirs(t *testing.T) {
	vault := writeVault(t, map[string]string{
		"A.md":              "# A\n",
		".obsidian/X.md":    "x\n",
		".mdlink/stray.md":  "x\n",
		"notes/.trash/Y.md": "y\n",
	})
	buildVault(t, vault)
	notes := indexedNotes(t, vault)
	if len(notes) != 1 {
		t.Errorf("notes = %v, want only A.md", notes)
	}
}

func TestBuildNormalizesTitlesToNFC(t *testing.T) {
	vault := writeVault(t, map[string]string{
		"Cafe\u0301.md": "---\naliases: [Cre\u0300me]\n---\n",
	})
	buildVault(t, vault)
	for _, n := range indexedNotes(t, vault) {
		if n.name != "Caf\u00e9" {
			t.Errorf("name = %q, want NFC Café", n.name)
		}
		if !reflect.DeepEqual(n.aliases, []string{"Cr\u00e8me"}) {
			t.Errorf("aliases = %q, want NFC Crème", n.aliases)
		}
	}
}

func TestBuildInvalidConfig(t *testing.T) {
	vault := writeVault(t, map[string]string{
		"A.md":        "# A\n",
		"mdlink.yaml": "build:\n  exclude_paths: [\"[x]/*\"]\n",
	})
	if err := Build(vault); err == nil {
		t.Fatal("expected config error")
	}
	if _, err := os.Stat(dbPath(vault)); err == nil {
		t.Fatal("db should not be created on failure")
	}
}

func TestCollectMarkdownFiles(t *testing.T) {
	vault := writeVault(t, map[string]string{
		"b.md":       "",
		"A.MD":       "",
		"sub/c.md":   "",
		"image.png":  "",
		".git/HEAD":  "",
		"sub/d.txt":  "",
		"sub/e/f.md": "",
	})
	got, err := collectMarkdownFiles(vault)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"A.MD", "b.md", "sub/c.md", "sub/e/f.md"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("files = %v, want %v", got, want)
	}
}
