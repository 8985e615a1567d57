package core

import (
	"reflect"
	"strings"
	"testing"
)

func TestDeleteNoDB(t *testing.T) {
	vault := writeVault(t, map[string]string{"A.md": "# A\n"})
	_, err := Delete(vault, DeleteOptions{Files: []string{"A.md"}})
	if err == nil || !strings.Contains(err.Error(), "index not found") {
		t.Errorf("expected index not found error, got: %v", err)
	}
}

func TestDeleteRegisteredFile(t *testing.T) {
	vault := copyVault(t, "vault_fruit")
	buildVault(t, vault)

	result, err := Delete(vault, DeleteOptions{Files: []string{"Banana.md"}})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !reflect.DeepEqual(result.Deleted, []string{"Banana.md"}) {
		t.Errorf("Deleted = %v, want [Banana.md]", result.Deleted)
	}
	if _, ok := indexedNotes(t, vault)["Banana.md"]; ok {
		t.Error("Banana.md still indexed")
	}
	// The file on disk is left alone.
	if got := readNote(t, vault, "Banana.md"); !strings.Contains(got, "# Banana") {
		t.Errorf("Banana.md content changed: %q", got)
	}
}

func TestDeleteUnregisteredFile(t *testing.T) {
	vault := copyVault(t, "vault_fruit")
	buildVault(t, vault)
	before := countNotes(t, dbPath(vault))

	_, err := Delete(vault, DeleteOptions{Files: []string{"Apple.md", "templates/Template.md"}})
	if err == nil || !strings.Contains(err.Error(), "file not registered") {
		t.Errorf("expected file not registered error, got: %v", err)
	}
	if after := countNotes(t, dbPath(vault)); after != before {
		t.Errorf("notes changed: %d → %d", before, after)
	}
}

func TestDeleteDuplicateFileArgs(t *testing.T) {
	vault := copyVault(t, "vault_fruit")
	buildVault(t, vault)

	result, err := Delete(vault, DeleteOptions{Files: []string{"Apple.md", "./Apple.md"}})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(result.Deleted) != 1 {
		t.Errorf("Deleted = %v, want one entry", result.Deleted)
	}
	if count := countNotes(t, dbPath(vault)); count != 4 {
		t.Errorf("notes = %d, want 4", count)
	}
}
