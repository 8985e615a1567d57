package core

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	dataDirName = ".mdlink"
	dbFileName  = "index.sqlite"
)

var errIndexNotFound = errors.New("index not found: run 'mdlink build' first")

// dbExecer is satisfied by both *sql.DB and *sql.Tx.
type dbExecer interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

func dbPath(vaultPath string) string {
	return filepath.Join(vaultPath, dataDirName, dbFileName)
}

func ensureDataDir(vaultPath string) (string, error) {
	dir := filepath.Join(vaultPath, dataDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func openDBAt(path string) (*sql.DB, error) {
	return sql.Open("sqlite", fmt.Sprintf("file:%s", path))
}

// indexExists reports whether the vault has a built index.
func indexExists(vaultPath string) bool {
	_, err := os.Stat(dbPath(vaultPath))
	return err == nil
}

// openIndex opens the existing index DB of a vault.
func openIndex(vaultPath string) (*sql.DB, error) {
	if !indexExists(vaultPath) {
		return nil, errIndexNotFound
	}
	return openDBAt(dbPath(vaultPath))
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS notes (
			id    INTEGER PRIMARY KEY,
			path  TEXT NOT NULL UNIQUE,
			name  TEXT NOT NULL,
			mtime INTEGER
		);`,
		`CREATE INDEX IF NOT EXISTS idx_notes_name ON notes(name);`,
		`CREATE TABLE IF NOT EXISTS aliases (
			note_id  INTEGER NOT NULL,
			alias    TEXT NOT NULL,
			position INTEGER NOT NULL,
			FOREIGN KEY(note_id) REFERENCES notes(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_aliases_note ON aliases(note_id);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// upsertNote inserts or refreshes a note row and replaces its aliases.
func upsertNote(db dbExecer, rec noteRecord, mtime int64) (int64, error) {
	_, err := db.Exec(
		`INSERT INTO notes (path, name, mtime)
		 VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
		   name=excluded.name,
		   mtime=excluded.mtime`,
		rec.path, rec.name, mtime,
	)
	if err != nil {
		return 0, err
	}
	// LastInsertId is stale after the conflict branch, so look the row up.
	id, err := noteID(db, rec.path)
	if err != nil {
		return 0, err
	}
	if _, err := db.Exec("DELETE FROM aliases WHERE note_id = ?", id); err != nil {
		return 0, err
	}
	for i, a := range rec.aliases {
		if _, err := db.Exec("INSERT INTO aliases (note_id, alias, position) VALUES (?, ?, ?)", id, a, i); err != nil {
			return 0, err
		}
	}
	return id, nil
}

func noteID(db dbExecer, path string) (int64, error) {
	var id int64
	if err := db.QueryRow("SELECT id FROM notes WHERE path = ?", path).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func deleteNote(db dbExecer, id int64) error {
	if _, err := db.Exec("DELETE FROM aliases WHERE note_id = ?", id); err != nil {
		return err
	}
	_, err := db.Exec("DELETE FROM notes WHERE id = ?", id)
	return err
}

// loadIndexedNotes reads every note and its ordered aliases, sorted by path.
func loadIndexedNotes(db dbExecer) ([]noteRecord, error) {
	rows, err := db.Query(`
		SELECT n.id, n.path, n.name, COALESCE(a.alias, '')
		FROM notes n
		LEFT JOIN aliases a ON a.note_id = n.id
		ORDER BY n.path, a.position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []noteRecord
	lastID := int64(-1)
	for rows.Next() {
		var id int64
		var path, name, alias string
		if err := rows.Scan(&id, &path, &name, &alias); err != nil {
			return nil, err
		}
		if id != lastID {
			out = append(out, noteRecord{path: path, name: name})
			lastID = id
		}
		if alias != "" {
			last := &out[len(out)-1]
			last.aliases = append(last.aliases, alias)
		}
	}
	return out, rows.Err()
}

// indexedMtimes returns path → mtime for every indexed note.
func indexedMtimes(db dbExecer) (map[string]int64, error) {
	rows, err := db.Query(`SELECT path, COALESCE(mtime, 0) FROM notes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var path string
		var mtime int64
		if err := rows.Scan(&path, &mtime); err != nil {
			return nil, err
		}
		out[path] = mtime
	}
	return out, rows.Err()
}
