package core

import (
	"fmt"
)

// StatsOptions controls which fields to return.
type StatsOptions struct {
	Fields []string // nil/empty = all
}

// StatsResult contains title index statistics.
type StatsResult struct {
	NotesTotal   int
	AliasesTotal int
}

// ValidStatsFields lists the field names accepted by Stats.
var ValidStatsFields = map[string]bool{
	"notes_total":   true,
	"aliases_total": true,
}

func validateStatsFields(fields []string) error {
	for _, f := range fields {
		if !ValidStatsFields[f] {
			return fmt.Errorf("unknown stats field: %s", f)
		}
	}
	return nil
}

// Stats returns aggregate statistics for the indexed vault.
func Stats(vaultPath string, opts StatsOptions) (*StatsResult, error) {
	if err := validateStatsFields(opts.Fields); err != nil {
		return nil, err
	}

	db, err := openIndex(vaultPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	result := &StatsResult{}

	if isFieldActive("notes_total", opts.Fields) {
		if err := db.QueryRow(`SELECT COUNT(*) FROM notes`).Scan(&result.NotesTotal); err != nil {
			return nil, err
		}
	}

	if isFieldActive("aliases_total", opts.Fields) {
		if err := db.QueryRow(`SELECT COUNT(*) FROM aliases`).Scan(&result.AliasesTotal); err != nil {
			return nil, err
		}
	}

	return result, nil
}
