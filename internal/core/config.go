package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	configFileName = "mdlink.yaml"

	// DefaultBlacklistKey is the frontmatter key read when none is configured.
	DefaultBlacklistKey = "parents"
)

// Config represents the mdlink.yaml configuration file.
type Config struct {
	// BlacklistKeys is a semicolon-separated list of frontmatter keys whose
	// values name notes that must not be autolinked from the declaring note.
	BlacklistKeys string      `yaml:"blacklist_keys"`
	Build         BuildConfig `yaml:"build"`
}

// BuildConfig holds build-time settings.
type BuildConfig struct {
	ExcludePaths []string `yaml:"exclude_paths"`
}

// LoadConfig reads mdlink.yaml from the vault root.
// Returns zero Config and nil error if the file does not exist.
func LoadConfig(vaultPath string) (Config, error) {
	p := filepath.Join(vaultPath, configFileName)
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", configFileName, err)
	}
	if err := validateGlobPatterns(cfg.Build.ExcludePaths); err != nil {
		return Config{}, fmt.Errorf("%s: %w", configFileName, err)
	}
	return cfg, nil
}

// Blacklist returns the configured blacklist keys, trimmed and without
// empty entries. Falls back to DefaultBlacklistKey.
func (c Config) Blacklist() []string {
	var keys []string
	for _, k := range strings.Split(c.BlacklistKeys, ";") {
		k = strings.TrimSpace(k)
		if k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return []string{DefaultBlacklistKey}
	}
	return keys
}

// validateGlobPatterns checks that none of the patterns use unsupported character classes.
func validateGlobPatterns(patterns []string) error {
	for _, p := range patterns {
		if strings.Contains(p, "[") {
			return fmt.Errorf("unsupported glob pattern (character class): %s", p)
		}
	}
	return nil
}

// filterBuildExcludes removes files matching any of the given glob patterns.
func filterBuildExcludes(files []string, patterns []string) []string {
	if len(patterns) == 0 {
		return files
	}
	result := make([]string, 0, len(files))
	for _, f := range files {
		if !isBuildExcluded(f, patterns) {
			result = append(result, f)
		}
	}
	return result
}

func isBuildExcluded(path string, patterns []string) bool {
	for _, p := range patterns {
		if globMatch(p, path) {
			return true
		}
	}
	return false
}

// globMatch implements SQLite GLOB semantics in Go.
// '*' matches any sequence of characters (including '/').
// '?' matches exactly one character.
// '[' is treated as a literal character (character classes not supported).
func globMatch(pattern, s string) bool {
	return globMatchImpl([]rune(pattern), []rune(s))
}

func globMatchImpl(pattern, s []rune) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			for len(pattern) > 0 && pattern[0] == '*' {
				pattern = pattern[1:]
			}
			if len(pattern) == 0 {
				return true
			}
			for i := 0; i <= len(s); i++ {
				if globMatchImpl(pattern, s[i:]) {
					return true
				}
			}
			return false
		case '?':
			if len(s) == 0 {
				return false
			}
			pattern = pattern[1:]
			s = s[1:]
		default:
			if len(s) == 0 || pattern[0] != s[0] {
				return false
			}
			pattern = pattern[1:]
			s = s[1:]
		}
	}
	return len(s) == 0
}
