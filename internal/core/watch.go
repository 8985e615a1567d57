package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ryotapoi/mdlink/internal/autolink"
)

// DefaultWatchDebounce is the quiet period after the last file event before
// a rescan. Editors often write a file several times per save.
const DefaultWatchDebounce = 100 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	File     string        // vault-relative path of the note to decorate
	Debounce time.Duration // zero means DefaultWatchDebounce
	OnScan   func(*ScanResult, error)
}

// Watch scans File once, then again after every debounced change in the
// vault until ctx is cancelled. Note changes invalidate the catalog and, when
// an index exists, refresh it. Changes to mdlink.yaml reload the config.
func Watch(ctx context.Context, vaultPath string, opts WatchOptions) error {
	if opts.File == "" {
		return fmt.Errorf("file is required")
	}
	if opts.OnScan == nil {
		return fmt.Errorf("OnScan is required")
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	absVault, err := filepath.Abs(vaultPath)
	if err != nil {
		return err
	}
	cfg, err := LoadConfig(absVault)
	if err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()
	if err := addWatchDirs(fw, absVault); err != nil {
		return err
	}

	file := NormalizePath(opts.File)
	e := autolink.NewEngine(autolink.Options{Logger: slog.Default()})
	var notes []noteRecord // nil means the catalog must be reloaded

	rescan := func() {
		if notes == nil {
			loaded, err := loadNotes(absVault, cfg)
			if err != nil {
				opts.OnScan(nil, err)
				return
			}
			notes = loaded
		}
		opts.OnScan(scanNote(e, absVault, file, notes, cfg))
	}
	rescan()

	var timer *time.Timer
	var fire <-chan time.Time
	pending := make(map[string]bool)
	configChanged := false

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !isHiddenDir(info.Name()) {
					if err := addWatchDirs(fw, event.Name); err != nil {
						slog.Warn("watch directory", slog.String("path", event.Name), slog.Any("error", err))
					}
				}
			}
			rel, err := filepath.Rel(absVault, event.Name)
			if err != nil || hasHiddenComponent(rel) {
				continue
			}
			rel = NormalizePath(rel)
			switch {
			case rel == configFileName:
				configChanged = true
			case isMarkdownFile(rel):
				pending[rel] = true
			default:
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", slog.Any("error", err))

		case <-fire:
			fire = nil
			if configChanged {
				configChanged = false
				reloaded, err := LoadConfig(absVault)
				if err != nil {
					opts.OnScan(nil, err)
					continue
				}
				cfg = reloaded
				notes = nil
			}
			if len(pending) > 0 {
				refreshIndex(absVault, pending)
				pending = make(map[string]bool)
				notes = nil
			}
			rescan()
		}
	}
}

// refreshIndex brings indexed notes in line with changed files. Failures are
// logged; the next scan falls back to whatever the index holds.
func refreshIndex(vaultPath string, changed map[string]bool) {
	if !indexExists(vaultPath) {
		return
	}
	for rel := range changed {
		res, err := Update(vaultPath, UpdateOptions{Files: []string{rel}})
		if err != nil {
			slog.Warn("refresh index", slog.String("file", rel), slog.Any("error", err))
			continue
		}
		slog.Debug("refreshed index",
			slog.String("file", rel),
			slog.Int("added", len(res.Added)),
			slog.Int("updated", len(res.Updated)),
			slog.Int("deleted", len(res.Deleted)),
		)
	}
}

// addWatchDirs adds root and every non-hidden directory below it to fw.
func addWatchDirs(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHiddenDir(d.Name()) {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}

func hasHiddenComponent(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part != "." && part != ".." && strings.HasPrefix(part, ".") {
			return true
		}
	}
	return strings.HasPrefix(rel, "..")
}
