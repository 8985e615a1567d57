package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ryotapoi/mdlink/internal/core"
)

func runWatch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	vault := fs.String("vault", ".", "vault root directory")
	file := fs.String("file", "", "note to decorate (vault-relative)")
	format := fs.String("format", "text", "output format (json or text)")
	debounce := fs.Duration("debounce", core.DefaultWatchDebounce, "quiet period before a rescan")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("--file is required")
	}
	if err := validateFormat(*format); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return core.Watch(ctx, *vault, core.WatchOptions{
		File:     *file,
		Debounce: *debounce,
		OnScan: func(result *core.ScanResult, err error) {
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				return
			}
			switch *format {
			case "json":
				// One object per line so consumers can stream.
				_ = printScanJSON(os.Stdout, result, false)
			default:
				fmt.Fprintf(os.Stdout, "# %s %s\n", time.Now().Format(time.TimeOnly), result.File)
				_ = printScanText(os.Stdout, result)
			}
		},
	})
}
