package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ryotapoi/mdlink/internal/core"
)

func runScan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	vault := fs.String("vault", ".", "vault root directory")
	file := fs.String("file", "", "note to scan (vault-relative)")
	format := fs.String("format", "text", "output format (json or text)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("--file is required")
	}
	if err := validateFormat(*format); err != nil {
		return err
	}

	result, err := core.Scan(*vault, core.ScanOptions{File: *file})
	if err != nil {
		return err
	}

	switch *format {
	case "json":
		return printScanJSON(os.Stdout, result, true)
	default:
		return printScanText(os.Stdout, result)
	}
}
