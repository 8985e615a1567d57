package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ryotapoi/mdlink/internal/core"
)

func runPreview(args []string) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	vault := fs.String("vault", ".", "vault root directory")
	file := fs.String("file", "", "note to render (vault-relative)")
	out := fs.String("out", "", "write HTML to this path instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("--file is required")
	}

	result, err := core.Preview(*vault, core.PreviewOptions{File: *file})
	if err != nil {
		return err
	}
	if *out == "" {
		_, err := io.WriteString(os.Stdout, result.HTML)
		return err
	}
	return os.WriteFile(*out, []byte(result.HTML), 0o644)
}
