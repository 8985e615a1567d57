package main

import (
	"flag"
	"os"

	"github.com/ryotapoi/mdlink/internal/core"
)

func runLink(args []string) error {
	fs := flag.NewFlagSet("link", flag.ContinueOnError)
	vault := fs.String("vault", ".", "vault root directory")
	var files multiString
	fs.Var(&files, "file", "file to rewrite (can be specified multiple times; default all notes)")
	dryRun := fs.Bool("dry-run", false, "show the rewrites without writing files")
	format := fs.String("format", "text", "output format (json or text)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := validateFormat(*format); err != nil {
		return err
	}

	result, err := core.Link(*vault, core.LinkOptions{Files: files, DryRun: *dryRun})
	if err != nil {
		return err
	}

	switch *format {
	case "json":
		return printLinkJSON(os.Stdout, result, *dryRun)
	default:
		return printLinkText(os.Stdout, result, *dryRun)
	}
}
