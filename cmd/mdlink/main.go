package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	setupLogging(os.Stderr, os.Getenv("MDLINK_LOG"))

	var err error
	switch os.Args[1] {
	case "build":
		err = runBuild(os.Args[2:])
	case "update":
		err = runUpdate(os.Args[2:])
	case "delete":
		err = runDelete(os.Args[2:])
	case "scan":
		err = runScan(os.Args[2:])
	case "watch":
		err = runWatch(os.Args[2:])
	case "preview":
		err = runPreview(os.Args[2:])
	case "link":
		err = runLink(os.Args[2:])
	case "stats":
		err = runStats(os.Args[2:])
	case "diagnose":
		err = runDiagnose(os.Args[2:])
	case "--version":
		printVersion(os.Stdout)
		return
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging installs a text handler on w as the default logger.
// level is one of debug, info, warn or error; anything else means warn.
func setupLogging(w io.Writer, level string) {
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel(level)})))
}

func logLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelWarn
	}
	return l
}

func printVersion(w io.Writer) {
	v := version
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	fmt.Fprintf(w, "mdlink version %s\n", v)
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Usage: mdlink <command> [options]

Index Commands:
  build      Build the title index from the vault
  update     Update specified files in the index
  delete     Remove files from the index

Link Commands:
  scan       Print the autolinks of a note without changing it
  watch      Rescan a note whenever the vault changes
  preview    Render a note to HTML with autolinks
  link       Rewrite autolinks into wikilinks

Query Commands:
  stats      Show index statistics
  diagnose   Show title conflicts and invalid titles

Run 'mdlink <command> --help' for command-specific help.
Use 'mdlink --version' for version information.
Set MDLINK_LOG=debug|info|warn|error to change the log level.
`)
}
