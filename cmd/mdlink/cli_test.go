package main

import (
	"log/slog"
	"strings"
	"testing"
)

func TestRunBuild_InvalidFlag(t *testing.T) {
	err := runBuild([]string{"--invalid"})
	if err == nil {
		t.Error("expected error for invalid flag")
	}
}

func TestRunCommands_MissingFile(t *testing.T) {
	cases := []struct {
		name string
		run  func([]string) error
	}{
		{"update", runUpdate},
		{"delete", runDelete},
		{"scan", runScan},
		{"watch", runWatch},
		{"preview", runPreview},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run([]string{"--vault", t.TempDir()})
			if err == nil || !strings.Contains(err.Error(), "--file is required") {
				t.Errorf("expected --file required error, got: %v", err)
			}
		})
	}
}

func TestRunScan_InvalidFormat(t *testing.T) {
	err := runScan([]string{"--file", "A.md", "--format", "yaml"})
	if err == nil || !strings.Contains(err.Error(), "invalid format") {
		t.Errorf("expected invalid format error, got: %v", err)
	}
}

func TestRunLink_InvalidFormat(t *testing.T) {
	err := runLink([]string{"--dry-run", "--format", "yaml"})
	if err == nil || !strings.Contains(err.Error(), "invalid format") {
		t.Errorf("expected invalid format error, got: %v", err)
	}
}

func TestRunStats_InvalidField(t *testing.T) {
	err := runStats([]string{"--fields", "notes_total,edges_total"})
	if err == nil || !strings.Contains(err.Error(), "unknown stats field") {
		t.Errorf("expected unknown field error, got: %v", err)
	}
}

func TestRunDiagnose_InvalidField(t *testing.T) {
	err := runDiagnose([]string{"--fields", "phantoms"})
	if err == nil || !strings.Contains(err.Error(), "unknown diagnose field") {
		t.Errorf("expected unknown field error, got: %v", err)
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"", slog.LevelWarn},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"error", slog.LevelError},
		{"verbose", slog.LevelWarn},
	}
	for _, tt := range tests {
		if got := logLevel(tt.input); got != tt.want {
			t.Errorf("logLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
