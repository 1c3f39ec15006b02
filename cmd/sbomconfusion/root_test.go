package main

import (
	"errors"
	"testing"
	"time"

	"github.com/NordCoderd/sbomconfusion/internal/config"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "sbomconfusion" {
			t.Errorf("expected use 'sbomconfusion', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has long description", func(t *testing.T) {
		t.Parallel()
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has input flags", func(t *testing.T) {
		t.Parallel()

		directory := cmd.Flags().Lookup("directory")
		if directory == nil {
			t.Fatal("expected directory flag")
		}
		if directory.Shorthand != "d" {
			t.Errorf("expected shorthand 'd', got %q", directory.Shorthand)
		}

		if cmd.Flags().Lookup("sbom-in") == nil {
			t.Error("expected sbom-in flag")
		}
	})

	t.Run("has output flags with defaults", func(t *testing.T) {
		t.Parallel()

		sbomOut := cmd.Flags().Lookup("sbom-out")
		if sbomOut == nil {
			t.Fatal("expected sbom-out flag")
		}
		if sbomOut.DefValue != config.DefaultSBOMOut {
			t.Errorf("expected default %q, got %q", config.DefaultSBOMOut, sbomOut.DefValue)
		}

		reportOut := cmd.Flags().Lookup("report-out")
		if reportOut == nil {
			t.Fatal("expected report-out flag")
		}
		if reportOut.DefValue != config.DefaultReportOut {
			t.Errorf("expected default %q, got %q", config.DefaultReportOut, reportOut.DefValue)
		}
	})

	t.Run("has verbose flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()

		hasHistory := false
		hasVersion := false
		for _, sub := range cmd.Commands() {
			if sub.Use == "history" {
				hasHistory = true
			}
			if sub.Use == "version" {
				hasVersion = true
			}
		}
		if !hasHistory {
			t.Error("expected history subcommand")
		}
		if !hasVersion {
			t.Error("expected version subcommand")
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage {
			t.Error("expected SilenceUsage to be true")
		}
		if !cmd.SilenceErrors {
			t.Error("expected SilenceErrors to be true")
		}
	})
}

// TestBuildConfig tests flag-to-config translation.
func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		if err := cmd.ParseFlags([]string{"--directory", "./project"}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Directory != "./project" {
			t.Errorf("expected directory ./project, got %q", cfg.Directory)
		}
		if cfg.SBOMOut != config.DefaultSBOMOut {
			t.Errorf("expected default SBOM output, got %q", cfg.SBOMOut)
		}
		if cfg.ReportOut != config.DefaultReportOut {
			t.Errorf("expected default report output, got %q", cfg.ReportOut)
		}
		if cfg.Timeout != config.DefaultLookupTimeout {
			t.Errorf("expected default timeout, got %v", cfg.Timeout)
		}
		if cfg.SaveHistory {
			t.Error("expected history to be off by default")
		}
	})

	t.Run("explicit flags", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		args := []string{
			"--sbom-in", "existing.json",
			"--report-out", "out.md",
			"--markdown",
			"--timeout", "3s",
			"--history",
		}
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.SBOMIn != "existing.json" {
			t.Errorf("expected sbom-in existing.json, got %q", cfg.SBOMIn)
		}
		if cfg.ReportOut != "out.md" {
			t.Errorf("expected report-out out.md, got %q", cfg.ReportOut)
		}
		if !cfg.MarkdownReport {
			t.Error("expected markdown report")
		}
		if cfg.Timeout != 3*time.Second {
			t.Errorf("expected 3s timeout, got %v", cfg.Timeout)
		}
		if !cfg.SaveHistory {
			t.Error("expected history to be enabled")
		}
	})

	t.Run("missing explicit config file", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		if err := cmd.ParseFlags([]string{"--directory", ".", "--config", "/no/such/file"}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		if _, err := buildConfig(cmd); err == nil {
			t.Fatal("expected error for missing explicit config file")
		}
	})
}

// TestRunRootCmdValidation tests that configuration errors surface as
// sentinel errors.
func TestRunRootCmdValidation(t *testing.T) {
	t.Parallel()

	t.Run("no input", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetArgs([]string{})

		err := cmd.Execute()
		if !errors.Is(err, config.ErrNoInput) {
			t.Errorf("expected ErrNoInput, got %v", err)
		}
	})

	t.Run("conflicting inputs", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetArgs([]string{"--directory", ".", "--sbom-in", "sbom.json"})

		err := cmd.Execute()
		if !errors.Is(err, config.ErrConflictingInputs) {
			t.Errorf("expected ErrConflictingInputs, got %v", err)
		}
	})

	t.Run("conflicting report formats", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetArgs([]string{"--directory", ".", "--json", "--markdown"})

		err := cmd.Execute()
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})
}
