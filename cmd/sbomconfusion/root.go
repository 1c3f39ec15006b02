package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/spf13/cobra"

	"github.com/NordCoderd/sbomconfusion/internal/checker"
	"github.com/NordCoderd/sbomconfusion/internal/config"
	"github.com/NordCoderd/sbomconfusion/internal/history"
	"github.com/NordCoderd/sbomconfusion/internal/log"
	"github.com/NordCoderd/sbomconfusion/internal/model"
	"github.com/NordCoderd/sbomconfusion/internal/registry"
	"github.com/NordCoderd/sbomconfusion/internal/report"
	"github.com/NordCoderd/sbomconfusion/internal/sbom"
)

// NewRootCmd creates the root command for sbomconfusion.
// The scan is the root command itself so the common invocation stays short:
// sbomconfusion --directory ./project
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sbomconfusion",
		Short: "Detect dependency confusion risk via SBOM and public registries",
		Long: `sbomconfusion detects dependency confusion risk in software projects.

It collects the declared npm and PyPI dependencies of a project into a
CycloneDX SBOM (or loads an existing one), looks up every package name in
the public registries, and reports names that are not claimed publicly.
An unclaimed internal package name is exactly what a dependency confusion
attacker needs: publishing a malicious package under that name can trick
resolvers into preferring the public copy.

Examples:
  # Scan a project directory (generates sbom.json as a side effect)
  sbomconfusion --directory ./my-project

  # Check an existing CycloneDX SBOM
  sbomconfusion --sbom-in sbom.json

  # JSON report to a custom path
  sbomconfusion --directory . --json --report-out report.json

  # Record the scan in the local history database
  sbomconfusion --directory . --history

Configuration file (.sbomconfusion) example:
  internal_prefixes:
    - "@acme/"
    - acme-
  timeout: 15s
  registries:
    npm:
      url: https://registry.internal.example.com
      token: secret`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRootCmd,
	}

	// Input flags (exactly one of the two must be set)
	cmd.Flags().StringP("directory", "d", "",
		"Project directory to scan for manifest and lock files")
	cmd.Flags().String("sbom-in", "",
		"Existing CycloneDX JSON file to check (skips SBOM generation)")

	// Output flags
	cmd.Flags().String("sbom-out", config.DefaultSBOMOut,
		"Path the generated SBOM is written to (only with --directory)")
	cmd.Flags().StringP("report-out", "o", config.DefaultReportOut,
		"Path the confusion report is written to")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")

	// Lookup behavior
	cmd.Flags().DurationP("timeout", "t", config.DefaultLookupTimeout,
		"Timeout for each registry lookup")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sbomconfusion in current or home directory)")

	// History
	cmd.Flags().Bool("history", false,
		"Record the scan in the local history database")

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// runRootCmd executes the scan.
func runRootCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, logger, cmd.OutOrStdout())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the optional
// configuration file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Directory, err = cmd.Flags().GetString("directory")
	if err != nil {
		return nil, err
	}

	cfg.SBOMIn, err = cmd.Flags().GetString("sbom-in")
	if err != nil {
		return nil, err
	}

	cfg.SBOMOut, err = cmd.Flags().GetString("sbom-out")
	if err != nil {
		return nil, err
	}

	cfg.ReportOut, err = cmd.Flags().GetString("report-out")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.SaveHistory, err = cmd.Flags().GetBool("history")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Load settings from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.File, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.File = config.NewFile()
	}

	// File timeout applies only when the flag was not given explicitly.
	if !cmd.Flags().Changed("timeout") && cfg.File.Timeout > 0 {
		cfg.Timeout = cfg.File.Timeout
	}

	return cfg, nil
}

// runScan loads or generates the SBOM, checks every package, and writes
// the report.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	bom, input, err := obtainSBOM(ctx, cfg, logger)
	if err != nil {
		return err
	}

	entries := sbom.Entries(bom)
	logger.Info("checking packages", "input", input, "packages", len(entries))

	chk, err := buildChecker(cfg, logger)
	if err != nil {
		return err
	}

	startTime := time.Now()
	scanReport := model.NewScanReport(input)
	findings, err := chk.Check(ctx, entries)
	for _, f := range findings {
		scanReport.AddFinding(f)
	}
	if err != nil {
		return fmt.Errorf("scan aborted: %w", err)
	}

	if err := writeReport(cfg, scanReport); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	elapsed := time.Since(startTime)
	fmt.Fprintf(out, "Checked %d packages in %s\n", scanReport.TotalFindings(), elapsed.Round(time.Millisecond))
	fmt.Fprintf(out, "  possible confusion: %d\n", scanReport.CountByRisk(model.RiskPossibleConfusion))
	fmt.Fprintf(out, "  unknown:            %d\n", scanReport.CountByRisk(model.RiskUnknown))
	fmt.Fprintf(out, "Report written to %s\n", cfg.ReportOut)

	if cfg.SaveHistory {
		if err := saveScanHistory(ctx, cfg, scanReport, logger); err != nil {
			logger.Error("failed to save scan history", "error", err)
		}
	}

	return nil
}

// obtainSBOM loads the SBOM from --sbom-in, or generates one from
// --directory and writes it to --sbom-out. It returns the BOM and a
// description of where the packages came from.
func obtainSBOM(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*cdx.BOM, string, error) {
	if cfg.SBOMIn != "" {
		bom, err := sbom.Load(cfg.SBOMIn)
		if err != nil {
			return nil, "", err
		}
		logger.Info("SBOM loaded", "path", cfg.SBOMIn)
		return bom, cfg.SBOMIn, nil
	}

	gen := sbom.NewGenerator(
		sbom.WithLogger(logger),
		sbom.WithToolVersion(getVersion()),
	)
	bom, err := gen.Generate(ctx, cfg.Directory)
	if err != nil {
		return nil, "", err
	}

	if err := sbom.Save(bom, cfg.SBOMOut); err != nil {
		return nil, "", err
	}
	logger.Info("SBOM generated", "dir", cfg.Directory, "path", cfg.SBOMOut)

	return bom, cfg.Directory, nil
}

// buildChecker creates a checker with one registry client per supported
// ecosystem, applying registry overrides from the config file.
func buildChecker(cfg *config.Config, logger *slog.Logger) (*checker.Checker, error) {
	checkerOpts := []checker.Option{
		checker.WithLogger(logger),
	}

	for _, eco := range []model.Ecosystem{model.EcosystemNPM, model.EcosystemPyPI} {
		clientOpts := []registry.Option{
			registry.WithTimeout(cfg.Timeout),
		}
		if override, ok := cfg.File.Registries[string(eco)]; ok {
			if override.URL != "" {
				clientOpts = append(clientOpts, registry.WithBaseURL(override.URL))
			}
			if override.Token != "" {
				clientOpts = append(clientOpts, registry.WithToken(override.Token))
			}
		}

		client, ok := registry.ForEcosystem(eco, clientOpts...)
		if !ok {
			return nil, fmt.Errorf("no registry client for ecosystem %q", eco)
		}
		checkerOpts = append(checkerOpts, checker.WithClient(client))
	}

	if len(cfg.File.InternalPrefixes) > 0 {
		checkerOpts = append(checkerOpts, checker.WithInternalMatcher(cfg.File.MatchesInternalPrefix))
	}

	return checker.New(checkerOpts...), nil
}

// writeReport writes the scan report to the configured path in the
// requested format.
func writeReport(cfg *config.Config, scanReport *model.ScanReport) error {
	dir := filepath.Dir(cfg.ReportOut)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	// Reports can reveal internal package names, so owner-only permissions
	f, err := os.OpenFile(cfg.ReportOut, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(f, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(f)
	default:
		writer = report.NewTextWriter(f)
	}

	_, err = writer.Write(scanReport)
	return err
}

// saveScanHistory records the scan in the local history database.
func saveScanHistory(ctx context.Context, cfg *config.Config, scanReport *model.ScanReport, logger *slog.Logger) error {
	store, err := history.Open(cfg.HistoryDir, history.DefaultOptions())
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.SaveScan(ctx, scanReport)
	if err != nil {
		return err
	}

	logger.Info("scan saved to history", "id", id, "path", store.Path())
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
