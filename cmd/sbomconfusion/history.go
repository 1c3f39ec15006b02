package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NordCoderd/sbomconfusion/internal/config"
	"github.com/NordCoderd/sbomconfusion/internal/history"
	"github.com/NordCoderd/sbomconfusion/internal/model"
)

// NewHistoryCmd creates the history command.
// It reads the local history database and never writes to it; scans are
// only recorded when the root command runs with --history.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past scans recorded with --history",
		Long: `List scans recorded in the local history database.

Scans are only recorded when the scan itself runs with --history, so this
command shows nothing until at least one scan opted in.

Examples:
  # Show the 10 most recent scans
  sbomconfusion history

  # Show all scans as JSON
  sbomconfusion history --limit 0 --json`,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 10,
		"Maximum number of scans to show (0 shows all)")
	cmd.Flags().BoolP("json", "j", false,
		"Output scan summaries as JSON")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// Read-only: never create the database just to list it
	store, err := history.Open(config.XDGDataDir(), history.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No scan history found. Run a scan with --history to record one.")
		return nil
	}
	defer store.Close()

	scans, err := store.ListScans(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to list scans: %w", err)
	}

	if asJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(scans)
	}

	if len(scans) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No scan history found. Run a scan with --history to record one.")
		return nil
	}

	for _, scan := range scans {
		fmt.Fprintf(cmd.OutOrStdout(), "#%d  %s  %s\n",
			scan.ID,
			scan.Timestamp.Format("2006-01-02 15:04:05"),
			scan.Input,
		)
		fmt.Fprintf(cmd.OutOrStdout(), "    packages: %d  confusable: %d  unknown: %d\n",
			scan.PackageCount,
			scan.RiskSummary[model.RiskPossibleConfusion.String()],
			scan.RiskSummary[model.RiskUnknown.String()],
		)
		for _, purl := range scan.ConfusablePURLs {
			fmt.Fprintf(cmd.OutOrStdout(), "    ! %s\n", purl)
		}
	}

	return nil
}
