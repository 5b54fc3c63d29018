// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/snipcheck/internal/archive"
	"github.com/pdiddy/snipcheck/internal/report"
	"github.com/pdiddy/snipcheck/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse findings recorded with check --record",
	Long: `History queries the local SQLite archive that check --record writes
to. Use subcommands to list recorded runs, list findings, or export them.`,
}

// --- runs subcommand ---

var historyRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded check runs, newest first",
	RunE:  runHistoryRuns,
}

func runHistoryRuns(cmd *cobra.Command, args []string) error {
	store, err := archive.NewStore(cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	maxResults, _ := cmd.Flags().GetInt("max-results")
	runs, err := store.Runs(context.Background(), maxResults)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No recorded runs.")
		return nil
	}

	fmt.Fprintf(out, "%-36s  %-20s  %9s  %6s  %8s\n", "Run", "Started", "Documents", "Failed", "Findings")
	fmt.Fprintln(out, strings.Repeat("-", 87))
	for _, r := range runs {
		fmt.Fprintf(out, "%-36s  %-20s  %9d  %6d  %8d\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Documents, r.Failed, r.Findings)
	}
	return nil
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded findings with optional filters",
	Long: `List prints recorded findings, newest run first. Filter by run
(--run, or --run latest), severity, rule, path substring, or message text.`,
	RunE: runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	opts, err := queryOptsFromFlags(cmd)
	if err != nil {
		return err
	}

	store, err := archive.NewStore(cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Query(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistoryOutput(cmd.OutOrStdout(), results, jsonOutput)
}

func formatHistoryOutput(w io.Writer, results []archive.StoredFinding, jsonOutput bool) error {
	if jsonOutput {
		if results == nil {
			results = []archive.StoredFinding{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No findings recorded.")
		return nil
	}

	for _, r := range results {
		fmt.Fprintf(w, "%s  %s  %s\n", r.RecordedAt.Format("2006-01-02 15:04"), shortID(r.RunID), report.FormatFinding(r.Finding))
	}
	fmt.Fprintf(w, "\n%d findings\n", len(results))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded findings to YAML or JSON",
	Long: `Export writes recorded findings (or a filtered subset) to export.yaml
or export.json in the archive directory. Supports the same filter flags as
list.`,
	RunE: runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	opts, err := queryOptsFromFlags(cmd)
	if err != nil {
		return err
	}

	store, err := archive.NewStore(cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	var path string
	switch types.OutputFormat(format) {
	case types.FormatYAML, "":
		path, err = store.ExportYAML(context.Background(), opts)
	case types.FormatJSON:
		path, err = store.ExportJSON(context.Background(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

// --- shared helpers ---

func queryOptsFromFlags(cmd *cobra.Command) (archive.QueryOptions, error) {
	runID, _ := cmd.Flags().GetString("run")
	severity, _ := cmd.Flags().GetString("severity")
	rule, _ := cmd.Flags().GetString("rule")
	path, _ := cmd.Flags().GetString("path")
	text, _ := cmd.Flags().GetString("text")
	maxResults, _ := cmd.Flags().GetInt("max-results")

	sev := types.Severity(severity)
	if sev != "" && sev.Rank() == 0 {
		return archive.QueryOptions{}, fmt.Errorf("unknown severity %q: use warning or info", severity)
	}

	return archive.QueryOptions{
		RunID:      runID,
		Severity:   sev,
		Rule:       rule,
		Path:       path,
		Text:       text,
		MaxResults: maxResults,
	}, nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("run", "", `restrict to one run ID, or "latest"`)
	cmd.Flags().String("severity", "", "filter by severity: warning or info")
	cmd.Flags().String("rule", "", "filter by rule name")
	cmd.Flags().String("path", "", "filter by document path substring")
	cmd.Flags().String("text", "", "filter by message text")
	cmd.Flags().Int("max-results", 0, "maximum results (default from archive.max_results)")
}

func init() {
	historyRunsCmd.Flags().Int("max-results", 0, "maximum runs (default from archive.max_results)")

	addFilterFlags(historyListCmd)
	historyListCmd.Flags().Bool("json", false, "output results as JSON")

	addFilterFlags(historyExportCmd)
	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	historyCmd.AddCommand(historyRunsCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
