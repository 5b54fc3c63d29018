// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/snipcheck/internal/archive"
	"github.com/pdiddy/snipcheck/internal/check"
	"github.com/pdiddy/snipcheck/internal/report"
	"github.com/pdiddy/snipcheck/internal/source"
	"github.com/pdiddy/snipcheck/internal/watch"
	"github.com/pdiddy/snipcheck/pkg/types"
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Check Markdown prose against the code snippets it describes",
	Long: `Check extracts the code blocks from each Markdown document, classifies
each snippet, and reports prose whose claims contradict the paired snippet.

Arguments may be files, directories (walked for .md and .markdown files), or
globs such as "docs/**/*.md". Use "-" to read a document from standard input.
With no arguments the current directory is checked.

Per-document status lines go to stderr; findings go to stdout in the chosen
format. The command exits non-zero when a document cannot be parsed or a
finding at or above --fail-on is reported.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}
	watchMode, _ := cmd.Flags().GetBool("watch")
	record, _ := cmd.Flags().GetBool("record")

	paths, err := source.Expand(args, cfg.Check.Extensions)
	if err != nil {
		return err
	}

	checker := check.New(
		check.WithUnverifiable(cfg.Check.ReportUnverifiable),
		check.WithLogger(logger),
		check.WithStdin(cmd.InOrStdin()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = checkOnce(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), checker, paths, record)
	if !watchMode {
		return err
	}
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
	}
	return watchAndCheck(ctx, cmd, checker, watchTargets(args, paths), record)
}

// checkOnce runs one batch, writes the report, and optionally records it.
func checkOnce(ctx context.Context, out, status io.Writer, checker *check.Checker, paths []string, record bool) error {
	summary := checker.RunBatch(paths, status)

	if err := report.Write(out, summary.Results, cfg.Report.Format); err != nil {
		return err
	}

	if record {
		if err := recordRun(ctx, summary, status); err != nil {
			return err
		}
	}

	return verdict(summary, cfg.Check.FailOn)
}

// verdict turns a summary into the command's exit status.
func verdict(s check.Summary, failOn types.Severity) error {
	if s.HasFailures() {
		return fmt.Errorf("%d document(s) could not be checked", s.Failed)
	}
	if n := s.CountAtLeast(failOn); n > 0 {
		return fmt.Errorf("%d finding(s) at or above %s", n, failOn)
	}
	return nil
}

func recordRun(ctx context.Context, s check.Summary, status io.Writer) error {
	store, err := archive.NewStore(cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Record(ctx, s.Results)
	if err != nil {
		return err
	}
	fmt.Fprintf(status, "Recorded run %s (%d findings)\n", run.ID, run.Findings)
	return nil
}

// watchTargets keeps directory and file arguments as given, so files added
// later are seen, and falls back to the expanded matches for globs.
func watchTargets(args, paths []string) []string {
	var targets []string
	for _, a := range args {
		if _, err := os.Stat(a); err == nil {
			targets = append(targets, a)
			continue
		}
		if matches, err := source.Expand([]string{a}, cfg.Check.Extensions); err == nil {
			targets = append(targets, matches...)
		}
	}
	if len(targets) == 0 {
		return paths
	}
	return targets
}

func watchAndCheck(ctx context.Context, cmd *cobra.Command, checker *check.Checker, targets []string, record bool) error {
	status := cmd.ErrOrStderr()

	handler := func(ctx context.Context, changed []string) {
		var existing []string
		for _, p := range changed {
			if _, err := os.Stat(p); err != nil {
				fmt.Fprintf(status, "removed: %s\n", p)
				continue
			}
			existing = append(existing, p)
		}
		if len(existing) == 0 {
			return
		}
		if err := checkOnce(ctx, cmd.OutOrStdout(), status, checker, existing, record); err != nil {
			fmt.Fprintln(status, err)
		}
	}

	w, err := watch.New(targets, cfg.Watch, cfg.Check.Extensions, handler, logger)
	if err != nil {
		return err
	}
	logger.Info("watching for changes", zap.Strings("targets", targets), zap.Duration("debounce", cfg.Watch.Debounce))
	fmt.Fprintln(status, "Watching for changes (Ctrl-C to stop)")
	return w.Run(ctx)
}

func init() {
	d := types.DefaultConfig()
	checkCmd.Flags().String("format", string(d.Report.Format), "output format: text, json, or yaml")
	checkCmd.Flags().String("fail-on", string(d.Check.FailOn), "lowest severity that fails the run: warning, info, or none")
	checkCmd.Flags().Bool("report-unverifiable", d.Check.ReportUnverifiable, "report claims paired with snippets that could not be classified")
	checkCmd.Flags().Bool("watch", false, "re-check documents when they change")
	checkCmd.Flags().Bool("record", false, "record findings in the history archive")

	_ = viper.BindPFlag("report.format", checkCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("check.fail_on", checkCmd.Flags().Lookup("fail-on"))
	_ = viper.BindPFlag("check.report_unverifiable", checkCmd.Flags().Lookup("report-unverifiable"))

	rootCmd.AddCommand(checkCmd)
}
