package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/backmassage/datestamp/internal/check"
	"github.com/backmassage/datestamp/internal/config"
	"github.com/backmassage/datestamp/internal/display"
	"github.com/backmassage/datestamp/internal/journal"
	"github.com/backmassage/datestamp/internal/naming"
	"github.com/backmassage/datestamp/internal/pipeline"
	"github.com/backmassage/datestamp/internal/report"
	"github.com/backmassage/datestamp/internal/server"
)

// errNoJournal is returned by history and undo when the journal is disabled.
var errNoJournal = errors.New("journal is disabled (set --journal or journal in the config file)")

func newRootCmd(code *int) *cobra.Command {
	f := config.NewFlags()
	root := &cobra.Command{
		Use:           "datestamp [dir]...",
		Short:         "Rename files so their names lead with a normalized date",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && f.ConfigPath() == "" {
				return cmd.Help()
			}
			return runRename(cmd, f, args, code)
		},
	}
	bindRenameFlags(f, root.Flags())

	root.AddCommand(
		newRenameCmd(code),
		newFixCmd(code),
		newCheckCmd(code),
		newHistoryCmd(),
		newUndoCmd(code),
		newServeCmd(),
	)
	return root
}

func bindRenameFlags(f *config.Flags, fs *pflag.FlagSet) {
	f.BindCommon(fs)
	f.BindRules(fs)
	f.BindRename(fs)
}

// --- rename ---

func newRenameCmd(code *int) *cobra.Command {
	f := config.NewFlags()
	cmd := &cobra.Command{
		Use:   "rename [dir]...",
		Short: "Rename every file under the given directories",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRename(cmd, f, args, code)
		},
	}
	bindRenameFlags(f, cmd.Flags())
	return cmd
}

func runRename(cmd *cobra.Command, f *config.Flags, args []string, code *int) error {
	cfg, log, err := setup(f, args)
	if err != nil {
		return err
	}
	defer log.Close()
	if err := cfg.ValidateInputs(); err != nil {
		return err
	}

	display.PrintBanner(cmd.OutOrStdout(), version)

	var sinks pipeline.Sinks
	var runID string
	if cfg.JournalPath != "" && !cfg.DryRun {
		j, err := journal.Open(cfg.JournalPath)
		if err != nil {
			log.Error("%v", err)
			*code = 1
			return nil
		}
		defer j.Close()

		r, err := j.BeginRun(cfg.DryRun)
		if err != nil {
			log.Error("%v", err)
			*code = 1
			return nil
		}
		sinks.Journal = r
		runID = r.ID
	}
	if cfg.ReportPath != "" {
		sinks.Report = report.New()
	}

	ctx, cancel := signalContext(log)
	defer cancel()

	stats := pipeline.Run(ctx, &cfg, log, sinks)

	if sinks.Report != nil {
		if err := sinks.Report.Write(cfg.ReportPath); err != nil {
			log.Error("%v", err)
			*code = 1
		} else {
			log.Success("Report written: %s", cfg.ReportPath)
		}
	}
	if runID != "" && stats.Renamed > 0 {
		log.Info("Run %s (revert with: datestamp undo %s)", runID, runID)
	}
	if !stats.OK() {
		*code = 1
	}
	return nil
}

// --- fix ---

func newFixCmd(code *int) *cobra.Command {
	f := config.NewFlags()
	var full bool
	cmd := &cobra.Command{
		Use:   "fix <name>...",
		Short: "Show how names would be rewritten, without touching disk",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.Resolve(nil)
			if err != nil {
				return err
			}
			nctx := naming.Context{ModTime: time.Now()}
			if cwd, err := os.Getwd(); err == nil {
				nctx.ParentDir = filepath.Base(cwd)
			}
			if !runFix(cmd, args, full, nctx, cfg.RuleOptions()) {
				*code = 1
			}
			return nil
		},
	}
	f.BindRules(cmd.Flags())
	cmd.Flags().BoolVar(&full, "full", false, "Apply every rule, using the current directory and time as context")
	return cmd
}

// runFix prints one line per name and reports whether all names succeeded.
func runFix(cmd *cobra.Command, names []string, full bool, nctx naming.Context, opts naming.Options) bool {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	ok := true
	for _, name := range names {
		if !full {
			fixed, _, err := naming.FixDate(name)
			if err != nil {
				fmt.Fprintf(errOut, "%s: %v\n", name, err)
				ok = false
				continue
			}
			fmt.Fprintln(out, display.FormatRename(name, fixed))
			continue
		}

		stem, ext := naming.SplitStem(name)
		d, err := naming.Normalize(stem, nctx, opts)
		if err != nil {
			fmt.Fprintf(errOut, "%s: %v\n", name, err)
			ok = false
			continue
		}
		fmt.Fprintf(out, "%s  [year: %s, month: %s]\n",
			display.FormatRename(name, d.New+ext), sourceLabel(d.YearSource), sourceLabel(d.MonthSource))
	}
	return ok
}

func sourceLabel(s naming.FieldSource) string {
	if s == naming.SourceNone {
		return "-"
	}
	return string(s)
}

// --- check ---

func newCheckCmd(code *int) *cobra.Command {
	f := config.NewFlags()
	cmd := &cobra.Command{
		Use:   "check [dir]...",
		Short: "Run engine self-tests and verify the journal and input dirs",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(f, args)
			if err != nil {
				return err
			}
			defer log.Close()

			display.PrintBanner(cmd.OutOrStdout(), version)
			if !check.RunCheck(&cfg, log) {
				*code = 1
			}
			return nil
		},
	}
	f.BindCommon(cmd.Flags())
	return cmd
}

// --- history ---

func newHistoryCmd() *cobra.Command {
	f := config.NewFlags()
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent rename runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.Resolve(nil)
			if err != nil {
				return err
			}
			j, err := openJournal(&cfg)
			if err != nil {
				return err
			}
			defer j.Close()

			runs, err := j.History(limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tSTARTED\tRENAMES\tUNDONE")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n",
					r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Renames, r.Undone)
			}
			return tw.Flush()
		},
	}
	f.BindCommon(cmd.Flags())
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show (0 for all)")
	return cmd
}

// --- undo ---

func newUndoCmd(code *int) *cobra.Command {
	f := config.NewFlags()
	cmd := &cobra.Command{
		Use:   "undo [run-id]",
		Short: "Rename the files of a run back (default: the latest run)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(f, nil)
			if err != nil {
				return err
			}
			defer log.Close()

			j, err := openJournal(&cfg)
			if err != nil {
				return err
			}
			defer j.Close()

			runID := ""
			if len(args) == 1 {
				runID = args[0]
			} else if runID, err = j.LatestRun(); err != nil {
				return err
			}

			res, err := j.Undo(runID)
			if err != nil {
				return err
			}
			for _, e := range res.Restored {
				log.Rename("%s", display.FormatRename(e.NewPath, e.OldPath))
			}
			for _, fail := range res.Failed {
				log.Error("Cannot restore %s: %v", fail.Entry.NewPath, fail.Err)
			}
			if len(res.Failed) > 0 {
				log.Warn("Run %s: %d restored, %d failed", runID, len(res.Restored), len(res.Failed))
				*code = 1
				return nil
			}
			log.Success("Run %s: %s restored", runID, display.Plural(len(res.Restored), "file"))
			return nil
		},
	}
	f.BindCommon(cmd.Flags())
	return cmd
}

func openJournal(cfg *config.Config) (*journal.Journal, error) {
	if cfg.JournalPath == "" {
		return nil, errNoJournal
	}
	return journal.Open(cfg.JournalPath)
}

// --- serve ---

func newServeCmd() *cobra.Command {
	f := config.NewFlags()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the naming engine over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(f, nil)
			if err != nil {
				return err
			}
			defer log.Close()

			ctx, cancel := signalContext(log)
			defer cancel()
			return server.NewServer(&cfg, log).Run(ctx)
		},
	}
	f.BindCommon(cmd.Flags())
	f.BindRules(cmd.Flags())
	f.BindServe(cmd.Flags())
	return cmd
}
