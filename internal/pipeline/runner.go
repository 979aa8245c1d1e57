package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/backmassage/datestamp/internal/config"
	"github.com/backmassage/datestamp/internal/display"
	"github.com/backmassage/datestamp/internal/logging"
	"github.com/backmassage/datestamp/internal/naming"
	"github.com/backmassage/datestamp/internal/report"
)

// Recorder receives every applied rename. *journal.Run satisfies it.
type Recorder interface {
	Record(oldPath, newPath string) error
}

// Sinks are the optional outputs of a run. Nil fields are skipped.
type Sinks struct {
	Journal Recorder
	Report  *report.Report
}

// Plan is the planned outcome for one file.
type Plan struct {
	Path     string
	Decision naming.RenameDecision
	Err      error
}

// Report status values.
const (
	StatusRenamed     = "renamed"
	StatusWouldRename = "would rename"
	StatusUnchanged   = "unchanged"
	StatusDeleted     = "deleted"
	StatusWouldDelete = "would delete"
	StatusFailed      = "failed"
)

// Run is the top-level batch entry point. It discovers files in every
// input dir, handles junk, plans renames in parallel, applies them in
// order, and returns aggregate stats.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, sinks Sinks) RunStats {
	var stats RunStats
	start := time.Now()

	var files, junk []string
	for _, dir := range cfg.InputDirs {
		d, err := Discover(dir, cfg.Exclude, cfg.DeleteNames)
		if err != nil {
			log.Error("File discovery failed for %s: %v", dir, err)
			stats.Failed++
			continue
		}
		log.Debug("%s: %s, %d junk, %d excluded", dir, display.Plural(len(d.Files), "file"), len(d.Junk), d.Excluded)
		files = append(files, d.Files...)
		junk = append(junk, d.Junk...)
	}

	stats.Total = len(files)
	logBatchHeader(cfg, log, &stats)

	if cfg.DeleteJunk {
		deleteJunk(cfg, log, junk, &stats, sinks)
	}

	plans := PlanAll(ctx, files, cfg.RuleOptions(), cfg.Jobs)
	apply(ctx, cfg, log, plans, &stats, sinks)

	logSummary(cfg, log, &stats, time.Since(start))
	return stats
}

// PlanAll normalizes every file across jobs workers. The result is in the
// same order as files; entries left unplanned after cancellation carry
// ctx.Err().
func PlanAll(ctx context.Context, files []string, opts naming.Options, jobs int) []Plan {
	if jobs < 1 {
		jobs = 1
	}
	plans := make([]Plan, len(files))
	taskCh := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < jobs; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range taskCh {
				plans[i] = PlanFile(files[i], opts)
			}
		}()
	}

	sent := 0
feed:
	for ; sent < len(files); sent++ {
		select {
		case <-ctx.Done():
			break feed
		case taskCh <- sent:
		}
	}
	close(taskCh)
	wg.Wait()

	for i := sent; i < len(files); i++ {
		plans[i] = Plan{Path: files[i], Err: ctx.Err()}
	}
	return plans
}

// PlanFile computes the rename decision for one file from its stem, its
// parent directory name and its modification time.
func PlanFile(path string, opts naming.Options) Plan {
	p := Plan{Path: path}
	fi, err := os.Stat(path)
	if err != nil {
		p.Err = err
		return p
	}
	stem, _ := naming.SplitStem(filepath.Base(path))
	nctx := naming.Context{
		ParentDir: filepath.Base(filepath.Dir(path)),
		ModTime:   fi.ModTime(),
	}
	p.Decision, p.Err = naming.Normalize(stem, nctx, opts)
	return p
}

// apply executes plans in order.
func apply(ctx context.Context, cfg *config.Config, log *logging.Logger, plans []Plan, stats *RunStats, sinks Sinks) {
	resolver := naming.NewCollisionResolver(nil)

	for i, p := range plans {
		if ctx.Err() != nil {
			log.Warn("Interrupted after %d of %d files", i, len(plans))
			break
		}

		dir, base := filepath.Split(p.Path)
		row := report.Row{Dir: filepath.Clean(dir), Original: base, New: base}

		if p.Err != nil {
			log.Error("%s: %v", p.Path, p.Err)
			stats.Failed++
			row.Status, row.Error = StatusFailed, p.Err.Error()
			addRow(sinks, row)
			continue
		}

		d := p.Decision
		row.YearSource, row.MonthSource = string(d.YearSource), string(d.MonthSource)
		if !d.Changed {
			log.Debug("Unchanged: %s", base)
			stats.Unchanged++
			row.Status = StatusUnchanged
			addRow(sinks, row)
			continue
		}

		dest := resolver.Resolve(p.Path, naming.DestinationPath(p.Path, d.New))
		row.New = filepath.Base(dest)

		if cfg.DryRun {
			log.Rename("[DRY] %s", display.FormatRename(base, row.New))
			stats.Renamed++
			row.Status = StatusWouldRename
			addRow(sinks, row)
			continue
		}

		if err := os.Rename(p.Path, dest); err != nil {
			log.Error("Rename failed: %v", err)
			resolver.Release(dest)
			stats.Failed++
			row.New, row.Status, row.Error = base, StatusFailed, err.Error()
			addRow(sinks, row)
			continue
		}
		log.Rename("%s", display.FormatRename(base, row.New))
		stats.Renamed++
		row.Status = StatusRenamed
		addRow(sinks, row)

		if sinks.Journal != nil {
			if err := sinks.Journal.Record(p.Path, dest); err != nil {
				log.Warn("Journal: %v", err)
			}
		}
	}
}

func deleteJunk(cfg *config.Config, log *logging.Logger, junk []string, stats *RunStats, sinks Sinks) {
	for _, path := range junk {
		dir, base := filepath.Split(path)
		row := report.Row{Dir: filepath.Clean(dir), Original: base}
		if cfg.DryRun {
			log.Info("[DRY] Would delete %s", path)
			stats.Deleted++
			row.Status = StatusWouldDelete
			addRow(sinks, row)
			continue
		}
		if err := os.Remove(path); err != nil {
			log.Error("Delete failed: %v", err)
			stats.Failed++
			row.Status, row.Error = StatusFailed, err.Error()
			addRow(sinks, row)
			continue
		}
		log.Info("Deleted %s", path)
		stats.Deleted++
		row.Status = StatusDeleted
		addRow(sinks, row)
	}
}

func addRow(sinks Sinks, row report.Row) {
	if sinks.Report != nil {
		sinks.Report.Add(row)
	}
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("Found %s in %s", display.Plural(stats.Total, "file"), display.Plural(len(cfg.InputDirs), "input dir"))

	rules := cfg.RuleOptions()
	log.Info("Rules: clean=%t fix=%t file-date=%t move=%t stamp-undated=%t",
		rules.CleanNames, rules.FixDates, rules.AddFileDate, rules.MoveDate, rules.StampUndated)
	log.Debug("Workers: %d", cfg.Jobs)
	if cfg.DryRun {
		log.Info("Dry run: nothing will be renamed or deleted")
	}
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats, elapsed time.Duration) {
	log.Info("==============================")
	verb := "renamed"
	if cfg.DryRun {
		verb = "would rename"
	}
	log.Info("Done in %s: %d %s, %d unchanged, %d deleted, %d failed",
		display.FormatDuration(elapsed), stats.Renamed, verb, stats.Unchanged, stats.Deleted, stats.Failed)
	if stats.OK() {
		log.Success("Total files processed: %d", stats.Total)
	} else {
		log.Warn("Total files processed: %d (%d failed)", stats.Total, stats.Failed)
	}
}
