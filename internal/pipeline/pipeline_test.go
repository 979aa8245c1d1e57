package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/backmassage/datestamp/internal/config"
	"github.com/backmassage/datestamp/internal/logging"
	"github.com/backmassage/datestamp/internal/naming"
	"github.com/backmassage/datestamp/internal/report"
)

var fixedMtime = time.Date(2020, time.May, 1, 12, 0, 0, 0, time.UTC)

// --- Discover tests ---

func TestDiscover_ExcludesAndSorts(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.txt")
	touch(t, dir, "a.txt")
	touch(t, dir, "draft.txt~")
	touch(t, filepath.Join(dir, ".git"), "HEAD")
	touch(t, filepath.Join(dir, "sub"), "c.txt")
	touch(t, filepath.Join(dir, ".cache", "deep"), "x.txt")

	d, err := Discover(dir, config.DefaultExclude, config.DefaultDeleteNames)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{"a.txt", "b.txt", "c.txt"}
	if got := basenames(d.Files); !sliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if !sort.StringsAreSorted(d.Files) {
		t.Errorf("files not sorted: %v", d.Files)
	}
	if d.Excluded != 3 {
		t.Errorf("Excluded = %d, want 3 (backup file, .git, .cache)", d.Excluded)
	}
}

func TestDiscover_JunkAndHidden(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, ".DS_Store")
	touch(t, filepath.Join(dir, "photos"), "Thumbs.db")
	touch(t, dir, ".hidden")
	touch(t, dir, "keep.pdf")

	d, err := Discover(dir, nil, config.DefaultDeleteNames)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if got := basenames(d.Files); !sliceEqual(got, []string{"keep.pdf"}) {
		t.Errorf("Files = %v", got)
	}
	if got := basenames(d.Junk); !sliceEqual(got, []string{".DS_Store", "Thumbs.db"}) {
		t.Errorf("Junk = %v", got)
	}
}

func TestDiscover_MissingDir(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "nope"), nil, nil); err == nil {
		t.Error("Discover should fail for a missing directory")
	}
}

// --- Plan tests ---

func TestPlanAll_KeepsOrder(t *testing.T) {
	dir := t.TempDir()
	names := []string{"Invoice March 2015.pdf", "notes.txt", "scan_20140609.png", "Chapter 7.doc"}
	var files []string
	for _, n := range names {
		files = append(files, touchAt(t, dir, n, fixedMtime))
	}

	plans := PlanAll(context.Background(), files, naming.DefaultOptions(), 3)
	want := []string{"2015 03 Invoice", "notes", "2014 06 09 scan", "2020 07 Chapter"}
	for i, p := range plans {
		if p.Path != files[i] {
			t.Errorf("plan %d path = %s, want %s", i, p.Path, files[i])
		}
		if p.Err != nil {
			t.Fatalf("plan %d: %v", i, p.Err)
		}
		if p.Decision.New != want[i] {
			t.Errorf("plan %d New = %q, want %q", i, p.Decision.New, want[i])
		}
	}
}

func TestPlanAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	plans := PlanAll(ctx, []string{"a", "b"}, naming.DefaultOptions(), 1)
	for _, p := range plans {
		if p.Err == nil {
			continue
		}
		if !errors.Is(p.Err, context.Canceled) && !os.IsNotExist(p.Err) {
			t.Errorf("plan %s err = %v", p.Path, p.Err)
		}
	}
}

func TestPlanFile_UsesParentDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "2013 Archive")
	path := touchAt(t, dir, "Notes 7.txt", fixedMtime)

	p := PlanFile(path, naming.DefaultOptions())
	if p.Err != nil {
		t.Fatal(p.Err)
	}
	if p.Decision.New != "2013 07 Notes" || p.Decision.YearSource != naming.SourceParent {
		t.Errorf("decision = %+v", p.Decision)
	}
}

// --- Run tests ---

type fakeJournal struct{ renames [][2]string }

func (f *fakeJournal) Record(oldPath, newPath string) error {
	f.renames = append(f.renames, [2]string{oldPath, newPath})
	return nil
}

func testConfig(dir string) config.Config {
	cfg := config.DefaultConfig()
	cfg.InputDirs = []string{dir}
	cfg.ColorMode = config.ColorNever
	cfg.JournalPath = ""
	return cfg
}

func quietLogger() *logging.Logger { return logging.New(io.Discard, io.Discard, false) }

func TestRun_Renames(t *testing.T) {
	dir := t.TempDir()
	touchAt(t, dir, "Invoice March 2015.pdf", fixedMtime)
	touchAt(t, dir, "report-2014-06-09.pdf", fixedMtime)
	touchAt(t, dir, "Meeting notes.txt", fixedMtime)
	touchAt(t, dir, "2015 03 Invoice.pdf", fixedMtime) // collides with the first rename

	cfg := testConfig(dir)
	j := &fakeJournal{}
	rep := report.New()
	stats := Run(context.Background(), &cfg, quietLogger(), Sinks{Journal: j, Report: rep})

	if stats.Total != 4 || stats.Renamed != 2 || stats.Unchanged != 2 || stats.Failed != 0 {
		t.Errorf("stats = %+v", stats)
	}
	want := []string{"2014 06 09 report.pdf", "2015 03 Invoice 1.pdf", "2015 03 Invoice.pdf", "Meeting notes.txt"}
	if got := listDir(t, dir); !sliceEqual(got, want) {
		t.Errorf("dir = %v, want %v", got, want)
	}
	if len(j.renames) != 2 {
		t.Errorf("journal got %d renames, want 2", len(j.renames))
	}
	if rep.Len() != 4 {
		t.Errorf("report has %d rows, want 4", rep.Len())
	}
}

func TestRun_DryRunTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	touchAt(t, dir, "Invoice March 2015.pdf", fixedMtime)
	touch(t, dir, ".DS_Store")

	cfg := testConfig(dir)
	cfg.DryRun = true
	cfg.DeleteJunk = true
	j := &fakeJournal{}
	stats := Run(context.Background(), &cfg, quietLogger(), Sinks{Journal: j})

	if stats.Renamed != 1 || stats.Deleted != 1 {
		t.Errorf("stats = %+v", stats)
	}
	want := []string{".DS_Store", "Invoice March 2015.pdf"}
	if got := listDir(t, dir); !sliceEqual(got, want) {
		t.Errorf("dry run changed the directory: %v", got)
	}
	if len(j.renames) != 0 {
		t.Error("dry run must not journal renames")
	}
}

func TestRun_DeletesJunk(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Thumbs.db")
	touch(t, dir, ".DS_Store")

	cfg := testConfig(dir)
	cfg.DeleteJunk = true
	stats := Run(context.Background(), &cfg, quietLogger(), Sinks{})

	if stats.Deleted != 2 || stats.Total != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if got := listDir(t, dir); len(got) != 0 {
		t.Errorf("junk left behind: %v", got)
	}
}

func TestRun_JunkKeptWithoutFlag(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Thumbs.db")

	cfg := testConfig(dir)
	stats := Run(context.Background(), &cfg, quietLogger(), Sinks{})
	if stats.Deleted != 0 {
		t.Errorf("Deleted = %d, want 0", stats.Deleted)
	}
	if got := listDir(t, dir); !sliceEqual(got, []string{"Thumbs.db"}) {
		t.Errorf("dir = %v", got)
	}
}

func TestRun_Idempotent(t *testing.T) {
	dir := t.TempDir()
	touchAt(t, dir, "CLIENT Weekly Performance Report 6 9 14 to 6 15 14.xlsx", fixedMtime)
	touchAt(t, dir, "Rev Share '14.xls", fixedMtime)

	cfg := testConfig(dir)
	Run(context.Background(), &cfg, quietLogger(), Sinks{})
	stats := Run(context.Background(), &cfg, quietLogger(), Sinks{})

	if stats.Renamed != 0 || stats.Unchanged != 2 {
		t.Errorf("second run stats = %+v", stats)
	}
	want := []string{
		"2014 05 Rev Share.xls",
		"2014 06 09 CLIENT Weekly Performance Report to 2014 06 15.xlsx",
	}
	if got := listDir(t, dir); !sliceEqual(got, want) {
		t.Errorf("dir = %v, want %v", got, want)
	}
}

func TestRun_MissingInputDir(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "missing"))
	stats := Run(context.Background(), &cfg, quietLogger(), Sinks{})
	if stats.OK() {
		t.Error("missing input dir should count as a failure")
	}
}

// --- Helpers ---

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func touchAt(t *testing.T, dir, name string, mtime time.Time) string {
	t.Helper()
	path := touch(t, dir, name)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	return path
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func basenames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

func sliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
