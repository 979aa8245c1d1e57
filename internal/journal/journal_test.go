package journal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "state", "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestHistory(t *testing.T) {
	j := openTemp(t)

	first, err := j.BeginRun(false)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{"a", "b"} {
		if err := first.Record("/old/"+p, "/new/"+p); err != nil {
			t.Fatal(err)
		}
	}
	second, err := j.BeginRun(true)
	if err != nil {
		t.Fatal(err)
	}

	runs, err := j.History(0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].ID != second.ID || !runs[0].DryRun || runs[0].Renames != 0 {
		t.Errorf("newest run = %+v", runs[0])
	}
	if runs[1].ID != first.ID || runs[1].Renames != 2 || runs[1].Undone != 0 {
		t.Errorf("older run = %+v", runs[1])
	}

	limited, err := j.History(1)
	if err != nil || len(limited) != 1 {
		t.Errorf("History(1) = %d runs, err %v", len(limited), err)
	}
}

func TestLatestRun(t *testing.T) {
	j := openTemp(t)
	if _, err := j.LatestRun(); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("empty journal err = %v, want ErrRunNotFound", err)
	}

	dir := t.TempDir()
	applied, err := j.BeginRun(false)
	if err != nil {
		t.Fatal(err)
	}
	oldPath, newPath := filepath.Join(dir, "Notes 7.txt"), filepath.Join(dir, "2013 07 Notes.txt")
	touch(t, newPath)
	if err := applied.Record(oldPath, newPath); err != nil {
		t.Fatal(err)
	}
	if _, err := j.BeginRun(true); err != nil {
		t.Fatal(err)
	}
	// A later run over the same files that found nothing to rename.
	if _, err := j.BeginRun(false); err != nil {
		t.Fatal(err)
	}

	got, err := j.LatestRun()
	if err != nil {
		t.Fatal(err)
	}
	if got != applied.ID {
		t.Errorf("LatestRun = %s, want %s (dry and empty runs are skipped)", got, applied.ID)
	}

	if _, err := j.Undo(got); err != nil {
		t.Fatal(err)
	}
	if _, err := j.LatestRun(); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("after undo err = %v, want ErrRunNotFound", err)
	}
}

func TestRecordStoresAbsolutePaths(t *testing.T) {
	j := openTemp(t)
	dir := t.TempDir()
	testChdir(t, dir)

	run, err := j.BeginRun(false)
	if err != nil {
		t.Fatal(err)
	}
	if err := run.Record(filepath.Join("in", "Notes 7.txt"), filepath.Join("in", "2013 07 Notes.txt")); err != nil {
		t.Fatal(err)
	}

	entries, err := j.Entries(run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(cwd, "in", "Notes 7.txt"); entries[0].OldPath != want {
		t.Errorf("OldPath = %q, want %q", entries[0].OldPath, want)
	}
	if want := filepath.Join(cwd, "in", "2013 07 Notes.txt"); entries[0].NewPath != want {
		t.Errorf("NewPath = %q, want %q", entries[0].NewPath, want)
	}
}

func TestEntriesUnknownRun(t *testing.T) {
	j := openTemp(t)
	if _, err := j.Entries("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("err = %v, want ErrRunNotFound", err)
	}
}

func TestUndo(t *testing.T) {
	j := openTemp(t)
	dir := t.TempDir()

	run, err := j.BeginRun(false)
	if err != nil {
		t.Fatal(err)
	}
	renames := [][2]string{
		{"Invoice March 2015.pdf", "2015 03 Invoice.pdf"},
		{"scan_20140609.png", "2014 06 09 scan.png"},
	}
	for _, r := range renames {
		oldPath, newPath := filepath.Join(dir, r[0]), filepath.Join(dir, r[1])
		touch(t, newPath)
		if err := run.Record(oldPath, newPath); err != nil {
			t.Fatal(err)
		}
	}

	res, err := j.Undo(run.ID)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if len(res.Restored) != 2 || len(res.Failed) != 0 {
		t.Fatalf("restored %d, failed %d", len(res.Restored), len(res.Failed))
	}
	if res.Restored[0].NewPath != filepath.Join(dir, renames[1][1]) {
		t.Errorf("undo must go newest first, got %s", res.Restored[0].NewPath)
	}
	for _, r := range renames {
		if !exists(filepath.Join(dir, r[0])) || exists(filepath.Join(dir, r[1])) {
			t.Errorf("%s not restored", r[0])
		}
	}

	if _, err := j.Undo(run.ID); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("second Undo err = %v, want ErrNothingToUndo", err)
	}

	runs, err := j.History(0)
	if err != nil {
		t.Fatal(err)
	}
	if runs[0].Undone != 2 {
		t.Errorf("Undone = %d, want 2", runs[0].Undone)
	}
}

func TestUndoRefusesOverwrite(t *testing.T) {
	j := openTemp(t)
	dir := t.TempDir()

	run, err := j.BeginRun(false)
	if err != nil {
		t.Fatal(err)
	}
	oldPath, newPath := filepath.Join(dir, "notes 7.txt"), filepath.Join(dir, "2013 07 notes.txt")
	touch(t, newPath)
	touch(t, oldPath)
	if err := run.Record(oldPath, newPath); err != nil {
		t.Fatal(err)
	}

	res, err := j.Undo(run.ID)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if len(res.Failed) != 1 || !errors.Is(res.Failed[0].Err, ErrTargetExists) {
		t.Fatalf("Failed = %+v, want one ErrTargetExists", res.Failed)
	}
	if !exists(newPath) {
		t.Error("renamed file must stay when undo is refused")
	}

	// The entry stays pending, so a retry still has work to do.
	os.Remove(oldPath)
	res, err = j.Undo(run.ID)
	if err != nil || len(res.Restored) != 1 {
		t.Errorf("retry: restored %d, err %v", len(res.Restored), err)
	}
}

// testChdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir in Go 1.24+).
func testChdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
