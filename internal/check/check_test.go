package check

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/backmassage/datestamp/internal/config"
)

type mockLogger struct{ errors []string }

func (m *mockLogger) Info(string, ...interface{})    {}
func (m *mockLogger) Success(string, ...interface{}) {}
func (m *mockLogger) Warn(string, ...interface{})    {}
func (m *mockLogger) Debug(string, ...interface{})   {}
func (m *mockLogger) Error(format string, args ...interface{}) {
	m.errors = append(m.errors, fmt.Sprintf(format, args...))
}

func TestCheckSamples(t *testing.T) {
	log := &mockLogger{}
	if err := CheckSamples(Samples, log); err != nil {
		t.Fatalf("built-in samples fail: %v (%v)", err, log.errors)
	}

	bad := []Sample{{Stem: "Invoice March 2015", Want: "March"}}
	if err := CheckSamples(bad, log); !errors.Is(err, ErrSampleMismatch) {
		t.Errorf("err = %v, want ErrSampleMismatch", err)
	}
}

func TestCheckJournal(t *testing.T) {
	if err := CheckJournal(filepath.Join(t.TempDir(), "j", "journal.db")); err != nil {
		t.Errorf("CheckJournal: %v", err)
	}

	// A directory cannot be opened as a database file.
	dir := t.TempDir()
	if err := CheckJournal(dir); !errors.Is(err, ErrJournalUnavailable) {
		t.Errorf("err = %v, want ErrJournalUnavailable", err)
	}
}

func TestCheckInputs(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		dirs    []string
		wantErr bool
	}{
		{"existing dir", []string{dir}, false},
		{"missing dir", []string{filepath.Join(dir, "nope")}, true},
		{"file not dir", []string{file}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckInputs(tt.dirs)
			if tt.wantErr != (err != nil) {
				t.Fatalf("CheckInputs error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInputMissing) {
				t.Errorf("err = %v, want ErrInputMissing", err)
			}
		})
	}
}

func TestRunCheck(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.JournalPath = filepath.Join(t.TempDir(), "journal.db")
	cfg.InputDirs = []string{t.TempDir()}
	if !RunCheck(&cfg, &mockLogger{}) {
		t.Error("RunCheck failed on a healthy setup")
	}

	cfg.InputDirs = []string{filepath.Join(t.TempDir(), "missing")}
	if RunCheck(&cfg, &mockLogger{}) {
		t.Error("RunCheck passed with a missing input dir")
	}
}
