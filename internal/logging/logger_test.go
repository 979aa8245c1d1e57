package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/datestamp/internal/config"
	"github.com/backmassage/datestamp/internal/term"
)

func TestNewLogger_NoFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogFile = ""
	cfg.ColorMode = config.ColorNever
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	l.Info("test message")
}

func TestNewLogger_WithFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.LogFile = filepath.Join(dir, "logs", "datestamp.log")
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	l.Rename("a.pdf -> 2014 a.pdf")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(cfg.LogFile)
	if !bytes.Contains(b, []byte("[RENAME]")) || !bytes.Contains(b, []byte("2014 a.pdf")) {
		t.Errorf("log file content: %s", string(b))
	}
}

func TestLevels(t *testing.T) {
	term.Configure(config.ColorNever, nil)
	var out, errOut bytes.Buffer
	l := New(&out, &errOut, false)

	l.Info("info %d", 1)
	l.Success("done")
	l.Warn("careful")
	l.Error("broken")
	l.Debug("hidden")

	for _, want := range []string{"[INFO] info 1", "[SUCCESS] done", "[WARN] careful"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("stdout missing %q:\n%s", want, out.String())
		}
	}
	if strings.Contains(out.String(), "ERROR") || !strings.Contains(errOut.String(), "[ERROR] broken") {
		t.Errorf("ERROR must go to stderr only; stdout=%q stderr=%q", out.String(), errOut.String())
	}
	if strings.Contains(out.String(), "hidden") {
		t.Error("DEBUG printed without verbose")
	}

	out.Reset()
	New(&out, &errOut, true).Debug("shown")
	if !strings.Contains(out.String(), "[DEBUG] shown") {
		t.Errorf("verbose DEBUG missing: %q", out.String())
	}
}
