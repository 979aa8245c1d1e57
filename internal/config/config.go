// Package config holds runtime configuration: defaults, config file loading,
// CLI flag binding, and validation. Precedence is defaults, then the config
// file, then flags the user actually passed.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/datestamp/internal/naming"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// overlaid by [Load] and [Flags.Resolve], and then passed (by pointer) to
// packages that need it.
type Config struct {
	// Paths (set from positional args).
	InputDirs []string `yaml:"input_dirs" toml:"input_dirs"`

	// Discovery.
	Exclude     []string `yaml:"exclude" toml:"exclude"`           // Substrings; any path containing one is skipped.
	DeleteNames []string `yaml:"delete_names" toml:"delete_names"` // Junk base names removed when DeleteJunk is set.
	DeleteJunk  bool     `yaml:"delete_junk" toml:"delete_junk"`

	// Renaming rules. All default to true except StampUndated.
	CleanNames   bool `yaml:"clean_names" toml:"clean_names"`
	FixDates     bool `yaml:"fix_dates" toml:"fix_dates"`
	AddFileDate  bool `yaml:"add_file_date" toml:"add_file_date"`
	MoveDate     bool `yaml:"move_date" toml:"move_date"`
	StampUndated bool `yaml:"stamp_undated" toml:"stamp_undated"`

	// Behavior.
	Jobs        int    `yaml:"jobs" toml:"jobs"` // Default: 4 planning workers.
	DryRun      bool   `yaml:"dry_run" toml:"dry_run"`
	JournalPath string `yaml:"journal" toml:"journal"` // Empty disables the journal.
	ReportPath  string `yaml:"report" toml:"report"`   // Optional .xlsx report.
	ListenAddr  string `yaml:"listen" toml:"listen"`   // serve only.

	// Display and logging.
	Verbose   bool      `yaml:"verbose" toml:"verbose"`
	ColorMode ColorMode `yaml:"color" toml:"color"` // Default: "auto".
	LogFile   string    `yaml:"log_file" toml:"log_file"`
}

// DefaultExclude lists the path substrings skipped during discovery.
var DefaultExclude = []string{"~", ".cache", ".git", ".idea", ".project", ".iml", ".vscode", "desktop.ini"}

// DefaultDeleteNames lists the OS junk files removed with --delete-junk.
var DefaultDeleteNames = []string{".DS_Store", "Thumbs.db"}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	return Config{
		Exclude:      append([]string(nil), DefaultExclude...),
		DeleteNames:  append([]string(nil), DefaultDeleteNames...),
		DeleteJunk:   false,
		CleanNames:   true,
		FixDates:     true,
		AddFileDate:  true,
		MoveDate:     true,
		StampUndated: false,
		Jobs:         4,
		DryRun:       false,
		JournalPath:  DefaultJournalPath(),
		ListenAddr:   "127.0.0.1:8088",
		Verbose:      false,
		ColorMode:    ColorAuto,
	}
}

// DefaultJournalPath returns $XDG_STATE_HOME/datestamp/journal.db, falling
// back to ~/.local/state. It is empty when no home directory is known.
func DefaultJournalPath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "datestamp", "journal.db")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".local", "state", "datestamp", "journal.db")
}

// RuleOptions returns the rename rule toggles as engine options.
func (c *Config) RuleOptions() naming.Options {
	return naming.Options{
		CleanNames:   c.CleanNames,
		FixDates:     c.FixDates,
		AddFileDate:  c.AddFileDate,
		MoveDate:     c.MoveDate,
		StampUndated: c.StampUndated,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum and range fields. It does not require input
// directories; see [Config.ValidateInputs].
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}

	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1 (got %d)", c.Jobs)
	}

	if c.ReportPath != "" && !strings.EqualFold(filepath.Ext(c.ReportPath), ".xlsx") {
		return fmt.Errorf("report path %q must end in .xlsx", c.ReportPath)
	}

	if c.ListenAddr != "" {
		if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
			return fmt.Errorf("invalid listen address %q: %w", c.ListenAddr, err)
		}
	}
	return nil
}

// ValidateInputs requires at least one input directory and normalizes them.
func (c *Config) ValidateInputs() error {
	if len(c.InputDirs) == 0 {
		return errors.New("need at least one input directory")
	}
	for i, dir := range c.InputDirs {
		if strings.TrimSpace(dir) == "" {
			return errors.New("input directory must not be empty")
		}
		c.InputDirs[i] = NormalizeDirArg(dir)
	}
	return nil
}
