// Package check provides self-test diagnostics (the check command): engine
// samples, journal writability, and input directories.
package check

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/backmassage/datestamp/internal/config"
	"github.com/backmassage/datestamp/internal/journal"
	"github.com/backmassage/datestamp/internal/naming"
)

// Sentinel errors returned by the individual checks.
var (
	ErrSampleMismatch     = errors.New("engine self-test failed")
	ErrJournalUnavailable = errors.New("journal is not usable")
	ErrInputMissing       = errors.New("input directory missing")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// Sample is one known input and its expected new stem.
type Sample struct {
	Stem    string
	Parent  string
	ModTime time.Time
	Want    string
}

var sampleTime = time.Date(2020, time.May, 1, 12, 0, 0, 0, time.UTC)

// Samples are run through the engine with default options.
var Samples = []Sample{
	{Stem: "CLIENT Weekly Performance Report 6 9 14 to 6 15 14", ModTime: sampleTime,
		Want: "2014 06 09 CLIENT Weekly Performance Report to 2014 06 15"},
	{Stem: "2014 03 27 CLIENT Monthly Reporting Sample", ModTime: sampleTime,
		Want: "2014 03 27 CLIENT Monthly Reporting Sample"},
	{Stem: "Rev Share '14", Parent: "Finance", ModTime: sampleTime,
		Want: "2014 05 Rev Share"},
	{Stem: "Budget Apr'16 final", ModTime: sampleTime, Want: "2016 04 Budget final"},
	{Stem: "Invoice March 2015", ModTime: sampleTime, Want: "2015 03 Invoice"},
	{Stem: "Notes 7", Parent: "2013 Archive", ModTime: sampleTime, Want: "2013 07 Notes"},
	{Stem: "My File (Final)_v2", ModTime: sampleTime, Want: "My File (Final)_v2"},
}

// RunCheck runs every check and logs the outcome. It returns false if any
// check failed. Input directories are only checked when cfg names some.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== Self Check ===")
	ok := true

	if err := CheckSamples(Samples, log); err != nil {
		log.Error("%v", err)
		ok = false
	} else {
		log.Success("Engine: %d samples ok", len(Samples))
	}

	if cfg.JournalPath == "" {
		log.Warn("Journal disabled; undo will not be available")
	} else if err := CheckJournal(cfg.JournalPath); err != nil {
		log.Error("%v", err)
		ok = false
	} else {
		log.Success("Journal: %s", cfg.JournalPath)
	}

	if len(cfg.InputDirs) > 0 {
		if err := CheckInputs(cfg.InputDirs); err != nil {
			log.Error("%v", err)
			ok = false
		} else {
			log.Success("Inputs: %d directories found", len(cfg.InputDirs))
		}
	}
	return ok
}

// CheckSamples normalizes each sample and compares it to its expected
// stem, then checks the result is stable under a second pass.
func CheckSamples(samples []Sample, log Logger) error {
	opts := naming.DefaultOptions()
	failed := 0
	for _, s := range samples {
		nctx := naming.Context{ParentDir: s.Parent, ModTime: s.ModTime}
		d, err := naming.Normalize(s.Stem, nctx, opts)
		if err != nil {
			log.Error("  %q: %v", s.Stem, err)
			failed++
			continue
		}
		if d.New != s.Want {
			log.Error("  %q -> %q, want %q", s.Stem, d.New, s.Want)
			failed++
			continue
		}
		again, err := naming.Normalize(d.New, nctx, opts)
		if err != nil || again.New != d.New {
			log.Error("  %q is not stable (%q)", d.New, again.New)
			failed++
			continue
		}
		log.Debug("  %q -> %q", s.Stem, d.New)
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d samples", ErrSampleMismatch, failed, len(samples))
	}
	return nil
}

// CheckJournal opens the journal at path (creating it if needed) and reads
// its history.
func CheckJournal(path string) error {
	j, err := journal.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrJournalUnavailable, err)
	}
	defer j.Close()
	if _, err := j.History(1); err != nil {
		return fmt.Errorf("%w: %v", ErrJournalUnavailable, err)
	}
	return nil
}

// CheckInputs verifies every path exists and is a directory.
func CheckInputs(dirs []string) error {
	for _, dir := range dirs {
		fi, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInputMissing, dir)
		}
		if !fi.IsDir() {
			return fmt.Errorf("%w: %s is not a directory", ErrInputMissing, dir)
		}
	}
	return nil
}
