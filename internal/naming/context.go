package naming

import (
	"path/filepath"
	"strings"
	"time"
)

// DateFragment holds the normalized date fields found in a stem. Empty
// fields are missing.
type DateFragment struct {
	Year  string
	Month string
	Day   string
}

// String formats f as "yyyy MM dd", dropping missing fields. A day without
// a month is never printed.
func (f DateFragment) String() string {
	parts := make([]string, 0, 3)
	if f.Year != "" {
		parts = append(parts, f.Year)
	}
	if f.Month != "" {
		parts = append(parts, f.Month)
		if f.Day != "" {
			parts = append(parts, f.Day)
		}
	}
	return strings.Join(parts, " ")
}

// FieldSource records where a date field came from.
type FieldSource string

const (
	SourceNone    FieldSource = ""
	SourceName    FieldSource = "name"
	SourceParent  FieldSource = "parent"
	SourceModTime FieldSource = "mtime"
)

// Context is what the caller knows about a file besides its stem.
type Context struct {
	ParentDir string    // base name of the containing directory
	ModTime   time.Time // zero when unknown
}

// Options toggles the individual renaming rules.
type Options struct {
	CleanNames   bool // strip separators and brackets
	FixDates     bool // normalize date notations
	AddFileDate  bool // fill a missing year or month from context
	MoveDate     bool // move the date to the front
	StampUndated bool // prefix stems without any date using context
}

// DefaultOptions enables every rule except StampUndated.
func DefaultOptions() Options {
	return Options{CleanNames: true, FixDates: true, AddFileDate: true, MoveDate: true}
}

// RenameDecision is the result of normalizing one stem.
type RenameDecision struct {
	Original    string
	New         string
	Changed     bool
	Date        DateFragment
	YearSource  FieldSource
	MonthSource FieldSource
}

// match is a located date inside a stem.
type match struct {
	start, end int
	date       DateFragment
}

// FindDate returns the most complete date in text. Candidates are tried by
// completeness (year-month-day, month-year, year, month), taking the leftmost
// occurrence of the first kind present.
func FindDate(text string) (DateFragment, bool, error) {
	m, ok, err := findDate(text)
	return m.date, ok, err
}

func findDate(text string) (match, bool, error) {
	for _, p := range bestDatePatterns {
		loc := p.Re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		c := Candidate{Start: loc[0], End: loc[1], Pattern: p, text: text, loc: loc}
		date, err := fragmentOf(c)
		if err != nil {
			return match{}, false, err
		}
		return match{start: c.Start, end: c.End, date: date}, true, nil
	}
	return match{}, false, nil
}

func fragmentOf(c Candidate) (DateFragment, error) {
	var f DateFragment
	var err error
	if y := c.Group("year"); y != "" {
		if f.Year, err = NormalizeYear(y); err != nil {
			return f, err
		}
	}
	if m := c.Group("month"); m != "" {
		if f.Month, err = normalizeField("month", m); err != nil {
			return f, err
		}
	}
	if d := c.Group("day"); d != "" {
		if f.Day, err = normalizeField("day", d); err != nil {
			return f, err
		}
	}
	return f, nil
}

// parentFields searches a directory name for a standalone year and month.
func parentFields(dir string) (year, month string) {
	name, _ := CleanName(dir)
	name, _, err := fixNamedMonths(name)
	if err != nil {
		return "", ""
	}
	c, ok := bareYearSet.next(name, 0)
	if ok {
		year, _ = NormalizeYear(c.Group("year"))
	}
	if c, ok := bareMonthSet.next(name, 0); ok {
		month, _ = normalizeField("month", c.Group("month"))
	}
	return year, month
}

// fill completes missing year and month from the parent directory, then
// from the modification time. The day is never synthesized.
func fill(d *RenameDecision, ctx Context) {
	var year, month string
	if ctx.ParentDir != "" {
		year, month = parentFields(ctx.ParentDir)
	}
	if d.Date.Year == "" && year != "" {
		d.Date.Year, d.YearSource = year, SourceParent
	}
	if d.Date.Month == "" && month != "" {
		d.Date.Month, d.MonthSource = month, SourceParent
	}
	if ctx.ModTime.IsZero() {
		return
	}
	if d.Date.Year == "" {
		d.Date.Year, d.YearSource = ctx.ModTime.Format("2006"), SourceModTime
	}
	if d.Date.Month == "" {
		d.Date.Month, d.MonthSource = ctx.ModTime.Format("01"), SourceModTime
	}
}

// maxNormalizePasses bounds the passes of Normalize.
const maxNormalizePasses = 8

// Normalize computes the new stem for one file. The stem is cleaned, its
// date notations are fixed, and the most complete date is moved to the
// front, with a missing year or month taken from ctx.
//
// A stem without a date comes back unchanged (Changed is false), cleaning
// included, unless opts.StampUndated is set. The same holds when no year can
// be established for the date that was found. The rules are reapplied to
// their own output until it is stable, so normalizing a result again does
// not change it.
//
// Errors wrap ErrMalformedFragment and concern this stem only.
func Normalize(stem string, ctx Context, opts Options) (RenameDecision, error) {
	d := RenameDecision{Original: stem, New: stem}

	text := stem
	for pass := 0; pass < maxNormalizePasses; pass++ {
		step, ok, err := normalizePass(text, ctx, opts)
		if err != nil {
			return RenameDecision{Original: stem, New: stem}, err
		}
		if !ok {
			break
		}
		if pass == 0 {
			d.YearSource, d.MonthSource = step.YearSource, step.MonthSource
		}
		d.Date = step.Date
		if step.New == text {
			break
		}
		text = step.New
	}
	d.New = text
	d.Changed = d.New != d.Original
	return d, nil
}

// normalizePass applies every rule once. ok is false when the text has no
// date with a year, in which case it must be left as it is.
func normalizePass(text string, ctx Context, opts Options) (RenameDecision, bool, error) {
	d := RenameDecision{Original: text}

	if opts.CleanNames {
		text, _ = CleanName(text)
	}
	if opts.FixDates {
		fixed, _, err := FixDate(text)
		if err != nil {
			return d, false, err
		}
		text = fixed
	}

	m, found, err := findDate(text)
	if err != nil {
		return d, false, err
	}
	if !found && !opts.StampUndated {
		return d, false, nil
	}
	if found {
		d.Date = m.date
		if d.Date.Year != "" {
			d.YearSource = SourceName
		}
		if d.Date.Month != "" {
			d.MonthSource = SourceName
		}
	}
	if opts.AddFileDate {
		fill(&d, ctx)
	}
	if d.Date.Year == "" {
		return d, false, nil
	}

	date := d.Date.String()
	switch {
	case !found:
		text = date + " " + text
	case opts.MoveDate:
		text = date + " " + replaceSpan(text, m.start, m.end, "")
	default:
		text = replaceSpan(text, m.start, m.end, date)
	}
	d.New = collapseSpaces(text)
	return d, true, nil
}

// SplitStem splits base into stem and extension. A dot file such as
// ".bashrc" is all stem.
func SplitStem(base string) (stem, ext string) {
	ext = filepath.Ext(base)
	stem = strings.TrimSuffix(base, ext)
	if stem == "" {
		return base, ""
	}
	return stem, ext
}
