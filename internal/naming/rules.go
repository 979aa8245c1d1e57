package naming

import (
	"fmt"
	"regexp"
)

// --- Field templates ---
//
// Alternations list the longer forms first so a two-digit field is preferred
// over its one-digit prefix wherever both would satisfy the surrounding
// pattern.

const (
	yearLong  = `(?:19|20)[0-9]{2}`
	yearShort = `[0-9]{2}`
	yearAny   = yearLong + `|` + yearShort
	monthNum  = `1[0-2]|0[1-9]|[1-9]`
	monthPad  = `1[0-2]|0[1-9]`
	dayNum    = `[12][0-9]|3[01]|0[1-9]|[1-9]`
	dayPad    = `[12][0-9]|3[01]|0[1-9]`
	quote     = `['’]`
)

// compile builds a case-insensitive, multi-line pattern.
func compile(expr string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)` + expr)
}

// monthTable maps each month's spellings to its two-digit numeral. numeral
// is the digit form accepted before an apostrophe year (Apr'16, 4'16).
var monthTable = []struct {
	value   string
	names   string
	numeral string
}{
	{"01", "january|jan", "0?1"},
	{"02", "february|feb", "0?2"},
	{"03", "march|mar", "0?3"},
	{"04", "april|apr", "0?4"},
	{"05", "may", "0?5"},
	{"06", "june|jun", "0?6"},
	{"07", "july|jul", "0?7"},
	{"08", "august|aug", "0?8"},
	{"09", "september|sept|sep", "0?9"},
	{"10", "october|oct", "10"},
	{"11", "november|nov", "11"},
	{"12", "december|dec", "12"},
}

// Pattern is a named recognizer. Value is the replacement carried by keyed
// patterns (a month's numeral) and is empty for bare ones. Re must open with
// \b or a non-word character: matches never start inside a word.
type Pattern struct {
	Name  string
	Re    *regexp.Regexp
	Value string
}

// SetKind tags whether the patterns of a [PatternSet] carry replacement values.
type SetKind int

const (
	Bare  SetKind = iota // Patterns only; rewrites use captured groups.
	Keyed                // Each pattern carries a replacement Value.
)

// AcceptFunc can veto a candidate before it counts as a match.
type AcceptFunc func(text string, c Candidate) bool

// PatternSet is an ordered group of patterns resolved together by [Resolve].
type PatternSet struct {
	Name     string
	Kind     SetKind
	Patterns []*Pattern
	Accept   AcceptFunc
}

// NewKeyedSet returns a keyed set. It panics if a pattern has no Value, so
// malformed tables fail at package init.
func NewKeyedSet(name string, patterns ...*Pattern) PatternSet {
	for _, p := range patterns {
		if p.Value == "" {
			panic(fmt.Sprintf("naming: keyed pattern %s has no value", p.Name))
		}
	}
	return PatternSet{Name: name, Kind: Keyed, Patterns: patterns}
}

// NewBareSet returns a bare set. It panics if a pattern carries a Value.
func NewBareSet(name string, patterns ...*Pattern) PatternSet {
	for _, p := range patterns {
		if p.Value != "" {
			panic(fmt.Sprintf("naming: bare pattern %s has value %q", p.Name, p.Value))
		}
	}
	return PatternSet{Name: name, Kind: Bare, Patterns: patterns}
}

// Matching returns the patterns of s that match anywhere in text, in set order.
func (s PatternSet) Matching(text string) []*Pattern {
	var out []*Pattern
	for _, p := range s.Patterns {
		if p.Re.MatchString(text) {
			out = append(out, p)
		}
	}
	return out
}

// --- Compiled patterns (process-wide, read-only) ---

var (
	// Month-Apostrophe-Year: Apr'16, april'2016, 04'16.
	apostropheYearSet = withAccept(buildApostropheSet(), notSplittingDate)

	// Named-Month: january .. december, sept/sep.
	namedMonthSet = buildNamedMonthSet()

	// Day-Year-Month: "9 2014 6" or fully padded "09201406".
	reDayYearMonth = compile(
		`\b(?:(?P<day>` + dayNum + `) (?P<year>` + yearLong + `) (?P<month>` + monthNum + `)` +
			`|(?P<day>` + dayPad + `)(?P<year>` + yearLong + `)(?P<month>` + monthPad + `))\b`)

	// US-Date: "6 9 14", "12 25 2014" or fully padded "06152014".
	reUSDate = compile(
		`\b(?:(?P<month>` + monthNum + `) (?P<day>` + dayNum + `) (?P<year>` + yearAny + `)` +
			`|(?P<month>` + monthPad + `)(?P<day>` + dayPad + `)(?P<year>` + yearAny + `))\b`)

	// Year-month-day already in canonical order, spaced or compact.
	reLongDate = compile(
		`\b(?:(?P<year>` + yearLong + `) (?P<month>` + monthNum + `) (?P<day>` + dayNum + `)` +
			`|(?P<year>` + yearLong + `)(?P<month>` + monthPad + `)(?P<day>` + dayPad + `))\b`)

	// Month-Year in either order.
	reMonthYear = compile(
		`\b(?:(?P<year>` + yearLong + `) (?P<month>` + monthNum + `)` +
			`|(?P<month>` + monthNum + `) (?P<year>` + yearLong + `))\b`)

	// Bare-Year: 19xx/20xx, optionally apostrophe-prefixed, or an
	// apostrophe two-digit year ('14).
	reBareYear = compile(
		quote + `?\b(?P<year>` + yearLong + `)\b|` + quote + `(?P<year>` + yearShort + `)\b`)

	// Bare-Year without the two-digit shorthand, used once dates are normalized.
	reLongYear = compile(`\b(?P<year>` + yearLong + `)\b`)

	// Bare-Month: a standalone 1-12 numeral.
	reBareMonth = compile(`\b(?P<month>` + monthNum + `)\b`)

	// Tail of a canonical date: text ending in "yyyy ".
	reYearTail = regexp.MustCompile(yearLong + ` $`)

	// A date already in output form: "yyyy MM" or "yyyy MM dd", padded.
	reCanonicalDate = regexp.MustCompile(
		`\b(?:` + yearLong + `) (?:` + monthPad + `)(?: (?:` + dayPad + `))?\b`)

	// Eight digits that read as a valid yyyyMMdd.
	reCompactISO = regexp.MustCompile(`^(?:` + yearLong + `)(?:` + monthPad + `)(?:` + dayPad + `)$`)
)

var (
	dayYearMonthSet = withAccept(NewBareSet("day-year-month",
		&Pattern{Name: "day-year-month", Re: reDayYearMonth}), notAfterYear, notCompactISO, notSplittingDate)

	usDateSet = withAccept(NewBareSet("us-date",
		&Pattern{Name: "us-date", Re: reUSDate}), notAfterYear, notSplittingDate)

	bareYearSet  = NewBareSet("bare-year", &Pattern{Name: "bare-year", Re: reBareYear})
	bareMonthSet = NewBareSet("bare-month", &Pattern{Name: "bare-month", Re: reBareMonth})
)

// bestDatePatterns lists the recognizers used to locate the date to relocate,
// most complete first.
var bestDatePatterns = []*Pattern{
	{Name: "long-date", Re: reLongDate},
	{Name: "month-year", Re: reMonthYear},
	{Name: "year", Re: reLongYear},
	{Name: "month", Re: reBareMonth},
}

func buildApostropheSet() PatternSet {
	patterns := make([]*Pattern, 0, len(monthTable))
	for _, m := range monthTable {
		patterns = append(patterns, &Pattern{
			Name:  "month-apostrophe-year/" + m.value,
			Re:    compile(`\b(?P<month>` + m.names + `|` + m.numeral + `)` + quote + `(?P<year>` + yearAny + `)\b`),
			Value: m.value,
		})
	}
	return NewKeyedSet("month-apostrophe-year", patterns...)
}

func buildNamedMonthSet() PatternSet {
	patterns := make([]*Pattern, 0, len(monthTable))
	for _, m := range monthTable {
		patterns = append(patterns, &Pattern{
			Name:  "named-month/" + m.value,
			Re:    compile(`\b(?:` + m.names + `)\b`),
			Value: m.value,
		})
	}
	return NewKeyedSet("named-month", patterns...)
}

// withAccept installs the conjunction of fns as the set's Accept.
func withAccept(s PatternSet, fns ...AcceptFunc) PatternSet {
	s.Accept = func(text string, c Candidate) bool {
		for _, fn := range fns {
			if !fn(text, c) {
				return false
			}
		}
		return true
	}
	return s
}

// notAfterYear rejects candidates that start right after "yyyy ", i.e. the
// month and day of a date that is already canonical.
func notAfterYear(text string, c Candidate) bool {
	return !reYearTail.MatchString(text[:c.Start])
}

// notCompactISO rejects a compact candidate whose digits are a valid
// yyyyMMdd; 20190305 is March 5th, not the 20th of May 1903.
func notCompactISO(text string, c Candidate) bool {
	return !reCompactISO.MatchString(c.Text())
}

// notSplittingDate rejects candidates that cut through a canonical date.
// A candidate may swallow a canonical date whole ("9 2014 06") but may not
// take only part of one, so rewritten dates stay put on later passes.
func notSplittingDate(text string, c Candidate) bool {
	for _, loc := range reCanonicalDate.FindAllStringIndex(text, -1) {
		overlaps := c.Start < loc[1] && loc[0] < c.End
		covers := c.Start <= loc[0] && loc[1] <= c.End
		if overlaps && !covers {
			return false
		}
	}
	return true
}
