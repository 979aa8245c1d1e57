package naming

import "fmt"

// stage is one step of a FixDate pass.
type stage struct {
	name string
	run  func(string) (string, bool, error)
}

// fixStages run in this order; richer notations must be resolved before the
// single-field stages see the text.
var fixStages = []stage{
	{"month-apostrophe-year", fixApostropheYear},
	{"year", fixYears},
	{"named-month", fixNamedMonths},
	{"day-year-month", fixDayYearMonth},
	{"us-date", fixUSDate},
	{"month-numeral", fixMonthNumerals},
}

// FixDate rewrites every recognized date notation in name into year-first,
// zero-padded fields. matched reports whether any notation was recognized,
// which can be true for a name that is already canonical.
//
// Standalone years are normalized ('14 becomes 2014). Standalone month
// numerals are padded only when the name has no four-digit year.
//
// The stages are repeated until the text stops changing, so a rewrite that
// lines up a new notation is resolved too and FixDate(FixDate(x)) equals
// FixDate(x).
func FixDate(name string) (string, bool, error) {
	text := name
	hit := false
	// Every pass that changes the text consumes a month name, an apostrophe
	// or a loose numeral, none of which grow back, so this bound is never
	// reached; real names settle in two or three passes.
	for pass := 0; pass <= 5*len(name); pass++ {
		out, matched, err := fixPass(text)
		if err != nil {
			return name, false, err
		}
		hit = hit || matched
		if out == text {
			break
		}
		text = out
	}
	return text, hit, nil
}

// fixPass runs every stage once.
func fixPass(text string) (string, bool, error) {
	hit := false
	for _, st := range fixStages {
		out, matched, err := st.run(text)
		if err != nil {
			return text, false, fmt.Errorf("%s: %w", st.name, err)
		}
		text = out
		hit = hit || matched
	}
	return text, hit, nil
}

// fixApostropheYear moves the first Apr'16 style date to the front as
// "2016 04 " and rewrites any later ones in place.
func fixApostropheYear(text string) (string, bool, error) {
	moved := false
	out, matched, err := Resolve(text, apostropheYearSet, func(text string, c Candidate) (string, int, error) {
		year, err := NormalizeYear(c.Group("year"))
		if err != nil {
			return text, 0, err
		}
		date := year + " " + c.Value()
		if moved {
			return replaceSpan(text, c.Start, c.End, date), c.Start + len(date), nil
		}
		moved = true
		prefix := date + " "
		return prefix + replaceSpan(text, c.Start, c.End, ""), len(prefix) + c.Start, nil
	})
	if err != nil || !matched {
		return text, matched, err
	}
	return collapseSpaces(out), true, nil
}

// fixNamedMonths replaces month names with their numeral in place.
func fixNamedMonths(text string) (string, bool, error) {
	return Resolve(text, namedMonthSet, func(text string, c Candidate) (string, int, error) {
		return replaceSpan(text, c.Start, c.End, c.Value()), c.Start + len(c.Value()), nil
	})
}

// fixDayYearMonth rearranges "d yyyy m" into "yyyy MM dd".
func fixDayYearMonth(text string) (string, bool, error) {
	return Resolve(text, dayYearMonthSet, rewriteYMD)
}

// fixUSDate rearranges "m d yy" into "yyyy MM dd".
func fixUSDate(text string) (string, bool, error) {
	return Resolve(text, usDateSet, rewriteYMD)
}

// rewriteYMD replaces the candidate with its year, month and day groups in
// canonical order.
func rewriteYMD(text string, c Candidate) (string, int, error) {
	year, err := NormalizeYear(c.Group("year"))
	if err != nil {
		return text, 0, err
	}
	month, err := normalizeField("month", c.Group("month"))
	if err != nil {
		return text, 0, err
	}
	day, err := normalizeField("day", c.Group("day"))
	if err != nil {
		return text, 0, err
	}
	date := year + " " + month + " " + day
	return replaceSpan(text, c.Start, c.End, date), c.Start + len(date), nil
}

// fixYears normalizes standalone years: '14 and '2014 become 2014.
func fixYears(text string) (string, bool, error) {
	return Resolve(text, bareYearSet, func(text string, c Candidate) (string, int, error) {
		year, err := NormalizeYear(c.Group("year"))
		if err != nil {
			return text, 0, err
		}
		return replaceSpan(text, c.Start, c.End, year), c.Start + len(year), nil
	})
}

// fixMonthNumerals pads standalone month numerals, unless the text has a
// four-digit year: then a lone number is more likely a count than a month.
func fixMonthNumerals(text string) (string, bool, error) {
	if reLongYear.MatchString(text) {
		return text, false, nil
	}
	return Resolve(text, bareMonthSet, func(text string, c Candidate) (string, int, error) {
		month, err := normalizeField("month", c.Group("month"))
		if err != nil {
			return text, 0, err
		}
		return replaceSpan(text, c.Start, c.End, month), c.Start + len(month), nil
	})
}
