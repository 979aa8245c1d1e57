package naming

import (
	"regexp"
	"strings"
)

var (
	// reSeparators matches the characters treated as word separators.
	reSeparators = regexp.MustCompile(`[ .,_+\-]`)

	// reBrackets matches bracket, paren and brace characters (not their content).
	reBrackets = regexp.MustCompile(`[()\[\]{}]`)
)

// collapseSpaces folds every whitespace run into one space and trims the ends.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CleanName turns separators and %20 into spaces, collapses whitespace and
// strips bracket characters. The bool reports whether the cleaned name ends
// with the trimmed original, which is only true when cleaning had no effect.
func CleanName(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	s := reSeparators.ReplaceAllString(trimmed, " ")
	s = strings.ReplaceAll(s, "%20", " ")
	s = collapseSpaces(s)
	s = strings.TrimSpace(reBrackets.ReplaceAllString(s, ""))
	return s, strings.HasSuffix(s, trimmed)
}

// CleanFileName cleans the stem of base and keeps its extension as-is.
func CleanFileName(base string) string {
	stem, ext := SplitStem(base)
	cleaned, _ := CleanName(stem)
	return cleaned + ext
}
