package naming

import "unicode/utf8"

// Candidate is one match of a Pattern against the text being resolved.
// Offsets refer to that text; a Candidate is stale once the text changes.
type Candidate struct {
	Start, End int
	Pattern    *Pattern

	text string
	loc  []int
}

// Text returns the matched span.
func (c Candidate) Text() string { return c.text[c.Start:c.End] }

// Value returns the replacement carried by a keyed pattern.
func (c Candidate) Value() string { return c.Pattern.Value }

// Group returns the first participating capture group called name, or "".
// Patterns may reuse a group name across alternatives.
func (c Candidate) Group(name string) string {
	for i, n := range c.Pattern.Re.SubexpNames() {
		if n != name || c.loc[2*i] < 0 {
			continue
		}
		return c.text[c.loc[2*i]:c.loc[2*i+1]]
	}
	return ""
}

// RewriteFunc rewrites text around c and returns the new text plus the
// offset (in the new text) where scanning resumes.
type RewriteFunc func(text string, c Candidate) (string, int, error)

// Resolve applies rewrite to every candidate of set in text, left to right.
// The text is rescanned after each rewrite, so offsets never go stale. At
// each step the leftmost candidate at or after the resume offset wins; ties
// go to the longer match, then to the earlier pattern in the set. matched
// reports whether any candidate was found, even if rewriting left the text
// as it was.
func Resolve(text string, set PatternSet, rewrite RewriteFunc) (string, bool, error) {
	matched := false
	pos := 0
	for pos <= len(text) {
		c, ok := set.next(text, pos)
		if !ok {
			break
		}
		matched = true

		out, resume, err := rewrite(text, c)
		if err != nil {
			return text, matched, err
		}
		if resume <= c.Start {
			resume = max(c.End, c.Start+1)
		}
		text, pos = out, min(resume, len(out)+1)
	}
	return text, matched, nil
}

// next finds the winning candidate starting at or after pos.
func (s PatternSet) next(text string, pos int) (Candidate, bool) {
	var best Candidate
	found := false
	for _, p := range s.Patterns {
		c, ok := s.first(p, text, pos)
		if !ok {
			continue
		}
		if !found || c.Start < best.Start ||
			(c.Start == best.Start && c.End-c.Start > best.End-best.Start) {
			best, found = c, true
		}
	}
	return best, found
}

// first returns the leftmost acceptable match of p at or after pos. After a
// rejection the search resumes one rune past the rejected start, so a veto
// never hides a match that overlaps it.
func (s PatternSet) first(p *Pattern, text string, pos int) (Candidate, bool) {
	for off := pos; off <= len(text); {
		off = searchStart(text, off)
		loc := p.Re.FindStringSubmatchIndex(text[off:])
		if loc == nil {
			return Candidate{}, false
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += off
			}
		}
		c := Candidate{Start: loc[0], End: loc[1], Pattern: p, text: text, loc: loc}
		if s.Accept == nil || s.Accept(text, c) {
			return c, true
		}
		_, size := utf8.DecodeRuneInString(text[c.Start:])
		off = c.Start + max(size, 1)
	}
	return Candidate{}, false
}

// searchStart moves off out of the middle of a word. Matching text[off:]
// treats off as a word boundary; every pattern opens with \b or a
// non-word character, so no real match can start inside a word anyway.
func searchStart(text string, off int) int {
	for off > 0 && off < len(text) && isWordByte(text[off-1]) && isWordByte(text[off]) {
		off++
	}
	return off
}

func isWordByte(b byte) bool {
	return b == '_' || '0' <= b && b <= '9' || 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z'
}

// replaceSpan substitutes repl for text[start:end].
func replaceSpan(text string, start, end int, repl string) string {
	return text[:start] + repl + text[end:]
}
