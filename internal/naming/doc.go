// Package naming recognizes dates in free-form file names and rewrites them
// into a canonical "yyyy MM dd" prefix.
//
// The engine is pure: callers pass in the stem, the parent directory name
// and the modification time, and get back a [RenameDecision]. Compiled
// patterns are package-level and read-only, so stems may be normalized
// concurrently.
//
// Layout:
//   - rules.go: pattern library and pattern sets
//   - tokens.go: year/month/day normalization and [FragmentError]
//   - clean.go: separator and bracket cleanup
//   - resolver.go: rescan-after-rewrite candidate resolution
//   - fixer.go: the ordered [FixDate] stages
//   - context.go: date relocation and parent/mtime fallback ([Normalize])
//   - collision.go, outputpath.go: destination paths for the renamer
package naming
