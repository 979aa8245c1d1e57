package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Discovery is the result of walking one or more input directories.
type Discovery struct {
	Files    []string // candidates for renaming, sorted
	Junk     []string // files whose base name is on the delete list, sorted
	Excluded int      // files and directories skipped by the exclusion list
}

// Discover walks inputDir recursively. Paths (relative to inputDir) that
// contain any exclude substring are skipped, pruning whole directories.
// Hidden files are never renamed. Results are sorted lexicographically for
// deterministic processing order.
func Discover(inputDir string, exclude, deleteNames []string) (Discovery, error) {
	var d Discovery
	junk := make(map[string]bool, len(deleteNames))
	for _, n := range deleteNames {
		junk[n] = true
	}

	err := filepath.WalkDir(inputDir, func(path string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(inputDir, path)
		if relErr != nil || rel == "." {
			return nil
		}
		if excluded(rel, exclude) {
			d.Excluded++
			if e.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if e.IsDir() || !e.Type().IsRegular() {
			return nil
		}

		name := e.Name()
		switch {
		case junk[name]:
			d.Junk = append(d.Junk, path)
		case strings.HasPrefix(name, "."):
			// hidden
		default:
			d.Files = append(d.Files, path)
		}
		return nil
	})
	if err != nil {
		return Discovery{}, err
	}
	sort.Strings(d.Files)
	sort.Strings(d.Junk)
	return d, nil
}

func excluded(rel string, exclude []string) bool {
	for _, s := range exclude {
		if s != "" && strings.Contains(rel, s) {
			return true
		}
	}
	return false
}
