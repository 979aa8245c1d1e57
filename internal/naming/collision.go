package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// CollisionResolver hands out destination paths that are neither on disk
// nor claimed earlier in the run. Duplicates get " N" appended to the stem.
// All methods are goroutine-safe.
type CollisionResolver struct {
	mu       sync.Mutex
	owners   map[string]string // destination path → input path that owns it
	counters map[string]int    // requested path → next suffix to try
	exists   func(path string) bool
}

// NewCollisionResolver creates a resolver. exists reports whether a path is
// taken on disk; nil means [PathExists].
func NewCollisionResolver(exists func(path string) bool) *CollisionResolver {
	if exists == nil {
		exists = PathExists
	}
	return &CollisionResolver{
		owners:   make(map[string]string),
		counters: make(map[string]int),
		exists:   exists,
	}
}

// PathExists reports whether anything exists at path.
func PathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// Resolve returns the destination for input. requested is returned as-is
// when it is free (or already owned by input); otherwise "stem 1.ext",
// "stem 2.ext" and so on are tried.
func (cr *CollisionResolver) Resolve(input, requested string) string {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if cr.free(input, requested) {
		cr.owners[requested] = input
		return requested
	}

	dir := filepath.Dir(requested)
	stem, ext := SplitStem(filepath.Base(requested))

	counter := cr.counters[requested]
	if counter == 0 {
		counter = 1
	}
	for {
		candidate := filepath.Join(dir, fmt.Sprintf("%s %d%s", stem, counter, ext))
		counter++
		if cr.free(input, candidate) {
			cr.counters[requested] = counter
			cr.owners[candidate] = input
			return candidate
		}
	}
}

// Release gives up a claim, e.g. after a failed rename.
func (cr *CollisionResolver) Release(path string) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	delete(cr.owners, path)
}

func (cr *CollisionResolver) free(input, path string) bool {
	if owner, ok := cr.owners[path]; ok {
		return owner == input
	}
	return path == input || !cr.exists(path)
}
