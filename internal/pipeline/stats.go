package pipeline

// RunStats tracks aggregate counters across a batch run.
type RunStats struct {
	Total     int // files considered for renaming
	Renamed   int // includes "would rename" in dry runs
	Unchanged int
	Deleted   int // junk files removed (or that would be)
	Failed    int
}

// OK reports whether every file was handled without error.
func (s *RunStats) OK() bool { return s.Failed == 0 }
