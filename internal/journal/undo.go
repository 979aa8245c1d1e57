package journal

import (
	"errors"
	"fmt"
	"os"
)

// ErrTargetExists is reported for an entry whose original path is taken again.
var ErrTargetExists = errors.New("original path already exists")

// UndoFailure is an entry that could not be reverted.
type UndoFailure struct {
	Entry Entry
	Err   error
}

// UndoResult summarizes an undo.
type UndoResult struct {
	RunID    string
	Restored []Entry
	Failed   []UndoFailure
}

// Undo renames the files of a run back, newest rename first. It never
// overwrites an existing file. Entries that fail stay recorded as not undone
// so the undo can be retried.
func (j *Journal) Undo(runID string) (UndoResult, error) {
	res := UndoResult{RunID: runID}
	entries, err := j.Entries(runID)
	if err != nil {
		return res, err
	}

	pending := 0
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.Undone {
			continue
		}
		pending++
		if err := revert(e); err != nil {
			res.Failed = append(res.Failed, UndoFailure{Entry: e, Err: err})
			continue
		}
		if err := j.markUndone(e.ID); err != nil {
			return res, fmt.Errorf("failed to mark rename %d undone: %w", e.ID, err)
		}
		res.Restored = append(res.Restored, e)
	}
	if pending == 0 {
		return res, fmt.Errorf("%w: run %s", ErrNothingToUndo, runID)
	}
	return res, nil
}

func revert(e Entry) error {
	if _, err := os.Lstat(e.OldPath); err == nil {
		return fmt.Errorf("%w: %s", ErrTargetExists, e.OldPath)
	}
	if err := os.Rename(e.NewPath, e.OldPath); err != nil {
		return fmt.Errorf("failed to rename back: %w", err)
	}
	return nil
}
