package ui

import "github.com/piwi3910/BlockFit/internal/model"

const defaultMaxDepth = 50

// Snapshot captures the editable job state at a point in time.
type Snapshot struct {
	Blocks    []model.Block
	Container model.Container
	Settings  model.Settings
	Label     string // Human-readable description (e.g. "Add Block")
}

// History manages undo/redo stacks of job snapshots.
type History struct {
	undoStack []Snapshot
	redoStack []Snapshot
	maxDepth  int
}

// NewHistory creates a History with the default max depth of 50.
func NewHistory() *History {
	return &History{
		maxDepth: defaultMaxDepth,
	}
}

// Push saves a snapshot onto the undo stack and clears the redo stack.
// Call it before the modification is applied.
func (h *History) Push(s Snapshot) {
	h.undoStack = append(h.undoStack, s)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxDepth:]
	}
	h.redoStack = nil
}

// Undo pops the most recent snapshot and pushes current onto the redo
// stack. It returns false when there is nothing to undo.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, current)
	return last, true
}

// Redo pops the most recent undone snapshot and pushes current onto the
// undo stack. It returns false when there is nothing to redo.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, current)
	return last, true
}

func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// Clear removes all undo and redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

// MakeSnapshot copies the job's editable state under a label.
func MakeSnapshot(job model.Job, label string) Snapshot {
	var blocks []model.Block
	if job.Blocks != nil {
		blocks = make([]model.Block, len(job.Blocks))
		copy(blocks, job.Blocks)
	}
	return Snapshot{
		Blocks:    blocks,
		Container: job.Container,
		Settings:  job.Settings,
		Label:     label,
	}
}

// Apply restores the snapshot into job, keeping its name.
func (s Snapshot) Apply(job *model.Job) {
	job.Blocks = s.Blocks
	job.Container = s.Container
	job.Settings = s.Settings
}
