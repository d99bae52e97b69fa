package editor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHistoryUndoRedo(t *testing.T) {
	h := NewHistory("S0")
	h.Push("S1")

	if got, ok := h.Undo(); !ok || got != "S0" {
		t.Fatalf("Undo() = %q, %v, want S0, true", got, ok)
	}
	if got, ok := h.Redo(); !ok || got != "S1" {
		t.Fatalf("Redo() = %q, %v, want S1, true", got, ok)
	}
}

func TestHistoryBoundaries(t *testing.T) {
	h := NewHistory("S0")

	if got, ok := h.Undo(); ok || got != "S0" {
		t.Errorf("Undo() at start = %q, %v, want S0, false", got, ok)
	}
	if got, ok := h.Redo(); ok || got != "S0" {
		t.Errorf("Redo() at end = %q, %v, want S0, false", got, ok)
	}
	if h.Position() != 0 || h.Len() != 1 {
		t.Errorf("boundary calls changed state: position %d, len %d", h.Position(), h.Len())
	}
}

func TestHistoryPushDiscardsRedoBranch(t *testing.T) {
	h := NewHistory("S0")
	h.Push("S1")
	h.Push("S2")
	h.Undo()
	h.Undo()

	h.Push("S3")

	if diff := cmp.Diff([]string{"S0", "S3"}, h.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}
	if h.CanRedo() {
		t.Error("CanRedo() = true after Push")
	}
	if got := h.Current(); got != "S3" {
		t.Errorf("Current() = %q, want S3", got)
	}
}

func TestHistoryUndoRedoDoNotMutateEntries(t *testing.T) {
	h := NewHistory(0)
	for i := 1; i <= 4; i++ {
		h.Push(i)
	}
	before := append([]int(nil), h.Entries()...)

	for h.CanUndo() {
		h.Undo()
	}
	for h.CanRedo() {
		h.Redo()
	}

	if diff := cmp.Diff(before, h.Entries()); diff != "" {
		t.Errorf("Undo/Redo changed entries (-before +after):\n%s", diff)
	}
	if h.Position() != 4 {
		t.Errorf("Position() = %d, want 4", h.Position())
	}
}

func TestHistoryLimit(t *testing.T) {
	h := NewHistory(0)
	h.SetLimit(3)
	for i := 1; i <= 5; i++ {
		h.Push(i)
	}

	if diff := cmp.Diff([]int{3, 4, 5}, h.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}
	if h.Position() != 2 {
		t.Errorf("Position() = %d, want 2", h.Position())
	}

	h.Undo()
	h.Undo()
	if _, ok := h.Undo(); ok {
		t.Error("Undo() past the retained window succeeded")
	}
	if got := h.Current(); got != 3 {
		t.Errorf("Current() = %d, want 3", got)
	}
}

func TestHistoryLimitKeepsCurrent(t *testing.T) {
	tests := []struct {
		name         string
		position     int
		limit        int
		wantEntries  []int
		wantPosition int
	}{
		{name: "current at end", position: 9, limit: 5, wantEntries: []int{5, 6, 7, 8, 9}, wantPosition: 4},
		{name: "current in middle", position: 6, limit: 5, wantEntries: []int{5, 6, 7, 8, 9}, wantPosition: 1},
		{name: "current near start", position: 2, limit: 5, wantEntries: []int{2, 3, 4, 5, 6}, wantPosition: 0},
		{name: "current at start", position: 0, limit: 3, wantEntries: []int{0, 1, 2}, wantPosition: 0},
		{name: "within limit", position: 3, limit: 20, wantEntries: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, wantPosition: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := RestoreHistory([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, tt.position)
			if !ok {
				t.Fatal("RestoreHistory() failed")
			}
			h.SetLimit(tt.limit)

			if diff := cmp.Diff(tt.wantEntries, h.Entries()); diff != "" {
				t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
			}
			if h.Position() != tt.wantPosition {
				t.Errorf("Position() = %d, want %d", h.Position(), tt.wantPosition)
			}
			if h.Current() != tt.position {
				t.Errorf("Current() = %d, want %d", h.Current(), tt.position)
			}
		})
	}
}

func TestRestoreHistory(t *testing.T) {
	if _, ok := RestoreHistory([]int{}, 0); ok {
		t.Error("RestoreHistory(empty) succeeded")
	}
	if _, ok := RestoreHistory([]int{1, 2}, 2); ok {
		t.Error("RestoreHistory(position out of range) succeeded")
	}

	h, ok := RestoreHistory([]int{1, 2, 3}, 1)
	if !ok {
		t.Fatal("RestoreHistory() failed")
	}
	if !h.CanUndo() || !h.CanRedo() || h.Current() != 2 {
		t.Errorf("restored history: current %d, canUndo %v, canRedo %v", h.Current(), h.CanUndo(), h.CanRedo())
	}
}
