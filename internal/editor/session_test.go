package editor

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jmylchreest/swatch/internal/colour"
)

// sequence is a RandomSource that replays fixed values.
type sequence struct {
	values []uint32
	next   int
}

func (s *sequence) Uint32() uint32 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func palette(t *testing.T, hex ...string) *colour.Palette {
	t.Helper()
	p, err := colour.ParsePalette(hex)
	if err != nil {
		t.Fatalf("ParsePalette() error = %v", err)
	}
	return p
}

func newTestSession(t *testing.T, hex ...string) *Session {
	t.Helper()
	s, err := NewSession(palette(t, hex...), WithRandomSource(&sequence{
		values: []uint32{0x112233, 0xff445566, 0x778899},
	}))
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	return s
}

// checkInvariant asserts the palette and lock mask have the same length.
func checkInvariant(t *testing.T, s *Session) {
	t.Helper()
	if len(s.Locks()) != s.Len() {
		t.Fatalf("lock mask has %d entries, palette has %d", len(s.Locks()), s.Len())
	}
}

func TestNewSession(t *testing.T) {
	s := newTestSession(t, "#000001", "#000002", "#000003")
	if diff := cmp.Diff([]bool{false, false, false}, s.Locks()); diff != "" {
		t.Errorf("initial locks mismatch (-want +got):\n%s", diff)
	}
	if s.CanUndo() || s.CanRedo() {
		t.Error("new session has history to undo or redo")
	}

	_, err := NewSession(palette(t, "#000001", "#000002"))
	if !errors.Is(err, ErrPaletteTooSmall) {
		t.Errorf("NewSession(2 colours) error = %v, want ErrPaletteTooSmall", err)
	}
	if _, err := NewSession(nil); !errors.Is(err, ErrPaletteTooSmall) {
		t.Errorf("NewSession(nil) error = %v, want ErrPaletteTooSmall", err)
	}
}

func TestRegenerateRespectsLocks(t *testing.T) {
	s := newTestSession(t, "#000001", "#000002", "#000003")
	if err := s.ToggleLock(1); err != nil {
		t.Fatalf("ToggleLock() error = %v", err)
	}

	s.Regenerate()

	// The high byte of the second value is masked off.
	want := []string{"#112233", "#000002", "#445566"}
	if diff := cmp.Diff(want, s.Hex()); diff != "" {
		t.Errorf("Regenerate() mismatch (-want +got):\n%s", diff)
	}
	checkInvariant(t, s)
}

func TestRegenerateAllLockedIsNoop(t *testing.T) {
	s := newTestSession(t, "#000001", "#000002", "#000003")
	for i := range 3 {
		_ = s.ToggleLock(i)
	}
	before := s.Hex()
	historyBefore, _ := s.Snapshots()

	s.Regenerate()

	if diff := cmp.Diff(before, s.Hex()); diff != "" {
		t.Errorf("Regenerate() changed a fully locked palette:\n%s", diff)
	}
	if after, _ := s.Snapshots(); len(after) != len(historyBefore) {
		t.Errorf("Regenerate() without changes recorded history: %d -> %d", len(historyBefore), len(after))
	}
}

func TestRegenerateDefaultSource(t *testing.T) {
	s, err := NewSession(colour.DefaultPalette())
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	s.Regenerate()
	if s.Len() != 5 {
		t.Errorf("Len() = %d after Regenerate, want 5", s.Len())
	}
}

func TestToggleLock(t *testing.T) {
	s := newTestSession(t, "#000001", "#000002", "#000003")

	if err := s.ToggleLock(2); err != nil {
		t.Fatalf("ToggleLock() error = %v", err)
	}
	if diff := cmp.Diff([]bool{false, false, true}, s.Locks()); diff != "" {
		t.Errorf("locks mismatch (-want +got):\n%s", diff)
	}
	_ = s.ToggleLock(2)
	if s.Locks()[2] {
		t.Error("second ToggleLock() did not unlock")
	}

	for _, i := range []int{-1, 3} {
		if err := s.ToggleLock(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("ToggleLock(%d) error = %v, want ErrIndexOutOfRange", i, err)
		}
	}
}

func TestSetColor(t *testing.T) {
	s := newTestSession(t, "#000001", "#000002", "#000003")
	_ = s.ToggleLock(0)

	if err := s.SetColor(0, colour.MustParseHex("#abcdef")); err != nil {
		t.Fatalf("SetColor() error = %v", err)
	}
	if got := s.Hex()[0]; got != "#abcdef" {
		t.Errorf("colour 0 = %s, want #abcdef", got)
	}
	if !s.Locks()[0] {
		t.Error("SetColor() changed the lock state")
	}
	if err := s.SetColor(5, colour.RGB{}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("SetColor(5) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestRemoveColor(t *testing.T) {
	s := newTestSession(t, "#000001", "#000002", "#000003", "#000004")
	_ = s.ToggleLock(3)

	removed, err := s.RemoveColor(1)
	if err != nil || !removed {
		t.Fatalf("RemoveColor() = %v, %v, want true, nil", removed, err)
	}
	if diff := cmp.Diff([]string{"#000001", "#000003", "#000004"}, s.Hex()); diff != "" {
		t.Errorf("palette mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{false, false, true}, s.Locks()); diff != "" {
		t.Errorf("locks mismatch (-want +got):\n%s", diff)
	}

	removed, err = s.RemoveColor(0)
	if err != nil || removed {
		t.Errorf("RemoveColor() at minimum size = %v, %v, want false, nil", removed, err)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}

	if _, err := s.RemoveColor(3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("RemoveColor(3) error = %v, want ErrIndexOutOfRange", err)
	}
	checkInvariant(t, s)
}

func TestSwap(t *testing.T) {
	s := newTestSession(t, "#000001", "#000002", "#000003")
	_ = s.ToggleLock(0)

	if err := s.Swap(0, 2); err != nil {
		t.Fatalf("Swap() error = %v", err)
	}
	if diff := cmp.Diff([]string{"#000003", "#000002", "#000001"}, s.Hex()); diff != "" {
		t.Errorf("palette mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{false, false, true}, s.Locks()); diff != "" {
		t.Errorf("locks mismatch (-want +got):\n%s", diff)
	}

	before := s.Hex()
	if err := s.Swap(0, 3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Swap(0, 3) error = %v, want ErrIndexOutOfRange", err)
	}
	if err := s.Swap(-1, 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Swap(-1, 0) error = %v, want ErrIndexOutOfRange", err)
	}
	if err := s.Swap(1, 1); err != nil {
		t.Errorf("Swap(1, 1) error = %v", err)
	}
	if diff := cmp.Diff(before, s.Hex()); diff != "" {
		t.Errorf("failed or identity swap changed the palette:\n%s", diff)
	}
}

func TestAddAndReplace(t *testing.T) {
	s := newTestSession(t, "#000001", "#000002", "#000003")
	_ = s.ToggleLock(0)

	s.AddColor(colour.MustParseHex("#ffffff"))
	if s.Len() != 4 || s.Locks()[3] {
		t.Errorf("AddColor() len %d locks %v", s.Len(), s.Locks())
	}
	checkInvariant(t, s)

	if err := s.Replace(palette(t, "#aaaaaa", "#bbbbbb", "#cccccc")); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if diff := cmp.Diff([]bool{false, false, false}, s.Locks()); diff != "" {
		t.Errorf("Replace() did not reset locks:\n%s", diff)
	}
	if err := s.Replace(palette(t, "#aaaaaa")); !errors.Is(err, ErrPaletteTooSmall) {
		t.Errorf("Replace(1 colour) error = %v, want ErrPaletteTooSmall", err)
	}
}

func TestUndoRedo(t *testing.T) {
	s := newTestSession(t, "#000001", "#000002", "#000003", "#000004")
	s0 := s.Hex()

	_ = s.SetColor(0, colour.MustParseHex("#ffffff"))
	s1 := s.Hex()

	if !s.Undo() {
		t.Fatal("Undo() = false")
	}
	if diff := cmp.Diff(s0, s.Hex()); diff != "" {
		t.Errorf("Undo() mismatch (-want +got):\n%s", diff)
	}
	if !s.Redo() {
		t.Fatal("Redo() = false")
	}
	if diff := cmp.Diff(s1, s.Hex()); diff != "" {
		t.Errorf("Redo() mismatch (-want +got):\n%s", diff)
	}

	s.Undo()
	_ = s.SetColor(1, colour.MustParseHex("#eeeeee"))
	if s.CanRedo() {
		t.Error("CanRedo() = true after a new edit")
	}
	if s.Redo() {
		t.Error("Redo() succeeded after the redo branch was discarded")
	}
}

func TestUndoRestoresLocksWithColours(t *testing.T) {
	s := newTestSession(t, "#000001", "#000002", "#000003", "#000004")
	_ = s.ToggleLock(3)

	if _, err := s.RemoveColor(0); err != nil {
		t.Fatalf("RemoveColor() error = %v", err)
	}
	s.Undo()

	checkInvariant(t, s)
	if diff := cmp.Diff([]bool{false, false, false, true}, s.Locks()); diff != "" {
		t.Errorf("locks after undo mismatch (-want +got):\n%s", diff)
	}
}

func TestUndoDoesNotAliasHistory(t *testing.T) {
	s := newTestSession(t, "#000001", "#000002", "#000003")
	_ = s.SetColor(0, colour.MustParseHex("#ffffff"))
	s.Undo()
	_ = s.SetColor(2, colour.MustParseHex("#eeeeee"))
	s.Undo()

	if got := s.Hex()[2]; got != "#000003" {
		t.Errorf("colour 2 after undo = %s, want #000003", got)
	}
}

func TestHistoryLimitOption(t *testing.T) {
	s, err := NewSession(palette(t, "#000001", "#000002", "#000003"), WithHistoryLimit(2))
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	for i := range 5 {
		_ = s.SetColor(0, colour.RGB{R: uint8(i + 10)})
	}
	if snaps, _ := s.Snapshots(); len(snaps) != 2 {
		t.Errorf("retained %d snapshots, want 2", len(snaps))
	}
}

func TestRestoreSession(t *testing.T) {
	s := newTestSession(t, "#000001", "#000002", "#000003")
	_ = s.SetColor(0, colour.MustParseHex("#ffffff"))
	_ = s.ToggleLock(1)
	s.Undo()

	snaps, pos := s.Snapshots()
	restored, err := RestoreSession(snaps, pos)
	if err != nil {
		t.Fatalf("RestoreSession() error = %v", err)
	}
	if diff := cmp.Diff(s.Hex(), restored.Hex()); diff != "" {
		t.Errorf("restored palette mismatch (-want +got):\n%s", diff)
	}
	if !restored.CanRedo() {
		t.Error("restored session lost its redo branch")
	}

	bad := []Snapshot{{Colors: snaps[0].Colors, Locks: []bool{true}}}
	if _, err := RestoreSession(bad, 0); err == nil {
		t.Error("RestoreSession(mismatched locks) expected error")
	}
	if _, err := RestoreSession(snaps, len(snaps)); err == nil {
		t.Error("RestoreSession(position out of range) expected error")
	}
}

func TestRestoreSessionWithLowerHistoryLimit(t *testing.T) {
	snaps := make([]Snapshot, 10)
	for i := range snaps {
		snaps[i] = Snapshot{
			Colors: []colour.RGB{{R: uint8(i)}, {G: 1}, {B: 1}},
			Locks:  make([]bool, 3),
		}
	}

	s, err := RestoreSession(snaps, 2, WithHistoryLimit(5))
	if err != nil {
		t.Fatalf("RestoreSession() error = %v", err)
	}
	if got := s.Palette().Colors[0].R; got != 2 {
		t.Errorf("current palette R = %d, want 2", got)
	}

	saved, pos := s.Snapshots()
	if len(saved) != 5 {
		t.Errorf("retained %d snapshots, want 5", len(saved))
	}
	if got := saved[pos].Colors[0].R; got != 2 {
		t.Errorf("saved position points at R = %d, want 2", got)
	}
	if s.CanUndo() {
		t.Error("CanUndo() = true, want false")
	}
	if !s.Redo() {
		t.Fatal("Redo() = false, want true")
	}
	if got := s.Palette().Colors[0].R; got != 3 {
		t.Errorf("palette after Redo R = %d, want 3", got)
	}
}

func TestDisplay(t *testing.T) {
	s := newTestSession(t, "#ff0000", "#00ff00", "#0000ff")
	display := s.Display(colour.VisionAchromatopsia)
	for _, c := range display.Colors {
		if c.R != c.G || c.G != c.B {
			t.Errorf("Display(achromatopsia) colour %s is not grey", c.Hex())
		}
	}
	if s.Hex()[0] != "#ff0000" {
		t.Error("Display() modified the stored palette")
	}
}
