// Package editor implements the palette editing session: lock-aware regeneration,
// positional edits and undo/redo over palette snapshots.
package editor

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	mathrand "math/rand/v2"
	"slices"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/swatch/internal/colour"
)

// MinPaletteSize is the smallest palette a session will hold.
const MinPaletteSize = 3

var (
	// ErrIndexOutOfRange is returned when an operation names a position outside the palette.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrPaletteTooSmall is returned when a session would hold fewer than MinPaletteSize colours.
	ErrPaletteTooSmall = fmt.Errorf("palette must have at least %d colours", MinPaletteSize)
)

// RandomSource supplies uniformly distributed random values. *math/rand/v2.Rand satisfies it.
type RandomSource interface {
	Uint32() uint32
}

// Snapshot is the recorded state of a session: colours and the lock mask, always the same length.
type Snapshot struct {
	Colors []colour.RGB `json:"colors"`
	Locks  []bool       `json:"locks"`
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{Colors: slices.Clone(s.Colors), Locks: slices.Clone(s.Locks)}
}

func (s Snapshot) equal(o Snapshot) bool {
	return slices.Equal(s.Colors, o.Colors) && slices.Equal(s.Locks, o.Locks)
}

func (s Snapshot) validate() error {
	if len(s.Colors) != len(s.Locks) {
		return fmt.Errorf("snapshot has %d colours but %d locks", len(s.Colors), len(s.Locks))
	}
	if len(s.Colors) < MinPaletteSize {
		return fmt.Errorf("%w, got %d", ErrPaletteTooSmall, len(s.Colors))
	}
	return nil
}

// Session is a single user's palette editing state. It is not safe for concurrent use.
type Session struct {
	state   Snapshot
	history *History[Snapshot]
	rng     RandomSource
	logger  hclog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithRandomSource sets the source used by Regenerate.
func WithRandomSource(rng RandomSource) Option {
	return func(s *Session) {
		s.rng = rng
	}
}

// WithHistoryLimit bounds the number of snapshots kept for undo.
func WithHistoryLimit(limit int) Option {
	return func(s *Session) {
		s.history.SetLimit(limit)
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger hclog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewRandomSource returns a ChaCha8 generator seeded from crypto/rand.
func NewRandomSource() *mathrand.Rand {
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		// crypto/rand does not fail on supported platforms; fall back to the global source.
		binary.LittleEndian.PutUint64(seed[:8], mathrand.Uint64())
	}
	return mathrand.New(mathrand.NewChaCha8(seed)) // #nosec G404 -- palette generation, not cryptography
}

// NewSession starts a session from initial with every position unlocked.
func NewSession(initial *colour.Palette, opts ...Option) (*Session, error) {
	if initial == nil || initial.Len() < MinPaletteSize {
		n := 0
		if initial != nil {
			n = initial.Len()
		}
		return nil, fmt.Errorf("%w, got %d", ErrPaletteTooSmall, n)
	}

	state := Snapshot{
		Colors: slices.Clone(initial.Colors),
		Locks:  make([]bool, initial.Len()),
	}
	return newSession(NewHistory(state), opts), nil
}

// RestoreSession rebuilds a session from saved snapshots and the current position.
func RestoreSession(snapshots []Snapshot, position int, opts ...Option) (*Session, error) {
	for i, snap := range snapshots {
		if err := snap.validate(); err != nil {
			return nil, fmt.Errorf("snapshot %d: %w", i, err)
		}
	}
	history, ok := RestoreHistory(snapshots, position)
	if !ok {
		return nil, fmt.Errorf("invalid history position %d for %d snapshots", position, len(snapshots))
	}
	return newSession(history, opts), nil
}

// newSession applies opts and then takes its state from the current history entry,
// which a history limit may have moved.
func newSession(history *History[Snapshot], opts []Option) *Session {
	s := &Session{
		history: history,
		logger:  hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = s.history.Current().clone()
	if s.rng == nil {
		s.rng = NewRandomSource()
	}
	return s
}

// commit records the current state in the history if it differs from the last snapshot.
func (s *Session) commit(op string) {
	if s.state.equal(s.history.Current()) {
		return
	}
	s.history.Push(s.state.clone())
	s.logger.Debug("palette updated", "op", op, "colors", s.Hex(), "history", s.history.Len())
}

func (s *Session) checkIndex(index int) error {
	if index < 0 || index >= len(s.state.Colors) {
		return fmt.Errorf("%w: %d (palette has %d colours)", ErrIndexOutOfRange, index, len(s.state.Colors))
	}
	return nil
}

// Regenerate replaces every unlocked colour with a uniformly random 24-bit colour.
func (s *Session) Regenerate() {
	for i, locked := range s.state.Locks {
		if !locked {
			s.state.Colors[i] = colour.RGBFromUint32(s.rng.Uint32() & 0xffffff)
		}
	}
	s.commit("regenerate")
}

// ToggleLock flips the lock at index.
func (s *Session) ToggleLock(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.state.Locks[index] = !s.state.Locks[index]
	s.commit("lock")
	return nil
}

// SetColor replaces the colour at index. The lock state is left untouched.
func (s *Session) SetColor(index int, c colour.RGB) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.state.Colors[index] = c
	s.commit("set")
	return nil
}

// RemoveColor removes the colour and lock at index. When the palette is already at
// MinPaletteSize nothing is removed and false is returned.
func (s *Session) RemoveColor(index int) (bool, error) {
	if err := s.checkIndex(index); err != nil {
		return false, err
	}
	if len(s.state.Colors) <= MinPaletteSize {
		return false, nil
	}
	s.state.Colors = slices.Delete(s.state.Colors, index, index+1)
	s.state.Locks = slices.Delete(s.state.Locks, index, index+1)
	s.commit("remove")
	return true, nil
}

// Swap exchanges the colours and locks at a and b. Either both move or neither does.
func (s *Session) Swap(a, b int) error {
	if err := s.checkIndex(a); err != nil {
		return err
	}
	if err := s.checkIndex(b); err != nil {
		return err
	}
	if a == b {
		return nil
	}
	s.state.Colors[a], s.state.Colors[b] = s.state.Colors[b], s.state.Colors[a]
	s.state.Locks[a], s.state.Locks[b] = s.state.Locks[b], s.state.Locks[a]
	s.commit("swap")
	return nil
}

// AddColor appends an unlocked colour.
func (s *Session) AddColor(c colour.RGB) {
	s.state.Colors = append(s.state.Colors, c)
	s.state.Locks = append(s.state.Locks, false)
	s.commit("add")
}

// Replace swaps in a whole new palette, for example one extracted from an image.
// All locks are cleared.
func (s *Session) Replace(p *colour.Palette) error {
	if p == nil || p.Len() < MinPaletteSize {
		n := 0
		if p != nil {
			n = p.Len()
		}
		return fmt.Errorf("%w, got %d", ErrPaletteTooSmall, n)
	}
	s.state = Snapshot{
		Colors: slices.Clone(p.Colors),
		Locks:  make([]bool, p.Len()),
	}
	s.commit("replace")
	return nil
}

// Undo restores the previous snapshot. It returns false if there is nothing to undo.
func (s *Session) Undo() bool {
	snap, ok := s.history.Undo()
	if ok {
		s.state = snap.clone()
	}
	return ok
}

// Redo restores the next snapshot. It returns false if there is nothing to redo.
func (s *Session) Redo() bool {
	snap, ok := s.history.Redo()
	if ok {
		s.state = snap.clone()
	}
	return ok
}

// CanUndo reports whether Undo would change the palette.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether Redo would change the palette.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// Len returns the number of colours in the palette.
func (s *Session) Len() int { return len(s.state.Colors) }

// Palette returns a copy of the current palette.
func (s *Session) Palette() *colour.Palette {
	return colour.NewPalette(slices.Clone(s.state.Colors))
}

// Hex returns the current palette as canonical hex strings.
func (s *Session) Hex() []string {
	return s.Palette().ToHex()
}

// Locks returns a copy of the lock mask.
func (s *Session) Locks() []bool {
	return slices.Clone(s.state.Locks)
}

// Display returns the palette as it appears under the given vision deficiency.
// The stored palette is unchanged.
func (s *Session) Display(v colour.VisionDeficiency) *colour.Palette {
	return colour.SimulatePalette(s.Palette(), v)
}

// Snapshots returns a copy of the history and the current position, for persistence.
func (s *Session) Snapshots() ([]Snapshot, int) {
	entries := s.history.Entries()
	out := make([]Snapshot, len(entries))
	for i, e := range entries {
		out[i] = e.clone()
	}
	return out, s.history.Position()
}
