// Package state persists an editing session between CLI invocations.
//
// Files are JSON. Paths ending in ".xz" are transparently xz-compressed.
package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/editor"
	"github.com/jmylchreest/swatch/internal/security"
)

// formatVersion is written to every state file.
const formatVersion = 1

// maxStateBytes bounds how much is read from a state file after decompression.
const maxStateBytes = 16 << 20

// ErrNoSession is returned by Load when the state file does not exist.
var ErrNoSession = errors.New("no saved session")

type fileSnapshot struct {
	Colors []string `json:"colors"`
	Locks  []bool   `json:"locks"`
}

type fileFormat struct {
	Version  int            `json:"version"`
	Position int            `json:"position"`
	History  []fileSnapshot `json:"history"`
}

// Store reads and writes a session file.
type Store struct {
	path   string
	logger hclog.Logger
}

// NewStore creates a Store for path.
func NewStore(path string, logger hclog.Logger) *Store {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Store{path: path, logger: logger.Named("state")}
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) compressed() bool {
	return strings.HasSuffix(s.path, ".xz")
}

// Load restores the saved session. opts are applied to the restored session.
func (s *Store) Load(opts ...editor.Option) (*editor.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNoSession, s.path)
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	if s.compressed() {
		r, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		data, err = io.ReadAll(security.NewLimitedReader(r, maxStateBytes))
		if err != nil {
			return nil, fmt.Errorf("failed to decompress state file: %w", err)
		}
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}
	if f.Version != formatVersion {
		return nil, fmt.Errorf("unsupported state file version %d", f.Version)
	}

	snapshots := make([]editor.Snapshot, len(f.History))
	for i, fs := range f.History {
		p, err := colour.ParsePalette(fs.Colors)
		if err != nil {
			return nil, fmt.Errorf("history entry %d: %w", i, err)
		}
		snapshots[i] = editor.Snapshot{Colors: p.Colors, Locks: fs.Locks}
	}

	session, err := editor.RestoreSession(snapshots, f.Position, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid state file: %w", err)
	}
	s.logger.Debug("session loaded", "path", s.path, "snapshots", len(snapshots), "position", f.Position)
	return session, nil
}

// Save writes session to the state file, replacing it atomically.
func (s *Store) Save(session *editor.Session) error {
	snapshots, position := session.Snapshots()
	f := fileFormat{
		Version:  formatVersion,
		Position: position,
		History:  make([]fileSnapshot, len(snapshots)),
	}
	for i, snap := range snapshots {
		f.History[i] = fileSnapshot{
			Colors: colour.NewPalette(snap.Colors).ToHex(),
			Locks:  snap.Locks,
		}
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if s.compressed() {
		var buf bytes.Buffer
		w, err := xz.NewWriter(&buf)
		if err != nil {
			return fmt.Errorf("failed to create xz writer: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to compress session: %w", err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("failed to compress session: %w", err)
		}
		data = buf.Bytes()
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - State directory needs standard permissions
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".swatch-state-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	s.logger.Debug("session saved", "path", s.path, "snapshots", len(snapshots), "bytes", len(data))
	return nil
}

// DefaultPath returns the default state file location under the user's state directory.
func DefaultPath() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "", fmt.Errorf("failed to determine state directory: %w", err)
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "swatch", "session.json"), nil
}
