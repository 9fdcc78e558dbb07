package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"

	"github.com/Tiliavir/trivial-time-sheet/internal/model"
)

// Names of the two persisted snapshots.
const (
	SnapshotEmployees = "employees"
	SnapshotEntries   = "entries"
)

// Backend reads and writes opaque named blobs.
// Read reports found == false for a snapshot that was never written.
type Backend interface {
	Read(ctx context.Context, name string) (data []byte, found bool, err error)
	Write(ctx context.Context, name string, data []byte) error
	Close() error
}

// BaseDir returns the root data directory: $TTS_HOME if set, otherwise
// $XDG_DATA_HOME/tts.
func BaseDir() (string, error) {
	if dir := os.Getenv("TTS_HOME"); dir != "" {
		return dir, nil
	}
	if xdg.DataHome == "" {
		return "", fmt.Errorf("cannot determine data directory")
	}
	return filepath.Join(xdg.DataHome, "tts"), nil
}

// Snapshots serialises the roster and the entry map to a Backend.
type Snapshots struct {
	backend Backend
	log     logrus.FieldLogger
}

// NewSnapshots wraps a backend.
func NewSnapshots(b Backend, log logrus.FieldLogger) *Snapshots {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Snapshots{backend: b, log: log}
}

// Load reads both snapshots. A missing snapshot yields an empty value.
func (s *Snapshots) Load(ctx context.Context) (model.Snapshot, error) {
	snap := model.Snapshot{
		Employees: []string{},
		Entries:   model.EmployeeEntryMap{},
	}
	if err := s.read(ctx, SnapshotEmployees, &snap.Employees); err != nil {
		return model.Snapshot{}, err
	}
	if err := s.read(ctx, SnapshotEntries, &snap.Entries); err != nil {
		return model.Snapshot{}, err
	}
	if snap.Employees == nil {
		snap.Employees = []string{}
	}
	if snap.Entries == nil {
		snap.Entries = model.EmployeeEntryMap{}
	}
	return snap, nil
}

// SaveEmployees writes the roster snapshot.
func (s *Snapshots) SaveEmployees(ctx context.Context, employees []string) error {
	return s.write(ctx, SnapshotEmployees, employees)
}

// SaveEntries writes the entry map snapshot.
func (s *Snapshots) SaveEntries(ctx context.Context, entries model.EmployeeEntryMap) error {
	return s.write(ctx, SnapshotEntries, entries)
}

// Save writes both snapshots.
func (s *Snapshots) Save(ctx context.Context, snap model.Snapshot) error {
	if err := s.SaveEmployees(ctx, snap.Employees); err != nil {
		return err
	}
	return s.SaveEntries(ctx, snap.Entries)
}

// Close releases the backend.
func (s *Snapshots) Close() error {
	return s.backend.Close()
}

func (s *Snapshots) read(ctx context.Context, name string, v any) error {
	data, found, err := s.backend.Read(ctx, name)
	if err != nil {
		return err
	}
	if !found {
		s.log.WithField("snapshot", name).Debug("snapshot not found, starting empty")
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("storage error decoding snapshot %q: %w", name, err)
	}
	return nil
}

func (s *Snapshots) write(ctx context.Context, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling snapshot %q: %w", name, err)
	}
	if err := s.backend.Write(ctx, name, data); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"snapshot": name, "bytes": len(data)}).Debug("snapshot written")
	return nil
}

// Open selects a backend by name ("json" or "sqlite"). path overrides the
// default location under BaseDir.
func Open(backend, path string) (Backend, error) {
	switch backend {
	case "", "json":
		if path == "" {
			base, err := BaseDir()
			if err != nil {
				return nil, err
			}
			path = base
		}
		return NewFileBackend(path), nil
	case "sqlite":
		if path == "" {
			base, err := BaseDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(base, "tts.db")
		}
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want json or sqlite)", backend)
	}
}
