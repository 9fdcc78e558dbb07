package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/trivial-time-sheet/internal/model"
)

func sampleSnapshot() model.Snapshot {
	return model.Snapshot{
		Employees: []string{"John Doe", "Jane Smith"},
		Entries: model.EmployeeEntryMap{
			"John Doe": {
				"2024-06-14": {
					ID: "2024-06-14", Day: 14, Project: "Project Phoenix",
					Begin: "09:00", End: "17:30", Pause: 60, Total: 450,
				},
			},
		},
	}
}

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	sqlite, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })
	return map[string]Backend{
		"json":   NewFileBackend(t.TempDir()),
		"sqlite": sqlite,
	}
}

func TestSnapshots_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := NewSnapshots(b, nil)
			want := sampleSnapshot()
			require.NoError(t, s.Save(ctx, want))

			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestSnapshots_MissingMeansEmpty(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			got, err := NewSnapshots(b, nil).Load(ctx)
			require.NoError(t, err)
			assert.NotNil(t, got.Employees)
			assert.Empty(t, got.Employees)
			assert.NotNil(t, got.Entries)
			assert.Empty(t, got.Entries)
		})
	}
}

func TestSnapshots_Overwrite(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := NewSnapshots(b, nil)
			require.NoError(t, s.SaveEmployees(ctx, []string{"A"}))
			require.NoError(t, s.SaveEmployees(ctx, []string{"B", "C"}))

			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"B", "C"}, got.Employees)
		})
	}
}

func TestFileBackend_WritesReadableJSON(t *testing.T) {
	dir := t.TempDir()
	s := NewSnapshots(NewFileBackend(dir), nil)
	require.NoError(t, s.SaveEmployees(context.Background(), []string{"John Doe"}))

	data, err := os.ReadFile(filepath.Join(dir, "employees.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `["John Doe"]`, string(data))

	_, err = os.Stat(filepath.Join(dir, "employees.json.tmp"))
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestFileBackend_CorruptFileBackedUp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entries.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewSnapshots(NewFileBackend(dir), nil).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt JSON")

	_, err = os.Stat(path + ".corrupt")
	assert.NoError(t, err)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestBaseDir_EnvOverride(t *testing.T) {
	t.Setenv("TTS_HOME", "/tmp/tts-test-home")
	dir, err := BaseDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/tts-test-home", dir)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	b, err := Open("json", dir)
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, b)

	b, err = Open("sqlite", filepath.Join(dir, "sub", "tts.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteBackend{}, b)
	require.NoError(t, b.Close())

	_, err = Open("mongo", dir)
	assert.Error(t, err)
}
