package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todolist/internal/config"
	"github.com/idilsaglam/todolist/internal/kv"
)

type harness struct {
	cfg      *config.Config
	out, err bytes.Buffer
}

func newHarness(t *testing.T, backend string) *harness {
	t.Helper()
	cfg := config.Default()
	cfg.Backend = backend
	cfg.Theme = "mono"
	cfg.DataDir = t.TempDir()
	cfg.SQLitePath = filepath.Join(cfg.DataDir, "todo.db")
	require.NoError(t, cfg.Validate())
	return &harness{cfg: cfg}
}

func (h *harness) run(args ...string) int {
	h.out.Reset()
	h.err.Reset()
	return Run(args, Options{Config: h.cfg, Logger: zerolog.Nop(), Out: &h.out, Err: &h.err})
}

func TestHelpAndUsage(t *testing.T) {
	h := newHarness(t, kv.BackendMemory)

	assert.Equal(t, 2, h.run())
	assert.Contains(t, h.out.String(), "Usage:")

	assert.Equal(t, 0, h.run("help"))
	assert.Equal(t, 2, h.run("add"))
	assert.Contains(t, h.err.String(), "usage: todo add")
	assert.Equal(t, 2, h.run("done", "x"))
	assert.Contains(t, h.err.String(), "not a number")
	assert.Equal(t, 2, h.run("rm"))
	assert.Equal(t, 2, h.run("frobnicate"))
	assert.Contains(t, h.err.String(), "unknown subcommand")
}

func TestScenarioAcrossRuns(t *testing.T) {
	for _, backend := range []string{kv.BackendFile, kv.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			h := newHarness(t, backend)

			require.Equal(t, 0, h.run("ls"))
			assert.Contains(t, h.out.String(), "no items")

			require.Equal(t, 0, h.run("add", "Buy", "milk"))
			assert.Contains(t, h.out.String(), "added #1")
			require.Equal(t, 0, h.run("done", "1"))
			assert.Contains(t, h.out.String(), "#1 complete")
			require.Equal(t, 0, h.run("add", "Call mom"))
			assert.Contains(t, h.out.String(), "added #2")
			require.Equal(t, 0, h.run("done", "2"))
			require.Equal(t, 0, h.run("rm", "1"))

			require.Equal(t, 0, h.run("ls"))
			assert.Contains(t, h.out.String(), "  2 [x] Call mom")
			assert.NotContains(t, h.out.String(), "[x] Buy milk")
			assert.NotContains(t, h.out.String(), "[ ] Buy milk")

			require.Equal(t, 0, h.run("add", "Pay rent"))
			assert.Contains(t, h.out.String(), "added #3", "ids are not reused")
		})
	}
}

func TestFileLayout(t *testing.T) {
	h := newHarness(t, kv.BackendFile)
	require.Equal(t, 0, h.run("add", "Buy milk"))

	b, err := os.ReadFile(filepath.Join(h.cfg.DataDir, "todos.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"text":"Buy milk","complete":false}]`, string(b))
}

func TestBlankAddAndMissingIDs(t *testing.T) {
	h := newHarness(t, kv.BackendFile)

	assert.Equal(t, 2, h.run("add", "   "))
	assert.Contains(t, h.err.String(), "empty text")

	assert.Equal(t, 2, h.run("done", "9"))
	assert.Contains(t, h.err.String(), "no item with id 9")
	assert.Equal(t, 2, h.run("rm", "9"))

	require.Equal(t, 0, h.run("add", "a"))
	require.Equal(t, 0, h.run("rm", "1"))
	assert.Equal(t, 2, h.run("rm", "1"), "second delete finds nothing")
}

func TestClear(t *testing.T) {
	h := newHarness(t, kv.BackendFile)
	require.Equal(t, 0, h.run("add", "a"))
	require.Equal(t, 0, h.run("add", "b"))

	require.Equal(t, 0, h.run("clear"))
	assert.Contains(t, h.out.String(), "cleared 2 items")
	_, err := os.Stat(filepath.Join(h.cfg.DataDir, "todos.json"))
	assert.True(t, os.IsNotExist(err))

	require.Equal(t, 0, h.run("add", "c"))
	assert.Contains(t, h.out.String(), "added #1")
}

func TestGroupedList(t *testing.T) {
	h := newHarness(t, kv.BackendFile)
	h.cfg.Group = true
	require.Equal(t, 0, h.run("add", "a"))
	require.Equal(t, 0, h.run("ls"))
	assert.Contains(t, h.out.String(), "Pending")
	assert.Contains(t, h.out.String(), "Done")
}

func TestCorruptSnapshotDegradesToEmpty(t *testing.T) {
	h := newHarness(t, kv.BackendFile)
	require.NoError(t, os.WriteFile(filepath.Join(h.cfg.DataDir, "todos.json"), []byte("{oops"), 0o644))

	require.Equal(t, 0, h.run("ls"))
	assert.Contains(t, h.out.String(), "no items")
}

func TestWriteFailureReported(t *testing.T) {
	h := newHarness(t, kv.BackendFile)
	// A directory where the snapshot file should go makes the rename fail.
	require.NoError(t, os.Mkdir(filepath.Join(h.cfg.DataDir, "todos.json"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(h.cfg.DataDir, "todos.json", "x"), nil, 0o644))

	assert.Equal(t, 1, h.run("add", "a"))
	assert.Contains(t, h.out.String(), "added #1")
	assert.Contains(t, h.err.String(), "not saved")
}

func TestOpenBackendUnknown(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = "etcd"
	_, err := openBackend(cfg, zerolog.Nop())
	assert.Error(t, err)
}
