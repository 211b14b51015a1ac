package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, path string) *Watcher {
	t.Helper()
	w, err := NewWatcher(path, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start())
	t.Cleanup(w.Stop)
	return w
}

func waitChange(t *testing.T, w *Watcher) Change {
	t.Helper()
	select {
	case c := <-w.Changes:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change")
		return Change{}
	}
}

func TestWatcher_DetectsAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"events":[]}`), 0644))
	w := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte(`{"events":[{"id":"e1"}]}`), 0644))

	c := waitChange(t, w)
	assert.Equal(t, ChangeModified, c.Kind)
	assert.Equal(t, w.Path, c.Path)
}

func TestWatcher_CoalescesBursts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	w := startWatcher(t, path)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte('a' + i)}, 0644))
	}
	waitChange(t, w)

	select {
	case c := <-w.Changes:
		t.Errorf("burst produced a second change: %+v", c)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.json")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	w := startWatcher(t, path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("x"), 0644))

	select {
	case c := <-w.Changes:
		t.Errorf("unexpected change: %+v", c)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_DetectsRemoval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	w := startWatcher(t, path)

	require.NoError(t, os.Remove(path))
	assert.Equal(t, ChangeRemoved, waitChange(t, w).Kind)
}

func TestChangeKind_String(t *testing.T) {
	assert.Equal(t, "modified", ChangeModified.String())
	assert.Equal(t, "removed", ChangeRemoved.String())
}

func TestWatcher_StartFailureReleasesWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "events.json")
	w, err := NewWatcher(path)
	require.NoError(t, err)

	err = w.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watching")

	_, open := <-w.Changes
	assert.False(t, open, "Changes is closed after a failed start")
	assert.Error(t, w.watcher.Add(t.TempDir()), "the fsnotify watcher is closed")
}
