package dataset

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherFiresOnChange(t *testing.T) {
	p := writeDataset(t, nil)

	changed := make(chan string, 1)
	w := NewWatcher(p, 10*time.Millisecond, func(path string) {
		select {
		case changed <- path:
		default:
		}
	})
	w.Start()
	defer w.Stop()

	// Give the watcher a cycle to prime its mtime cache, then bump the
	// file's mtime well past any filesystem timestamp granularity.
	time.Sleep(50 * time.Millisecond)
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(p.NemesesPath(), future, future))

	select {
	case path := <-changed:
		assert.Equal(t, p.NemesesPath(), path)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never reported the change")
	}
}

func TestWatcherIgnoresMissingFiles(t *testing.T) {
	p := writeDataset(t, nil)
	require.NoError(t, os.Remove(p.FoesPath()))

	changed := make(chan string, 1)
	w := NewWatcher(p, 10*time.Millisecond, func(path string) { changed <- path })
	w.Start()
	defer w.Stop()

	select {
	case path := <-changed:
		t.Fatalf("unexpected change for %s", path)
	case <-time.After(100 * time.Millisecond):
	}
}
