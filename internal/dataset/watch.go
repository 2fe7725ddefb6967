package dataset

import (
	"os"
	"time"
)

// Watcher polls the dataset files' modification times and fires a callback
// when any of them changes, so a long-running process can serve edited
// datasets without a restart.
type Watcher struct {
	paths    []string
	interval time.Duration
	onChange func(path string)

	stopCh    chan struct{}
	lastMTime map[string]time.Time
}

// NewWatcher creates a watcher over every dataset file under p.
func NewWatcher(p Paths, interval time.Duration, onChange func(path string)) *Watcher {
	return &Watcher{
		paths: []string{
			p.WavesPath(), p.SettingsPath(), p.MagesPath(),
			p.NemesesPath(), p.FriendsPath(), p.FoesPath(),
		},
		interval:  interval,
		onChange:  onChange,
		stopCh:    make(chan struct{}),
		lastMTime: make(map[string]time.Time),
	}
}

// Start begins polling in a goroutine.
func (w *Watcher) Start() {
	ticker := time.NewTicker(w.interval)
	go func() {
		defer ticker.Stop()
		w.scan(true)
		for {
			select {
			case <-ticker.C:
				w.scan(false)
			case <-w.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the watcher.
func (w *Watcher) Stop() {
	close(w.stopCh)
}

func (w *Watcher) scan(prime bool) {
	for _, p := range w.paths {
		fi, err := os.Stat(p)
		if err != nil {
			// Missing files stay missing until they reappear.
			continue
		}
		mt := fi.ModTime()
		last, ok := w.lastMTime[p]
		if !ok {
			w.lastMTime[p] = mt
			continue
		}
		if mt.After(last) {
			w.lastMTime[p] = mt
			if !prime && w.onChange != nil {
				w.onChange(p)
			}
		}
	}
}
