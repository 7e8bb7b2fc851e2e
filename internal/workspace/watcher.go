package workspace

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher records files created under a task directory while abilities run,
// so terminal steps can report the artifacts a task produced.
type Watcher struct {
	root    string
	watcher *fsnotify.Watcher

	mu        sync.Mutex
	artifacts []string

	done chan struct{}
}

// NewWatcher starts watching the task directory and any subdirectories
// created while it runs.
func NewWatcher(root string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(root); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", root, err)
	}

	w := &Watcher{
		root:    root,
		watcher: fw,
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create == 0 {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil {
				continue
			}
			if info.IsDir() {
				if err := w.watcher.Add(event.Name); err != nil {
					log.Printf("failed to watch new dir %s: %v", event.Name, err)
				}
				continue
			}
			rel, err := filepath.Rel(w.root, event.Name)
			if err != nil {
				rel = event.Name
			}
			w.mu.Lock()
			w.artifacts = append(w.artifacts, rel)
			w.mu.Unlock()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

// Artifacts returns the files recorded so far, task-relative.
func (w *Watcher) Artifacts() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.artifacts))
	copy(out, w.artifacts)
	return out
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
