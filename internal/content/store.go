package content

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// Store holds the current Site and swaps it on reload.
type Store struct {
	dir string

	mu   sync.RWMutex
	site *Site
}

func NewStore(dir string) (*Store, error) {
	site, err := Load(dir)
	if err != nil {
		return nil, err
	}
	return &Store{dir: dir, site: site}, nil
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) Site() *Site {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.site
}

// Reload re-reads the content directory. On error the current site is kept.
func (s *Store) Reload() error {
	site, err := Load(s.dir)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.site = site
	s.mu.Unlock()
	return nil
}

// Watch reloads the store whenever a content file changes, until ctx is done.
// Bursts of events within the debounce window cause a single reload.
func (s *Store) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("content: watch: %w", err)
	}
	if err := w.Add(s.dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("content: watch %s: %w", s.dir, err)
	}

	go func() {
		defer w.Close()
		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				if !isContentFile(event.Name) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(reloadDebounce)
				} else {
					timer.Reset(reloadDebounce)
				}
				fire = timer.C
			case <-fire:
				fire = nil
				if err := s.Reload(); err != nil {
					log.Printf("Content reload failed, keeping previous content: %v", err)
					continue
				}
				log.Printf("Content reloaded from %s", s.dir)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("Content watcher error: %v", err)
			}
		}
	}()
	return nil
}

func isContentFile(name string) bool {
	base := filepath.Base(name)
	for _, f := range Files {
		if f == base {
			return true
		}
	}
	return false
}
