package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/sundrift/prism/engine/core"
)

// Watcher follows one configuration file and delivers a freshly parsed
// Config whenever it changes on disk. Parse or validation failures of the
// changed file go to Errors; the previously delivered configuration stays in
// effect.
type Watcher struct {
	path     string
	fsnotify *fsnotify.Watcher

	configs chan *Config
	errors  chan error
	done    chan struct{}

	closeOnce sync.Once
}

// NewWatcher starts watching the configuration file at path. The parent
// directory is watched rather than the file itself, since editors typically
// replace the file on save and a direct watch would be lost with the old
// inode.
func NewWatcher(path string) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatch.Add(filepath.Dir(path)); err != nil {
		fsWatch.Close()
		return nil, err
	}

	w := &Watcher{
		path:     path,
		fsnotify: fsWatch,
		configs:  make(chan *Config),
		errors:   make(chan error),
		done:     make(chan struct{}),
	}
	go w.start()

	core.LogDebug("watching configuration file %s", path)

	return w, nil
}

// Configs delivers a parsed configuration per change. The channel closes when
// the watcher is closed.
func (w *Watcher) Configs() <-chan *Config {
	return w.configs
}

// Errors delivers parse and filesystem errors. The channel closes when the
// watcher is closed.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

func (w *Watcher) start() {
	for {
		select {
		case e := <-w.fsnotify.Events:
			if filepath.Clean(e.Name) != filepath.Clean(w.path) {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				core.LogError(err.Error())
				w.deliverError(err)
				continue
			}
			core.LogInfo("configuration reloaded from %s", w.path)
			select {
			case w.configs <- cfg:
			case <-w.done:
			}

		case e := <-w.fsnotify.Errors:
			core.LogError(e.Error())
			w.deliverError(e)

		case <-w.done:
			w.fsnotify.Close()
			close(w.configs)
			close(w.errors)
			return
		}
	}
}

func (w *Watcher) deliverError(err error) {
	select {
	case w.errors <- err:
	case <-w.done:
	}
}

// Close stops the watcher and closes both channels.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)
	})
	return nil
}
