// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

// Package watch notices when another process rewrites a key file in a
// kvstore.FileStore directory and reloads the store that owns it.
//
// The watcher holds an inotify watch on the directory, not the files.
// FileStore replaces files by renaming a temporary file over them,
// which creates a new inode each time, so a watch on the old file
// would miss the replacement. IN_CLOSE_WRITE catches editors that
// write in place; IN_MOVED_TO catches the rename.
//
// The watcher does not compare content itself. Each Reloader ignores
// data matching what it last read or wrote, so the process's own
// writes come back as "unchanged" and produce no callback.
package watch

import (
	"context"
	"encoding/binary"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/ticketflow/ticketflow/lib/kvstore"
)

// DefaultDebounce is how long the watcher waits after the first event
// before reloading, so a burst of writes becomes one reload.
const DefaultDebounce = 50 * time.Millisecond

// pollInterval bounds how long Stop can take.
const pollInterval = 100

// Reloader re-reads persisted state and reports whether it changed.
// session.Store and ticketstore.Store implement it.
type Reloader interface {
	Reload(ctx context.Context) (bool, error)
}

// Target binds a key to the store that owns it.
type Target struct {
	Key      string
	Reloader Reloader
}

// Config describes what to watch.
type Config struct {
	// Directory is the FileStore directory.
	Directory string
	Targets   []Target

	// OnChange runs on the watcher goroutine after a Reload that
	// reported a change.
	OnChange func(key string)

	// OnError runs when a Reload fails, typically because another
	// process wrote something undecodable. The store keeps its
	// previous state.
	OnError func(key string, err error)

	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher is a running directory watch. Stop it when done.
type Watcher struct {
	fd       int
	config   Config
	byName   map[string]Target
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Start begins watching cfg.Directory.
func Start(cfg Config) (*Watcher, error) {
	if cfg.Directory == "" {
		return nil, errors.New("watch: directory is required")
	}
	if len(cfg.Targets) == 0 {
		return nil, errors.New("watch: at least one target is required")
	}
	directory, err := filepath.Abs(cfg.Directory)
	if err != nil {
		return nil, err
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	byName := make(map[string]Target, len(cfg.Targets))
	for _, target := range cfg.Targets {
		if err := kvstore.ValidateKey(target.Key); err != nil {
			return nil, err
		}
		if target.Reloader == nil {
			return nil, errors.New("watch: target " + target.Key + " has no reloader")
		}
		byName[kvstore.Filename(target.Key)] = target
	}

	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, err
	}
	if _, err := unix.InotifyAddWatch(fd, directory, unix.IN_CLOSE_WRITE|unix.IN_MOVED_TO); err != nil {
		unix.Close(fd)
		return nil, err
	}

	watcher := &Watcher{
		fd:     fd,
		config: cfg,
		byName: byName,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go watcher.loop()
	cfg.Logger.Debug("watching store directory", "directory", directory, "targets", len(byName))
	return watcher, nil
}

// Stop ends the watch and waits for the watcher goroutine to exit. It
// is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	<-w.done
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer unix.Close(w.fd)

	buffer := make([]byte, 4096)
	for {
		select {
		case <-w.stop:
			return
		default:
		}

		descriptors := []unix.PollFd{{Fd: int32(w.fd), Events: unix.POLLIN}}
		count, err := unix.Poll(descriptors, pollInterval)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			w.config.Logger.Error("store watcher stopped", "error", err)
			return
		}
		if count == 0 {
			continue
		}

		changed := make(map[string]bool)
		if !w.readEvents(buffer, changed) {
			continue
		}
		if len(changed) == 0 {
			continue
		}

		time.Sleep(w.config.Debounce)
		for w.readEvents(buffer, changed) {
		}

		w.reload(changed)
	}
}

// readEvents reads one batch of pending events into changed. It
// returns false when nothing was pending.
func (w *Watcher) readEvents(buffer []byte, changed map[string]bool) bool {
	bytesRead, err := unix.Read(w.fd, buffer)
	if err != nil || bytesRead <= 0 {
		return false
	}
	for _, name := range eventNames(buffer[:bytesRead]) {
		if _, ok := w.byName[name]; ok {
			changed[name] = true
		}
	}
	return true
}

func (w *Watcher) reload(changed map[string]bool) {
	ctx := context.Background()
	for name := range changed {
		target := w.byName[name]
		updated, err := target.Reloader.Reload(ctx)
		if err != nil {
			w.config.Logger.Warn("reloading after external change failed", "key", target.Key, "error", err)
			if w.config.OnError != nil {
				w.config.OnError(target.Key, err)
			}
			continue
		}
		if !updated {
			continue
		}
		w.config.Logger.Info("store changed externally", "key", target.Key)
		if w.config.OnChange != nil {
			w.config.OnChange(target.Key)
		}
	}
}

// eventNames extracts the file names from a buffer of inotify events.
// Layout from inotify(7):
//
//	struct inotify_event {
//	    int32_t  wd;     // offset 0
//	    uint32_t mask;   // offset 4
//	    uint32_t cookie; // offset 8
//	    uint32_t len;    // offset 12
//	    char     name[]; // offset 16, null-padded
//	};
func eventNames(buffer []byte) []string {
	var names []string
	offset := 0
	for offset+unix.SizeofInotifyEvent <= len(buffer) {
		nameLength := int(binary.NativeEndian.Uint32(buffer[offset+12 : offset+16]))
		eventSize := unix.SizeofInotifyEvent + nameLength
		if offset+eventSize > len(buffer) {
			break
		}
		if nameLength > 0 {
			names = append(names, nullTerminated(buffer[offset+unix.SizeofInotifyEvent:offset+eventSize]))
		}
		offset += eventSize
	}
	return names
}

func nullTerminated(data []byte) string {
	for i, b := range data {
		if b == 0 {
			return string(data[:i])
		}
	}
	return string(data)
}
