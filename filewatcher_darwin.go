//go:build darwin

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

// FileWatcher reports source file changes through kqueue
type FileWatcher struct {
	kq       int
	watchMap map[int]string
	mu       sync.Mutex
	debounce *debouncer
}

func NewFileWatcher(onChange func(string)) (*FileWatcher, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, fmt.Errorf("kqueue failed: %w", err)
	}

	return &FileWatcher{
		kq:       kq,
		watchMap: make(map[int]string),
		debounce: newDebouncer(onChange),
	}, nil
}

func (fw *FileWatcher) AddFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	fd, err := unix.Open(absPath, unix.O_RDONLY, 0)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", absPath, err)
	}

	event := unix.Kevent_t{
		Ident:  uint64(fd),
		Filter: unix.EVFILT_VNODE,
		Flags:  unix.EV_ADD | unix.EV_CLEAR,
		Fflags: unix.NOTE_WRITE | unix.NOTE_ATTRIB,
	}

	if _, err := unix.Kevent(fw.kq, []unix.Kevent_t{event}, nil, nil); err != nil {
		unix.Close(fd)
		return fmt.Errorf("failed to add kevent for %s: %w", absPath, err)
	}

	fw.mu.Lock()
	fw.watchMap[fd] = absPath
	fw.mu.Unlock()

	return nil
}

// Watch blocks, dispatching change events until Close is called
func (fw *FileWatcher) Watch() {
	events := make([]unix.Kevent_t, 10)

	for {
		n, err := unix.Kevent(fw.kq, nil, events, nil)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			if VerboseMode {
				fmt.Fprintf(os.Stderr, "Stopped reading kevents: %v\n", err)
			}
			return
		}

		for i := 0; i < n; i++ {
			fw.mu.Lock()
			path := fw.watchMap[int(events[i].Ident)]
			fw.mu.Unlock()

			if path != "" {
				fw.debounce.trigger(path)
			}
		}
	}
}

func (fw *FileWatcher) Close() error {
	fw.debounce.stop()

	fw.mu.Lock()
	defer fw.mu.Unlock()

	for fd := range fw.watchMap {
		unix.Close(fd)
	}

	return unix.Close(fw.kq)
}
