// Completion: 100% - Platform-independent part of the file watcher
package main

import (
	"sync"
	"time"
)

// debounceDelay is how long a file must stay quiet before onChange runs
const debounceDelay = 500 * time.Millisecond

// debouncer coalesces bursts of change events per path
type debouncer struct {
	mu       sync.Mutex
	timers   map[string]*time.Timer
	onChange func(string)
}

func newDebouncer(onChange func(string)) *debouncer {
	return &debouncer{
		timers:   make(map[string]*time.Timer),
		onChange: onChange,
	}
}

func (d *debouncer) trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, exists := d.timers[path]; exists {
		timer.Stop()
	}

	d.timers[path] = time.AfterFunc(debounceDelay, func() {
		d.onChange(path)
		d.mu.Lock()
		delete(d.timers, path)
		d.mu.Unlock()
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for path, timer := range d.timers {
		timer.Stop()
		delete(d.timers, path)
	}
}
