// Package notify delivers user-visible notices. Notices replace the UI
// toasts of the browser front-end: every failure the user must learn about
// goes through here, never through a silent log line.
package notify

import (
	"log"
	"sync"
)

// Notifier receives user-visible notices. The id names the notice kind so
// sinks can deduplicate repeats of the same episode.
type Notifier interface {
	Notice(id, message string)
}

// Dedup suppresses repeated notices with the same id until the id is reset.
// It mirrors the toastId behavior of the source UI: concurrent failures of
// the same kind surface exactly one notice.
type Dedup struct {
	mu     sync.Mutex
	next   Notifier
	active map[string]bool
}

// NewDedup wraps next with per-id deduplication.
func NewDedup(next Notifier) *Dedup {
	return &Dedup{next: next, active: make(map[string]bool)}
}

func (d *Dedup) Notice(id, message string) {
	d.mu.Lock()
	if d.active[id] {
		d.mu.Unlock()
		return
	}
	d.active[id] = true
	d.mu.Unlock()

	d.next.Notice(id, message)
}

// Reset re-arms the given id so its next notice is delivered again. Called
// when the episode that produced the notice has ended.
func (d *Dedup) Reset(id string) {
	d.mu.Lock()
	delete(d.active, id)
	d.mu.Unlock()
}

// Stderr writes notices to the process log.
type Stderr struct{}

func (Stderr) Notice(id, message string) {
	log.Printf("%s: %s", id, message)
}

// Recorder captures notices for inspection in tests.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

type Notice struct {
	ID      string
	Message string
}

func (r *Recorder) Notice(id, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, Notice{ID: id, Message: message})
}

// Notices returns a copy of everything recorded so far.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Count returns how many notices with the given id were recorded.
func (r *Recorder) Count(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, notice := range r.notices {
		if notice.ID == id {
			n++
		}
	}
	return n
}
