package sched

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/duos-app/duos/internal/paths"
)

// DesktopOptions wires the desktop scheduler's collaborators. Show and Ring
// deliver a fired notification; Quiet suppresses delivery (silent mode,
// snooze) without touching the registration.
type DesktopOptions struct {
	Show  func(title, body string) error
	Ring  func(sound string)
	Quiet func(n Notification) bool
}

// Desktop is a Scheduler for hosts without an OS-level notification queue:
// registrations are persisted to a JSON state file and a Run loop delivers
// them when due, re-arming repeating ones. This is the desktop stand-in for
// what a mobile host does natively.
type Desktop struct {
	path  string
	show  func(title, body string) error
	ring  func(sound string)
	quiet func(n Notification) bool

	mu      sync.Mutex
	pending map[int32]Notification
	wake    chan struct{}
}

// NewDesktop loads any persisted registrations from path. A missing or
// corrupt state file starts empty (fail-open, like every duos state file).
func NewDesktop(path string, opts DesktopOptions) *Desktop {
	d := &Desktop{
		path:    path,
		show:    opts.Show,
		ring:    opts.Ring,
		quiet:   opts.Quiet,
		pending: make(map[int32]Notification),
		wake:    make(chan struct{}, 1),
	}
	if data, err := os.ReadFile(path); err == nil {
		_ = json.Unmarshal(data, &d.pending) // corrupt → start empty
		if d.pending == nil {
			d.pending = make(map[int32]Notification)
		}
	}
	return d
}

// Supported reports whether a delivery path was wired in.
func (d *Desktop) Supported() bool {
	return d.show != nil
}

// RequestPermissions is trivially granted on the desktop: showing a
// notification needs no runtime prompt here.
func (d *Desktop) RequestPermissions() (bool, error) {
	return d.Supported(), nil
}

func (d *Desktop) Schedule(n Notification) error {
	d.mu.Lock()
	d.pending[n.ID] = n
	d.save()
	d.mu.Unlock()
	d.poke()
	return nil
}

func (d *Desktop) Cancel(ids ...int32) error {
	d.mu.Lock()
	for _, id := range ids {
		delete(d.pending, id)
	}
	d.save()
	d.mu.Unlock()
	d.poke()
	return nil
}

func (d *Desktop) Pending() ([]Notification, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Notification, 0, len(d.pending))
	for _, n := range d.pending {
		out = append(out, n)
	}
	return out, nil
}

// Run delivers due notifications until ctx is done. Waiting is re-computed
// whenever the pending set changes.
func (d *Desktop) Run(done <-chan struct{}) {
	for {
		d.fireDue(time.Now())

		wait := d.untilNext(time.Now())
		timer := time.NewTimer(wait)
		select {
		case <-done:
			timer.Stop()
			return
		case <-d.wake:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// untilNext returns the time until the earliest registration, or a long
// idle interval when nothing is pending.
func (d *Desktop) untilNext(now time.Time) time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()

	wait := time.Hour
	for _, n := range d.pending {
		if until := n.At.Sub(now); until < wait {
			wait = until
		}
	}
	if wait < 0 {
		wait = 0
	}
	return wait
}

// fireDue delivers every registration whose time has come, then re-arms
// repeating ones and drops one-shots. Quiet registrations are re-armed
// without delivery.
func (d *Desktop) fireDue(now time.Time) {
	d.mu.Lock()
	var due []Notification
	for id, n := range d.pending {
		if n.At.After(now) {
			continue
		}
		due = append(due, n)

		if n.Every > 0 {
			// Catch up past the present in one step; a laptop asleep for
			// three days should not ring three times.
			for !n.At.After(now) {
				n.At = n.At.Add(n.Every)
			}
			d.pending[id] = n
		} else {
			delete(d.pending, id)
		}
	}
	if len(due) > 0 {
		d.save()
	}
	d.mu.Unlock()

	for _, n := range due {
		if d.quiet != nil && d.quiet(n) {
			continue
		}
		d.deliver(n)
	}
}

// deliver shows the notification and starts its sound. Failures are logged
// and swallowed: delivery is best-effort and must not disturb the loop.
func (d *Desktop) deliver(n Notification) {
	if d.show != nil {
		if err := d.show(n.Title, n.Body); err != nil {
			fmt.Fprintf(os.Stderr, "sched: show notification %d: %v\n", n.ID, err)
		}
	}
	if d.ring != nil {
		d.ring(n.Sound)
	}
}

// save persists the pending set. Caller holds the lock. Best-effort: the
// in-memory set stays authoritative for this process.
func (d *Desktop) save() {
	data, err := json.MarshalIndent(d.pending, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "sched: marshal pending: %v\n", err)
		return
	}
	if err := paths.AtomicWrite(d.path, data); err != nil {
		fmt.Fprintf(os.Stderr, "sched: write %s: %v\n", d.path, err)
	}
}

func (d *Desktop) poke() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}
