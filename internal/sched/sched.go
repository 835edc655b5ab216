package sched

import "time"

// Notification is one registration with the host's notification scheduler.
// Native schedulers key registrations by a small integer id; the alarm
// layer derives it from the alarm's string id.
type Notification struct {
	ID    int32             `json:"id"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	At    time.Time         `json:"at"`
	Every time.Duration     `json:"every,omitempty"`
	Sound string            `json:"sound,omitempty"`
	Extra map[string]string `json:"extra,omitempty"`
}

// Scheduler is the native notification bridge. Implementations hold at most
// one registration per id: Schedule replaces, Cancel of an unknown id is a
// no-op.
type Scheduler interface {
	// Supported reports whether this host can deliver notifications at
	// all. When false, every other method is a defined no-op.
	Supported() bool

	// RequestPermissions asks the host for notification permission.
	// Idempotent; re-asking after a decision returns the same answer.
	RequestPermissions() (bool, error)

	// Schedule registers the notification, replacing any registration
	// with the same id.
	Schedule(n Notification) error

	// Cancel removes the registrations with the given ids. Unknown ids
	// are ignored.
	Cancel(ids ...int32) error

	// Pending returns the current registrations in no particular order.
	Pending() ([]Notification, error)
}
