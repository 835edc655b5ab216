package alarm

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/duos-app/duos/internal/feed"
	"github.com/duos-app/duos/internal/sched"
)

// Status classifies the result of a lifecycle operation.
type Status int

const (
	StatusScheduled Status = iota
	StatusCancelled
	StatusSkipped          // alarm inactive, nothing to register
	StatusUnsupported      // host has no notification scheduler
	StatusPermissionDenied // host refused notification permission
	StatusFailed           // native call failed; see Err
)

var statusNames = map[Status]string{
	StatusScheduled:        "scheduled",
	StatusCancelled:        "cancelled",
	StatusSkipped:          "skipped",
	StatusUnsupported:      "unsupported",
	StatusPermissionDenied: "permission denied",
	StatusFailed:           "failed",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Outcome is the typed result of a lifecycle operation. Operations never
// return an error: the alarm row in the store is the source of truth and a
// notification failure must not block or roll back the caller. Err is set
// only for StatusFailed, for callers that want to log it.
type Outcome struct {
	Status Status
	Err    error
}

// OK reports whether scheduler state now matches the alarm (including the
// defined no-op cases).
func (o Outcome) OK() bool {
	return o.Status != StatusFailed && o.Status != StatusPermissionDenied
}

func failed(err error) Outcome { return Outcome{Status: StatusFailed, Err: err} }

// Manager keeps the notification scheduler consistent with alarm records.
// Each operation re-derives the full registration from the alarm snapshot —
// derived state is recomputed, never patched. Manager does no locking:
// callers serialize events per alarm id (see feed.Dispatcher).
type Manager struct {
	sched sched.Scheduler
	ids   IDMapper
	now   func() time.Time
}

// NewManager wires a manager to a scheduler. A nil mapper uses
// HexPrefixMapper.
func NewManager(s sched.Scheduler, ids IDMapper) *Manager {
	if ids == nil {
		ids = HexPrefixMapper{}
	}
	return &Manager{sched: s, ids: ids, now: time.Now}
}

// RequestPermissions asks the host for notification permission. False on
// hosts without notification support. Safe to call repeatedly.
func (m *Manager) RequestPermissions() bool {
	if !m.sched.Supported() {
		return false
	}
	granted, err := m.sched.RequestPermissions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "alarm: request permissions: %v\n", err)
		return false
	}
	return granted
}

// Schedule registers the alarm's next firing with the scheduler, replacing
// any existing registration for the same alarm. Inactive alarms and
// unsupported hosts are defined no-ops.
func (m *Manager) Schedule(a Alarm) Outcome {
	if !m.sched.Supported() {
		return Outcome{Status: StatusUnsupported}
	}
	if !a.Active {
		return Outcome{Status: StatusSkipped}
	}

	if !m.RequestPermissions() {
		fmt.Fprintf(os.Stderr, "alarm: notification permission not granted\n")
		return Outcome{Status: StatusPermissionDenied}
	}

	at, err := NextTrigger(m.now(), a)
	if err != nil {
		fmt.Fprintf(os.Stderr, "alarm: schedule %s: %v\n", a.ID, err)
		return failed(err)
	}

	id := m.ids.NotificationID(a.ID)

	// Cancel first so the invariant holds even if the scheduler keys
	// registrations more loosely than by id.
	if err := m.sched.Cancel(id); err != nil {
		fmt.Fprintf(os.Stderr, "alarm: cancel before schedule %s: %v\n", a.ID, err)
		return failed(err)
	}

	n := sched.Notification{
		ID:    id,
		Title: "Alarm",
		Body:  a.Body(),
		At:    at,
		Every: 24 * time.Hour,
		Sound: NormalizeSound(a.Sound),
		Extra: map[string]string{"alarm_id": a.ID},
	}
	if err := m.sched.Schedule(n); err != nil {
		fmt.Fprintf(os.Stderr, "alarm: schedule %s: %v\n", a.ID, err)
		return failed(err)
	}
	return Outcome{Status: StatusScheduled}
}

// Cancel removes the alarm's registration. A missing registration is not
// an error.
func (m *Manager) Cancel(alarmID string) Outcome {
	if !m.sched.Supported() {
		return Outcome{Status: StatusUnsupported}
	}
	if err := m.sched.Cancel(m.ids.NotificationID(alarmID)); err != nil {
		fmt.Fprintf(os.Stderr, "alarm: cancel %s: %v\n", alarmID, err)
		return failed(err)
	}
	return Outcome{Status: StatusCancelled}
}

// CancelAll removes every registration the app has made.
func (m *Manager) CancelAll() Outcome {
	if !m.sched.Supported() {
		return Outcome{Status: StatusUnsupported}
	}

	pending, err := m.sched.Pending()
	if err != nil {
		fmt.Fprintf(os.Stderr, "alarm: cancel all: %v\n", err)
		return failed(err)
	}
	if len(pending) == 0 {
		return Outcome{Status: StatusCancelled}
	}

	ids := make([]int32, len(pending))
	for i, n := range pending {
		ids[i] = n.ID
	}
	if err := m.sched.Cancel(ids...); err != nil {
		fmt.Fprintf(os.Stderr, "alarm: cancel all: %v\n", err)
		return failed(err)
	}
	return Outcome{Status: StatusCancelled}
}

// Update reconciles the scheduler with the alarm's current state: schedule
// when active, cancel when not.
func (m *Manager) Update(a Alarm) Outcome {
	if a.Active {
		return m.Schedule(a)
	}
	return m.Cancel(a.ID)
}

// HandleEvent applies one change-feed event for the alarms table. Created
// and updated events reconcile from the new snapshot; deleted events cancel.
// Undecodable snapshots are logged and dropped; the next event for the
// alarm re-derives everything anyway.
func (m *Manager) HandleEvent(ev feed.Event) Outcome {
	if ev.Op == feed.OpDeleted {
		return m.Cancel(ev.ID)
	}

	var a Alarm
	if err := json.Unmarshal(ev.Record(), &a); err != nil {
		fmt.Fprintf(os.Stderr, "alarm: bad %s snapshot for %s: %v\n", ev.Op, ev.ID, err)
		return failed(err)
	}
	return m.Update(a)
}
