package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/duos-app/duos/internal/feed"
	"github.com/google/uuid"
)

// Alarm is an alarm row. RepeatDays holds lowercase three-letter weekday
// tags (mon..sun); empty means a one-shot alarm that rings at the next
// occurrence of its time. The JSON shape is what travels on the change feed
// and what the lifecycle manager decodes.
type Alarm struct {
	ID         string    `json:"id"`
	PairID     string    `json:"pair_id"`
	Time       string    `json:"time"`
	Label      *string   `json:"label"`
	Active     bool      `json:"active"`
	RepeatDays []string  `json:"repeat_days,omitempty"`
	Sound      string    `json:"sound"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateAlarm inserts an alarm and emits a created event. Sound defaults
// to "classic" when empty.
func (s *Store) CreateAlarm(a Alarm) (Alarm, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Sound == "" {
		a.Sound = "classic"
	}
	a.CreatedAt = time.Now()

	_, err := s.db.Exec(
		`INSERT INTO alarms (id, pair_id, time, label, active, repeat_days, sound, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.PairID, a.Time, a.Label, boolInt(a.Active),
		strings.Join(a.RepeatDays, ","), a.Sound, a.CreatedBy, timeText(a.CreatedAt),
	)
	if err != nil {
		return Alarm{}, fmt.Errorf("store: create alarm: %w", err)
	}

	s.emit(a.PairID, "alarms", feed.OpCreated, a.ID, nil, a)
	return a, nil
}

// Alarm returns one alarm by id. sql.ErrNoRows when absent.
func (s *Store) Alarm(id string) (Alarm, error) {
	rows, err := s.db.Query(alarmSelect+` WHERE id = ?`, id)
	if err != nil {
		return Alarm{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Alarm{}, err
		}
		return Alarm{}, sql.ErrNoRows
	}
	return scanAlarm(rows)
}

// Alarms returns the pair's alarms ordered by time of day.
func (s *Store) Alarms(pairID string) ([]Alarm, error) {
	rows, err := s.db.Query(alarmSelect+` WHERE pair_id = ? ORDER BY time`, pairID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alarms []Alarm
	for rows.Next() {
		a, err := scanAlarm(rows)
		if err != nil {
			return nil, err
		}
		alarms = append(alarms, a)
	}
	return alarms, rows.Err()
}

// SetAlarmActive toggles an alarm and emits an updated event.
func (s *Store) SetAlarmActive(id string, active bool) (Alarm, error) {
	before, err := s.Alarm(id)
	if err != nil {
		return Alarm{}, fmt.Errorf("store: toggle alarm: %w", err)
	}

	if _, err := s.db.Exec(`UPDATE alarms SET active = ? WHERE id = ?`, boolInt(active), id); err != nil {
		return Alarm{}, fmt.Errorf("store: toggle alarm: %w", err)
	}

	after := before
	after.Active = active
	s.emit(after.PairID, "alarms", feed.OpUpdated, id, before, after)
	return after, nil
}

// DeleteAlarm removes an alarm and emits a deleted event carrying the last
// known snapshot, so subscribers can cancel its registration.
func (s *Store) DeleteAlarm(id string) error {
	before, err := s.Alarm(id)
	if err != nil {
		return fmt.Errorf("store: delete alarm: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM alarms WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete alarm: %w", err)
	}
	s.emit(before.PairID, "alarms", feed.OpDeleted, id, before, nil)
	return nil
}

const alarmSelect = `SELECT id, pair_id, time, label, active, repeat_days, sound,
	created_by, created_at FROM alarms`

func scanAlarm(rows *sql.Rows) (Alarm, error) {
	var a Alarm
	var active int
	var repeatCSV, created string
	if err := rows.Scan(&a.ID, &a.PairID, &a.Time, &a.Label, &active,
		&repeatCSV, &a.Sound, &a.CreatedBy, &created); err != nil {
		return Alarm{}, err
	}
	a.Active = active != 0
	if repeatCSV != "" {
		a.RepeatDays = strings.Split(repeatCSV, ",")
	}
	a.CreatedAt = parseTimeText(created)
	return a, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
