package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/duos-app/duos/internal/feed"
	"github.com/google/uuid"
)

// Task is a shared to-do item. Completion is a two-step handshake: the
// assignee completes, the partner confirms. Only confirmed completions
// count toward streaks.
type Task struct {
	ID          string     `json:"id"`
	PairID      string     `json:"pair_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Scope       *string    `json:"scope"`
	CreatedBy   string     `json:"created_by"`
	AssignedTo  *string    `json:"assigned_to"`
	DueDate     *string    `json:"due_date"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	ConfirmedBy *string    `json:"confirmed_by"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TaskComment is a message attached to a task.
type TaskComment struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTask inserts a task and emits a created event.
func (s *Store) CreateTask(t Task) (Task, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.CreatedAt = time.Now()

	_, err := s.db.Exec(
		`INSERT INTO tasks (id, pair_id, title, description, scope, created_by,
		                    assigned_to, due_date, completed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`,
		t.ID, t.PairID, t.Title, t.Description, t.Scope, t.CreatedBy,
		t.AssignedTo, t.DueDate, timeText(t.CreatedAt),
	)
	if err != nil {
		return Task{}, fmt.Errorf("store: create task: %w", err)
	}

	s.emit(t.PairID, "tasks", feed.OpCreated, t.ID, nil, t)
	return t, nil
}

// Task returns one task by id. sql.ErrNoRows when absent.
func (s *Store) Task(id string) (Task, error) {
	rows, err := s.db.Query(taskSelect+` WHERE id = ?`, id)
	if err != nil {
		return Task{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Task{}, err
		}
		return Task{}, sql.ErrNoRows
	}
	return scanTask(rows)
}

// Tasks returns the pair's tasks, incomplete first, newest first within
// each group.
func (s *Store) Tasks(pairID string) ([]Task, error) {
	rows, err := s.db.Query(
		taskSelect+` WHERE pair_id = ? ORDER BY completed, created_at DESC`, pairID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

// CompleteTask marks a task completed now and emits an updated event.
func (s *Store) CompleteTask(id string) (Task, error) {
	return s.updateTask(id, func(before Task) (string, []any, error) {
		if before.Completed {
			return "", nil, fmt.Errorf("store: task %s already completed", id)
		}
		return `UPDATE tasks SET completed = 1, completed_at = ? WHERE id = ?`,
			[]any{timeText(time.Now()), id}, nil
	})
}

// ConfirmTask records the partner's confirmation of a completed task and
// emits an updated event.
func (s *Store) ConfirmTask(id, confirmedBy string) (Task, error) {
	return s.updateTask(id, func(before Task) (string, []any, error) {
		if !before.Completed {
			return "", nil, fmt.Errorf("store: task %s not completed yet", id)
		}
		if before.ConfirmedBy != nil {
			return "", nil, fmt.Errorf("store: task %s already confirmed", id)
		}
		return `UPDATE tasks SET confirmed_by = ?, confirmed_at = ? WHERE id = ?`,
			[]any{confirmedBy, timeText(time.Now()), id}, nil
	})
}

// DeleteTask removes a task and emits a deleted event carrying the last
// known snapshot.
func (s *Store) DeleteTask(id string) error {
	before, err := s.Task(id)
	if err != nil {
		return fmt.Errorf("store: delete task: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete task: %w", err)
	}
	s.emit(before.PairID, "tasks", feed.OpDeleted, id, before, nil)
	return nil
}

// AddComment attaches a comment to a task.
func (s *Store) AddComment(taskID, userID, message string) (TaskComment, error) {
	c := TaskComment{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now(),
	}
	_, err := s.db.Exec(
		`INSERT INTO task_comments (id, task_id, user_id, message, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.TaskID, c.UserID, c.Message, timeText(c.CreatedAt),
	)
	if err != nil {
		return TaskComment{}, fmt.Errorf("store: add comment: %w", err)
	}
	return c, nil
}

// Comments returns a task's comments oldest first.
func (s *Store) Comments(taskID string) ([]TaskComment, error) {
	rows, err := s.db.Query(
		`SELECT id, task_id, user_id, message, created_at
		 FROM task_comments WHERE task_id = ? ORDER BY created_at`, taskID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []TaskComment
	for rows.Next() {
		var c TaskComment
		var created string
		if err := rows.Scan(&c.ID, &c.TaskID, &c.UserID, &c.Message, &created); err != nil {
			return nil, err
		}
		c.CreatedAt = parseTimeText(created)
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// ConfirmedTimes returns the confirmation timestamps of the user's
// completed-and-confirmed tasks across the given pairs, newest first.
// This is the streak input.
func (s *Store) ConfirmedTimes(pairIDs []string, userID string) ([]time.Time, error) {
	if len(pairIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(pairIDs)-1) + "?"
	args := make([]any, 0, len(pairIDs)+1)
	for _, id := range pairIDs {
		args = append(args, id)
	}
	args = append(args, userID)

	rows, err := s.db.Query(
		`SELECT confirmed_at FROM tasks
		 WHERE pair_id IN (`+placeholders+`) AND assigned_to = ?
		   AND completed = 1 AND confirmed_at IS NOT NULL
		 ORDER BY confirmed_at DESC`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var ts string
		if err := rows.Scan(&ts); err != nil {
			return nil, err
		}
		times = append(times, parseTimeText(ts))
	}
	return times, rows.Err()
}

// updateTask loads the before snapshot, applies the mutation built by
// buildStmt, reloads the row and emits an updated event.
func (s *Store) updateTask(id string, buildStmt func(before Task) (string, []any, error)) (Task, error) {
	before, err := s.Task(id)
	if err != nil {
		return Task{}, fmt.Errorf("store: update task: %w", err)
	}

	stmt, args, err := buildStmt(before)
	if err != nil {
		return Task{}, err
	}
	if _, err := s.db.Exec(stmt, args...); err != nil {
		return Task{}, fmt.Errorf("store: update task: %w", err)
	}

	after, err := s.Task(id)
	if err != nil {
		return Task{}, fmt.Errorf("store: update task: %w", err)
	}
	s.emit(after.PairID, "tasks", feed.OpUpdated, id, before, after)
	return after, nil
}

const taskSelect = `SELECT id, pair_id, title, description, scope, created_by,
	assigned_to, due_date, completed, completed_at, confirmed_by, confirmed_at,
	created_at FROM tasks`

func scanTask(rows *sql.Rows) (Task, error) {
	var t Task
	var completed int
	var completedAt, confirmedAt sql.NullString
	var created string
	if err := rows.Scan(&t.ID, &t.PairID, &t.Title, &t.Description, &t.Scope,
		&t.CreatedBy, &t.AssignedTo, &t.DueDate, &completed,
		&completedAt, &t.ConfirmedBy, &confirmedAt, &created); err != nil {
		return Task{}, err
	}
	t.Completed = completed != 0
	if completedAt.Valid {
		ts := parseTimeText(completedAt.String)
		t.CompletedAt = &ts
	}
	if confirmedAt.Valid {
		ts := parseTimeText(confirmedAt.String)
		t.ConfirmedAt = &ts
	}
	t.CreatedAt = parseTimeText(created)
	return t, nil
}

func collectTasks(rows *sql.Rows) ([]Task, error) {
	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
