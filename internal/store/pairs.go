package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Profile is a user account as seen by the pairing layer.
type Profile struct {
	ID        string
	Username  string
	CreatedAt time.Time
}

// Pair links two profiles. Status is "pending" until the invited user
// accepts, then "accepted".
type Pair struct {
	ID         string
	UserID1    string
	UserID2    string
	Status     string
	AcceptedAt *time.Time
	CreatedAt  time.Time
}

// CreateProfile inserts a profile and returns it. ID is generated when empty.
func (s *Store) CreateProfile(id, username string) (Profile, error) {
	if id == "" {
		id = uuid.NewString()
	}
	p := Profile{ID: id, Username: username, CreatedAt: time.Now()}
	_, err := s.db.Exec(
		`INSERT INTO profiles (id, username, created_at) VALUES (?, ?, ?)`,
		p.ID, p.Username, timeText(p.CreatedAt),
	)
	if err != nil {
		return Profile{}, fmt.Errorf("store: create profile: %w", err)
	}
	return p, nil
}

// ProfileByID looks up a profile. sql.ErrNoRows when absent.
func (s *Store) ProfileByID(id string) (Profile, error) {
	var p Profile
	var created string
	err := s.db.QueryRow(
		`SELECT id, username, created_at FROM profiles WHERE id = ?`, id,
	).Scan(&p.ID, &p.Username, &created)
	if err != nil {
		return Profile{}, err
	}
	p.CreatedAt = parseTimeText(created)
	return p, nil
}

// ProfileByUsername looks up a profile by its unique username.
func (s *Store) ProfileByUsername(username string) (Profile, error) {
	var p Profile
	var created string
	err := s.db.QueryRow(
		`SELECT id, username, created_at FROM profiles WHERE username = ?`, username,
	).Scan(&p.ID, &p.Username, &created)
	if err != nil {
		return Profile{}, err
	}
	p.CreatedAt = parseTimeText(created)
	return p, nil
}

// CreatePair invites user2 into a pair with user1. The pair starts pending.
func (s *Store) CreatePair(userID1, userID2 string) (Pair, error) {
	p := Pair{
		ID:        uuid.NewString(),
		UserID1:   userID1,
		UserID2:   userID2,
		Status:    "pending",
		CreatedAt: time.Now(),
	}
	_, err := s.db.Exec(
		`INSERT INTO pairs (id, user_id_1, user_id_2, status, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.UserID1, p.UserID2, p.Status, timeText(p.CreatedAt),
	)
	if err != nil {
		return Pair{}, fmt.Errorf("store: create pair: %w", err)
	}
	return p, nil
}

// AcceptPair marks a pending pair accepted.
func (s *Store) AcceptPair(pairID string) error {
	res, err := s.db.Exec(
		`UPDATE pairs SET status = 'accepted', accepted_at = ? WHERE id = ? AND status = 'pending'`,
		timeText(time.Now()), pairID,
	)
	if err != nil {
		return fmt.Errorf("store: accept pair: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("store: pair %s not found or not pending", pairID)
	}
	return nil
}

// PairsForUser returns every pair the user belongs to, newest first.
func (s *Store) PairsForUser(userID string) ([]Pair, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id_1, user_id_2, status, accepted_at, created_at
		 FROM pairs WHERE user_id_1 = ? OR user_id_2 = ?
		 ORDER BY created_at DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []Pair
	for rows.Next() {
		p, err := scanPair(rows)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

func scanPair(rows *sql.Rows) (Pair, error) {
	var p Pair
	var accepted sql.NullString
	var created string
	if err := rows.Scan(&p.ID, &p.UserID1, &p.UserID2, &p.Status, &accepted, &created); err != nil {
		return Pair{}, err
	}
	if accepted.Valid {
		t := parseTimeText(accepted.String)
		p.AcceptedAt = &t
	}
	p.CreatedAt = parseTimeText(created)
	return p, nil
}
