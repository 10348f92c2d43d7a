package store

import (
	"database/sql"
	"time"
)

// Attempt represents one confirmed practice result.
type Attempt struct {
	ID          string
	SignID      string
	Confidence  float64
	HeldSeconds float64
	Excellent   bool
	CreatedAt   time.Time
}

// AttemptRepository records and queries practice results. Attempts
// are append-only; deleting a sign cascades away its history.
type AttemptRepository struct {
	db *sql.DB
}

// Attempts returns the attempt repository for this store.
func (s *Store) Attempts() *AttemptRepository {
	return &AttemptRepository{db: s.db}
}

// Create inserts a new attempt into the database.
func (r *AttemptRepository) Create(a *Attempt) error {
	a.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO attempts (id, sign_id, confidence, held_seconds, excellent, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.SignID, a.Confidence, a.HeldSeconds, boolInt(a.Excellent), a.CreatedAt,
	)
	return err
}

// ListBySign retrieves the most recent attempts for one sign, newest
// first. A non-positive limit returns everything.
func (r *AttemptRepository) ListBySign(signID string, limit int) ([]*Attempt, error) {
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	rows, err := r.db.Query(
		`SELECT id, sign_id, confidence, held_seconds, excellent, created_at
		 FROM attempts WHERE sign_id = ? ORDER BY created_at DESC LIMIT ?`,
		signID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAttempts(rows)
}

// ListRecent retrieves the most recent attempts across all signs,
// newest first. A non-positive limit returns everything.
func (r *AttemptRepository) ListRecent(limit int) ([]*Attempt, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.Query(
		`SELECT id, sign_id, confidence, held_seconds, excellent, created_at
		 FROM attempts ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAttempts(rows)
}

// CountBySign returns how many attempts are recorded for a sign.
func (r *AttemptRepository) CountBySign(signID string) (int, error) {
	var n int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM attempts WHERE sign_id = ?`, signID,
	).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func collectAttempts(rows *sql.Rows) ([]*Attempt, error) {
	var attempts []*Attempt
	for rows.Next() {
		a := &Attempt{}
		var excellent int

		err := rows.Scan(&a.ID, &a.SignID, &a.Confidence, &a.HeldSeconds,
			&excellent, &a.CreatedAt)
		if err != nil {
			return nil, err
		}

		a.Excellent = excellent != 0
		attempts = append(attempts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return attempts, nil
}
