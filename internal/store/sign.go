package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Sign represents an entry in the practice dictionary. A sign with a
// letter is judged by the producer's classification; a sign without
// one is judged by the five finger booleans.
type Sign struct {
	ID          string
	Name        string
	Letter      string
	Movement    string
	MinMovement float64
	Thumb       bool
	Index       bool
	Middle      bool
	Ring        bool
	Pinky       bool
	Hint        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SignRepository provides CRUD operations for signs.
type SignRepository struct {
	db *sql.DB
}

// Signs returns the sign repository for this store.
func (s *Store) Signs() *SignRepository {
	return &SignRepository{db: s.db}
}

const signColumns = `id, name, letter, movement, min_movement,
	thumb, index_finger, middle, ring, pinky, hint, created_at, updated_at`

// rowScanner covers both sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSign(row rowScanner) (*Sign, error) {
	sign := &Sign{}
	var thumb, index, middle, ring, pinky int

	err := row.Scan(&sign.ID, &sign.Name, &sign.Letter, &sign.Movement,
		&sign.MinMovement, &thumb, &index, &middle, &ring, &pinky,
		&sign.Hint, &sign.CreatedAt, &sign.UpdatedAt)
	if err != nil {
		return nil, err
	}

	sign.Thumb = thumb != 0
	sign.Index = index != 0
	sign.Middle = middle != 0
	sign.Ring = ring != 0
	sign.Pinky = pinky != 0
	return sign, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Create inserts a new sign into the database.
func (r *SignRepository) Create(sign *Sign) error {
	now := time.Now()
	sign.CreatedAt = now
	sign.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO signs (id, name, letter, movement, min_movement,
			thumb, index_finger, middle, ring, pinky, hint, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sign.ID, sign.Name, sign.Letter, sign.Movement, sign.MinMovement,
		boolInt(sign.Thumb), boolInt(sign.Index), boolInt(sign.Middle),
		boolInt(sign.Ring), boolInt(sign.Pinky), sign.Hint,
		sign.CreatedAt, sign.UpdatedAt,
	)
	return err
}

// GetByID retrieves a sign by its ID.
func (r *SignRepository) GetByID(id string) (*Sign, error) {
	sign, err := scanSign(r.db.QueryRow(
		`SELECT `+signColumns+` FROM signs WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sign, nil
}

// GetByLetter retrieves the sign for a letter.
func (r *SignRepository) GetByLetter(letter string) (*Sign, error) {
	sign, err := scanSign(r.db.QueryRow(
		`SELECT `+signColumns+` FROM signs WHERE letter = ?`, letter))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sign, nil
}

// List retrieves all signs ordered by name.
func (r *SignRepository) List() ([]*Sign, error) {
	rows, err := r.db.Query(
		`SELECT ` + signColumns + ` FROM signs ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var signs []*Sign
	for rows.Next() {
		sign, err := scanSign(rows)
		if err != nil {
			return nil, err
		}
		signs = append(signs, sign)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return signs, nil
}

// Count returns how many signs are stored.
func (r *SignRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM signs`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Update updates an existing sign in the database.
func (r *SignRepository) Update(sign *Sign) error {
	sign.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE signs SET name = ?, letter = ?, movement = ?, min_movement = ?,
			thumb = ?, index_finger = ?, middle = ?, ring = ?, pinky = ?,
			hint = ?, updated_at = ?
		 WHERE id = ?`,
		sign.Name, sign.Letter, sign.Movement, sign.MinMovement,
		boolInt(sign.Thumb), boolInt(sign.Index), boolInt(sign.Middle),
		boolInt(sign.Ring), boolInt(sign.Pinky), sign.Hint,
		sign.UpdatedAt, sign.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a sign from the database by its ID.
func (r *SignRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM signs WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
