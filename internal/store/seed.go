package store

import (
	"fmt"

	"github.com/google/uuid"
)

// seedLetter describes one alphabet entry installed on first run.
type seedLetter struct {
	letter string
	hint   string
}

// The static fingerspelling alphabet the producer's classifier was
// trained on. J and Z are missing on purpose: they involve movement
// and are seeded separately as shape-plus-movement signs.
var staticLetters = []seedLetter{
	{"A", "Closed fist, thumb resting against the side of your index finger"},
	{"B", "Fingers straight up and together, thumb folded across the palm"},
	{"C", "Curve your fingers and thumb into the letter C"},
	{"D", "Index finger up, remaining fingertips touch the thumb"},
	{"E", "Curl your fingertips down to meet your thumb"},
	{"F", "Touch index fingertip to thumb, other fingers up"},
	{"G", "Index finger and thumb held flat, pointing sideways"},
	{"H", "Index and middle fingers flat, pointing sideways"},
	{"I", "Pinky up from a closed fist"},
	{"K", "Index and middle fingers up, thumb between them"},
	{"L", "Index finger up and thumb out, forming an L"},
	{"M", "Thumb tucked under three fingers"},
	{"N", "Thumb tucked under two fingers"},
	{"O", "Fingertips and thumb curved together into an O"},
	{"P", "Like K, tilted to point downward"},
	{"Q", "Like G, tilted to point downward"},
	{"R", "Cross your index and middle fingers"},
	{"T", "Thumb tucked between index and middle fingers"},
	{"U", "Index and middle fingers together, pointing up"},
	{"V", "Index and middle fingers apart in a V"},
	{"W", "Index, middle and ring fingers spread up"},
	{"X", "Hook your index finger from a fist"},
	{"Y", "Thumb and pinky out, other fingers closed"},
}

// Seed installs the fingerspelling alphabet when the dictionary is
// empty. Letters the classifier knows become letter signs; J and Z,
// which the classifier cannot hold still, become shape-plus-movement
// signs so they stay practicable. Calling Seed on a populated
// database does nothing.
func (s *Store) Seed() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM signs`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count signs: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO signs (id, name, letter, movement, min_movement,
			thumb, index_finger, middle, ring, pinky, hint)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, l := range staticLetters {
		_, err := stmt.Exec(uuid.New().String(), "Letter "+l.letter, l.letter,
			"static", 0.0, 0, 0, 0, 0, 0, l.hint)
		if err != nil {
			return fmt.Errorf("failed to seed letter %s: %w", l.letter, err)
		}
	}

	// J: pinky out, traced downward
	_, err = stmt.Exec(uuid.New().String(), "Letter J", "", "down", 0.15,
		0, 0, 0, 0, 1, "Pinky up, then trace the J downward")
	if err != nil {
		return fmt.Errorf("failed to seed letter J: %w", err)
	}

	// Z: index out, traced to the right
	_, err = stmt.Exec(uuid.New().String(), "Letter Z", "", "right", 0.15,
		0, 1, 0, 0, 0, "Point your index finger and trace the Z to the right")
	if err != nil {
		return fmt.Errorf("failed to seed letter Z: %w", err)
	}

	return tx.Commit()
}
