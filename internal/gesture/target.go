package gesture

import (
	"strings"

	"github.com/ayusman/mudra/internal/hand"
)

// Target is the sign a practice session works toward. Letter targets
// are judged by the producer's classification; shape targets by the
// finger booleans alone.
type Target struct {
	ID          string           // Unique identifier of the sign
	Name        string           // Human-readable name
	Letter      string           // Expected letter, empty for shape targets
	Shape       hand.FingerState // Expected finger pose
	Movement    Movement         // Required movement, static when empty
	MinMovement float64          // Minimum travel for directional movements
	Hint        string           // Optional coaching line for the UI
}

// HasLetter reports whether the target is judged by letter
// classification rather than raw finger shape.
func (t *Target) HasLetter() bool {
	return strings.TrimSpace(t.Letter) != ""
}

// RequiredMovement returns the movement gate, defaulting to static.
func (t *Target) RequiredMovement() Movement {
	if t.Movement == "" {
		return MovementStatic
	}
	return t.Movement
}
