// Package gesture evaluates telemetry against practice targets: hand
// shape and letter gates, movement tracking, and the hold-to-confirm
// state machine.
package gesture

import (
	"math"

	"github.com/ayusman/mudra/internal/hand"
)

// Movement identifies how a sign must travel to count as performed.
type Movement string

const (
	// MovementStatic holds the shape in place; any path matches.
	MovementStatic Movement = "static"
	// MovementUp travels upward in scene space.
	MovementUp Movement = "up"
	// MovementDown travels downward.
	MovementDown Movement = "down"
	// MovementLeft travels to the signer's left on screen.
	MovementLeft Movement = "left"
	// MovementRight travels to the right.
	MovementRight Movement = "right"
	// MovementCircle is in the vocabulary for circular signs but has
	// no classification rule and never matches.
	MovementCircle Movement = "circle"
	// MovementWave is in the vocabulary for waving signs but has no
	// classification rule and never matches.
	MovementWave Movement = "wave"
)

// Valid reports whether m is part of the movement vocabulary.
func (m Movement) Valid() bool {
	switch m {
	case MovementStatic, MovementUp, MovementDown, MovementLeft,
		MovementRight, MovementCircle, MovementWave:
		return true
	}
	return false
}

const (
	// DefaultHistorySize is how many recent positions the tracker
	// keeps when no capacity is configured.
	DefaultHistorySize = 30

	// MinMovementSamples is the least history a directional check
	// needs before it can tell deliberate travel from jitter.
	MinMovementSamples = 10

	// DefaultMinMovement is the travel threshold, in normalized scene
	// units, given to moving signs that do not set their own.
	DefaultMinMovement = 0.15
)

// PathTracker keeps a bounded history of recent hand centers for
// movement checks. The oldest position falls off as new ones arrive.
type PathTracker struct {
	points []hand.Point2D
	size   int
}

// NewPathTracker creates a tracker holding at most size positions.
// A non-positive size selects DefaultHistorySize.
func NewPathTracker(size int) *PathTracker {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &PathTracker{
		points: make([]hand.Point2D, 0, size),
		size:   size,
	}
}

// Push appends a position, evicting the oldest once the tracker is
// full.
func (t *PathTracker) Push(p hand.Point2D) {
	if len(t.points) >= t.size {
		// Shift buffer left by 1, removing oldest point
		copy(t.points, t.points[1:])
		t.points = t.points[:t.size-1]
	}
	t.points = append(t.points, p)
}

// Len returns the number of tracked positions.
func (t *PathTracker) Len() int {
	return len(t.points)
}

// Clear empties the history.
func (t *PathTracker) Clear() {
	t.points = t.points[:0]
}

// Matches reports whether the tracked path satisfies the movement.
// Static always matches. Directional movements need at least
// MinMovementSamples buffered positions and an overall travel of at
// least minTravel between the oldest and newest position; the
// dominant axis then decides the direction, and a perfectly diagonal
// path matches neither axis. Circle and wave never match.
func (t *PathTracker) Matches(m Movement, minTravel float64) bool {
	switch m {
	case MovementStatic:
		return true
	case MovementUp, MovementDown, MovementLeft, MovementRight:
	default:
		return false
	}

	if len(t.points) < MinMovementSamples {
		return false
	}

	oldest := t.points[0]
	newest := t.points[len(t.points)-1]
	dx := newest.X - oldest.X
	dy := newest.Y - oldest.Y

	if math.Hypot(dx, dy) < minTravel {
		return false
	}

	switch m {
	case MovementUp:
		return dy > math.Abs(dx)
	case MovementDown:
		return dy < -math.Abs(dx)
	case MovementLeft:
		return dx < -math.Abs(dy)
	case MovementRight:
		return dx > math.Abs(dy)
	}
	return false
}
