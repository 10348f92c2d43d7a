package telemetry

import (
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/hand"
)

// DefaultStaleAfter is how long the state keeps a reading alive
// without fresh telemetry before resetting to the no-hand baseline.
const DefaultStaleAfter = 750 * time.Millisecond

// Snapshot is a point-in-time copy of the latest telemetry reading.
type Snapshot struct {
	HandDetected bool             `json:"hand_detected"`
	Letter       string           `json:"letter"`
	Confidence   float64          `json:"confidence"`
	Fingers      hand.FingerState `json:"fingers"`
	Center       hand.Point2D     `json:"center"`
}

// State holds the most recent telemetry reading behind a lock, with a
// staleness watchdog. The pipeline tick is the only writer; HTTP and
// WebSocket handlers read concurrently through Snapshot.
type State struct {
	mu          sync.RWMutex
	snap        Snapshot
	lastApplied time.Time
	staleAfter  time.Duration
}

// NewState creates a State that goes stale after the given window.
// A zero or negative window selects DefaultStaleAfter.
func NewState(staleAfter time.Duration) *State {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &State{staleAfter: staleAfter}
}

// Apply folds one decoded message into the state. Finger state and
// center are derived only when the producer saw a hand and sent a
// full landmark set; otherwise the geometric fields reset to zero
// values. Every applied message feeds the watchdog, hand or no hand:
// the watchdog tracks producer signal, not hand presence.
func (s *State) Apply(msg *Message, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.HandDetected = msg.HandDetected
	s.snap.Letter = msg.Letter
	s.snap.Confidence = msg.Confidence

	if msg.HasGeometry() {
		points := hand.PointsFromLandmarks(msg.Landmarks)
		s.snap.Fingers = hand.AnalyzeFingers(points)
		s.snap.Center = hand.Center(points)
	} else {
		s.snap.Fingers = hand.FingerState{}
		s.snap.Center = hand.Point2D{}
	}

	s.lastApplied = now
}

// CheckStale resets the state to its baseline when no message has
// been applied within the staleness window. It reports true only on
// the call that performs the reset; the watchdog rearms on the next
// applied message.
func (s *State) CheckStale(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastApplied.IsZero() || now.Sub(s.lastApplied) <= s.staleAfter {
		return false
	}
	s.snap = Snapshot{}
	s.lastApplied = time.Time{}
	return true
}

// Snapshot returns a copy of the current reading.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
