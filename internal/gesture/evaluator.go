package gesture

import (
	"fmt"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/telemetry"
)

// Phase tracks where a practice attempt stands.
type Phase string

const (
	// PhaseAwaitingHand means no hand is visible, or no target is set.
	PhaseAwaitingHand Phase = "awaiting_hand"
	// PhaseChecking means a hand is visible but not yet matching.
	PhaseChecking Phase = "checking"
	// PhaseHolding means the sign matches and the hold timer is running.
	PhaseHolding Phase = "holding"
	// PhaseConfirmed means the sign was held long enough.
	PhaseConfirmed Phase = "confirmed"
)

// Tone classifies feedback for presentation, mapped to a color class
// by the UI.
type Tone string

const (
	ToneNeutral   Tone = "neutral"
	ToneHint      Tone = "hint"
	ToneProgress  Tone = "progress"
	ToneSuccess   Tone = "success"
	ToneExcellent Tone = "excellent"
)

// Feedback is the evaluator's verdict for one tick.
type Feedback struct {
	Phase    Phase   `json:"phase"`
	Text     string  `json:"text"`
	Tone     Tone    `json:"tone"`
	Progress float64 `json:"progress"`
}

// Evaluator defaults, applied by NewEvaluator for zero config values.
const (
	DefaultCorrectConfidence   = 0.80
	DefaultExcellentConfidence = 0.80
	DefaultRequiredHold        = time.Second
)

// Config tunes the evaluator. Zero values select the defaults.
type Config struct {
	CorrectConfidence   float64       // minimum confidence for a letter match
	ExcellentConfidence float64       // confidence for the emphatic verdict
	RequiredHold        time.Duration // how long a correct sign must be held
	HistorySize         int           // tracked positions for movement checks
}

// Evaluator runs the hold-to-confirm state machine for the active
// practice target. It is not safe for concurrent use; the pipeline
// tick owns it.
type Evaluator struct {
	cfg     Config
	target  *Target
	tracker *PathTracker
	hold    time.Duration
}

// NewEvaluator creates an evaluator with the given tuning. An
// excellence bar below the correctness bar could never tell the two
// verdicts apart, so it is raised to match.
func NewEvaluator(cfg Config) *Evaluator {
	if cfg.CorrectConfidence <= 0 {
		cfg.CorrectConfidence = DefaultCorrectConfidence
	}
	if cfg.ExcellentConfidence <= 0 {
		cfg.ExcellentConfidence = DefaultExcellentConfidence
	}
	if cfg.ExcellentConfidence < cfg.CorrectConfidence {
		cfg.ExcellentConfidence = cfg.CorrectConfidence
	}
	if cfg.RequiredHold <= 0 {
		cfg.RequiredHold = DefaultRequiredHold
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = DefaultHistorySize
	}
	return &Evaluator{
		cfg:     cfg,
		tracker: NewPathTracker(cfg.HistorySize),
	}
}

// SetTarget switches the active target and forgets all progress
// toward the previous one.
func (e *Evaluator) SetTarget(t *Target) {
	e.target = t
	e.hold = 0
	e.tracker.Clear()
}

// Target returns the active target, nil when none is set.
func (e *Evaluator) Target() *Target {
	return e.target
}

// HoldTime returns the accumulated continuous-match duration.
func (e *Evaluator) HoldTime() time.Duration {
	return e.hold
}

// Evaluate advances the state machine by one tick. dt is the elapsed
// time since the previous evaluation.
//
// A visible hand always feeds the movement tracker before any gate,
// so travel history builds up while the signer settles into shape.
// Any failed gate resets the hold timer: confirmation requires one
// continuous stretch of matching ticks.
func (e *Evaluator) Evaluate(snap telemetry.Snapshot, dt time.Duration) Feedback {
	if e.target == nil {
		return Feedback{Phase: PhaseAwaitingHand, Text: "Pick a sign to practice", Tone: ToneNeutral}
	}

	if !snap.HandDetected {
		e.hold = 0
		return Feedback{Phase: PhaseAwaitingHand, Text: "Prepare your hand", Tone: ToneNeutral}
	}

	e.tracker.Push(snap.Center)

	if !e.matchesShape(snap) {
		e.hold = 0
		return Feedback{Phase: PhaseChecking, Text: e.shapeHint(), Tone: ToneHint}
	}

	movement := e.target.RequiredMovement()
	if !e.tracker.Matches(movement, e.target.MinMovement) {
		e.hold = 0
		return Feedback{
			Phase: PhaseChecking,
			Text:  fmt.Sprintf("Now move your hand %s", movementLabel(movement)),
			Tone:  ToneHint,
		}
	}

	e.hold += dt
	progress := float64(e.hold) / float64(e.cfg.RequiredHold)
	if progress > 1 {
		progress = 1
	}
	if progress < 1 {
		return Feedback{Phase: PhaseHolding, Text: "Keep holding", Tone: ToneProgress, Progress: progress}
	}

	fb := Feedback{
		Phase:    PhaseConfirmed,
		Text:     fmt.Sprintf("Correct, that is %s", e.target.Name),
		Tone:     ToneSuccess,
		Progress: 1,
	}
	if snap.Confidence >= e.cfg.ExcellentConfidence {
		fb.Text = fmt.Sprintf("Excellent, a perfect %s", e.target.Name)
		fb.Tone = ToneExcellent
	}
	return fb
}

// matchesShape applies the letter gate when the target defines a
// letter, and the raw finger-pose gate otherwise.
func (e *Evaluator) matchesShape(snap telemetry.Snapshot) bool {
	if e.target.HasLetter() {
		if snap.Confidence < e.cfg.CorrectConfidence {
			return false
		}
		want := strings.TrimSpace(e.target.Letter)
		got := strings.TrimSpace(snap.Letter)
		return strings.EqualFold(want, got)
	}
	return snap.Fingers == e.target.Shape
}

func (e *Evaluator) shapeHint() string {
	if e.target.HasLetter() {
		return fmt.Sprintf("Sign the letter %s", strings.ToUpper(strings.TrimSpace(e.target.Letter)))
	}
	return fmt.Sprintf("Match the hand shape for %s", e.target.Name)
}

func movementLabel(m Movement) string {
	switch m {
	case MovementUp:
		return "upward"
	case MovementDown:
		return "downward"
	case MovementLeft:
		return "to the left"
	case MovementRight:
		return "to the right"
	case MovementCircle:
		return "in a circle"
	case MovementWave:
		return "in a wave"
	default:
		return "steadily"
	}
}
