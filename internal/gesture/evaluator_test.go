package gesture

import (
	"strings"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/hand"
	"github.com/ayusman/mudra/internal/telemetry"
)

const tick = 100 * time.Millisecond

func letterTarget() *Target {
	return &Target{
		ID:       "sign-a",
		Name:     "Letter A",
		Letter:   "A",
		Shape:    hand.FingerState{Thumb: true},
		Movement: MovementStatic,
	}
}

func shapeTarget() *Target {
	return &Target{
		ID:       "sign-point",
		Name:     "Pointing",
		Shape:    hand.FingerState{Index: true},
		Movement: MovementStatic,
	}
}

func letterSnap(letter string, confidence float64) telemetry.Snapshot {
	return telemetry.Snapshot{
		HandDetected: true,
		Letter:       letter,
		Confidence:   confidence,
		Center:       hand.Point2D{X: 0.5, Y: 0.5},
	}
}

func shapeSnap(fingers hand.FingerState) telemetry.Snapshot {
	return telemetry.Snapshot{
		HandDetected: true,
		Letter:       "?",
		Fingers:      fingers,
		Center:       hand.Point2D{X: 0.5, Y: 0.5},
	}
}

func TestEvaluatorAwaitingHand(t *testing.T) {
	t.Run("no target set", func(t *testing.T) {
		e := NewEvaluator(Config{})
		fb := e.Evaluate(letterSnap("A", 0.9), tick)
		if fb.Phase != PhaseAwaitingHand {
			t.Errorf("expected awaiting_hand, got %s", fb.Phase)
		}
	})

	t.Run("no hand resets the hold timer", func(t *testing.T) {
		e := NewEvaluator(Config{})
		e.SetTarget(letterTarget())

		e.Evaluate(letterSnap("A", 0.9), tick)
		e.Evaluate(letterSnap("A", 0.9), tick)
		if e.HoldTime() == 0 {
			t.Fatal("expected some accumulated hold")
		}

		fb := e.Evaluate(telemetry.Snapshot{}, tick)
		if fb.Phase != PhaseAwaitingHand {
			t.Errorf("expected awaiting_hand, got %s", fb.Phase)
		}
		if fb.Progress != 0 {
			t.Errorf("expected zero progress, got %f", fb.Progress)
		}
		if e.HoldTime() != 0 {
			t.Errorf("expected the hold timer to reset, got %v", e.HoldTime())
		}
	})
}

func TestEvaluatorLetterGate(t *testing.T) {
	t.Run("low confidence keeps checking", func(t *testing.T) {
		e := NewEvaluator(Config{CorrectConfidence: 0.8})
		e.SetTarget(letterTarget())

		fb := e.Evaluate(letterSnap("A", 0.79), tick)
		if fb.Phase != PhaseChecking {
			t.Errorf("expected checking, got %s", fb.Phase)
		}
		if !strings.Contains(fb.Text, "A") {
			t.Errorf("expected the feedback to name the letter, got %q", fb.Text)
		}
	})

	t.Run("wrong letter keeps checking", func(t *testing.T) {
		e := NewEvaluator(Config{})
		e.SetTarget(letterTarget())

		fb := e.Evaluate(letterSnap("B", 0.95), tick)
		if fb.Phase != PhaseChecking {
			t.Errorf("expected checking, got %s", fb.Phase)
		}
	})

	t.Run("match is case insensitive and trimmed", func(t *testing.T) {
		e := NewEvaluator(Config{})
		e.SetTarget(letterTarget())

		fb := e.Evaluate(letterSnap("  a ", 0.9), tick)
		if fb.Phase != PhaseHolding {
			t.Errorf("expected holding, got %s", fb.Phase)
		}
	})

	t.Run("confidence exactly at the threshold passes", func(t *testing.T) {
		e := NewEvaluator(Config{CorrectConfidence: 0.8})
		e.SetTarget(letterTarget())

		fb := e.Evaluate(letterSnap("A", 0.8), tick)
		if fb.Phase != PhaseHolding {
			t.Errorf("expected holding, got %s", fb.Phase)
		}
	})
}

func TestEvaluatorShapeGate(t *testing.T) {
	t.Run("exact finger match holds", func(t *testing.T) {
		e := NewEvaluator(Config{})
		e.SetTarget(shapeTarget())

		fb := e.Evaluate(shapeSnap(hand.FingerState{Index: true}), tick)
		if fb.Phase != PhaseHolding {
			t.Errorf("expected holding, got %s", fb.Phase)
		}
	})

	t.Run("any differing finger keeps checking", func(t *testing.T) {
		e := NewEvaluator(Config{})
		e.SetTarget(shapeTarget())

		fb := e.Evaluate(shapeSnap(hand.FingerState{Index: true, Middle: true}), tick)
		if fb.Phase != PhaseChecking {
			t.Errorf("expected checking, got %s", fb.Phase)
		}
	})

	t.Run("shape targets ignore confidence", func(t *testing.T) {
		e := NewEvaluator(Config{CorrectConfidence: 0.8})
		e.SetTarget(shapeTarget())

		snap := shapeSnap(hand.FingerState{Index: true})
		snap.Confidence = 0.0
		if fb := e.Evaluate(snap, tick); fb.Phase != PhaseHolding {
			t.Errorf("expected holding, got %s", fb.Phase)
		}
	})
}

func TestEvaluatorMovementGate(t *testing.T) {
	target := &Target{
		ID:          "sign-z",
		Name:        "Letter Z",
		Shape:       hand.FingerState{Index: true},
		Movement:    MovementRight,
		MinMovement: 0.15,
	}

	e := NewEvaluator(Config{})
	e.SetTarget(target)

	// The shape matches from the first tick, but travel history takes
	// ten samples to build, so early ticks ask for the movement.
	var fb Feedback
	for i := 0; i < MinMovementSamples-1; i++ {
		snap := shapeSnap(hand.FingerState{Index: true})
		snap.Center = hand.Point2D{X: 0.1 + float64(i)*0.05, Y: 0.5}
		fb = e.Evaluate(snap, tick)
		if fb.Phase != PhaseChecking {
			t.Fatalf("tick %d: expected checking while history builds, got %s", i, fb.Phase)
		}
		if !strings.Contains(fb.Text, "right") {
			t.Fatalf("expected the feedback to name the movement, got %q", fb.Text)
		}
	}

	snap := shapeSnap(hand.FingerState{Index: true})
	snap.Center = hand.Point2D{X: 0.1 + float64(MinMovementSamples-1)*0.05, Y: 0.5}
	fb = e.Evaluate(snap, tick)
	if fb.Phase != PhaseHolding {
		t.Errorf("expected holding once the travel matched, got %s", fb.Phase)
	}
}

func TestEvaluatorHoldToConfirm(t *testing.T) {
	t.Run("progress accumulates and confirms", func(t *testing.T) {
		e := NewEvaluator(Config{RequiredHold: time.Second})
		e.SetTarget(letterTarget())

		var fb Feedback
		for i := 0; i < 9; i++ {
			fb = e.Evaluate(letterSnap("A", 0.9), tick)
			if fb.Phase != PhaseHolding {
				t.Fatalf("tick %d: expected holding, got %s", i, fb.Phase)
			}
		}
		if fb.Progress < 0.89 || fb.Progress > 0.91 {
			t.Errorf("expected progress near 0.9, got %f", fb.Progress)
		}

		fb = e.Evaluate(letterSnap("A", 0.9), tick)
		if fb.Phase != PhaseConfirmed {
			t.Fatalf("expected confirmed, got %s", fb.Phase)
		}
		if fb.Progress != 1 {
			t.Errorf("expected progress 1.0, got %f", fb.Progress)
		}
	})

	t.Run("confirmation persists while held", func(t *testing.T) {
		e := NewEvaluator(Config{RequiredHold: time.Second})
		e.SetTarget(letterTarget())

		for i := 0; i < 15; i++ {
			e.Evaluate(letterSnap("A", 0.9), tick)
		}
		fb := e.Evaluate(letterSnap("A", 0.9), tick)
		if fb.Phase != PhaseConfirmed || fb.Progress != 1 {
			t.Errorf("expected a persistent confirmation, got %+v", fb)
		}
	})

	t.Run("a wrong tick restarts the hold", func(t *testing.T) {
		e := NewEvaluator(Config{RequiredHold: time.Second})
		e.SetTarget(letterTarget())

		for i := 0; i < 8; i++ {
			e.Evaluate(letterSnap("A", 0.9), tick)
		}
		e.Evaluate(letterSnap("B", 0.9), tick)

		fb := e.Evaluate(letterSnap("A", 0.9), tick)
		if fb.Phase != PhaseHolding {
			t.Fatalf("expected holding, got %s", fb.Phase)
		}
		if fb.Progress > 0.15 {
			t.Errorf("expected the hold to restart, got progress %f", fb.Progress)
		}
	})
}

func TestEvaluatorExcellence(t *testing.T) {
	t.Run("high confidence upgrades the verdict", func(t *testing.T) {
		e := NewEvaluator(Config{CorrectConfidence: 0.8, ExcellentConfidence: 0.9, RequiredHold: tick})
		e.SetTarget(letterTarget())

		fb := e.Evaluate(letterSnap("A", 0.95), tick)
		if fb.Phase != PhaseConfirmed {
			t.Fatalf("expected confirmed, got %s", fb.Phase)
		}
		if fb.Tone != ToneExcellent {
			t.Errorf("expected the excellent tone, got %s", fb.Tone)
		}
	})

	t.Run("ordinary confidence stays a plain success", func(t *testing.T) {
		e := NewEvaluator(Config{CorrectConfidence: 0.8, ExcellentConfidence: 0.9, RequiredHold: tick})
		e.SetTarget(letterTarget())

		fb := e.Evaluate(letterSnap("A", 0.85), tick)
		if fb.Phase != PhaseConfirmed {
			t.Fatalf("expected confirmed, got %s", fb.Phase)
		}
		if fb.Tone != ToneSuccess {
			t.Errorf("expected the success tone, got %s", fb.Tone)
		}
	})

	t.Run("excellence bar never sits below correctness", func(t *testing.T) {
		e := NewEvaluator(Config{CorrectConfidence: 0.9, ExcellentConfidence: 0.5})
		if e.cfg.ExcellentConfidence != 0.9 {
			t.Errorf("expected the excellence bar raised to 0.9, got %f", e.cfg.ExcellentConfidence)
		}
	})
}

func TestEvaluatorSetTarget(t *testing.T) {
	e := NewEvaluator(Config{})
	e.SetTarget(letterTarget())

	for i := 0; i < 5; i++ {
		e.Evaluate(letterSnap("A", 0.9), tick)
	}
	if e.HoldTime() == 0 || e.tracker.Len() == 0 {
		t.Fatal("expected accumulated progress before the switch")
	}

	e.SetTarget(shapeTarget())
	if e.HoldTime() != 0 {
		t.Errorf("expected the hold timer cleared, got %v", e.HoldTime())
	}
	if e.tracker.Len() != 0 {
		t.Errorf("expected the movement history cleared, got %d positions", e.tracker.Len())
	}
}
