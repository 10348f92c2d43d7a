package app

import (
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/log"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/telemetry"
)

// runLoop is the update loop driving the practice session.
//
// Each tick:
// 1. Drain both channel queues, even while practice is paused.
// 2. Apply every telemetry message in arrival order.
// 3. Run the staleness watchdog.
// 4. Decode the newest camera frame; older ones are already obsolete.
// 5. Evaluate the hand against the practice target and publish the verdict.
// 6. On the tick a hold first confirms, record the attempt.
func (a *App) runLoop(stopCh, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(a.config.TickInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-stopCh:
			return
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			a.tick(now, dt)
		}
	}
}

func (a *App) tick(now time.Time, dt time.Duration) {
	var messages [][]byte
	if a.telemetry != nil {
		messages = a.telemetry.Drain()
	}
	var frames [][]byte
	if a.frames != nil {
		frames = a.frames.Drain()
	}

	if !a.IsEnabled() {
		return
	}

	for _, data := range messages {
		msg, err := telemetry.DecodeMessage(data)
		if err != nil {
			log.Debug("dropping malformed telemetry", "error", err)
			continue
		}
		a.state.Apply(msg, now)
	}

	if a.state.CheckStale(now) {
		log.Debug("telemetry went silent, hand cleared")
	}

	if len(frames) > 0 {
		if err := a.buffer.Decode(frames[len(frames)-1]); err != nil {
			log.Debug("dropping undecodable frame", "error", err)
		}
	}

	snap := a.state.Snapshot()

	a.mu.Lock()
	wasConfirmed := a.feedback.Phase == gesture.PhaseConfirmed
	verdict := a.evaluator.Evaluate(snap, dt)
	a.feedback = verdict
	sign := a.sign
	held := a.evaluator.HoldTime()
	a.mu.Unlock()

	if verdict.Phase == gesture.PhaseConfirmed && !wasConfirmed && sign != nil {
		a.recordAttempt(sign, snap, verdict, held)
	}
}

// recordAttempt persists a freshly confirmed hold and notifies the
// confirmation callback. Runs outside the lock so neither the store
// nor the callback can stall the next tick's readers.
func (a *App) recordAttempt(sign *store.Sign, snap telemetry.Snapshot, verdict gesture.Feedback, held time.Duration) {
	excellent := verdict.Tone == gesture.ToneExcellent

	if a.config.Store != nil {
		attempt := &store.Attempt{
			ID:          uuid.New().String(),
			SignID:      sign.ID,
			Confidence:  snap.Confidence,
			HeldSeconds: held.Seconds(),
			Excellent:   excellent,
		}
		if err := a.config.Store.Attempts().Create(attempt); err != nil {
			log.Warn("failed to record attempt", "sign", sign.Name, "error", err)
		}
	}

	log.Info("sign confirmed", "sign", sign.Name, "confidence", snap.Confidence, "excellent", excellent)

	if a.OnConfirmed != nil {
		a.OnConfirmed(sign, excellent)
	}
}
