// Package app wires the telemetry receivers, the hand state and the
// gesture evaluator into a single update loop the rest of the program
// observes.
package app

import (
	"net"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/hand"
	"github.com/ayusman/mudra/internal/log"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/telemetry"
	"github.com/ayusman/mudra/internal/video"
)

// DefaultTickInterval paces the loop at roughly thirty updates per
// second, matching the producer's send rate.
const DefaultTickInterval = 33 * time.Millisecond

// Config holds configuration options for the application.
type Config struct {
	Store         *store.Store
	ListenAddr    string        // interface both UDP channels bind on
	TelemetryPort int           // landmark and prediction messages
	VideoPort     int           // JPEG camera frames
	StaleAfter    time.Duration // silence window before the hand is declared gone
	TickInterval  time.Duration
	Evaluator     gesture.Config
}

// App owns the receive channels and the practice session state.
type App struct {
	config Config

	telemetry *telemetry.Receiver // nil when the bind failed
	frames    *telemetry.Receiver // nil when the bind failed
	state     *telemetry.State
	buffer    *video.FrameBuffer

	mu        sync.RWMutex
	evaluator *gesture.Evaluator
	feedback  gesture.Feedback
	sign      *store.Sign // sign being practiced, nil when idle
	enabled   bool
	stopCh    chan struct{}
	done      chan struct{}

	// OnConfirmed is invoked outside the lock, once per confirmed
	// hold, with the practiced sign and whether the hold rated as
	// excellent.
	OnConfirmed func(sign *store.Sign, excellent bool)

	// OnTargetChanged is invoked outside the lock whenever the
	// practice target switches, with the new sign or nil.
	OnTargetChanged func(sign *store.Sign)
}

// New creates a new App instance with the given configuration.
// Practice starts disabled; callers flip it on once the surrounding
// surfaces are up.
func New(config Config) *App {
	if config.ListenAddr == "" {
		config.ListenAddr = "0.0.0.0"
	}
	if config.TickInterval <= 0 {
		config.TickInterval = DefaultTickInterval
	}

	return &App{
		config:    config,
		state:     telemetry.NewState(config.StaleAfter),
		buffer:    video.NewFrameBuffer(),
		evaluator: gesture.NewEvaluator(config.Evaluator),
		feedback:  idleFeedback(),
		enabled:   false,
	}
}

// Start binds both UDP channels and launches the update loop. A
// channel that fails to bind is logged and left out; the app keeps
// running with whatever it got rather than failing outright.
func (a *App) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return
	}

	recv, err := telemetry.Listen(a.config.ListenAddr, a.config.TelemetryPort)
	if err != nil {
		log.Error("telemetry channel unavailable", "port", a.config.TelemetryPort, "error", err)
	} else {
		a.telemetry = recv
		log.Info("telemetry channel listening", "addr", recv.LocalAddr().String())
	}

	frames, err := telemetry.Listen(a.config.ListenAddr, a.config.VideoPort)
	if err != nil {
		log.Error("video channel unavailable", "port", a.config.VideoPort, "error", err)
	} else {
		a.frames = frames
		log.Info("video channel listening", "addr", frames.LocalAddr().String())
	}

	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	go a.runLoop(a.stopCh, a.done)
}

// Stop halts the update loop and releases the sockets and the frame
// buffer. Safe to call more than once.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh := a.stopCh
	done := a.done
	a.stopCh = nil
	a.done = nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		log.Warn("update loop did not stop in time")
	}

	if a.telemetry != nil {
		if err := a.telemetry.Close(); err != nil {
			log.Warn("error closing telemetry channel", "error", err)
		}
	}
	if a.frames != nil {
		if err := a.frames.Close(); err != nil {
			log.Warn("error closing video channel", "error", err)
		}
	}
	a.buffer.Close()
	log.Info("telemetry pipeline stopped")
}

// SetEnabled pauses or resumes practice evaluation. Datagrams keep
// draining while paused so the queues never back up.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether practice evaluation is running.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetTargetSign switches practice to the given sign and restarts the
// hold from zero. A nil sign leaves the session idle.
func (a *App) SetTargetSign(sign *store.Sign) {
	a.mu.Lock()
	a.sign = sign
	if sign == nil {
		a.evaluator.SetTarget(nil)
		a.feedback = idleFeedback()
	} else {
		a.evaluator.SetTarget(targetFromSign(sign))
		a.feedback = gesture.Feedback{
			Phase: gesture.PhaseAwaitingHand,
			Text:  "Prepare your hand",
			Tone:  gesture.ToneNeutral,
		}
	}
	a.mu.Unlock()

	if sign != nil {
		log.Info("practice target set", "sign", sign.Name)
	}
	if a.OnTargetChanged != nil {
		a.OnTargetChanged(sign)
	}
}

// CurrentSign returns the sign being practiced, nil when idle.
func (a *App) CurrentSign() *store.Sign {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sign
}

// Feedback returns the verdict published by the latest tick.
func (a *App) Feedback() gesture.Feedback {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.feedback
}

// State exposes the hand state for read-only consumers.
func (a *App) State() *telemetry.State {
	return a.state
}

// Frames exposes the latest camera frame for streaming.
func (a *App) Frames() *video.FrameBuffer {
	return a.buffer
}

// Store exposes the persistence layer shared with the HTTP surface.
func (a *App) Store() *store.Store {
	return a.config.Store
}

// TelemetryAddr returns the bound telemetry address, or nil when the
// channel is down.
func (a *App) TelemetryAddr() net.Addr {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.telemetry == nil {
		return nil
	}
	return a.telemetry.LocalAddr()
}

// VideoAddr returns the bound video address, or nil when the channel
// is down.
func (a *App) VideoAddr() net.Addr {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.frames == nil {
		return nil
	}
	return a.frames.LocalAddr()
}

func idleFeedback() gesture.Feedback {
	return gesture.Feedback{
		Phase: gesture.PhaseAwaitingHand,
		Text:  "Pick a sign to practice",
		Tone:  gesture.ToneNeutral,
	}
}

// targetFromSign converts a stored sign into an evaluator target.
func targetFromSign(sign *store.Sign) *gesture.Target {
	return &gesture.Target{
		ID:     sign.ID,
		Name:   sign.Name,
		Letter: sign.Letter,
		Shape: hand.FingerState{
			Thumb:  sign.Thumb,
			Index:  sign.Index,
			Middle: sign.Middle,
			Ring:   sign.Ring,
			Pinky:  sign.Pinky,
		},
		Movement:    gesture.Movement(sign.Movement),
		MinMovement: sign.MinMovement,
		Hint:        sign.Hint,
	}
}
