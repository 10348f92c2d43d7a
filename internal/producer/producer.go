// Package producer launches and supervises the Python hand tracker
// that feeds the telemetry ports.
package producer

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/ayusman/mudra/internal/log"
	"github.com/ayusman/mudra/internal/telemetry"
)

// ErrScriptNotFound means hand_tracker.py was not found in any of
// the usual locations. The backend runs without a local producer in
// that case.
var ErrScriptNotFound = errors.New("hand_tracker.py not found")

// stopGrace is how long Stop waits after the interrupt before killing
// the tracker outright.
const stopGrace = 3 * time.Second

// Config holds configuration options for the tracker process.
type Config struct {
	ScriptPath    string // explicit script location, discovered when empty
	PythonPath    string // explicit interpreter, discovered when empty
	TargetIP      string // where the tracker sends its datagrams
	TelemetryPort int
	VideoPort     int
	CameraID      int
	ShowWindow    bool // keep the tracker's preview window open
}

// Producer manages a single hand tracker process.
type Producer struct {
	config Config

	mu   sync.Mutex
	cmd  *exec.Cmd
	done chan struct{}
}

// New creates a new Producer with the given configuration.
func New(config Config) *Producer {
	if config.TargetIP == "" {
		config.TargetIP = "127.0.0.1"
	}
	if config.TelemetryPort <= 0 {
		config.TelemetryPort = telemetry.DefaultTelemetryPort
	}
	if config.VideoPort <= 0 {
		config.VideoPort = telemetry.DefaultVideoPort
	}
	return &Producer{config: config}
}

// Start launches the tracker. Calling Start while it is already
// running is a no-op.
func (p *Producer) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd != nil {
		return nil
	}

	scriptPath := p.config.ScriptPath
	if scriptPath == "" {
		scriptPath = findTrackerScript()
	}
	if scriptPath == "" {
		return ErrScriptNotFound
	}

	// Use virtual environment Python if available
	pythonPath := p.config.PythonPath
	if pythonPath == "" {
		pythonPath = findVenvPython()
	}
	if pythonPath == "" {
		pythonPath = "python3"
	}

	cmd := exec.Command(pythonPath, append([]string{scriptPath}, trackerArgs(p.config)...)...)

	// Capture stderr for debugging
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "start hand tracker")
	}

	p.cmd = cmd
	p.done = make(chan struct{})
	go p.reap(cmd, p.done)

	log.Info("hand tracker started", "pid", cmd.Process.Pid, "script", scriptPath)
	return nil
}

// Stop asks the tracker to exit so it can release the camera, and
// kills it after a grace period.
func (p *Producer) Stop() {
	p.mu.Lock()
	cmd := p.cmd
	done := p.done
	p.cmd = nil
	p.done = nil
	p.mu.Unlock()

	if cmd == nil {
		return
	}

	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		cmd.Process.Kill()
	}

	select {
	case <-done:
	case <-time.After(stopGrace):
		log.Warn("hand tracker ignored interrupt, killing")
		cmd.Process.Kill()
		<-done
	}
	log.Info("hand tracker stopped")
}

// IsRunning reports whether the tracker process is alive.
func (p *Producer) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cmd != nil
}

// reap waits for the tracker to exit and clears the handle so a
// later Start can relaunch it. Stop detaches the handle first, so an
// exit it triggered stays quiet.
func (p *Producer) reap(cmd *exec.Cmd, done chan struct{}) {
	err := cmd.Wait()
	close(done)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd != cmd {
		return
	}
	p.cmd = nil
	p.done = nil
	if err != nil {
		log.Warn("hand tracker exited unexpectedly", "error", err)
	} else {
		log.Info("hand tracker exited")
	}
}

// trackerArgs builds the command line matching the tracker's flags.
func trackerArgs(config Config) []string {
	args := []string{
		"--ip", config.TargetIP,
		"--port", strconv.Itoa(config.TelemetryPort),
		"--video-port", strconv.Itoa(config.VideoPort),
		"--camera", strconv.Itoa(config.CameraID),
	}
	if !config.ShowWindow {
		args = append(args, "--no-window")
	}
	return args
}

func findTrackerScript() string {
	// Get executable directory
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/hand_tracker.py",
		"../scripts/hand_tracker.py",
		filepath.Join(execDir, "scripts/hand_tracker.py"),
		filepath.Join(os.Getenv("HOME"), ".mudra/scripts/hand_tracker.py"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a Python interpreter in a virtual environment.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".mudra/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}
