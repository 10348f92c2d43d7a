// Package config collects the runtime settings for mudra.
//
// Default returns the recommended desktop settings, FromEnv layers
// MUDRA_* environment variables on top, and main applies command line
// flags last.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/telemetry"
)

// Config holds all tunable parameters for the tutor.
type Config struct {
	// Network
	ListenAddr    string // interface the UDP receivers bind to
	TelemetryPort int    // hand telemetry datagrams
	VideoPort     int    // JPEG preview datagrams
	HTTPAddr      string // dashboard and API listen address

	// Storage
	DataDir string // holds the SQLite database and tracker assets

	// Pipeline
	StaleAfter   time.Duration // clear the hand after silence this long
	TickInterval time.Duration // update loop period

	// Evaluation
	CorrectConfidence   float64       // minimum confidence for a letter match
	ExcellentConfidence float64       // confidence for the emphatic verdict
	RequiredHold        time.Duration // how long a correct sign must be held
	HistorySize         int           // tracked positions for movement checks

	// Producer
	CameraID   int  // camera index handed to the hand tracker
	ShowWindow bool // show the tracker's preview window

	// Logging
	LogLevel string // debug, info, warn or error
}

// Default returns the recommended configuration for a desktop install.
func Default() Config {
	dataDir := ".mudra"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".mudra")
	}

	return Config{
		// Network
		ListenAddr:    "0.0.0.0",
		TelemetryPort: telemetry.DefaultTelemetryPort,
		VideoPort:     telemetry.DefaultVideoPort,
		HTTPAddr:      ":8080",

		// Storage
		DataDir: dataDir,

		// Pipeline
		StaleAfter:   750 * time.Millisecond, // ~3 missed 30 FPS frames
		TickInterval: 33 * time.Millisecond,  // ~30 updates per second

		// Evaluation
		CorrectConfidence:   gesture.DefaultCorrectConfidence,
		ExcellentConfidence: gesture.DefaultExcellentConfidence,
		RequiredHold:        gesture.DefaultRequiredHold,
		HistorySize:         gesture.DefaultHistorySize,

		// Logging
		LogLevel: "info",
	}
}

// FromEnv returns the default configuration overlaid with any MUDRA_*
// environment variables. Values that fail to parse keep their defaults.
func FromEnv() Config {
	cfg := Default()

	envString(&cfg.ListenAddr, "MUDRA_LISTEN_ADDR")
	envInt(&cfg.TelemetryPort, "MUDRA_TELEMETRY_PORT")
	envInt(&cfg.VideoPort, "MUDRA_VIDEO_PORT")
	envString(&cfg.HTTPAddr, "MUDRA_HTTP_ADDR")
	envString(&cfg.DataDir, "MUDRA_DATA_DIR")
	envDuration(&cfg.StaleAfter, "MUDRA_STALE_AFTER")
	envDuration(&cfg.TickInterval, "MUDRA_TICK_INTERVAL")
	envFloat(&cfg.CorrectConfidence, "MUDRA_CORRECT_CONFIDENCE")
	envFloat(&cfg.ExcellentConfidence, "MUDRA_EXCELLENT_CONFIDENCE")
	envDuration(&cfg.RequiredHold, "MUDRA_REQUIRED_HOLD")
	envInt(&cfg.HistorySize, "MUDRA_HISTORY_SIZE")
	envInt(&cfg.CameraID, "MUDRA_CAMERA")
	envBool(&cfg.ShowWindow, "MUDRA_SHOW_WINDOW")
	envString(&cfg.LogLevel, "MUDRA_LOG_LEVEL")

	return cfg
}

// DBPath returns the SQLite database location under the data directory.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "mudra.db")
}

// EvaluatorConfig maps the evaluation settings onto the gesture package.
func (c Config) EvaluatorConfig() gesture.Config {
	return gesture.Config{
		CorrectConfidence:   c.CorrectConfidence,
		ExcellentConfidence: c.ExcellentConfidence,
		RequiredHold:        c.RequiredHold,
		HistorySize:         c.HistorySize,
	}
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*dst = n
}

func envFloat(dst *float64, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return
	}
	*dst = f
}

// envDuration accepts Go duration strings such as "750ms" or "2s".
// Zero and negative durations are ignored.
func envDuration(dst *time.Duration, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return
	}
	*dst = d
}

func envBool(dst *bool, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return
	}
	*dst = b
}
