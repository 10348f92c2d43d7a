package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	applog "github.com/ayusman/mudra/internal/log"
	"github.com/ayusman/mudra/internal/producer"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	fmt.Println("Mudra - Sign Language Tutor")

	// Environment first, flags override
	_ = godotenv.Load()
	cfg := config.FromEnv()

	headless := flag.Bool("headless", false, "Run without the system tray")
	noProducer := flag.Bool("no-producer", false, "Do not launch the bundled hand tracker")
	addr := flag.String("addr", cfg.HTTPAddr, "HTTP listen address")
	dataDir := flag.String("data-dir", cfg.DataDir, "Directory for the database and tracker assets")
	camera := flag.Int("camera", cfg.CameraID, "Camera index for the hand tracker")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.Parse()

	cfg.HTTPAddr = *addr
	cfg.DataDir = *dataDir
	cfg.CameraID = *camera
	cfg.LogLevel = *logLevel

	applog.Init(cfg.LogLevel)

	// Initialize the store
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(cfg.DBPath())
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}

	if err := st.Seed(); err != nil {
		log.Fatalf("Failed to seed built-in signs: %v", err)
	}

	// Start the telemetry pipeline
	a := app.New(app.Config{
		Store:         st,
		ListenAddr:    cfg.ListenAddr,
		TelemetryPort: cfg.TelemetryPort,
		VideoPort:     cfg.VideoPort,
		StaleAfter:    cfg.StaleAfter,
		TickInterval:  cfg.TickInterval,
		Evaluator:     cfg.EvaluatorConfig(),
	})
	a.Start()
	a.SetEnabled(true)

	// Launch the hand tracker. A missing script is tolerated so an
	// externally run producer can feed the same ports.
	var prod *producer.Producer
	if !*noProducer {
		prod = producer.New(producer.Config{
			TelemetryPort: cfg.TelemetryPort,
			VideoPort:     cfg.VideoPort,
			CameraID:      cfg.CameraID,
			ShowWindow:    cfg.ShowWindow,
		})
		if err := prod.Start(); err != nil {
			if errors.Is(err, producer.ErrScriptNotFound) {
				fmt.Println("Hand tracker script not found, waiting for an external producer")
			} else {
				log.Printf("Could not start hand tracker: %v", err)
			}
		}
	}

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       a,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.HTTPAddr)
		if err := srv.ListenAndServe(cfg.HTTPAddr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	shutdown := func() {
		if prod != nil {
			prod.Stop()
		}
		a.Stop()
		if err := st.Close(); err != nil {
			log.Printf("Failed to close store: %v", err)
		}
	}

	if *headless {
		// No desktop session, wait for a signal instead of the tray
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		fmt.Println("\nShutting down...")
		shutdown()
		return
	}

	// The tray owns the main thread until the user quits.
	t := tray.New()
	t.OnToggle(a.SetEnabled)
	t.OnDashboard(func() {
		if err := openBrowser(dashboardURL(cfg.HTTPAddr)); err != nil {
			log.Printf("Failed to open dashboard: %v", err)
		}
	})
	t.OnQuit(func() {
		fmt.Println("Shutting down...")
		shutdown()
	})
	a.OnTargetChanged = func(sign *store.Sign) {
		if sign != nil {
			t.SetTarget(sign.Name)
		} else {
			t.SetTarget("")
		}
	}
	t.Run()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

// dashboardURL converts a listen address into something a browser can
// open.
func dashboardURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://localhost:8080"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%s", host, port)
}

func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
