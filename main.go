// ABOUTME: Entry point for the tickview clock viewer
// ABOUTME: Parses CLI flags and runs the viewer application
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Conductor-Protocol/tickview-go/internal/app"
	"github.com/Conductor-Protocol/tickview-go/internal/bus"
	"github.com/Conductor-Protocol/tickview-go/internal/ui"
)

var (
	serverAddr = flag.String("server", "", "Bus address, e.g. nats://127.0.0.1:4222 (empty: discover via mDNS)")
	topic      = flag.String("topic", bus.DefaultTopic, "Subject carrying clock tick events")
	port       = flag.Int("port", 4222, "Port for mDNS advertisement")
	name       = flag.String("name", "", "Viewer name (default: hostname-tickview)")
	fps        = flag.Int("fps", ui.DefaultFPS, "Display refresh rate")
	logFile    = flag.String("log-file", "tickview.log", "Log file path")
	noTUI      = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	streamLogs = flag.Bool("stream-logs", false, "Alias for -no-tui")
)

func main() {
	flag.Parse()

	// Determine if we should use TUI or streaming logs
	useTUI := !(*noTUI || *streamLogs)

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		// Streaming logs mode: log to both stdout and file
		multiWriter := io.MultiWriter(os.Stdout, f)
		log.SetOutput(multiWriter)
	}

	// Determine viewer name
	viewerName := *name
	if viewerName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		viewerName = fmt.Sprintf("%s-tickview", hostname)
	}

	if !useTUI {
		log.Printf("Starting Tickview: %s", viewerName)
		log.Printf("TUI disabled - logging to file for debugging")
	}

	viewer := app.New(app.Config{
		ServerAddr: *serverAddr,
		Topic:      *topic,
		Name:       viewerName,
		Port:       *port,
		FPS:        *fps,
		UseTUI:     useTUI,
	})

	if err := viewer.Start(); err != nil {
		log.Fatalf("Startup failed: %v", err)
	}

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for quit signal from TUI or OS
	select {
	case <-viewer.Quit():
		log.Printf("Received quit signal from TUI")
	case <-sigChan:
		log.Printf("Shutdown signal received")
	}

	viewer.Stop()
	log.Printf("Viewer stopped")
}
