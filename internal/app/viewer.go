// ABOUTME: Main viewer application orchestration
// ABOUTME: Wires discovery, the bus listener, the clock store, and the TUI
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Conductor-Protocol/tickview-go/internal/bus"
	"github.com/Conductor-Protocol/tickview-go/internal/clock"
	"github.com/Conductor-Protocol/tickview-go/internal/discovery"
	"github.com/Conductor-Protocol/tickview-go/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Config holds viewer configuration
type Config struct {
	ServerAddr string // bus URL; empty means discover via mDNS
	Topic      string
	Name       string
	Port       int // mDNS advertisement port
	FPS        int
	UseTUI     bool
}

// Viewer is the main viewer application. It owns the shared clock store
// and hands the same handle to the listener goroutine (writer) and the
// presentation layer (reader).
type Viewer struct {
	config    Config
	store     *clock.Store
	listener  *bus.Listener
	discovery *discovery.Manager
	tuiProg   *tea.Program
	ctrl      *ui.Control
	ctx       context.Context
	cancel    context.CancelFunc
}

// New creates a new viewer
func New(config Config) *Viewer {
	ctx, cancel := context.WithCancel(context.Background())

	return &Viewer{
		config: config,
		store:  clock.NewStore(),
		ctrl:   ui.NewControl(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Store exposes the shared clock store to the presentation layer.
func (v *Viewer) Store() *clock.Store {
	return v.store
}

// Start resolves the bus address, connects, and runs until Stop. A bus
// that cannot be reached is a fatal startup failure; there is no retry.
func (v *Viewer) Start() error {
	if v.config.UseTUI {
		tuiProg, err := ui.Run(v.store, v.config.FPS, v.ctrl)
		if err != nil {
			return fmt.Errorf("failed to start TUI: %w", err)
		}
		v.tuiProg = tuiProg
		go func() { _, _ = v.tuiProg.Run() }()
	}

	busAddr := v.config.ServerAddr
	if busAddr == "" {
		addr, err := v.discoverBus()
		if err != nil {
			return err
		}
		busAddr = addr
	}

	v.listener = bus.NewListener(bus.Config{
		URL:   busAddr,
		Topic: v.config.Topic,
		Name:  v.config.Name,
	}, v.store)

	if err := v.listener.Connect(); err != nil {
		return err
	}

	go v.listener.Listen()

	if v.tuiProg != nil {
		go v.statusLoop(busAddr)
	} else {
		go v.logLoop()
	}

	return nil
}

// discoverBus waits for an mDNS-advertised bus
func (v *Viewer) discoverBus() (string, error) {
	log.Printf("No bus address given, starting mDNS discovery...")

	v.discovery = discovery.NewManager(discovery.Config{
		ServiceName: v.config.Name,
		Port:        v.config.Port,
	})

	if err := v.discovery.Advertise(); err != nil {
		log.Printf("mDNS advertisement failed: %v", err)
	}
	if err := v.discovery.Browse(); err != nil {
		return "", fmt.Errorf("mDNS browse failed: %w", err)
	}

	select {
	case found := <-v.discovery.Buses():
		log.Printf("Discovered bus at %s", found.URL())
		return found.URL(), nil
	case <-time.After(10 * time.Second):
		return "", fmt.Errorf("no bus found after 10 seconds")
	case <-v.ctx.Done():
		return "", v.ctx.Err()
	}
}

// statusLoop periodically pushes connection state and counters to the TUI.
// Clock values are not pushed; the TUI pulls those from the store itself.
func (v *Viewer) statusLoop(busAddr string) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			connected := v.listener.IsConnected()
			stats := v.listener.Stats()
			v.tuiProg.Send(ui.StatusMsg{
				Connected: &connected,
				BusAddr:   busAddr,
				Stats:     &stats,
			})

		case <-v.ctx.Done():
			return
		}
	}
}

// logLoop reports snapshots to the log in headless mode
func (v *Viewer) logLoop() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			snap, err := v.store.Read()
			if err != nil {
				log.Printf("Clock read failed: %v", err)
				continue
			}
			if !snap.Updated() {
				log.Printf("Waiting for clock.tick...")
				continue
			}

			state := "running"
			if snap.Paused {
				state = "paused"
			}
			log.Printf("Clock: %.2f (%s, last tick %.1fs ago)",
				snap.Stamp, state, snap.Age().Seconds())

		case <-v.ctx.Done():
			return
		}
	}
}

// Quit returns the channel signalled when the TUI asks to exit
func (v *Viewer) Quit() <-chan struct{} {
	return v.ctrl.Quit
}

// Stop stops the viewer
func (v *Viewer) Stop() {
	v.cancel()

	if v.listener != nil {
		v.listener.Close()
	}

	if v.discovery != nil {
		v.discovery.Stop()
	}

	if v.tuiProg != nil {
		v.tuiProg.Quit()
	}
}
