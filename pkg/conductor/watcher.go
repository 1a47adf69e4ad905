// ABOUTME: High-level Watcher API for following a conductor clock
// ABOUTME: Wraps the internal listener and store behind a small surface
package conductor

import (
	"fmt"
	"time"

	"github.com/Conductor-Protocol/tickview-go/internal/bus"
	"github.com/Conductor-Protocol/tickview-go/internal/clock"
)

// Config holds watcher configuration
type Config struct {
	// ServerAddr is the bus address (default: nats://127.0.0.1:4222)
	ServerAddr string

	// Topic is the subject carrying tick events (default: clock.tick)
	Topic string

	// Name identifies this watcher on the bus
	Name string

	// OnTick is called with a fresh snapshot after every applied tick
	OnTick func(Snapshot)

	// OnError is called for every message that failed to apply
	OnError func(error)
}

// Snapshot is a consistent copy of the clock at one point in time
type Snapshot struct {
	Stamp      float64
	Paused     bool
	LastUpdate time.Time // zero until the first tick arrives
}

// Watcher follows a conductor clock published on a NATS bus
type Watcher struct {
	config   Config
	store    *clock.Store
	listener *bus.Listener
}

// NewWatcher creates a watcher with the given configuration
func NewWatcher(config Config) (*Watcher, error) {
	if config.Name == "" {
		config.Name = "conductor-watcher"
	}

	w := &Watcher{
		config: config,
		store:  clock.NewStore(),
	}

	listenerConfig := bus.Config{
		URL:   config.ServerAddr,
		Topic: config.Topic,
		Name:  config.Name,
	}
	if config.OnTick != nil {
		listenerConfig.OnApplied = func(s clock.Snapshot) {
			config.OnTick(Snapshot(s))
		}
	}
	listenerConfig.OnError = config.OnError

	w.listener = bus.NewListener(listenerConfig, w.store)

	return w, nil
}

// Connect connects to the bus and starts following the clock. An
// unreachable bus is returned as an error; the watcher does not retry.
func (w *Watcher) Connect() error {
	if err := w.listener.Connect(); err != nil {
		return fmt.Errorf("watcher connect: %w", err)
	}

	go w.listener.Listen()

	return nil
}

// Snapshot returns the last-known clock value. Before the first tick the
// snapshot carries zero values and an unset LastUpdate.
func (w *Watcher) Snapshot() (Snapshot, error) {
	snap, err := w.store.Read()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot(snap), nil
}

// Stats returns message counters for the underlying subscription
func (w *Watcher) Stats() bus.Stats {
	return w.listener.Stats()
}

// IsConnected returns connection status
func (w *Watcher) IsConnected() bool {
	return w.listener.IsConnected()
}

// Close stops the watcher and drops the bus connection
func (w *Watcher) Close() {
	w.listener.Close()
}
