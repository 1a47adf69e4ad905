// ABOUTME: NATS subscription loop for conductor clock ticks
// ABOUTME: Handles connection, subscription, and the ordered receive loop
package bus

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/Conductor-Protocol/tickview-go/internal/clock"
	"github.com/Conductor-Protocol/tickview-go/internal/tick"
	"github.com/Conductor-Protocol/tickview-go/internal/version"
	"github.com/nats-io/nats.go"
)

// DefaultTopic is the subject the conductor publishes clock ticks on.
const DefaultTopic = "clock.tick"

// Config holds listener configuration
type Config struct {
	// URL is the bus endpoint, e.g. nats://127.0.0.1:4222.
	URL string

	// Topic is the subject carrying tick events. Defaults to DefaultTopic.
	Topic string

	// Name identifies this connection to the bus.
	Name string

	// OnApplied, if set, is called with a fresh snapshot after every
	// successfully applied tick.
	OnApplied func(clock.Snapshot)

	// OnError, if set, is called for every message that failed to apply.
	OnError func(error)
}

// Listener subscribes to the clock tick subject and feeds every message,
// strictly in arrival order, through the tick handler into the store.
//
// There is no flow control: messages are never dropped under load, the
// subscription's pending buffer grows instead. A malformed message is
// logged and skipped; only a closed connection or Close ends the loop.
type Listener struct {
	config Config
	store  *clock.Store

	mu        sync.RWMutex
	conn      *nats.Conn
	sub       *nats.Subscription
	connected bool

	received atomic.Int64
	applied  atomic.Int64
	rejected atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
}

// Stats is a snapshot of the listener's message counters.
type Stats struct {
	Received int64
	Applied  int64
	Rejected int64
}

// NewListener creates a listener writing into the given store.
func NewListener(config Config, store *clock.Store) *Listener {
	if config.URL == "" {
		config.URL = nats.DefaultURL
	}
	if config.Topic == "" {
		config.Topic = DefaultTopic
	}
	if config.Name == "" {
		config.Name = fmt.Sprintf("%s %s", version.Product, version.Version)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Listener{
		config: config,
		store:  store,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Connect establishes the bus connection and subscribes to the tick
// subject. Failure here is fatal to the listener: the caller decides
// whether to abort or retry, the listener itself never reconnects.
func (l *Listener) Connect() error {
	conn, err := nats.Connect(l.config.URL, nats.Name(l.config.Name))
	if err != nil {
		return fmt.Errorf("connect to bus at %s: %w", l.config.URL, err)
	}

	sub, err := conn.SubscribeSync(l.config.Topic)
	if err != nil {
		conn.Close()
		return fmt.Errorf("subscribe to %s: %w", l.config.Topic, err)
	}

	// Unlimited pending: block or grow, never silently discard.
	if err := sub.SetPendingLimits(-1, -1); err != nil {
		conn.Close()
		return fmt.Errorf("configure subscription: %w", err)
	}

	// Round-trip to the server so the subscription is live once Connect
	// returns; ticks published immediately after cannot be missed.
	if err := conn.Flush(); err != nil {
		conn.Close()
		return fmt.Errorf("flush subscription: %w", err)
	}

	l.mu.Lock()
	l.conn = conn
	l.sub = sub
	l.connected = true
	l.mu.Unlock()

	log.Printf("Subscribed to %s on %s", l.config.Topic, l.config.URL)

	return nil
}

// Listen runs the receive loop until the connection closes or the listener
// is stopped. Intended to run on its own goroutine, away from the
// presentation thread.
func (l *Listener) Listen() {
	l.mu.RLock()
	sub := l.sub
	l.mu.RUnlock()
	if sub == nil {
		log.Printf("Listen called before Connect")
		return
	}

	defer l.Close()

	log.Printf("Listening for %s messages...", l.config.Topic)

	for {
		msg, err := sub.NextMsgWithContext(l.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			if errors.Is(err, nats.ErrConnectionClosed) || errors.Is(err, nats.ErrBadSubscription) {
				log.Printf("Bus connection closed, stopping listener")
				return
			}
			log.Printf("Receive error: %v", err)
			return
		}

		l.received.Add(1)

		if err := tick.Handle(msg.Data, l.store); err != nil {
			l.rejected.Add(1)
			log.Printf("Error handling tick message: %v", err)
			if l.config.OnError != nil {
				l.config.OnError(err)
			}
			continue
		}

		l.applied.Add(1)

		if l.config.OnApplied != nil {
			if snap, err := l.store.Read(); err == nil {
				l.config.OnApplied(snap)
			}
		}
	}
}

// Stats returns the current message counters.
func (l *Listener) Stats() Stats {
	return Stats{
		Received: l.received.Load(),
		Applied:  l.applied.Load(),
		Rejected: l.rejected.Load(),
	}
}

// IsConnected returns connection status
func (l *Listener) IsConnected() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.connected && l.conn != nil && l.conn.IsConnected()
}

// Close stops the receive loop and drops the bus connection.
func (l *Listener) Close() {
	l.cancel()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.connected {
		l.connected = false
		l.conn.Close()
		log.Printf("Bus connection closed")
	}
}
