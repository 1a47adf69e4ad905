// ABOUTME: Development publisher of synthetic clock tick events
// ABOUTME: Drives a tickview instance without a real conductor upstream
package main

import (
	"encoding/json"
	"flag"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Conductor-Protocol/tickview-go/internal/bus"
	"github.com/Conductor-Protocol/tickview-go/internal/protocol"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

var (
	serverAddr = flag.String("server", nats.DefaultURL, "Bus address")
	topic      = flag.String("topic", bus.DefaultTopic, "Subject to publish tick events on")
	interval   = flag.Duration("interval", 100*time.Millisecond, "Tick interval")
	namespace  = flag.String("namespace", "dev", "Clock namespace")
	pauseEvery = flag.Duration("pause-every", 0, "Toggle the paused flag at this period (0: never)")
	beatEvery  = flag.Duration("beat", time.Second, "Simulated beat accumulator interval")
)

func main() {
	flag.Parse()

	conn, err := nats.Connect(*serverAddr, nats.Name("tickpub"))
	if err != nil {
		log.Fatalf("Failed to connect to bus at %s: %v", *serverAddr, err)
	}
	defer conn.Close()

	id := uuid.New().String()
	shortID := id[:8]
	start := time.Now()

	log.Printf("Publishing %s every %v on %s (id %s)", *topic, *interval, *serverAddr, shortID)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	paused := false
	lastToggle := start
	stamp := 0.0

	for {
		select {
		case now := <-ticker.C:
			if *pauseEvery > 0 && now.Sub(lastToggle) >= *pauseEvery {
				paused = !paused
				lastToggle = now
				log.Printf("Paused: %v", paused)
			}
			if !paused {
				stamp += interval.Seconds()
			}

			elapsed := now.Sub(start).Seconds()
			beat := beatEvery.Seconds()

			msg := protocol.TickMessage{
				ID:           id,
				ShortID:      shortID,
				EventType:    "tick",
				Stamp:        stamp,
				Interval:     interval.Seconds(),
				Paused:       paused,
				Stepping:     false,
				StartTime:    float64(start.Unix()),
				Namespace:    *namespace,
				Backpressure: false,
				WallTime:     []int{now.Hour(), now.Minute(), now.Second()},
				Transport:    []string{"nats"},
				Connected:    true,
				Accumulators: map[string]protocol.AccumulatorInfo{
					"beat": {
						Interval:  beat,
						Elapsed:   math.Mod(elapsed, beat),
						Cycles:    uint64(elapsed / beat),
						Running:   !paused,
						Repeating: true,
					},
				},
			}

			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("Failed to encode tick: %v", err)
				continue
			}

			if err := conn.Publish(*topic, data); err != nil {
				log.Printf("Failed to publish tick: %v", err)
			}

		case <-sigChan:
			log.Printf("Shutdown signal received")
			return
		}
	}
}
