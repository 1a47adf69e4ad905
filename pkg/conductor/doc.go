// ABOUTME: High-level conductor clock watching API
// ABOUTME: Provides a simple Watcher for embedding in other programs
// Package conductor provides a high-level API for following a conductor's
// shared logical clock over a NATS bus.
//
// A Watcher subscribes to the clock tick subject and keeps the last-known
// clock value in a concurrency-safe store. Consumers either poll Snapshot
// from any goroutine or register an OnTick callback.
//
// Example:
//
//	watcher, err := conductor.NewWatcher(conductor.Config{
//	    ServerAddr: "nats://127.0.0.1:4222",
//	    OnTick: func(s conductor.Snapshot) {
//	        fmt.Printf("clock at %.2f\n", s.Stamp)
//	    },
//	})
//	err = watcher.Connect()
//	defer watcher.Close()
package conductor
