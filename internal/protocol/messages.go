// ABOUTME: Conductor clock protocol message type definitions
// ABOUTME: Defines the tick event published on the clock.tick subject
package protocol

// TickMessage describes one published state of the shared logical clock.
//
// Only Stamp and Paused drive the local clock store; the remaining fields
// are part of the conductor's schema and are validated at decode time so
// that a malformed message is rejected instead of half-read.
type TickMessage struct {
	ID            string                     `json:"id"`
	ShortID       string                     `json:"short_id"`
	EventType     string                     `json:"event_type"`
	Stamp         float64                    `json:"stamp"`
	Interval      float64                    `json:"interval"`
	Paused        bool                       `json:"paused"`
	Stepping      bool                       `json:"stepping"`
	StartTime     float64                    `json:"start_time"`
	Namespace     string                     `json:"namespace"`
	Backpressure  bool                       `json:"backpressure"`
	WallTime      []int                      `json:"wall_time"`
	CurrentChoice *string                    `json:"current_choice,omitempty"`
	Transport     []string                   `json:"transport"`
	Disposition   *string                    `json:"disposition,omitempty"`
	Connected     bool                       `json:"connected"`
	Accumulators  map[string]AccumulatorInfo `json:"accumulators"`
}

// AccumulatorInfo describes one named accumulator attached to the clock
type AccumulatorInfo struct {
	Interval  float64 `json:"interval"`
	Elapsed   float64 `json:"elapsed"`
	Cycles    uint64  `json:"cycles"`
	Running   bool    `json:"running"`
	Repeating bool    `json:"repeating"`
}
