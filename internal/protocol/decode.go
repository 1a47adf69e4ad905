// ABOUTME: Strict decoder for tick messages
// ABOUTME: Rejects payloads with missing required fields or type mismatches
package protocol

import (
	"encoding/json"
	"fmt"
	"strings"
)

// wireTick mirrors TickMessage with pointer fields so that a field absent
// from the payload can be told apart from one present with a zero value.
type wireTick struct {
	ID            *string                     `json:"id"`
	ShortID       *string                     `json:"short_id"`
	EventType     *string                     `json:"event_type"`
	Stamp         *float64                    `json:"stamp"`
	Interval      *float64                    `json:"interval"`
	Paused        *bool                       `json:"paused"`
	Stepping      *bool                       `json:"stepping"`
	StartTime     *float64                    `json:"start_time"`
	Namespace     *string                     `json:"namespace"`
	Backpressure  *bool                       `json:"backpressure"`
	WallTime      *[]int                      `json:"wall_time"`
	CurrentChoice *string                     `json:"current_choice"`
	Transport     *[]string                   `json:"transport"`
	Disposition   *string                     `json:"disposition"`
	Connected     *bool                       `json:"connected"`
	Accumulators  *map[string]wireAccumulator `json:"accumulators"`
}

type wireAccumulator struct {
	Interval  *float64 `json:"interval"`
	Elapsed   *float64 `json:"elapsed"`
	Cycles    *uint64  `json:"cycles"`
	Running   *bool    `json:"running"`
	Repeating *bool    `json:"repeating"`
}

// DecodeTick parses one tick message payload.
//
// Decoding is strict: malformed JSON, a type mismatch, or any missing
// required field yields an error and no event. A successfully decoded
// event is always complete. Unknown extra keys are accepted for forward
// compatibility. DecodeTick has no side effects; the same bytes always
// produce the same result.
func DecodeTick(data []byte) (*TickMessage, error) {
	var w wireTick
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("malformed tick payload: %w", err)
	}

	if missing := w.missingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("tick payload missing required fields: %s",
			strings.Join(missing, ", "))
	}

	accs := make(map[string]AccumulatorInfo, len(*w.Accumulators))
	for name, wa := range *w.Accumulators {
		if missing := wa.missingFields(); len(missing) > 0 {
			return nil, fmt.Errorf("accumulator %q missing required fields: %s",
				name, strings.Join(missing, ", "))
		}
		accs[name] = AccumulatorInfo{
			Interval:  *wa.Interval,
			Elapsed:   *wa.Elapsed,
			Cycles:    *wa.Cycles,
			Running:   *wa.Running,
			Repeating: *wa.Repeating,
		}
	}

	return &TickMessage{
		ID:            *w.ID,
		ShortID:       *w.ShortID,
		EventType:     *w.EventType,
		Stamp:         *w.Stamp,
		Interval:      *w.Interval,
		Paused:        *w.Paused,
		Stepping:      *w.Stepping,
		StartTime:     *w.StartTime,
		Namespace:     *w.Namespace,
		Backpressure:  *w.Backpressure,
		WallTime:      *w.WallTime,
		CurrentChoice: w.CurrentChoice,
		Transport:     *w.Transport,
		Disposition:   w.Disposition,
		Connected:     *w.Connected,
		Accumulators:  accs,
	}, nil
}

// missingFields lists required fields absent from the payload.
// current_choice and disposition are optional.
func (w *wireTick) missingFields() []string {
	var missing []string
	if w.ID == nil {
		missing = append(missing, "id")
	}
	if w.ShortID == nil {
		missing = append(missing, "short_id")
	}
	if w.EventType == nil {
		missing = append(missing, "event_type")
	}
	if w.Stamp == nil {
		missing = append(missing, "stamp")
	}
	if w.Interval == nil {
		missing = append(missing, "interval")
	}
	if w.Paused == nil {
		missing = append(missing, "paused")
	}
	if w.Stepping == nil {
		missing = append(missing, "stepping")
	}
	if w.StartTime == nil {
		missing = append(missing, "start_time")
	}
	if w.Namespace == nil {
		missing = append(missing, "namespace")
	}
	if w.Backpressure == nil {
		missing = append(missing, "backpressure")
	}
	if w.WallTime == nil {
		missing = append(missing, "wall_time")
	}
	if w.Transport == nil {
		missing = append(missing, "transport")
	}
	if w.Connected == nil {
		missing = append(missing, "connected")
	}
	if w.Accumulators == nil {
		missing = append(missing, "accumulators")
	}
	return missing
}

func (w *wireAccumulator) missingFields() []string {
	var missing []string
	if w.Interval == nil {
		missing = append(missing, "interval")
	}
	if w.Elapsed == nil {
		missing = append(missing, "elapsed")
	}
	if w.Cycles == nil {
		missing = append(missing, "cycles")
	}
	if w.Running == nil {
		missing = append(missing, "running")
	}
	if w.Repeating == nil {
		missing = append(missing, "repeating")
	}
	return missing
}
