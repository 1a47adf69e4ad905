// ABOUTME: Tests for tick message decoding
// ABOUTME: Verifies strict validation of required fields and round-trip fidelity
package protocol

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

const fullTick = `{
	"id": "conductor-7f3a",
	"short_id": "7f3a",
	"event_type": "tick",
	"stamp": 42.75,
	"interval": 0.1,
	"paused": false,
	"stepping": false,
	"start_time": 1000.0,
	"namespace": "arena",
	"backpressure": false,
	"wall_time": [14, 30, 2],
	"current_choice": "red",
	"transport": ["nats"],
	"disposition": "steady",
	"connected": true,
	"accumulators": {
		"beat": {"interval": 0.5, "elapsed": 0.2, "cycles": 85, "running": true, "repeating": true}
	}
}`

func TestDecodeFullTick(t *testing.T) {
	tick, err := DecodeTick([]byte(fullTick))
	if err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	if tick.ID != "conductor-7f3a" {
		t.Errorf("expected id conductor-7f3a, got %s", tick.ID)
	}
	if tick.Stamp != 42.75 {
		t.Errorf("expected stamp 42.75, got %f", tick.Stamp)
	}
	if tick.Paused {
		t.Error("expected paused false")
	}
	if tick.CurrentChoice == nil || *tick.CurrentChoice != "red" {
		t.Errorf("expected current_choice red, got %v", tick.CurrentChoice)
	}
	if !reflect.DeepEqual(tick.WallTime, []int{14, 30, 2}) {
		t.Errorf("expected wall_time [14 30 2], got %v", tick.WallTime)
	}

	beat, ok := tick.Accumulators["beat"]
	if !ok {
		t.Fatal("expected beat accumulator")
	}
	if beat.Cycles != 85 || !beat.Running || !beat.Repeating {
		t.Errorf("unexpected beat accumulator: %+v", beat)
	}
}

func TestDecodeMinimalTick(t *testing.T) {
	// The example payload from the conductor docs: empty collections and no
	// optional fields.
	payload := `{"id":"a","short_id":"a1","event_type":"tick","stamp":12.5,` +
		`"interval":0.1,"paused":false,"stepping":false,"start_time":0,` +
		`"namespace":"ns","backpressure":false,"wall_time":[],"transport":[],` +
		`"connected":true,"accumulators":{}}`

	tick, err := DecodeTick([]byte(payload))
	if err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	if tick.Stamp != 12.5 {
		t.Errorf("expected stamp 12.5, got %f", tick.Stamp)
	}
	if tick.Paused {
		t.Error("expected paused false")
	}
	if tick.CurrentChoice != nil {
		t.Errorf("expected no current_choice, got %v", *tick.CurrentChoice)
	}
	if tick.Disposition != nil {
		t.Errorf("expected no disposition, got %v", *tick.Disposition)
	}
	if len(tick.Accumulators) != 0 {
		t.Errorf("expected empty accumulators, got %v", tick.Accumulators)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	original, err := DecodeTick([]byte(fullTick))
	if err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	decoded, err := DecodeTick(data)
	if err != nil {
		t.Fatalf("failed to decode re-encoded tick: %v", err)
	}

	if !reflect.DeepEqual(original, decoded) {
		t.Errorf("round-trip mismatch:\noriginal: %+v\ndecoded:  %+v", original, decoded)
	}
}

func TestDecodeMissingRequiredField(t *testing.T) {
	required := []string{
		"id", "short_id", "event_type", "stamp", "interval", "paused",
		"stepping", "start_time", "namespace", "backpressure", "wall_time",
		"transport", "connected", "accumulators",
	}

	var full map[string]json.RawMessage
	if err := json.Unmarshal([]byte(fullTick), &full); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}

	for _, field := range required {
		t.Run(field, func(t *testing.T) {
			partial := make(map[string]json.RawMessage, len(full))
			for k, v := range full {
				if k != field {
					partial[k] = v
				}
			}
			data, err := json.Marshal(partial)
			if err != nil {
				t.Fatalf("failed to marshal fixture: %v", err)
			}

			tick, err := DecodeTick(data)
			if err == nil {
				t.Fatalf("expected error for missing %s", field)
			}
			if tick != nil {
				t.Errorf("expected no partial event, got %+v", tick)
			}
			if !strings.Contains(err.Error(), field) {
				t.Errorf("error should name the missing field %s: %v", field, err)
			}
		})
	}
}

func TestDecodeOptionalFieldsAbsentOK(t *testing.T) {
	var full map[string]json.RawMessage
	if err := json.Unmarshal([]byte(fullTick), &full); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	delete(full, "current_choice")
	delete(full, "disposition")

	data, _ := json.Marshal(full)
	tick, err := DecodeTick(data)
	if err != nil {
		t.Fatalf("optional fields should not be required: %v", err)
	}
	if tick.CurrentChoice != nil || tick.Disposition != nil {
		t.Error("expected absent optional fields to decode as nil")
	}
}

func TestDecodeTypeMismatch(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"stamp as string", strings.Replace(fullTick, `"stamp": 42.75`, `"stamp": "42.75"`, 1)},
		{"paused as number", strings.Replace(fullTick, `"paused": false`, `"paused": 0`, 1)},
		{"wall_time as object", strings.Replace(fullTick, `"wall_time": [14, 30, 2]`, `"wall_time": {}`, 1)},
		{"accumulators as array", strings.Replace(fullTick, `"accumulators": {`, `"accumulators": [{`, 1)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tick, err := DecodeTick([]byte(tc.payload))
			if err == nil {
				t.Fatal("expected decode error")
			}
			if tick != nil {
				t.Errorf("expected no partial event, got %+v", tick)
			}
		})
	}
}

func TestDecodeMalformedJSON(t *testing.T) {
	for _, payload := range []string{"", "{", "not json", `"just a string"`, "[]"} {
		if _, err := DecodeTick([]byte(payload)); err == nil {
			t.Errorf("expected error for payload %q", payload)
		}
	}
}

func TestDecodeUnknownKeysAccepted(t *testing.T) {
	payload := strings.Replace(fullTick, `"id": "conductor-7f3a",`,
		`"id": "conductor-7f3a", "future_field": {"nested": true},`, 1)

	tick, err := DecodeTick([]byte(payload))
	if err != nil {
		t.Fatalf("unknown keys should be tolerated: %v", err)
	}
	if tick.ID != "conductor-7f3a" {
		t.Errorf("expected id conductor-7f3a, got %s", tick.ID)
	}
}

func TestDecodeIdempotent(t *testing.T) {
	data := []byte(fullTick)
	first, err := DecodeTick(data)
	if err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	second, err := DecodeTick(data)
	if err != nil {
		t.Fatalf("failed to decode again: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical results for identical bytes")
	}
}
