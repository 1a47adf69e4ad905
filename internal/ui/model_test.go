// ABOUTME: Tests for the TUI model
// ABOUTME: Verifies store polling, status updates, and rendering states
package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/Conductor-Protocol/tickview-go/internal/bus"
	"github.com/Conductor-Protocol/tickview-go/internal/clock"
	"github.com/Conductor-Protocol/tickview-go/internal/version"
	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(store *clock.Store) Model {
	m := NewModel(store, DefaultFPS, NewControl())
	m.width = 80
	m.height = 24
	return m
}

func TestViewBeforeFirstTick(t *testing.T) {
	m := newTestModel(clock.NewStore())
	m.pullClock()

	view := m.View()
	if !strings.Contains(view, "Waiting for clock.tick") {
		t.Errorf("expected waiting message before first tick, got:\n%s", view)
	}
	if !strings.Contains(view, "Disconnected") {
		t.Errorf("expected disconnected status, got:\n%s", view)
	}
}

func TestHeaderShowsProductAndVersion(t *testing.T) {
	m := newTestModel(clock.NewStore())

	view := m.View()
	if !strings.Contains(view, version.Product) {
		t.Errorf("expected product name in header, got:\n%s", view)
	}
	if !strings.Contains(view, version.Version) {
		t.Errorf("expected version in header, got:\n%s", view)
	}
}

func TestViewShowsClockValue(t *testing.T) {
	store := clock.NewStore()
	store.Write(12.5, false)

	m := newTestModel(store)
	m.pullClock()

	view := m.View()
	if !strings.Contains(view, "12.50") {
		t.Errorf("expected stamp 12.50 in view, got:\n%s", view)
	}
	if !strings.Contains(view, "running") {
		t.Errorf("expected running state, got:\n%s", view)
	}
}

func TestViewShowsPaused(t *testing.T) {
	store := clock.NewStore()
	store.Write(3.0, true)

	m := newTestModel(store)
	m.pullClock()

	view := m.View()
	if !strings.Contains(view, "paused") {
		t.Errorf("expected paused state, got:\n%s", view)
	}
}

func TestFrameMsgPullsStoreAndReschedules(t *testing.T) {
	store := clock.NewStore()
	m := newTestModel(store)

	store.Write(7.25, false)

	updated, cmd := m.Update(frameMsg(time.Now()))
	if cmd == nil {
		t.Error("expected a rescheduled frame command")
	}

	view := updated.View()
	if !strings.Contains(view, "7.25") {
		t.Errorf("expected pulled stamp 7.25, got:\n%s", view)
	}
}

func TestStatusMsgUpdatesConnection(t *testing.T) {
	m := newTestModel(clock.NewStore())

	connected := true
	updated, _ := m.Update(StatusMsg{
		Connected: &connected,
		BusAddr:   "nats://127.0.0.1:4222",
		Stats:     &bus.Stats{Received: 5, Applied: 4, Rejected: 1},
	})

	view := updated.View()
	if !strings.Contains(view, "Connected to nats://127.0.0.1:4222") {
		t.Errorf("expected connected status, got:\n%s", view)
	}
	if !strings.Contains(view, "RX: 5") || !strings.Contains(view, "Rejected: 1") {
		t.Errorf("expected stats in view, got:\n%s", view)
	}
}

func TestPoisonedStoreShownNotMasked(t *testing.T) {
	store := clock.NewStore()
	m := newTestModel(store)

	m.unavailable = true

	view := m.View()
	if !strings.Contains(view, "unavailable") {
		t.Errorf("expected unavailable notice, got:\n%s", view)
	}
	if strings.Contains(view, "Waiting for clock.tick") {
		t.Error("unavailable store must not render as a default snapshot")
	}
}

func TestDebugToggle(t *testing.T) {
	m := newTestModel(clock.NewStore())

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	view := updated.View()
	if !strings.Contains(view, "DEBUG") {
		t.Errorf("expected debug pane after pressing d, got:\n%s", view)
	}
}

func TestQuitKeySignalsControl(t *testing.T) {
	ctrl := NewControl()
	m := NewModel(clock.NewStore(), DefaultFPS, ctrl)
	m.width = 80

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}

	select {
	case <-ctrl.Quit:
	default:
		t.Error("expected quit signal on control channel")
	}
}
