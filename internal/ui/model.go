// ABOUTME: Bubbletea model for the clock viewer TUI
// ABOUTME: Polls the shared clock store on a frame cadence and renders it
package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Conductor-Protocol/tickview-go/internal/bus"
	"github.com/Conductor-Protocol/tickview-go/internal/clock"
	"github.com/Conductor-Protocol/tickview-go/internal/version"
	tea "github.com/charmbracelet/bubbletea"
)

// staleAfter is how long without a tick before the display flags the
// clock as stale.
const staleAfter = 2 * time.Second

// Model represents the TUI state
type Model struct {
	// Shared clock store, read-only from here. The model pulls a snapshot
	// every frame; nothing is pushed from the subscription goroutine.
	store *clock.Store
	fps   int

	// Last pulled state
	snap        clock.Snapshot
	unavailable bool

	// Connection
	connected bool
	busAddr   string

	// Stats
	stats bus.Stats

	// Debug
	showDebug bool

	// Dimensions
	width  int
	height int

	ctrl *Control
}

// frameMsg requests a fresh read of the clock store
type frameMsg time.Time

// StatusMsg updates connection state and message counters
type StatusMsg struct {
	Connected *bool
	BusAddr   string
	Stats     *bus.Stats
}

func (m Model) frameCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.frameCmd()
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case frameMsg:
		m.pullClock()
		return m, m.frameCmd()
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// pullClock reads the shared store into the model
func (m *Model) pullClock() {
	snap, err := m.store.Read()
	if err != nil {
		// A poisoned store is shown, never papered over with defaults.
		if errors.Is(err, clock.ErrStoreUnavailable) {
			m.unavailable = true
		}
		return
	}
	m.unavailable = false
	m.snap = snap
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderClock()
	s += m.renderStats()

	if m.showDebug {
		s += m.renderDebug()
	}

	s += m.renderHelp()

	return s
}

// renderHeader renders the title bar and bus connection status
func (m Model) renderHeader() string {
	connStatus := "Disconnected"
	if m.connected {
		connStatus = fmt.Sprintf("Connected to %s", m.busAddr)
	}

	title := truncate(fmt.Sprintf("%s %s", version.Product, version.Version), 50)

	return fmt.Sprintf(`┌─ %s %s┐
│ Bus: %-48s │
├──────────────────────────────────────────────────────┤
`, title, strings.Repeat("─", 52-len(title)), truncate(connStatus, 48))
}

// renderClock renders the current clock value
func (m Model) renderClock() string {
	if m.unavailable {
		return "│ ⚠ Clock store unavailable                            │\n"
	}

	if !m.snap.Updated() {
		return "│ 🔌 Waiting for clock.tick...                         │\n"
	}

	state := "▶ running"
	if m.snap.Paused {
		state = "⏸ paused"
	}

	age := m.snap.Age()
	ageText := fmt.Sprintf("%.1fs ago", age.Seconds())
	if age > staleAfter {
		ageText += " (stale)"
	}

	return fmt.Sprintf("│ 🕒 %-12.2f %-10s%-24s │\n│ Last tick: %-40s  │\n",
		m.snap.Stamp, state, "", ageText)
}

// renderStats renders message counters
func (m Model) renderStats() string {
	return fmt.Sprintf(`├──────────────────────────────────────────────────────┤
│ Stats:  RX: %d  Applied: %d  Rejected: %d%-8s │
`, m.stats.Received, m.stats.Applied, m.stats.Rejected, "")
}

// renderDebug renders debug information
func (m Model) renderDebug() string {
	last := "never"
	if m.snap.Updated() {
		last = m.snap.LastUpdate.Format("15:04:05.000")
	}
	return fmt.Sprintf(`│ DEBUG:                                               │
│   FPS: %-4d                                          │
│   Last update: %-20s                  │
`, m.fps, last)
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `│ d:Debug  q:Quit                                      │
└──────────────────────────────────────────────────────┘
`
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.ctrl != nil {
			select {
			case m.ctrl.Quit <- struct{}{}:
			default:
			}
		}
		return m, tea.Quit
	case "d":
		m.showDebug = !m.showDebug
	}

	return m, nil
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Connected != nil {
		m.connected = *msg.Connected
	}
	if msg.BusAddr != "" {
		m.busAddr = msg.BusAddr
	}
	if msg.Stats != nil {
		m.stats = *msg.Stats
	}
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
