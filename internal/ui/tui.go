// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program for the clock viewer
package ui

import (
	"github.com/Conductor-Protocol/tickview-go/internal/clock"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultFPS is the display refresh cadence when none is configured.
const DefaultFPS = 10

// Control holds channels for TUI-to-app communication
type Control struct {
	Quit chan struct{}
}

// NewControl creates a new TUI control handler
func NewControl() *Control {
	return &Control{
		Quit: make(chan struct{}, 1),
	}
}

// NewModel creates a new TUI model reading from the given store
func NewModel(store *clock.Store, fps int, ctrl *Control) Model {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return Model{
		store: store,
		fps:   fps,
		ctrl:  ctrl,
	}
}

// Run starts the TUI
func Run(store *clock.Store, fps int, ctrl *Control) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(store, fps, ctrl), tea.WithAltScreen())
	return p, nil
}
