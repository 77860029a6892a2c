// Package tui runs the lander in a terminal with Bubble Tea.
// It maps keys to actions, drives the fixed-rate tick loop, records attempts
// and serves the same session over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
// Flight tags the tick chain so a model ignores ticks left over from an
// earlier flight in the same program.
type TickMsg struct {
	Time   time.Time
	Flight int
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate, flight int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 10
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, Flight: flight}
	})
}
