// Package teatest drives bubbletea models synchronously in tests. It
// replaces tea.Program by calling Update directly and draining returned
// commands inline, so model behavior stays deterministic without a
// running event loop.
package teatest

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// maxDrainDepth caps command draining as a guard against a model that
// keeps returning follow-up commands.
const maxDrainDepth = 100

// Driver is a synchronous test harness for a tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set when tea.QuitMsg is seen during drain. The real
	// runtime intercepts that message before the model sees it, so the
	// driver records it explicitly.
	Quitting bool
}

// New creates a Driver, applies options, and runs the model's Init
// command.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	d.drain(d.Model.Init(), 0)
	return d
}

// Option configures the Driver during construction.
type Option func(*Driver)

// WithSize sends an initial WindowSizeMsg before any other processing.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		updated, _ := d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
		d.Model = updated
	}
}

// Send dispatches a message through Update and drains resulting
// commands. Messages after quit are dropped, matching the runtime.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drain(cmd, 0)
}

// Press sends a character key.
func (d *Driver) Press(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// PressKey sends a special key by type.
func (d *Driver) PressKey(k tea.KeyType) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: k})
}

// View returns the rendered output of the current model state.
func (d *Driver) View() string {
	return d.Model.View()
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= maxDrainDepth {
		d.T.Fatalf("teatest: drain depth limit (%d) reached", maxDrainDepth)
		return
	}

	msg := cmd()
	if msg == nil {
		return
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, sub := range batch {
			if sub != nil {
				d.drain(sub, depth+1)
			}
		}
		return
	}
	if _, ok := msg.(tea.QuitMsg); ok {
		d.Quitting = true
		updated, _ := d.Model.Update(msg)
		d.Model = updated
		return
	}

	updated, next := d.Model.Update(msg)
	d.Model = updated
	d.drain(next, depth+1)
}
