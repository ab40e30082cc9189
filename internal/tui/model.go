// Package tui is the terminal face of the alarm panel: the state line, the
// entry delay line, the zones block and a masked PIN input with arm and
// disarm keys.
//
// The model never talks to the connection directly. Status arrives as
// StatusMsg through tea.Program.Send and commands go out through the
// Commander the model was built with.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/helto4real/go-alarmpanel/client"
	"github.com/sirupsen/logrus"
)

var log *logrus.Entry

// Commander sends the panel commands
type Commander interface {
	Arm(pin string) error
	Disarm(pin string) error
}

// StatusMsg carries a rendered status to the model
type StatusMsg struct {
	Display client.Display
}

// MalformedMsg reports a status frame that was skipped
type MalformedMsg struct {
	Err error
}

// ClosedMsg reports that the connection is gone
type ClosedMsg struct {
	Err error
}

// sentMsg is the result of a command send
type sentMsg struct {
	cmd client.CommandType
	err error
}

// Model is the bubbletea model of the panel
type Model struct {
	panel     Commander
	keys      KeyMap
	styles    styles
	display   client.Display
	hasStatus bool
	pin       []rune
	notice    string
}

// NewModel creates the panel model sending commands through panel
func NewModel(panel Commander) Model {
	return Model{
		panel:  panel,
		keys:   DefaultKeyMap(),
		styles: newStyles(DefaultTheme),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Pin returns the current PIN input
func (m Model) Pin() string {
	return string(m.pin)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case StatusMsg:
		m.display = msg.Display
		m.hasStatus = true
		return m, nil

	case MalformedMsg:
		m.notice = "ignored malformed status"
		return m, nil

	case ClosedMsg:
		m.notice = "disconnected, restart to reconnect"
		return m, nil

	case sentMsg:
		switch {
		case msg.err == nil:
			m.notice = fmt.Sprintf("%s sent", msg.cmd)
		case errors.Is(msg.err, client.ErrNotConnected):
			m.notice = fmt.Sprintf("%s not sent: not connected", msg.cmd)
		default:
			m.notice = fmt.Sprintf("%s not sent: %v", msg.cmd, msg.err)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Arm):
		return m, m.send(client.CmdArm)
	case key.Matches(msg, m.keys.Disarm):
		return m, m.send(client.CmdDisarm)
	case key.Matches(msg, m.keys.Backspace):
		if len(m.pin) > 0 {
			m.pin = m.pin[:len(m.pin)-1]
		}
		return m, nil
	case key.Matches(msg, m.keys.ClearPin):
		m.pin = nil
		return m, nil
	}

	switch msg.Type {
	case tea.KeyRunes:
		m.pin = append(m.pin, msg.Runes...)
	case tea.KeySpace:
		m.pin = append(m.pin, ' ')
	}
	return m, nil
}

// send captures the PIN as it is now and sends the command outside the
// event loop
func (m Model) send(cmd client.CommandType) tea.Cmd {
	pin := string(m.pin)
	panel := m.panel
	return func() tea.Msg {
		var err error
		if cmd == client.CmdArm {
			err = panel.Arm(pin)
		} else {
			err = panel.Disarm(pin)
		}
		if err != nil {
			log.Warnf("Could not send %s: %v", cmd, err)
		}
		return sentMsg{cmd: cmd, err: err}
	}
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	state := m.display.State
	if !m.hasStatus {
		state = "waiting for status..."
	}
	b.WriteString(m.styles.state.Render(state))
	b.WriteString("\n")
	b.WriteString(m.styles.entry.Render(m.display.Entry))
	b.WriteString("\n\n")

	for i, line := range m.display.Zones {
		b.WriteString(m.zoneStyle(i).Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\nPIN: ")
	b.WriteString(strings.Repeat("*", len(m.pin)))
	b.WriteString("\n")

	panel := m.styles.box.Render(strings.TrimRight(b.String(), "\n"))

	footer := m.styles.help.Render(helpLine(m.keys))
	if m.notice != "" {
		footer = m.styles.notice.Render(m.notice) + "\n" + footer
	}
	return lipgloss.JoinVertical(lipgloss.Left, panel, footer) + "\n"
}

// zoneStyle picks the style of the zone at index from its open flag
func (m Model) zoneStyle(index int) lipgloss.Style {
	if index < len(m.display.Open) && m.display.Open[index] {
		return m.styles.zoneOpen
	}
	return m.styles.zoneOK
}

func helpLine(keys KeyMap) string {
	var parts []string
	for _, binding := range []key.Binding{keys.Arm, keys.Disarm, keys.ClearPin, keys.Quit} {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return strings.Join(parts, " • ")
}

func init() {

	log = logrus.WithField("prefix", "tui")

}
