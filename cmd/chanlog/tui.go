package main

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"go.jacobcolvin.com/chanlog"
)

// maxTailLines bounds the scrollback kept by the tail view.
const maxTailLines = 1000

// entryMsg carries one rendered chunk from the publisher subscription.
type entryMsg struct {
	entry chanlog.Entry
}

// feedClosedMsg signals that the publisher was closed; no more entries will
// arrive.
type feedClosedMsg struct{}

// tailModel is a live tail of the logger's rendered output, fed by a
// [chanlog.Subscription]. Each line is prefixed with the destination it was
// written to, so interleaved named destinations stay readable.
type tailModel struct {
	sub    *chanlog.Subscription
	lines  []string
	width  int
	height int
	done   bool
}

func newTailModel(sub *chanlog.Subscription) *tailModel {
	return &tailModel{
		sub: sub,
	}
}

// waitForEntry returns a command that blocks on the subscription channel.
func (m *tailModel) waitForEntry() tea.Cmd {
	return func() tea.Msg {
		entry, ok := <-m.sub.C()
		if !ok {
			return feedClosedMsg{}
		}

		return entryMsg{entry: entry}
	}
}

func (m *tailModel) Init() tea.Cmd {
	return m.waitForEntry()
}

func (m *tailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case entryMsg:
		m.append(msg.entry)

		return m, m.waitForEntry()

	case feedClosedMsg:
		m.done = true
	}

	return m, nil
}

// append splits the chunk into lines, tags each with its destination, and
// trims the scrollback.
func (m *tailModel) append(entry chanlog.Entry) {
	chunk := strings.TrimSuffix(entry.Text, "\n")

	for _, line := range strings.Split(chunk, "\n") {
		m.lines = append(m.lines, fmt.Sprintf("%-10s | %s", entry.Destination, line))
	}

	if len(m.lines) > maxTailLines {
		m.lines = m.lines[len(m.lines)-maxTailLines:]
	}
}

func (m *tailModel) View() tea.View {
	var sb strings.Builder

	visible := m.lines

	if m.height > 1 && len(visible) > m.height-1 {
		visible = visible[len(visible)-(m.height-1):]
	}

	for _, line := range visible {
		if m.width > 0 && len(line) > m.width {
			line = line[:m.width]
		}

		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	status := "tailing, q to quit"
	if m.done {
		status = "stream closed, q to quit"
	}

	sb.WriteString(status)

	v := tea.NewView(sb.String())
	v.AltScreen = true

	return v
}
