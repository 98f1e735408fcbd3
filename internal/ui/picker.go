// Package ui implements the interactive platform and product picker shown
// when a conversion target is not given on the command line.
package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrCancelled is returned when the user dismisses the picker.
var ErrCancelled = errors.New("selection cancelled")

// pickerModel lets the user filter and select one value from a list.
type pickerModel struct {
	header    string
	options   []string
	filtered  []string
	cursor    int
	textInput textinput.Model
	width     int
	height    int
	selected  string
	cancelled bool
}

func newPickerModel(header string, options []string) pickerModel {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.Focus()
	ti.CharLimit = 128
	ti.Width = 60

	return pickerModel{
		header:    header,
		options:   options,
		filtered:  options,
		textInput: ti,
	}
}

// Init implements tea.Model
func (m pickerModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd := m.handleKeyPress(msg); cmd != nil {
			return m, cmd
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 4
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	m.filterOptions()

	return m, cmd
}

func (m *pickerModel) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.cancelled = true
		return tea.Quit
	case "enter":
		if m.cursor < len(m.filtered) {
			m.selected = m.filtered[m.cursor]
			return tea.Quit
		}
	case "up", "ctrl+p":
		m.moveCursor(-1)
	case "down", "ctrl+n":
		m.moveCursor(1)
	}
	return nil
}

func (m *pickerModel) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(0, len(m.filtered)-1))
}

// filterOptions narrows the list to options matching every word of the query.
func (m *pickerModel) filterOptions() {
	query := strings.TrimSpace(strings.ToLower(m.textInput.Value()))
	if query == "" {
		m.filtered = m.options
	} else {
		words := strings.Fields(query)
		m.filtered = make([]string, 0, len(m.options))
		for _, opt := range m.options {
			if matchesAllWords(strings.ToLower(opt), words) {
				m.filtered = append(m.filtered, opt)
			}
		}
	}
	m.cursor = clamp(m.cursor, 0, max(0, len(m.filtered)-1))
}

// View implements tea.Model
func (m pickerModel) View() string {
	width := max(m.width, 80)

	var b strings.Builder
	b.WriteString(styles.Header.Render(m.header))
	b.WriteString("\n")
	b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	b.WriteString(styles.Dim.Render("↑/↓ move • Enter select • ESC cancel"))
	b.WriteString("\n\n")

	listHeight := min(10, len(m.filtered))
	start, end := scrollWindow(m.cursor, len(m.filtered), listHeight)
	for i := start; i < end; i++ {
		if i == m.cursor {
			b.WriteString(styles.Cursor.Render("▶ "))
			b.WriteString(styles.Selected.Render(m.filtered[i]))
		} else {
			b.WriteString("  ")
			b.WriteString(styles.Option.Render(m.filtered[i]))
		}
		b.WriteString("\n")
	}
	if len(m.filtered) == 0 {
		b.WriteString(styles.Dim.Render("  no matches"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	return b.String()
}

// Pick shows the picker and returns the selected option. ErrCancelled is
// returned when the user backs out.
func Pick(header string, options []string) (string, error) {
	program := tea.NewProgram(newPickerModel(header, options))
	final, err := program.Run()
	if err != nil {
		return "", err
	}
	m := final.(pickerModel)
	if m.cancelled {
		return "", ErrCancelled
	}
	return m.selected, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// scrollWindow returns the half-open range of visible options, keeping the
// cursor inside the window.
func scrollWindow(cursor, total, height int) (start, end int) {
	if total <= height {
		return 0, total
	}
	start = cursor - height/2
	start = clamp(start, 0, total-height)
	return start, start + height
}

func matchesAllWords(s string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(s, w) {
			return false
		}
	}
	return true
}
