package prompt

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/pcc/pkg/ui/styles"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	markerActive = "◆"
	markerDone   = "◇"
	markerCancel = "■"
	bar          = "│"
)

func header(marker, message string) string {
	return styles.Render("Cursor", marker) + " " + styles.Render("Prompt", message) + "\n"
}

func isCancelKey(key string) bool {
	return key == "ctrl+c" || key == "esc"
}

// listModel drives Select and MultiSelect.
type listModel struct {
	message  string
	options  []Option
	multi    bool
	required bool
	pageSize int

	cursor   int
	offset   int
	selected map[int]bool
	warning  string

	done  bool
	abort bool
}

func newListModel(message string, options []Option, multi, required bool, pageSize int) *listModel {
	return &listModel{
		message:  message,
		options:  options,
		multi:    multi,
		required: required,
		pageSize: pageSize,
		selected: make(map[int]bool),
	}
}

func (m *listModel) Init() tea.Cmd { return nil }

func (m *listModel) cancelled() bool { return m.abort }

func (m *listModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch k := key.String(); {
	case isCancelKey(k):
		m.abort = true
		return m, tea.Quit
	case k == "up" || k == "k":
		m.move(-1)
	case k == "down" || k == "j":
		m.move(1)
	case k == " " && m.multi:
		if len(m.options) > 0 {
			m.selected[m.cursor] = !m.selected[m.cursor]
		}
		m.warning = ""
	case k == "a" && m.multi:
		all := len(m.chosen()) < len(m.options)
		for i := range m.options {
			m.selected[i] = all
		}
		m.warning = ""
	case k == "enter":
		if len(m.options) == 0 {
			m.abort = true
			return m, tea.Quit
		}
		if m.multi && m.required && len(m.chosen()) == 0 {
			m.warning = "Please select at least one option. Press space to select, enter to submit."
			return m, nil
		}
		if !m.multi {
			m.selected = map[int]bool{m.cursor: true}
		}
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *listModel) move(delta int) {
	n := len(m.options)
	if n == 0 {
		return
	}
	m.cursor = (m.cursor + delta + n) % n
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.pageSize {
		m.offset = m.cursor - m.pageSize + 1
	}
}

func (m *listModel) chosen() []int {
	var idx []int
	for i := range m.options {
		if m.selected[i] {
			idx = append(idx, i)
		}
	}
	return idx
}

func (m *listModel) values() []string {
	idx := m.chosen()
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, m.options[i].Value)
	}
	return out
}

func (m *listModel) View() string {
	var b strings.Builder
	switch {
	case m.abort:
		b.WriteString(header(markerCancel, m.message))
		return b.String()
	case m.done:
		b.WriteString(header(markerDone, m.message))
		labels := make([]string, 0, len(m.chosen()))
		for _, i := range m.chosen() {
			labels = append(labels, m.options[i].Label)
		}
		b.WriteString(styles.Render("Muted", bar) + " " + styles.Render("Muted", strings.Join(labels, ", ")) + "\n")
		return b.String()
	}

	b.WriteString(header(markerActive, m.message))
	end := m.offset + m.pageSize
	if end > len(m.options) {
		end = len(m.options)
	}
	if m.offset > 0 {
		b.WriteString(styles.Render("Muted", bar+" ...") + "\n")
	}
	for i := m.offset; i < end; i++ {
		opt := m.options[i]
		pointer := " "
		if i == m.cursor {
			pointer = styles.Render("Cursor", "›")
		}
		box := ""
		if m.multi {
			box = "◻ "
			if m.selected[i] {
				box = styles.Render("Selected", "◼") + " "
			}
		}
		label := opt.Label
		if label == "" {
			label = opt.Value
		}
		line := fmt.Sprintf("%s %s %s%s", styles.Render("Muted", bar), pointer, box, label)
		if opt.Hint != "" {
			line += " " + styles.Render("Hint", "("+opt.Hint+")")
		}
		b.WriteString(line + "\n")
	}
	if end < len(m.options) {
		b.WriteString(styles.Render("Muted", bar+" ...") + "\n")
	}
	if m.warning != "" {
		b.WriteString(styles.Render("Warning", bar+" "+m.warning) + "\n")
	}
	return b.String()
}

// inputModel drives Input.
type inputModel struct {
	message  string
	input    textinput.Model
	validate func(string) error
	warning  string

	done  bool
	abort bool
}

func newInputModel(message, placeholder string, validate func(string) error) *inputModel {
	ti := textinput.New()
	ti.Prompt = "▸ "
	ti.Placeholder = placeholder
	ti.CharLimit = 214
	ti.Focus()
	return &inputModel{message: message, input: ti, validate: validate}
}

func (m *inputModel) Init() tea.Cmd { return textinput.Blink }

func (m *inputModel) cancelled() bool { return m.abort }

func (m *inputModel) value() string {
	return strings.TrimSpace(m.input.Value())
}

func (m *inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch k := key.String(); {
		case isCancelKey(k):
			m.abort = true
			return m, tea.Quit
		case k == "enter":
			if m.validate != nil {
				if err := m.validate(m.value()); err != nil {
					m.warning = err.Error()
					return m, nil
				}
			}
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.warning = ""
	return m, cmd
}

func (m *inputModel) View() string {
	switch {
	case m.abort:
		return header(markerCancel, m.message)
	case m.done:
		return header(markerDone, m.message) + styles.Render("Muted", bar+" "+m.value()) + "\n"
	}
	view := header(markerActive, m.message) + styles.Render("Muted", bar) + " " + m.input.View() + "\n"
	if m.warning != "" {
		view += styles.Render("Warning", bar+" "+m.warning) + "\n"
	}
	return view
}

// confirmModel drives Confirm.
type confirmModel struct {
	message string
	answer  bool

	done  bool
	abort bool
}

func newConfirmModel(message string, initial bool) *confirmModel {
	return &confirmModel{message: message, answer: initial}
}

func (m *confirmModel) Init() tea.Cmd { return nil }

func (m *confirmModel) cancelled() bool { return m.abort }

func (m *confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k := key.String(); {
	case isCancelKey(k):
		m.abort = true
		return m, tea.Quit
	case k == "left" || k == "right" || k == "tab" || k == "h" || k == "l":
		m.answer = !m.answer
	case k == "y" || k == "Y":
		m.answer = true
		m.done = true
		return m, tea.Quit
	case k == "n" || k == "N":
		m.answer = false
		m.done = true
		return m, tea.Quit
	case k == "enter":
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *confirmModel) View() string {
	switch {
	case m.abort:
		return header(markerCancel, m.message)
	case m.done:
		answer := "No"
		if m.answer {
			answer = "Yes"
		}
		return header(markerDone, m.message) + styles.Render("Muted", bar+" "+answer) + "\n"
	}
	yes, no := "○ Yes", "● No"
	if m.answer {
		yes, no = styles.Render("Selected", "● Yes"), "○ No"
	}
	return header(markerActive, m.message) + styles.Render("Muted", bar) + " " + yes + " / " + no + "\n"
}
