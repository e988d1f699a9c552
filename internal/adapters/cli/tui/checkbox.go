package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// CheckboxOption represents a checkbox choice
type CheckboxOption struct {
	Label   string
	Value   string
	Checked bool
}

// CheckboxModel is the bubbletea model for checkbox selection
type CheckboxModel struct {
	title     string
	options   []CheckboxOption
	cursor    int
	done      bool
	minSelect int
}

// NewCheckboxModel creates a new checkbox selector. minSelect is the
// number of options that must be checked before enter is accepted.
func NewCheckboxModel(title string, options []CheckboxOption, minSelect int) CheckboxModel {
	return CheckboxModel{
		title:     title,
		options:   options,
		minSelect: minSelect,
	}
}

func (m CheckboxModel) Init() tea.Cmd {
	return nil
}

func (m CheckboxModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case " ", "x":
		m.options[m.cursor].Checked = !m.options[m.cursor].Checked
	case "enter":
		if m.countSelected() >= m.minSelect {
			m.done = true
			return m, tea.Quit
		}
	case "q", "ctrl+c", "esc":
		m.done = false
		return m, tea.Quit
	}
	return m, nil
}

func (m CheckboxModel) countSelected() int {
	count := 0
	for _, opt := range m.options {
		if opt.Checked {
			count++
		}
	}
	return count
}

func (m CheckboxModel) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(m.title))
	sb.WriteString("\n\n")

	for i, opt := range m.options {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		checkbox := "[ ]"
		style := uncheckedStyle
		if opt.Checked {
			checkbox = "[x]"
			style = checkedStyle
		}

		sb.WriteString(style.Render(fmt.Sprintf("%s%s %s", cursor, checkbox, opt.Label)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	if m.countSelected() < m.minSelect {
		sb.WriteString(fmt.Sprintf("(select at least %d)\n", m.minSelect))
	}
	sb.WriteString(hintStyle.Render("(space=toggle, enter=confirm, q=cancel)"))
	sb.WriteString("\n")

	return sb.String()
}

// Checked reports whether the option with value is checked
func (m CheckboxModel) Checked(value string) bool {
	for _, opt := range m.options {
		if opt.Value == value {
			return opt.Checked
		}
	}
	return false
}

// Cancelled returns true if the user cancelled
func (m CheckboxModel) Cancelled() bool {
	return !m.done
}

// BatchChoices are the run options picked interactively
type BatchChoices struct {
	KeepWorkspace bool
	Docx          bool
	NoCache       bool
}

// RunBatchOptions asks for the run options of an interactive batch,
// starting from defaults. It returns nil when cancelled.
func RunBatchOptions(defaults BatchChoices) (*BatchChoices, error) {
	model := NewCheckboxModel("Batch options", batchOptionList(defaults), 0)

	finalModel, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, err
	}

	result := finalModel.(CheckboxModel)
	if result.Cancelled() {
		return nil, nil
	}
	return choicesFrom(result), nil
}

func batchOptionList(defaults BatchChoices) []CheckboxOption {
	return []CheckboxOption{
		{Label: "Keep downloaded audio in the workspace", Value: "keep", Checked: defaults.KeepWorkspace},
		{Label: "Also write a DOCX report", Value: "docx", Checked: defaults.Docx},
		{Label: "Ignore cached transcripts", Value: "nocache", Checked: defaults.NoCache},
	}
}

func choicesFrom(m CheckboxModel) *BatchChoices {
	return &BatchChoices{
		KeepWorkspace: m.Checked("keep"),
		Docx:          m.Checked("docx"),
		NoCache:       m.Checked("nocache"),
	}
}
