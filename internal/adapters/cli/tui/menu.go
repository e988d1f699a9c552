package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// MenuOption is one entry of the start menu. Hint is rendered dimmed after
// the label.
type MenuOption struct {
	Label string
	Hint  string
	Value string
}

// MenuModel picks a single option. Digits 1-9 jump straight to an entry.
type MenuModel struct {
	title    string
	options  []MenuOption
	cursor   int
	selected string
}

func NewMenuModel(title string, options []MenuOption) MenuModel {
	return MenuModel{title: title, options: options}
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(m.options) == 0 {
		if ok && isQuitKey(key.String()) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch s := key.String(); {
	case s == "up" || s == "k":
		m.cursor = (m.cursor - 1 + len(m.options)) % len(m.options)
	case s == "down" || s == "j" || s == "tab":
		m.cursor = (m.cursor + 1) % len(m.options)
	case s == "enter":
		m.selected = m.options[m.cursor].Value
		return m, tea.Quit
	case len(s) == 1 && s[0] >= '1' && s[0] <= '9':
		if idx := int(s[0] - '1'); idx < len(m.options) {
			m.cursor = idx
			m.selected = m.options[idx].Value
			return m, tea.Quit
		}
	case isQuitKey(s):
		return m, tea.Quit
	}
	return m, nil
}

func isQuitKey(s string) bool {
	return s == "q" || s == "esc" || s == "ctrl+c"
}

func (m MenuModel) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("? " + m.title))
	sb.WriteString("\n\n")

	for i, opt := range m.options {
		prefix, style := "  ", normalStyle
		if i == m.cursor {
			prefix, style = "> ", selectedStyle
		}
		sb.WriteString(prefix)
		if i < 9 {
			sb.WriteString(hintStyle.Render(string(rune('1'+i)) + ". "))
		}
		sb.WriteString(style.Render(opt.Label))
		if opt.Hint != "" {
			sb.WriteString(" " + hintStyle.Render("("+opt.Hint+")"))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(hintStyle.Render("up/down or 1-9 to choose, enter to confirm, q to quit"))
	sb.WriteString("\n")
	return sb.String()
}

// Selected returns the chosen value, empty when the menu was dismissed.
func (m MenuModel) Selected() string {
	return m.selected
}

// RunMenu shows the menu on the terminal and returns the chosen value.
func RunMenu(title string, options []MenuOption) (string, error) {
	final, err := tea.NewProgram(NewMenuModel(title, options)).Run()
	if err != nil {
		return "", err
	}
	return final.(MenuModel).Selected(), nil
}
