package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/devbush/tubescribe/internal/domain"
)

// URLInputModel is the bubbletea model for pasting a list of URLs
type URLInputModel struct {
	textarea  textarea.Model
	done      bool
	cancelled bool
	hint      string
}

// NewURLInputModel creates a focused multi-line URL editor
func NewURLInputModel() URLInputModel {
	ta := textarea.New()
	ta.Placeholder = "https://www.youtube.com/watch?v=..."
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.SetWidth(80)
	ta.SetHeight(10)
	ta.Focus()

	return URLInputModel{textarea: ta}
}

func (m URLInputModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m URLInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+d":
			if len(m.URLs()) == 0 {
				m.hint = "enter at least one URL"
				return m, nil
			}
			m.done = true
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m URLInputModel) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("? Video URLs to transcribe (one per line)"))
	sb.WriteString("\n\n")
	sb.WriteString(m.textarea.View())
	sb.WriteString("\n\n")
	if m.hint != "" {
		sb.WriteString(failureStyle.Render(m.hint))
		sb.WriteString("\n")
	}
	sb.WriteString(hintStyle.Render("(ctrl+d to start, esc to cancel)"))
	sb.WriteString("\n")

	return sb.String()
}

// URLs returns the entered URLs in order, without blanks or comments
func (m URLInputModel) URLs() []string {
	urls, _ := domain.ParseURLList(strings.NewReader(m.textarea.Value()))
	return urls
}

// Cancelled returns true if the user cancelled
func (m URLInputModel) Cancelled() bool {
	return m.cancelled || !m.done
}

// RunURLInput displays the editor and returns the entered URLs, or nil
// when cancelled.
func RunURLInput() ([]string, error) {
	p := tea.NewProgram(NewURLInputModel())

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	result := finalModel.(URLInputModel)
	if result.Cancelled() {
		return nil, nil
	}
	return result.URLs(), nil
}
