package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrPickAborted is returned when the user quits the picker entirely
// rather than skipping a single issue.
var ErrPickAborted = errors.New("fix selection aborted")

// PickerOption is one repair the user can choose from.
type PickerOption struct {
	Label string
	Text  string
}

// pickerModel presents the repair alternatives for a single issue.
type pickerModel struct {
	styles  *Styles
	title   string
	context string
	options []PickerOption
	cursor  int
	chosen  bool
	skipped bool
	aborted bool
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
	case "enter":
		m.chosen = true
		return m, tea.Quit
	case "s", "esc":
		m.skipped = true
		return m, tea.Quit
	case "ctrl+c", "q":
		m.aborted = true
		return m, tea.Quit
	}

	return m, nil
}

func (m pickerModel) View() string {
	if m.chosen || m.skipped || m.aborted {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(m.styles.Warning.Render(m.styles.IconWarning))
	sb.WriteString(" ")
	sb.WriteString(m.styles.Header.Render(m.title))
	sb.WriteString("\n")
	if m.context != "" {
		sb.WriteString(m.styles.Subheader.Render("  > " + m.context))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	width := 0
	for _, opt := range m.options {
		if len(opt.Text) > width {
			width = len(opt.Text)
		}
	}

	for i, opt := range m.options {
		text := fmt.Sprintf("%-*s", width, opt.Text)
		if i == m.cursor {
			sb.WriteString("  ❯ ")
			sb.WriteString(m.styles.Rewrite.Render(text))
		} else {
			sb.WriteString("    ")
			sb.WriteString(text)
		}
		sb.WriteString("  ")
		sb.WriteString(m.styles.Subheader.Render(opt.Label))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.Subheader.Render("  up/down select  enter apply  s skip  ctrl+c quit"))
	sb.WriteString("\n")

	return sb.String()
}

// PickFix blocks until the user chooses one of options or skips the issue.
// It returns the chosen index, or -1 when the issue was skipped, and
// ErrPickAborted when the user quit the whole run.
func (ui *UI) PickFix(title, context string, options []PickerOption) (int, error) {
	m := pickerModel{
		styles:  ui.Styles,
		title:   title,
		context: context,
		options: options,
	}

	p := tea.NewProgram(m, tea.WithOutput(ui.ErrWriter))
	out, err := p.Run()
	if err != nil {
		return -1, err
	}

	final, ok := out.(pickerModel)
	if !ok {
		return -1, fmt.Errorf("unexpected picker model %T", out)
	}
	switch {
	case final.aborted:
		return -1, ErrPickAborted
	case final.skipped:
		return -1, nil
	default:
		return final.cursor, nil
	}
}
