package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quillnotes/quill-updater/internal/control"
	"github.com/quillnotes/quill-updater/internal/update"
)

// maxNotesLines bounds how much of the release notes the prompt shows.
const maxNotesLines = 10

var (
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Bold(true)
	notesStyle    = lipgloss.NewStyle().Faint(true).PaddingLeft(2)
)

type promptChoice struct {
	label    string
	decision control.Decision
}

var promptChoices = []promptChoice{
	{"Download now", control.DecisionDownload},
	{"Remind me later", control.DecisionLater},
	{"Skip this version", control.DecisionSkip},
}

// promptModel is the interactive three-way decision prompt. Quitting
// without choosing counts as "later" — the safe default that persists
// nothing.
type promptModel struct {
	release *update.ReleaseInfo
	cursor  int
	chosen  bool
	aborted bool
}

func newPromptModel(release *update.ReleaseInfo) promptModel {
	return promptModel{release: release}
}

func (m promptModel) Init() tea.Cmd { return nil }

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		if m.cursor < len(promptChoices)-1 {
			m.cursor++
		}
	case "enter":
		m.chosen = true
		return m, tea.Quit
	case "q", "esc", "ctrl+c":
		m.aborted = true
		return m, tea.Quit
	}
	return m, nil
}

func (m promptModel) View() string {
	var b strings.Builder

	rel := m.release
	fmt.Fprintf(&b, "%s\n", titleStyle.Render(fmt.Sprintf("Update available: %s", rel.Version)))
	if !rel.PublishedAt.IsZero() && rel.PublishedAt.Unix() != 0 {
		fmt.Fprintf(&b, "%s\n", dimStyle.Render("published "+rel.PublishedAt.Format("2006-01-02")))
	}
	if notes := trimNotes(rel.Notes); notes != "" {
		b.WriteString("\n")
		b.WriteString(notesStyle.Render(notes))
		b.WriteString("\n")
	}
	if len(rel.Assets) > 0 {
		b.WriteString("\n")
		for _, a := range rel.Assets {
			fmt.Fprintf(&b, "  %s (%s)\n", a.Name, a.DisplaySize())
		}
	}
	b.WriteString("\n")

	for i, c := range promptChoices {
		if i == m.cursor {
			fmt.Fprintf(&b, "%s %s\n", cursorStyle.Render(">"), selectedStyle.Render(c.label))
		} else {
			fmt.Fprintf(&b, "  %s\n", c.label)
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("↑/↓ move · enter select · q later"))
	b.WriteString("\n")
	return b.String()
}

func (m promptModel) decision() control.Decision {
	if m.aborted || !m.chosen {
		return control.DecisionLater
	}
	return promptChoices[m.cursor].decision
}

func trimNotes(notes string) string {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return ""
	}
	lines := strings.Split(notes, "\n")
	if len(lines) > maxNotesLines {
		lines = append(lines[:maxNotesLines], "…")
	}
	return strings.Join(lines, "\n")
}

// RunDecisionPrompt shows the interactive prompt and blocks until the
// user picks one decision. Errors degrade to "later".
func RunDecisionPrompt(release *update.ReleaseInfo) control.Decision {
	p := tea.NewProgram(newPromptModel(release))
	m, err := p.Run()
	if err != nil {
		return control.DecisionLater
	}
	final, ok := m.(promptModel)
	if !ok {
		return control.DecisionLater
	}
	return final.decision()
}

// ReadDecisionLine is the non-TTY fallback: one line, one decision.
// Anything unrecognized (including EOF) means "later".
func ReadDecisionLine(in io.Reader, out io.Writer, release *update.ReleaseInfo) control.Decision {
	fmt.Fprintf(out, "Update available: %s\n", release.Version)
	if notes := trimNotes(release.Notes); notes != "" {
		fmt.Fprintln(out, notes)
	}
	fmt.Fprint(out, "[d]ownload / [l]ater / [s]kip: ")

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return control.DecisionLater
	}
	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "d", "download":
		return control.DecisionDownload
	case "s", "skip":
		return control.DecisionSkip
	default:
		return control.DecisionLater
	}
}
