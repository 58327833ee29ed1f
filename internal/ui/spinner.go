package ui

import (
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type spinnerModel struct {
	spinner spinner.Model
	message string
}

func (m spinnerModel) Init() tea.Cmd { return m.spinner.Tick }

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m spinnerModel) View() string {
	return m.spinner.View() + " " + m.message + "\n"
}

// Spinner shows an in-progress indicator while the network check runs.
// Stop is safe to call more than once and waits for the terminal to be
// released before returning, so the prompt never races the spinner.
type Spinner struct {
	program *tea.Program
	done    chan struct{}
	once    sync.Once
}

// StartSpinner launches the spinner with the given message.
func StartSpinner(message string) *Spinner {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	program := tea.NewProgram(spinnerModel{spinner: sp, message: message})

	s := &Spinner{program: program, done: make(chan struct{})}
	go func() {
		defer close(s.done)
		_, _ = program.Run()
	}()
	return s
}

// Stop quits the spinner and waits for it to release the terminal.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.program.Quit()
		<-s.done
	})
}
