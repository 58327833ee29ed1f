package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/quillnotes/quill-updater/internal/control"
	"github.com/quillnotes/quill-updater/internal/update"
	"github.com/quillnotes/quill-updater/internal/version"
)

// ConsoleUI implements the controller's UpdateUI collaborator on a
// terminal. Interactive sessions get the full-screen prompt; piped
// sessions fall back to a single line read.
type ConsoleUI struct {
	printer     Printer
	interactive bool
	notify      bool
	in          io.Reader

	mu      sync.Mutex
	spinner *Spinner
}

// NewConsoleUI builds the console collaborator. interactive selects
// the bubbletea prompt; notify enables the desktop notification.
func NewConsoleUI(printer Printer, interactive, notify bool) *ConsoleUI {
	return &ConsoleUI{
		printer:     printer,
		interactive: interactive,
		notify:      notify,
		in:          os.Stdin,
	}
}

// AttachSpinner hands the UI the in-flight spinner so any presentation
// stops it before touching the terminal.
func (u *ConsoleUI) AttachSpinner(s *Spinner) {
	u.mu.Lock()
	u.spinner = s
	u.mu.Unlock()
}

func (u *ConsoleUI) stopSpinner() {
	u.mu.Lock()
	s := u.spinner
	u.spinner = nil
	u.mu.Unlock()
	if s != nil {
		s.Stop()
	}
}

// PresentUpdate shows the release and blocks for one decision.
func (u *ConsoleUI) PresentUpdate(release *update.ReleaseInfo) control.Decision {
	u.stopSpinner()
	if u.notify {
		notifyUpdate(release)
	}
	if u.interactive {
		return RunDecisionPrompt(release)
	}
	return ReadDecisionLine(u.in, os.Stdout, release)
}

// PresentUpToDate confirms a user-initiated check found nothing newer.
func (u *ConsoleUI) PresentUpToDate(current version.Version) {
	u.stopSpinner()
	u.printer.Success(fmt.Sprintf("Already up to date (%s)", current))
}

// PresentError surfaces a failed user-initiated check.
func (u *ConsoleUI) PresentError(reason update.ErrorKind) {
	u.stopSpinner()
	u.printer.Error(fmt.Sprintf("Update check failed: %s", reason))
}

// PresentOpenFailed reports that the release page could not be opened;
// the URL is printed so the user can open it by hand.
func (u *ConsoleUI) PresentOpenFailed(url string, err error) {
	u.stopSpinner()
	u.printer.Warn(fmt.Sprintf("Could not open browser (%v)", err))
	u.printer.Textf("  Release page: %s\n", url)
}
