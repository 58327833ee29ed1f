package ui

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/term"
)

var terminalInitialized bool

// InitTerminal pre-configures the terminal before any charmbracelet
// code runs. termenv queries the background color via OSC 11, and the
// response can leak into stdout; pre-setting COLORFGBG skips the query.
func InitTerminal() {
	if terminalInitialized {
		return
	}
	terminalInitialized = true

	if os.Getenv("COLORFGBG") == "" {
		os.Setenv("COLORFGBG", "0;15")
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		// Disable focus reporting so ^[[I / ^[[O events don't pollute
		// output between the spinner and the prompt.
		fmt.Fprint(os.Stdout, "\033[?1004l")
		time.Sleep(20 * time.Millisecond)
	}
}

// IsInteractive reports whether both ends of the session are terminals,
// which is what the decision prompt and spinner require.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
