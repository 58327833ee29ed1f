// Package ui hosts the presentation side of the updater: a themed
// console printer, the interactive decision prompt, and the desktop
// notification hook. The control package never imports this; it talks
// to the ConsoleUI through the collaborator interfaces.
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// Printer centralizes command output. It respects --output for
// structured modes and themes the text mode.
type Printer struct {
	format string
	out    io.Writer
}

// NewPrinter returns a printer for the given --output format writing
// to stdout.
func NewPrinter(format string) Printer {
	return Printer{format: format, out: os.Stdout}
}

// NewPrinterTo is NewPrinter with an explicit destination, for tests.
func NewPrinterTo(format string, out io.Writer) Printer {
	return Printer{format: format, out: out}
}

// Format returns the selected output format.
func (p Printer) Format() string { return p.format }

// Structured reports whether output goes to a machine-readable mode.
func (p Printer) Structured() bool { return p.format == "json" || p.format == "yaml" }

// Emit renders v in the selected structured format. It is a no-op in
// text mode; callers print text themselves.
func (p Printer) Emit(v any) error {
	switch p.format {
	case "json":
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(p.out, string(data))
		return err
	}
	return nil
}

// Textf prints formatted text (always the text path).
func (p Printer) Textf(format string, a ...any) { fmt.Fprintf(p.out, format, a...) }

// Success prints a success line with themed prefix.
func (p Printer) Success(msg string) {
	fmt.Fprintf(p.out, "%s %s\n", successStyle.Render("✓"), msg)
}

// Info prints an informational line.
func (p Printer) Info(msg string) {
	fmt.Fprintf(p.out, "%s %s\n", infoStyle.Render("ℹ"), msg)
}

// Warn prints a warning line.
func (p Printer) Warn(msg string) {
	fmt.Fprintf(p.out, "%s %s\n", warnStyle.Render("!"), msg)
}

// Error prints an error line.
func (p Printer) Error(msg string) {
	fmt.Fprintf(p.out, "%s %s\n", errorStyle.Render("✗"), msg)
}

// Header prints a bold section title.
func (p Printer) Header(title string) {
	fmt.Fprintln(p.out, titleStyle.Render(title))
}

// Dim prints a de-emphasized line.
func (p Printer) Dim(msg string) {
	fmt.Fprintln(p.out, dimStyle.Render(msg))
}
