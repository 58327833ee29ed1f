// Package browser implements the link-open collaborator: hand a URL to
// the desktop's default handler and report whether that worked. The
// updater never downloads anything itself, so this is the only way a
// release ever reaches the user.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Opener launches the platform URL handler. The exec step is
// injectable for tests.
type Opener struct {
	goos string
	run  func(name string, args ...string) error
}

// New returns the opener for the current platform.
func New() *Opener {
	return &Opener{
		goos: runtime.GOOS,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
	}
}

// OpenExternal opens url in the default browser. Only http(s) URLs are
// accepted; anything else could reach arbitrary local handlers.
func (o *Opener) OpenExternal(url string) error {
	if !strings.HasPrefix(url, "https://") && !strings.HasPrefix(url, "http://") {
		return fmt.Errorf("refusing to open non-web URL %q", url)
	}

	name, args := o.command(url)
	if err := o.run(name, args...); err != nil {
		return fmt.Errorf("launching %s: %w", name, err)
	}
	return nil
}

func (o *Opener) command(url string) (string, []string) {
	switch o.goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}
