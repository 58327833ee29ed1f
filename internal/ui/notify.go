package ui

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/quillnotes/quill-updater/internal/update"
)

// notifyUpdate raises a desktop notification when a prompt is about to
// appear, so a user who isn't looking at the terminal still notices.
// Strictly best-effort: notification daemons come and go.
func notifyUpdate(release *update.ReleaseInfo) {
	_ = beeep.Notify(
		"Quill update available",
		fmt.Sprintf("Version %s is ready to download.", release.Version),
		"",
	)
}
