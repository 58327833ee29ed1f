package main

import (
	"io"
	"time"

	"github.com/quillnotes/quill-updater/internal/browser"
	"github.com/quillnotes/quill-updater/internal/config"
	"github.com/quillnotes/quill-updater/internal/control"
	"github.com/quillnotes/quill-updater/internal/logger"
	"github.com/quillnotes/quill-updater/internal/skipstore"
	"github.com/quillnotes/quill-updater/internal/update"
	"github.com/quillnotes/quill-updater/internal/version"
)

const logRetentionDays = 7

// updater bundles the wired check pipeline for a command invocation.
type updater struct {
	scheduler *control.Scheduler
	log       *logger.Logger
	skips     *skipstore.Registry
}

// newLogger builds the file-backed logger for cfg's home directory.
// Logging must never block a check, so rotation failures fall back to
// a discard-level logger rather than erroring out.
func newLogger(cfg config.Config) *logger.Logger {
	rot, err := logger.NewRotatingWriter(cfg.HomeDir, logRetentionDays)
	if err != nil {
		log := logger.New(io.Discard)
		log.SetLevelFromString("error")
		return log
	}
	log := logger.New(rot)
	log.SetLevelFromString(cfg.LogLevel)
	return log
}

// buildUpdater wires checker, skip registry, UI, and browser opener
// into a scheduler rooted at cfg. A damaged skip file is logged and
// replaced with an empty registry.
func buildUpdater(cfg config.Config, present control.UpdateUI, log *logger.Logger, current version.Version) (*updater, error) {
	skips, err := skipstore.Load(cfg.HomeDir)
	if err != nil {
		log.Warn("skip registry unreadable, starting empty: %v", err)
	}
	checker := update.NewChecker(cfg.Owner, cfg.Repo, nil)
	ctrl := control.NewController(checker, skips, present, browser.New(), log)
	sched := control.NewScheduler(ctrl, current, cfg.HomeDir, cfg.CheckOnStartup, log)
	return &updater{scheduler: sched, log: log, skips: skips}, nil
}

// silentUI satisfies control.UpdateUI without touching the terminal.
// Structured output modes use it so the emitted document is the only
// thing written to stdout; every decision defers to later.
type silentUI struct{}

func (silentUI) PresentUpdate(*update.ReleaseInfo) control.Decision { return control.DecisionLater }
func (silentUI) PresentUpToDate(version.Version)                    {}
func (silentUI) PresentError(update.ErrorKind)                      {}
func (silentUI) PresentOpenFailed(string, error)                    {}

// autoAcceptUI wraps another UpdateUI and answers Download to every
// offered release. Backs the --yes flag for unattended use.
type autoAcceptUI struct {
	control.UpdateUI
}

func (u autoAcceptUI) PresentUpdate(*update.ReleaseInfo) control.Decision {
	return control.DecisionDownload
}

// checkReport is the structured form of a check outcome.
type checkReport struct {
	CurrentVersion  string `json:"current_version" yaml:"current_version"`
	LatestVersion   string `json:"latest_version,omitempty" yaml:"latest_version,omitempty"`
	UpdateAvailable bool   `json:"update_available" yaml:"update_available"`
	PageURL         string `json:"page_url,omitempty" yaml:"page_url,omitempty"`
	PublishedAt     string `json:"published_at,omitempty" yaml:"published_at,omitempty"`
	Reason          string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Error           string `json:"error,omitempty" yaml:"error,omitempty"`
	CheckedAt       string `json:"checked_at" yaml:"checked_at"`
}

func buildReport(current version.Version, outcome update.CheckOutcome) checkReport {
	r := checkReport{
		CurrentVersion:  current.String(),
		UpdateAvailable: outcome.HasUpdate(),
		CheckedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	if outcome.Release != nil {
		r.LatestVersion = outcome.Release.Version.String()
		r.PageURL = outcome.Release.PageURL
		r.PublishedAt = outcome.Release.PublishedAt.UTC().Format(time.RFC3339)
	}
	if outcome.IsFailure() {
		r.Reason = outcome.Reason.String()
		if outcome.Err != nil {
			r.Error = outcome.Err.Error()
		}
	}
	return r
}
