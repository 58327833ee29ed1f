// Package control turns check outcomes into user-facing decisions.
// The Controller is a small state machine owning the one in-flight
// check; the Scheduler decides when checks run. Neither renders
// anything: presentation goes out through the UpdateUI and LinkOpener
// collaborators as plain data.
package control

import (
	"context"
	"errors"
	"sync"

	"github.com/quillnotes/quill-updater/internal/logger"
	"github.com/quillnotes/quill-updater/internal/skipstore"
	"github.com/quillnotes/quill-updater/internal/update"
	"github.com/quillnotes/quill-updater/internal/version"
)

// ErrCheckInProgress rejects a start_check while one is running.
// At most one check is in flight; overlapping requests are dropped,
// never queued.
var ErrCheckInProgress = errors.New("update check already in progress")

// Decision is the user's answer to an update prompt.
type Decision int

const (
	// DecisionLater defers: nothing is persisted and the same version
	// prompts again on the next check.
	DecisionLater Decision = iota
	// DecisionDownload opens the release page.
	DecisionDownload
	// DecisionSkip suppresses future prompts for this exact version.
	DecisionSkip
)

// State enumerates the controller's positions. All states except
// Checking are transient: the collaborator call is the presentation
// and its return is the acknowledgment back to Idle.
type State int

const (
	StateIdle State = iota
	StateChecking
	StateQuiet
	StatePrompting
	StateErrorShown
)

// Trigger records who asked for the check. Startup checks swallow
// failures into the log; user checks surface everything.
type Trigger int

const (
	TriggerUser Trigger = iota
	TriggerStartup
)

// CheckRunner is the checking capability, satisfied by *update.Checker.
type CheckRunner interface {
	Check(ctx context.Context, current version.Version) update.CheckOutcome
}

// UpdateUI is the external presentation collaborator. PresentUpdate
// blocks until the user picks exactly one decision.
type UpdateUI interface {
	PresentUpdate(release *update.ReleaseInfo) Decision
	PresentUpToDate(current version.Version)
	PresentError(reason update.ErrorKind)
	PresentOpenFailed(url string, err error)
}

// LinkOpener is the external link-open collaborator.
type LinkOpener interface {
	OpenExternal(url string) error
}

// Controller drives Idle → Checking → {Quiet, Prompting, ErrorShown} → Idle
// over one outcome at a time.
type Controller struct {
	checker CheckRunner
	skips   *skipstore.Registry
	ui      UpdateUI
	opener  LinkOpener
	log     *logger.Logger

	mu      sync.Mutex
	state   State
	outcome update.CheckOutcome // held only until the user acts on it
}

// NewController wires the state machine to its collaborators. A nil
// log discards.
func NewController(checker CheckRunner, skips *skipstore.Registry, ui UpdateUI, opener LinkOpener, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.New(nil)
	}
	return &Controller{
		checker: checker,
		skips:   skips,
		ui:      ui,
		opener:  opener,
		log:     log,
	}
}

// State reports the current state. Mostly useful to tests and status
// displays.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// StartCheck runs one complete check-and-decide cycle. It returns
// ErrCheckInProgress when a check is already running, and ctx.Err()
// when the context was cancelled mid-check — in that case any result
// is discarded, never presented. Otherwise it returns the outcome
// after the user interaction has fully resolved.
func (c *Controller) StartCheck(ctx context.Context, current version.Version, trigger Trigger) (update.CheckOutcome, error) {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		c.log.Debug("check requested while busy; dropped")
		return update.CheckOutcome{}, ErrCheckInProgress
	}
	c.state = StateChecking
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.state = StateIdle
		c.outcome = update.CheckOutcome{}
		c.mu.Unlock()
	}()

	// The only suspend point in the subsystem.
	outcome := c.checker.Check(ctx, current)

	if err := ctx.Err(); err != nil {
		c.log.Info("check cancelled; result discarded")
		return update.CheckOutcome{}, err
	}

	c.mu.Lock()
	c.outcome = outcome
	c.mu.Unlock()

	switch {
	case outcome.IsFailure():
		c.enter(StateErrorShown)
		c.log.Warn("update check failed: %s: %v", outcome.Reason, outcome.Err)
		if trigger == TriggerUser {
			c.ui.PresentError(outcome.Reason)
		}

	case !outcome.HasUpdate():
		c.enter(StateQuiet)
		c.log.Info("up to date at %s", current)
		if trigger == TriggerUser {
			c.ui.PresentUpToDate(current)
		}

	case c.skips.Contains(outcome.Release.Version.Canonical()):
		// Still newer, but the user dismissed this exact version.
		c.enter(StateQuiet)
		c.log.Info("release %s found but skipped by user", outcome.Release.Version)

	default:
		c.enter(StatePrompting)
		c.prompt(outcome.Release)
	}

	return outcome, nil
}

func (c *Controller) enter(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Controller) prompt(release *update.ReleaseInfo) {
	switch c.ui.PresentUpdate(release) {
	case DecisionDownload:
		if err := c.opener.OpenExternal(release.PageURL); err != nil {
			c.log.Error("opening release page %s: %v", release.PageURL, err)
			c.ui.PresentOpenFailed(release.PageURL, err)
		}
	case DecisionSkip:
		if err := c.skips.Add(release.Version.Canonical()); err != nil {
			c.log.Warn("persisting skip for %s: %v", release.Version, err)
		} else {
			c.log.Info("version %s skipped", release.Version)
		}
	case DecisionLater:
		// Nothing persisted; the next check prompts again.
	}
}
