package control

import (
	"context"
	"time"

	"github.com/quillnotes/quill-updater/internal/logger"
	"github.com/quillnotes/quill-updater/internal/update"
	"github.com/quillnotes/quill-updater/internal/version"
)

// Scheduler decides when checks run: explicitly on user request, or
// once at startup when the configuration allows it. Retry is repeated
// invocation here, never hidden inside a check.
type Scheduler struct {
	ctrl           *Controller
	current        version.Version
	homeDir        string
	checkOnStartup bool
	log            *logger.Logger
}

// NewScheduler builds a scheduler over the controller. homeDir hosts
// the check cache.
func NewScheduler(ctrl *Controller, current version.Version, homeDir string, checkOnStartup bool, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.New(nil)
	}
	return &Scheduler{
		ctrl:           ctrl,
		current:        current,
		homeDir:        homeDir,
		checkOnStartup: checkOnStartup,
		log:            log,
	}
}

// CheckNow runs a user-initiated check. It always hits the network,
// surfaces every outcome including failures, and refreshes the check
// cache afterwards.
func (s *Scheduler) CheckNow(ctx context.Context) (update.CheckOutcome, error) {
	outcome, err := s.ctrl.StartCheck(ctx, s.current, TriggerUser)
	if err != nil {
		return outcome, err
	}
	s.writeCache(outcome)
	return outcome, nil
}

// StartupCheck runs the automatic check off the caller's goroutine.
// The returned channel closes when the check has finished or been
// discarded, so shutdown never blocks on it; cancel ctx to abandon the
// check in flight. Failures go to the log only — startup is never
// interrupted by an error dialog.
func (s *Scheduler) StartupCheck(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})

	if !s.checkOnStartup {
		s.log.Debug("startup check disabled by configuration")
		close(done)
		return done
	}

	// A fresh quiet result short-circuits the network entirely.
	if entry, err := update.LoadCache(s.homeDir); err == nil &&
		update.IsCacheFresh(entry) && !entry.UpdateAvailable {
		s.log.Debug("startup check satisfied by cache (checked %s)", entry.CheckedAt.Format(time.RFC3339))
		close(done)
		return done
	}

	go func() {
		defer close(done)
		outcome, err := s.ctrl.StartCheck(ctx, s.current, TriggerStartup)
		if err != nil {
			// Busy or cancelled; either way there is nothing to record.
			s.log.Debug("startup check not completed: %v", err)
			return
		}
		s.writeCache(outcome)
	}()
	return done
}

// writeCache records a completed check. Failed checks leave the cache
// untouched so the next startup retries.
func (s *Scheduler) writeCache(outcome update.CheckOutcome) {
	if outcome.IsFailure() {
		return
	}
	entry := &update.CacheEntry{
		CheckedAt:       time.Now(),
		UpdateAvailable: outcome.HasUpdate(),
	}
	if outcome.HasUpdate() {
		entry.LatestVersion = outcome.Release.Version.String()
	} else {
		entry.LatestVersion = outcome.Current.String()
	}
	if err := update.SaveCache(s.homeDir, entry); err != nil {
		s.log.Warn("writing check cache: %v", err)
	}
}
