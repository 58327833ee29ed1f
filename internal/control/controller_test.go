package control

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/quillnotes/quill-updater/internal/skipstore"
	"github.com/quillnotes/quill-updater/internal/update"
	"github.com/quillnotes/quill-updater/internal/version"
)

type fakeChecker struct {
	mu      sync.Mutex
	outcome update.CheckOutcome
	release chan struct{} // when set, Check blocks until closed
	calls   int
}

func (f *fakeChecker) Check(ctx context.Context, current version.Version) update.CheckOutcome {
	f.mu.Lock()
	f.calls++
	release := f.release
	outcome := f.outcome
	f.mu.Unlock()
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
		}
	}
	return outcome
}

func (f *fakeChecker) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeUI struct {
	mu        sync.Mutex
	decision  Decision
	prompts   []*update.ReleaseInfo
	upToDates []version.Version
	errs      []update.ErrorKind
	openFails []string
}

func (f *fakeUI) PresentUpdate(release *update.ReleaseInfo) Decision {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, release)
	return f.decision
}

func (f *fakeUI) PresentUpToDate(current version.Version) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upToDates = append(f.upToDates, current)
}

func (f *fakeUI) PresentError(reason update.ErrorKind) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = append(f.errs, reason)
}

func (f *fakeUI) PresentOpenFailed(url string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.openFails = append(f.openFails, url)
}

type fakeOpener struct {
	opened []string
	err    error
}

func (f *fakeOpener) OpenExternal(url string) error {
	f.opened = append(f.opened, url)
	return f.err
}

func newRegistry(t *testing.T) *skipstore.Registry {
	t.Helper()
	r, err := skipstore.Load(t.TempDir())
	if err != nil {
		t.Fatalf("skipstore.Load() error = %v", err)
	}
	return r
}

func releaseFor(tag string) *update.ReleaseInfo {
	v, _ := version.Parse(tag)
	return &update.ReleaseInfo{
		Version: v,
		PageURL: "https://github.com/acme/app/releases/tag/" + tag,
	}
}

func current(t *testing.T) version.Version {
	t.Helper()
	v, err := version.Parse("1.2.0")
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestDownloadDecisionOpensReleasePage(t *testing.T) {
	rel := releaseFor("v1.3.0")
	checker := &fakeChecker{outcome: update.UpdateAvailable(current(t), rel)}
	ui := &fakeUI{decision: DecisionDownload}
	opener := &fakeOpener{}
	ctrl := NewController(checker, newRegistry(t), ui, opener, nil)

	outcome, err := ctrl.StartCheck(context.Background(), current(t), TriggerUser)
	if err != nil {
		t.Fatalf("StartCheck() error = %v", err)
	}
	if !outcome.HasUpdate() {
		t.Fatalf("outcome = %+v, want update", outcome)
	}
	if len(ui.prompts) != 1 {
		t.Fatalf("prompts = %d, want 1", len(ui.prompts))
	}
	if len(opener.opened) != 1 || opener.opened[0] != rel.PageURL {
		t.Errorf("opened = %v, want [%s]", opener.opened, rel.PageURL)
	}
	if got := ctrl.State(); got != StateIdle {
		t.Errorf("state after cycle = %v, want Idle", got)
	}
}

func TestDownloadOpenFailureReportedNotRechecked(t *testing.T) {
	rel := releaseFor("v1.3.0")
	checker := &fakeChecker{outcome: update.UpdateAvailable(current(t), rel)}
	ui := &fakeUI{decision: DecisionDownload}
	opener := &fakeOpener{err: errors.New("no browser")}
	ctrl := NewController(checker, newRegistry(t), ui, opener, nil)

	if _, err := ctrl.StartCheck(context.Background(), current(t), TriggerUser); err != nil {
		t.Fatalf("StartCheck() error = %v", err)
	}
	if len(ui.openFails) != 1 || ui.openFails[0] != rel.PageURL {
		t.Errorf("open failures = %v, want [%s]", ui.openFails, rel.PageURL)
	}
	if checker.callCount() != 1 {
		t.Errorf("checker calls = %d, want 1 (open failure must not re-enter Checking)", checker.callCount())
	}
	if got := ctrl.State(); got != StateIdle {
		t.Errorf("state = %v, want Idle", got)
	}
}

func TestLaterPromptsAgainNextCheck(t *testing.T) {
	rel := releaseFor("v1.3.0")
	checker := &fakeChecker{outcome: update.UpdateAvailable(current(t), rel)}
	ui := &fakeUI{decision: DecisionLater}
	ctrl := NewController(checker, newRegistry(t), ui, &fakeOpener{}, nil)

	for i := 0; i < 2; i++ {
		if _, err := ctrl.StartCheck(context.Background(), current(t), TriggerUser); err != nil {
			t.Fatalf("StartCheck() #%d error = %v", i+1, err)
		}
	}
	if len(ui.prompts) != 2 {
		t.Errorf("prompts = %d, want 2 (later persists nothing)", len(ui.prompts))
	}
}

func TestSkipSuppressesThatVersionOnly(t *testing.T) {
	skips := newRegistry(t)
	checker := &fakeChecker{outcome: update.UpdateAvailable(current(t), releaseFor("v3.0.0"))}
	ui := &fakeUI{decision: DecisionSkip}
	ctrl := NewController(checker, skips, ui, &fakeOpener{}, nil)

	// First check prompts; the user skips 3.0.0.
	if _, err := ctrl.StartCheck(context.Background(), current(t), TriggerUser); err != nil {
		t.Fatalf("StartCheck() error = %v", err)
	}
	if len(ui.prompts) != 1 {
		t.Fatalf("prompts = %d, want 1", len(ui.prompts))
	}
	if !skips.Contains("v3.0.0") {
		t.Fatal("skip not persisted")
	}

	// Same version again: quiet, no prompt, even though it is newer.
	if _, err := ctrl.StartCheck(context.Background(), current(t), TriggerUser); err != nil {
		t.Fatalf("StartCheck() error = %v", err)
	}
	if len(ui.prompts) != 1 {
		t.Errorf("prompts = %d, want still 1 after skipped re-check", len(ui.prompts))
	}

	// A different newer version prompts again.
	checker.mu.Lock()
	checker.outcome = update.UpdateAvailable(current(t), releaseFor("v3.1.0"))
	checker.mu.Unlock()
	if _, err := ctrl.StartCheck(context.Background(), current(t), TriggerUser); err != nil {
		t.Fatalf("StartCheck() error = %v", err)
	}
	if len(ui.prompts) != 2 {
		t.Errorf("prompts = %d, want 2 after newer release", len(ui.prompts))
	}
}

func TestUpToDatePresentation(t *testing.T) {
	checker := &fakeChecker{outcome: update.UpToDate(current(t))}

	t.Run("user initiated is explicit", func(t *testing.T) {
		ui := &fakeUI{}
		ctrl := NewController(checker, newRegistry(t), ui, &fakeOpener{}, nil)
		if _, err := ctrl.StartCheck(context.Background(), current(t), TriggerUser); err != nil {
			t.Fatalf("StartCheck() error = %v", err)
		}
		if len(ui.upToDates) != 1 {
			t.Errorf("up-to-date presentations = %d, want 1", len(ui.upToDates))
		}
	})

	t.Run("startup is silent", func(t *testing.T) {
		ui := &fakeUI{}
		ctrl := NewController(checker, newRegistry(t), ui, &fakeOpener{}, nil)
		if _, err := ctrl.StartCheck(context.Background(), current(t), TriggerStartup); err != nil {
			t.Fatalf("StartCheck() error = %v", err)
		}
		if len(ui.upToDates) != 0 {
			t.Errorf("up-to-date presentations = %d, want 0", len(ui.upToDates))
		}
	})
}

func TestFailureSurfacedOnlyWhenUserInitiated(t *testing.T) {
	checker := &fakeChecker{outcome: update.Failed(current(t), update.ReasonNetworkError, errors.New("timeout"))}

	t.Run("user initiated shows error", func(t *testing.T) {
		ui := &fakeUI{}
		ctrl := NewController(checker, newRegistry(t), ui, &fakeOpener{}, nil)
		if _, err := ctrl.StartCheck(context.Background(), current(t), TriggerUser); err != nil {
			t.Fatalf("StartCheck() error = %v", err)
		}
		if len(ui.errs) != 1 || ui.errs[0] != update.ReasonNetworkError {
			t.Errorf("errors shown = %v, want [network error]", ui.errs)
		}
	})

	t.Run("startup swallows into log", func(t *testing.T) {
		ui := &fakeUI{}
		ctrl := NewController(checker, newRegistry(t), ui, &fakeOpener{}, nil)
		if _, err := ctrl.StartCheck(context.Background(), current(t), TriggerStartup); err != nil {
			t.Fatalf("StartCheck() error = %v", err)
		}
		if len(ui.errs) != 0 {
			t.Errorf("errors shown = %v, want none on startup", ui.errs)
		}
	})
}

func TestSingleFlight(t *testing.T) {
	release := make(chan struct{})
	checker := &fakeChecker{
		outcome: update.UpToDate(current(t)),
		release: release,
	}
	ctrl := NewController(checker, newRegistry(t), &fakeUI{}, &fakeOpener{}, nil)

	started := make(chan struct{})
	first := make(chan error, 1)
	go func() {
		close(started)
		_, err := ctrl.StartCheck(context.Background(), current(t), TriggerUser)
		first <- err
	}()
	<-started
	// Wait for the first check to occupy the Checking state.
	for ctrl.State() != StateChecking {
		time.Sleep(time.Millisecond)
	}

	if _, err := ctrl.StartCheck(context.Background(), current(t), TriggerUser); !errors.Is(err, ErrCheckInProgress) {
		t.Errorf("second StartCheck error = %v, want ErrCheckInProgress", err)
	}

	close(release)
	if err := <-first; err != nil {
		t.Fatalf("first StartCheck error = %v", err)
	}
	if checker.callCount() != 1 {
		t.Errorf("checker calls = %d, want exactly 1", checker.callCount())
	}
	if got := ctrl.State(); got != StateIdle {
		t.Errorf("state = %v, want Idle", got)
	}
}

func TestCancellationDiscardsResult(t *testing.T) {
	release := make(chan struct{}) // never closed: only ctx unblocks the checker
	checker := &fakeChecker{
		outcome: update.UpdateAvailable(current(t), releaseFor("v9.9.9")),
		release: release,
	}
	ui := &fakeUI{decision: DecisionDownload}
	ctrl := NewController(checker, newRegistry(t), ui, &fakeOpener{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() {
		_, err := ctrl.StartCheck(ctx, current(t), TriggerStartup)
		result <- err
	}()
	for ctrl.State() != StateChecking {
		time.Sleep(time.Millisecond)
	}
	cancel()

	if err := <-result; !errors.Is(err, context.Canceled) {
		t.Fatalf("StartCheck() error = %v, want context.Canceled", err)
	}
	if len(ui.prompts) != 0 || len(ui.errs) != 0 {
		t.Errorf("UI touched after cancellation: prompts=%d errs=%d", len(ui.prompts), len(ui.errs))
	}
	if got := ctrl.State(); got != StateIdle {
		t.Errorf("state = %v, want Idle", got)
	}
}
