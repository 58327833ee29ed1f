package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quillnotes/quill-updater/internal/control"
	"github.com/quillnotes/quill-updater/internal/exitcodes"
	"github.com/quillnotes/quill-updater/internal/ui"
	"github.com/quillnotes/quill-updater/internal/update"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the release feed for a newer version",
	Long: "Queries the release feed once and reports whether a newer version is available.\n" +
		"In a terminal you are prompted to download, defer, or skip the release.\n" +
		"Exits 30 when an update is available.",
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadCfg()
	if err != nil {
		return err
	}
	p := getPrinter()
	log := newLogger(cfg)
	current := installedVersion()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interactive := ui.IsInteractive() && !flagNonInteractive && !flagQuiet
	var present control.UpdateUI
	var console *ui.ConsoleUI
	if p.Structured() {
		present = silentUI{}
	} else {
		console = ui.NewConsoleUI(p, interactive, false)
		present = console
	}

	if flagYes {
		present = autoAcceptUI{UpdateUI: present}
	}

	up, err := buildUpdater(cfg, present, log, current)
	if err != nil {
		return err
	}

	if console != nil && interactive && !flagQuiet {
		sp := ui.StartSpinner("Checking for updates")
		console.AttachSpinner(sp)
		defer sp.Stop()
	}

	outcome, err := up.scheduler.CheckNow(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return exitcodes.NewError(exitcodes.GeneralError, "update check canceled")
		}
		if errors.Is(err, control.ErrCheckInProgress) {
			return exitcodes.WrapError(exitcodes.PreconditionFailed, "cannot check", err)
		}
		return exitcodes.WrapError(exitcodes.GeneralError, "update check failed", err)
	}

	if p.Structured() {
		if err := p.Emit(buildReport(current, outcome)); err != nil {
			return exitcodes.WrapError(exitcodes.GeneralError, "encoding output", err)
		}
	}

	if outcome.IsFailure() {
		// The console UI already described the failure; exit code is
		// all that's left to convey.
		return exitcodes.NewError(checkExitCode(outcome.Reason), "")
	}
	if outcome.HasUpdate() {
		return exitcodes.NewError(exitcodes.UpdateAvailable, "")
	}
	return nil
}

func checkExitCode(reason update.ErrorKind) int {
	switch reason {
	case update.ReasonNetworkError:
		return exitcodes.NetworkError
	case update.ReasonNoReleasesPublished:
		return exitcodes.GeneralError
	default:
		return exitcodes.ValidationError
	}
}
