package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quillnotes/quill-updater/internal/control"
	"github.com/quillnotes/quill-updater/internal/ui"
)

var startupCmd = &cobra.Command{
	Use:   "startup",
	Short: "Run the launch-time update check",
	Long: "Invoked by Quill in the background when the application starts.\n" +
		"Honors the check_on_startup setting and a fresh check cache, sends a\n" +
		"desktop notification when an update is found, and logs failures\n" +
		"instead of surfacing them.",
	RunE: runStartup,
}

func init() {
	rootCmd.AddCommand(startupCmd)
}

func runStartup(cmd *cobra.Command, args []string) error {
	cfg, err := loadCfg()
	if err != nil {
		return err
	}
	p := getPrinter()
	log := newLogger(cfg)
	current := installedVersion()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var present control.UpdateUI
	if p.Structured() || flagQuiet {
		present = silentUI{}
	} else {
		interactive := ui.IsInteractive() && !flagNonInteractive
		present = ui.NewConsoleUI(p, interactive, true)
	}

	up, err := buildUpdater(cfg, present, log, current)
	if err != nil {
		return err
	}

	// Startup checks never fail loudly. Whatever happens is in the log;
	// the host application must not see a nonzero exit for a network
	// blip at launch.
	<-up.scheduler.StartupCheck(ctx)
	return nil
}
