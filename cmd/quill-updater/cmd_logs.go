package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/nxadm/tail"
	"github.com/spf13/cobra"

	"github.com/quillnotes/quill-updater/internal/exitcodes"
	"github.com/quillnotes/quill-updater/internal/logger"
)

var flagLogsFollow bool

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the updater log",
	Long:  "Prints today's updater log. With --follow, streams new lines as checks run.",
	RunE:  runLogs,
}

func init() {
	logsCmd.Flags().BoolVarP(&flagLogsFollow, "follow", "f", false, "Stream new log lines")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := loadCfg()
	if err != nil {
		return err
	}
	path := logger.CurrentLogPath(cfg.HomeDir)

	if !flagLogsFollow {
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return exitcodes.NewErrorf(exitcodes.PreconditionFailed, "no log for today at %s", path)
			}
			return exitcodes.WrapError(exitcodes.GeneralError, "opening log", err)
		}
		defer f.Close()
		_, err = io.Copy(cmd.OutOrStdout(), f)
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t, err := tail.TailFile(path, tail.Config{
		Follow:    true,
		ReOpen:    true, // survive the midnight rotation
		MustExist: false,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return exitcodes.WrapError(exitcodes.GeneralError, "tailing log", err)
	}
	defer t.Cleanup()

	out := cmd.OutOrStdout()
	for {
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case line, ok := <-t.Lines:
			if !ok {
				return nil
			}
			if line.Err != nil {
				return exitcodes.WrapError(exitcodes.GeneralError, "reading log", line.Err)
			}
			fmt.Fprintln(out, line.Text)
		}
	}
}
