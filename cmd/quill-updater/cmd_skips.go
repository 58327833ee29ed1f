package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillnotes/quill-updater/internal/exitcodes"
	"github.com/quillnotes/quill-updater/internal/skipstore"
	"github.com/quillnotes/quill-updater/internal/version"
)

var skipsCmd = &cobra.Command{
	Use:   "skips",
	Short: "Manage skipped release versions",
	Long:  "Versions skipped at the update prompt are never offered again. List or clear them here.",
}

var skipsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List skipped versions",
	RunE:  runSkipsList,
}

var skipsClearCmd = &cobra.Command{
	Use:   "clear [version]",
	Short: "Forget a skipped version, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSkipsClear,
}

func init() {
	skipsCmd.AddCommand(skipsListCmd)
	skipsCmd.AddCommand(skipsClearCmd)
	rootCmd.AddCommand(skipsCmd)
}

func loadSkips() (*skipstore.Registry, error) {
	cfg, err := loadCfg()
	if err != nil {
		return nil, err
	}
	skips, err := skipstore.Load(cfg.HomeDir)
	if err != nil {
		return nil, exitcodes.WrapError(exitcodes.PreconditionFailed, "skip registry unreadable", err)
	}
	return skips, nil
}

func runSkipsList(cmd *cobra.Command, args []string) error {
	skips, err := loadSkips()
	if err != nil {
		return err
	}
	p := getPrinter()
	versions := skips.Versions()

	if p.Structured() {
		return p.Emit(struct {
			Skipped []string `json:"skipped" yaml:"skipped"`
		}{Skipped: versions})
	}
	if len(versions) == 0 {
		p.Dim("No versions skipped.")
		return nil
	}
	p.Header("Skipped versions")
	for _, v := range versions {
		p.Textf("  %s\n", v)
	}
	return nil
}

func runSkipsClear(cmd *cobra.Command, args []string) error {
	skips, err := loadSkips()
	if err != nil {
		return err
	}
	p := getPrinter()

	if len(args) == 0 {
		n := len(skips.Versions())
		if err := skips.Clear(); err != nil {
			return exitcodes.WrapError(exitcodes.GeneralError, "clearing skip registry", err)
		}
		if !p.Structured() {
			p.Success(fmt.Sprintf("Cleared %d skipped version(s)", n))
		}
		return nil
	}

	v, err := version.Parse(args[0])
	if err != nil {
		return exitcodes.WrapError(exitcodes.InvalidArgs, "invalid version", err)
	}
	if !skips.Contains(v.Canonical()) {
		return exitcodes.NewErrorf(exitcodes.InvalidArgs, "%s is not in the skip registry", v.Canonical())
	}
	if err := skips.Remove(v.Canonical()); err != nil {
		return exitcodes.WrapError(exitcodes.GeneralError, "updating skip registry", err)
	}
	if !p.Structured() {
		p.Success(fmt.Sprintf("%s will be offered again", v.Canonical()))
	}
	return nil
}
