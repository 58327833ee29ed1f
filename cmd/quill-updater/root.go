package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quillnotes/quill-updater/internal/config"
	"github.com/quillnotes/quill-updater/internal/exitcodes"
	"github.com/quillnotes/quill-updater/internal/ui"
	"github.com/quillnotes/quill-updater/internal/version"
)

// Version information - set via -ldflags during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:           "quill-updater",
	Short:         "Quill update companion",
	Long:          "Check the Quill release feed for updates, manage skipped versions, and run diagnostics.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagNoColor {
			os.Setenv("NO_COLOR", "1")
		}
	},
}

var (
	flagHome           string
	flagOwner          string
	flagRepo           string
	flagOutput         string
	flagCurrent        string
	flagNoColor        bool
	flagQuiet          bool
	flagYes            bool
	flagNonInteractive bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagHome, "home", "", "Updater home directory (overrides env)")
	rootCmd.PersistentFlags().StringVar(&flagOwner, "owner", "", "Release feed repository owner")
	rootCmd.PersistentFlags().StringVar(&flagRepo, "repo", "", "Release feed repository name")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "text", "Output format: json|yaml|text")
	rootCmd.PersistentFlags().StringVar(&flagCurrent, "current", "", "Override the installed version (e.g. 1.2.0)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable ANSI colors")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Quiet mode: minimal output")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "Accept the download without prompting")
	rootCmd.PersistentFlags().BoolVar(&flagNonInteractive, "non-interactive", false, "Never prompt; defer every decision")
}

// Execute runs the CLI and exits with the code the outcome maps to.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		code := exitcodes.CodeForError(err)
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}
}

// loadCfg resolves configuration then applies flag overrides. The
// merged result is re-validated so a flag can't widen the allow-list
// with a value the config file would have rejected.
func loadCfg() (config.Config, error) {
	if flagHome != "" {
		os.Setenv("QUILL_UPDATER_HOME", flagHome)
	}
	cfg, err := config.Load()
	if err != nil {
		return cfg, exitcodes.WrapError(exitcodes.PreconditionFailed, "loading config", err)
	}
	if flagOwner != "" {
		cfg.Owner = flagOwner
	}
	if flagRepo != "" {
		cfg.Repo = flagRepo
	}
	if err := cfg.Validate(); err != nil {
		return cfg, exitcodes.WrapError(exitcodes.InvalidArgs, "invalid configuration", err)
	}
	return cfg, nil
}

func getPrinter() ui.Printer {
	return ui.NewPrinter(flagOutput)
}

// installedVersion resolves the version the running application
// reports. Dev and otherwise unparsable builds count as 0.0.0 so any
// published release is newer.
func installedVersion() version.Version {
	raw := Version
	if flagCurrent != "" {
		raw = flagCurrent
	}
	v, err := version.Parse(raw)
	if err != nil {
		return version.Version{}
	}
	return v
}
