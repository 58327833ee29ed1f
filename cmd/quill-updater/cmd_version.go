package main

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/quillnotes/quill-updater/internal/exitcodes"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

type versionInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := versionInfo{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	p := getPrinter()
	if p.Structured() {
		if err := p.Emit(info); err != nil {
			return exitcodes.WrapError(exitcodes.GeneralError, "encoding output", err)
		}
		return nil
	}
	p.Textf("quill-updater %s\n", info.Version)
	p.Dim("commit " + info.Commit + ", built " + info.BuildDate)
	p.Dim(info.GoVersion + " " + info.Platform)
	return nil
}
