package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/spf13/cobra"

	"github.com/quillnotes/quill-updater/internal/config"
	"github.com/quillnotes/quill-updater/internal/exitcodes"
	"github.com/quillnotes/quill-updater/internal/ui"
	"github.com/quillnotes/quill-updater/internal/update"
)

const diskUsageWarnPercent = 95.0

var flagDoctorOffline bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the updater environment",
	Long: "Runs local and network diagnostics: configuration validity, home\n" +
		"directory writability, disk space, and release feed reachability.",
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&flagDoctorOffline, "offline", false, "Skip network checks")
	rootCmd.AddCommand(doctorCmd)
}

type doctorResult struct {
	Name   string `json:"name" yaml:"name"`
	Status string `json:"status" yaml:"status"` // pass, warn, fail
	Detail string `json:"detail" yaml:"detail"`
}

type doctorReport struct {
	Results []doctorResult `json:"results" yaml:"results"`
	Healthy bool           `json:"healthy" yaml:"healthy"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadCfg()
	if err != nil {
		return err
	}
	p := getPrinter()

	results := []doctorResult{
		checkConfig(cfg),
		checkHomeDir(cfg.HomeDir),
		checkDiskSpace(cfg.HomeDir),
		checkHost(),
		checkFeedURL(cfg),
	}
	if !flagDoctorOffline {
		results = append(results, checkFeedReachable(cfg))
	}

	healthy := true
	for _, r := range results {
		if r.Status == "fail" {
			healthy = false
		}
	}

	if p.Structured() {
		if err := p.Emit(doctorReport{Results: results, Healthy: healthy}); err != nil {
			return exitcodes.WrapError(exitcodes.GeneralError, "encoding output", err)
		}
	} else {
		printDoctorResults(p, results)
	}

	if !healthy {
		return exitcodes.NewError(exitcodes.ValidationError, "")
	}
	return nil
}

func printDoctorResults(p ui.Printer, results []doctorResult) {
	p.Header("Updater diagnostics")
	for _, r := range results {
		line := fmt.Sprintf("%s: %s", r.Name, r.Detail)
		switch r.Status {
		case "pass":
			p.Success(line)
		case "warn":
			p.Warn(line)
		default:
			p.Error(line)
		}
	}
}

func checkConfig(cfg config.Config) doctorResult {
	if err := cfg.Validate(); err != nil {
		return doctorResult{Name: "config", Status: "fail", Detail: err.Error()}
	}
	return doctorResult{
		Name:   "config",
		Status: "pass",
		Detail: fmt.Sprintf("feed %s/%s, home %s", cfg.Owner, cfg.Repo, cfg.HomeDir),
	}
}

func checkHomeDir(homeDir string) doctorResult {
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		return doctorResult{Name: "home directory", Status: "fail", Detail: err.Error()}
	}
	probe, err := os.CreateTemp(homeDir, ".doctor-*")
	if err != nil {
		return doctorResult{Name: "home directory", Status: "fail", Detail: "not writable: " + err.Error()}
	}
	probe.Close()
	os.Remove(probe.Name())
	return doctorResult{Name: "home directory", Status: "pass", Detail: "writable"}
}

func checkDiskSpace(homeDir string) doctorResult {
	usage, err := disk.Usage(filepath.Dir(homeDir))
	if err != nil {
		return doctorResult{Name: "disk space", Status: "warn", Detail: "could not read usage: " + err.Error()}
	}
	detail := fmt.Sprintf("%.1f%% used, %.1f GB free",
		usage.UsedPercent, float64(usage.Free)/(1024*1024*1024))
	if usage.UsedPercent > diskUsageWarnPercent {
		return doctorResult{Name: "disk space", Status: "warn", Detail: detail}
	}
	return doctorResult{Name: "disk space", Status: "pass", Detail: detail}
}

func checkHost() doctorResult {
	info, err := host.Info()
	if err != nil {
		return doctorResult{Name: "host", Status: "warn", Detail: "could not read host info: " + err.Error()}
	}
	return doctorResult{
		Name:   "host",
		Status: "pass",
		Detail: fmt.Sprintf("%s %s (%s)", info.Platform, info.PlatformVersion, info.KernelArch),
	}
}

// checkFeedURL confirms the configured feed produces a URL the request
// validator itself accepts. A failure here means every check would be
// rejected before reaching the network.
func checkFeedURL(cfg config.Config) doctorResult {
	v := update.NewValidator(cfg.Owner, cfg.Repo)
	u := v.LatestReleaseURL()
	if err := v.ValidateRequestURL(u); err != nil {
		return doctorResult{Name: "feed url", Status: "fail", Detail: err.Error()}
	}
	return doctorResult{Name: "feed url", Status: "pass", Detail: u}
}

func checkFeedReachable(cfg config.Config) doctorResult {
	v := update.NewValidator(cfg.Owner, cfg.Repo)
	client := update.NewHTTPClient()

	req, err := http.NewRequest(http.MethodGet, v.LatestReleaseURL(), nil)
	if err != nil {
		return doctorResult{Name: "feed reachable", Status: "fail", Detail: err.Error()}
	}
	req.Header.Set("User-Agent", "quill-updater")

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return doctorResult{Name: "feed reachable", Status: "fail", Detail: err.Error()}
	}
	defer resp.Body.Close()

	elapsed := time.Since(start).Round(time.Millisecond)
	switch {
	case resp.StatusCode == http.StatusOK:
		return doctorResult{Name: "feed reachable", Status: "pass", Detail: fmt.Sprintf("HTTP 200 in %s", elapsed)}
	case resp.StatusCode == http.StatusNotFound:
		return doctorResult{Name: "feed reachable", Status: "warn", Detail: "reachable, but no releases published"}
	default:
		return doctorResult{Name: "feed reachable", Status: "warn", Detail: fmt.Sprintf("HTTP %d in %s", resp.StatusCode, elapsed)}
	}
}
