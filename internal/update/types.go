// Package update discovers whether a newer release of the application
// has been published. It polls the GitHub release feed for the
// configured repository, gates every response through a strict
// validation contract, and reports the result as a CheckOutcome.
// Downloading or installing the release artifact is out of scope;
// callers only receive the release page URL.
package update

import (
	"fmt"
	"time"

	"github.com/quillnotes/quill-updater/internal/version"
)

// ErrorKind classifies why a check failed. It is the only error surface
// crossing the package boundary inside a CheckOutcome.
type ErrorKind int

const (
	ReasonNone ErrorKind = iota
	// ReasonSecurityViolation: the request URL failed the allow-list,
	// or the feed answered with a redirect.
	ReasonSecurityViolation
	// ReasonNetworkError: transport failure, timeout, or a bad status
	// other than 404.
	ReasonNetworkError
	// ReasonNoReleasesPublished: the feed returned 404 — an empty or
	// private repository, not a connectivity problem.
	ReasonNoReleasesPublished
	// ReasonResponseTooLarge: the body exceeded the size ceiling.
	ReasonResponseTooLarge
	// ReasonMalformedResponse: the body was not well-formed JSON.
	ReasonMalformedResponse
	// ReasonUnparsableVersion: tag_name is not a semantic version.
	ReasonUnparsableVersion
)

func (k ErrorKind) String() string {
	switch k {
	case ReasonNone:
		return "none"
	case ReasonSecurityViolation:
		return "security violation"
	case ReasonNetworkError:
		return "network error"
	case ReasonNoReleasesPublished:
		return "no releases published"
	case ReasonResponseTooLarge:
		return "response too large"
	case ReasonMalformedResponse:
		return "malformed response"
	case ReasonUnparsableVersion:
		return "unparsable version"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// ReleaseAsset is one downloadable artifact attached to a release.
// DownloadURL is always https; entries that fail that bar never get here.
type ReleaseAsset struct {
	Name        string
	DownloadURL string
	SizeBytes   int64
}

// DisplaySize renders the asset size for humans, e.g. "12.3 MB".
// A derived view only; stored state stays in bytes.
func (a ReleaseAsset) DisplaySize() string {
	const (
		kb = 1 << 10
		mb = 1 << 20
	)
	switch {
	case a.SizeBytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(a.SizeBytes)/mb)
	case a.SizeBytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(a.SizeBytes)/kb)
	default:
		return fmt.Sprintf("%d B", a.SizeBytes)
	}
}

// ReleaseInfo is an immutable view of one published release, built
// only after the response passed validation.
type ReleaseInfo struct {
	Version     version.Version
	Notes       string
	PublishedAt time.Time
	Assets      []ReleaseAsset
	PageURL     string
}

// CheckOutcome is the sole result type of a check. Exactly one of the
// three shapes holds: up to date, update available (Release non-nil),
// or failed (Reason non-zero). Use the constructors.
type CheckOutcome struct {
	Current version.Version
	Release *ReleaseInfo
	Reason  ErrorKind
	Err     error
}

// UpToDate reports that current is already the latest release.
func UpToDate(current version.Version) CheckOutcome {
	return CheckOutcome{Current: current}
}

// UpdateAvailable reports a newer release.
func UpdateAvailable(current version.Version, release *ReleaseInfo) CheckOutcome {
	return CheckOutcome{Current: current, Release: release}
}

// Failed reports a check that could not complete. err records the
// underlying cause for logging and may be nil.
func Failed(current version.Version, reason ErrorKind, err error) CheckOutcome {
	return CheckOutcome{Current: current, Reason: reason, Err: err}
}

// HasUpdate reports whether a newer release was found.
func (o CheckOutcome) HasUpdate() bool { return o.Release != nil }

// IsFailure reports whether the check failed.
func (o CheckOutcome) IsFailure() bool { return o.Reason != ReasonNone }
