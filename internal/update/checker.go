package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/quillnotes/quill-updater/internal/version"
)

// releaseDoc mirrors the feed's release object. Only the fields the
// checker consumes are declared.
type releaseDoc struct {
	TagName     string `json:"tag_name"`
	Body        string `json:"body"`
	PublishedAt string `json:"published_at"`
	HTMLURL     string `json:"html_url"`
	Assets      []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
		Size               int64  `json:"size"`
	} `json:"assets"`
}

// Checker performs a single update check against the release feed.
// The transport is injected, never owned, and a check performs no
// retries — retry policy belongs to whoever schedules checks, so a
// user-visible prompt can never double-fire.
type Checker struct {
	validator Validator
	client    Doer
}

// NewChecker builds a checker bound to one repository. Passing a nil
// client selects the default hardened HTTP client.
func NewChecker(owner, repo string, client Doer) *Checker {
	if client == nil {
		client = NewHTTPClient()
	}
	return &Checker{
		validator: NewValidator(owner, repo),
		client:    client,
	}
}

// Check queries the feed for the latest release and reports how it
// relates to current. All failure modes come back inside the outcome;
// Check never returns an error.
func (c *Checker) Check(ctx context.Context, current version.Version) CheckOutcome {
	url := c.validator.LatestReleaseURL()
	if err := c.validator.ValidateRequestURL(url); err != nil {
		return Failed(current, ReasonSecurityViolation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Failed(current, ReasonNetworkError, err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, ErrRedirectRejected) {
			return Failed(current, ReasonSecurityViolation, err)
		}
		return Failed(current, ReasonNetworkError, fmt.Errorf("fetching release feed: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// Empty or private repository. A configuration issue, not a
		// connectivity one, so it gets its own reason.
		return Failed(current, ReasonNoReleasesPublished, errors.New("release feed returned 404"))
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		return Failed(current, ReasonSecurityViolation,
			fmt.Errorf("%w: status %s", ErrRedirectRejected, resp.Status))
	case resp.StatusCode != http.StatusOK:
		return Failed(current, ReasonNetworkError,
			fmt.Errorf("release feed returned %s", resp.Status))
	}

	body, err := c.validator.ValidateBody(resp.Body)
	if err != nil {
		if errors.Is(err, ErrResponseTooLarge) {
			return Failed(current, ReasonResponseTooLarge, err)
		}
		return Failed(current, ReasonMalformedResponse, err)
	}

	var doc releaseDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return Failed(current, ReasonMalformedResponse,
			fmt.Errorf("%w: %v", ErrMalformedResponse, err))
	}

	latest, err := version.Parse(strings.TrimSpace(doc.TagName))
	if err != nil {
		return Failed(current, ReasonUnparsableVersion, err)
	}

	if !version.IsNewer(latest, current) {
		return UpToDate(current)
	}
	return UpdateAvailable(current, buildRelease(latest, doc))
}

// buildRelease maps a validated feed document onto a ReleaseInfo.
// Partial damage degrades by omission: a bad publication timestamp
// falls back to the epoch sentinel, and individual assets missing a
// name or a non-https download URL are dropped, never the release.
func buildRelease(v version.Version, doc releaseDoc) *ReleaseInfo {
	publishedAt := time.Unix(0, 0).UTC()
	if t, err := time.Parse(time.RFC3339, doc.PublishedAt); err == nil {
		publishedAt = t
	}

	assets := make([]ReleaseAsset, 0, len(doc.Assets))
	for _, a := range doc.Assets {
		if a.Name == "" || !strings.HasPrefix(a.BrowserDownloadURL, "https://") || a.Size < 0 {
			continue
		}
		assets = append(assets, ReleaseAsset{
			Name:        a.Name,
			DownloadURL: a.BrowserDownloadURL,
			SizeBytes:   a.Size,
		})
	}

	return &ReleaseInfo{
		Version:     v,
		Notes:       doc.Body,
		PublishedAt: publishedAt,
		Assets:      assets,
		PageURL:     doc.HTMLURL,
	}
}
