package update

import (
	"net/http"
	"time"
)

const userAgent = "quill-updater"

// Doer is the transport capability the checker consumes. It matches
// *http.Client so production code injects a real client while tests
// inject a stub.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient returns the client every feed request goes through:
// fixed timeout, TLS verification left at its mandatory default, and
// redirects turned into a hard failure instead of being followed.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: requestTimeout * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return ErrRedirectRejected
		},
	}
}
