package update

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// apiOrigin is the only origin the checker may talk to.
	apiOrigin = "https://api.github.com"

	// maxBodyBytes caps how much of a response body is ever buffered.
	maxBodyBytes = 1 << 20 // 1 MiB

	// requestTimeout bounds every feed request.
	requestTimeout = 10 // seconds
)

// Validation failures. The checker maps these onto CheckOutcome reasons;
// the CLI matches them with errors.Is.
var (
	ErrURLNotAllowed     = errors.New("request URL outside release-feed allow-list")
	ErrRedirectRejected  = errors.New("release feed responded with a redirect")
	ErrResponseTooLarge  = errors.New("response body exceeds size ceiling")
	ErrMalformedResponse = errors.New("response body is not well-formed JSON")
)

// Validator enforces the contract a feed exchange must satisfy before
// its content reaches application logic. It has no mutable state: every
// call is a function of its inputs plus the owner/repo pair bound at
// construction.
type Validator struct {
	owner string
	repo  string
}

// NewValidator binds the validator to one repository. Owner and repo
// are assumed pre-validated by the configuration layer.
func NewValidator(owner, repo string) Validator {
	return Validator{owner: owner, repo: repo}
}

// LatestReleaseURL builds the only URL the checker is allowed to query.
func (v Validator) LatestReleaseURL() string {
	return fmt.Sprintf("%s/repos/%s/%s/releases/latest", apiOrigin, v.owner, v.repo)
}

// ValidateRequestURL rejects any destination that is not the fixed API
// origin followed by this repository's releases path. No alternate
// scheme, host, or path gets through, which closes off lookalike-domain
// and path-tampering tricks before a socket is ever opened.
func (v Validator) ValidateRequestURL(raw string) error {
	allowed := fmt.Sprintf("%s/repos/%s/%s/releases", apiOrigin, v.owner, v.repo)
	if raw != allowed && !strings.HasPrefix(raw, allowed+"/") {
		return fmt.Errorf("%w: %q", ErrURLNotAllowed, raw)
	}
	return nil
}

// ValidateBody reads at most maxBodyBytes of r and confirms the content
// is well-formed JSON. Oversized bodies fail fast: reading stops one
// byte past the ceiling, nothing beyond that is buffered. On success
// the buffered bytes are returned for decoding.
func (v Validator) ValidateBody(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("%w: got more than %d bytes", ErrResponseTooLarge, maxBodyBytes)
	}

	var probe any
	if err := json.Unmarshal(body, &probe); err != nil {
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			return nil, fmt.Errorf("%w: at offset %d", ErrMalformedResponse, syn.Offset)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return body, nil
}
