// Package version parses and compares release versions of the form
// "X.Y.Z" or "vX.Y.Z". Anything else — pre-release suffixes, build
// metadata, missing components — is a parse error, never coerced.
package version

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is an ordered (major, minor, patch) triple.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseError reports a tag that does not decompose into three
// non-negative integers.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid version %q: want X.Y.Z or vX.Y.Z", e.Input)
}

// Parse converts a tag like "1.2.3" or "v1.2.3" into a Version.
// Exactly one leading "v" is stripped. Whitespace is not trimmed;
// callers pre-clean their input.
func Parse(text string) (Version, error) {
	s := strings.TrimPrefix(text, "v")
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, &ParseError{Input: text}
	}
	var nums [3]int
	for i, p := range parts {
		if !allDigits(p) {
			return Version{}, &ParseError{Input: text}
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, &ParseError{Input: text}
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// String renders the version without a "v" prefix, e.g. "1.2.3".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Canonical renders the version with a "v" prefix, the form used
// for comparison and for skip-registry keys.
func (v Version) Canonical() string {
	return "v" + v.String()
}

// Compare returns -1, 0, or +1 when a is less than, equal to, or
// greater than b, ordered on (major, minor, patch).
func Compare(a, b Version) int {
	return semver.Compare(a.Canonical(), b.Canonical())
}

// IsNewer reports whether candidate is strictly newer than current.
// An equal version is never newer, so a release the user already
// runs can't prompt again.
func IsNewer(candidate, current Version) bool {
	return Compare(candidate, current) > 0
}
