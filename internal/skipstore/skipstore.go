// Package skipstore persists the set of release versions the user has
// explicitly dismissed. A skipped version never prompts again, even
// though it is still newer than the running one. Entries are never
// purged automatically; stale entries for releases that no longer
// exist are harmless.
package skipstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const fileName = "skipped-versions.json"

// ErrCorrupt marks a skip file whose content and digest disagree.
var ErrCorrupt = errors.New("skip file failed integrity check")

// skipFile is the on-disk shape. Digest is the xxhash64 of the sorted
// version list so silent file damage loads as empty instead of as a
// wrong skip set.
type skipFile struct {
	Versions []string `json:"versions"`
	Digest   string   `json:"digest"`
}

// Registry is the in-memory skip set bound to its backing file.
// Mutations persist immediately.
type Registry struct {
	path     string
	versions map[string]struct{}
}

// Path returns the skip file location under the app home dir.
func Path(homeDir string) string {
	return filepath.Join(homeDir, fileName)
}

// Load reads the registry from homeDir. A missing file yields an empty
// registry and no error. A damaged file also yields an empty, usable
// registry, with the error returned so the caller can log it — a bad
// skip file must never block startup.
func Load(homeDir string) (*Registry, error) {
	r := &Registry{
		path:     Path(homeDir),
		versions: make(map[string]struct{}),
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return r, fmt.Errorf("reading skip file: %w", err)
	}

	var f skipFile
	if err := json.Unmarshal(data, &f); err != nil {
		return r, fmt.Errorf("parsing skip file: %w", err)
	}
	if f.Digest != digest(f.Versions) {
		return r, fmt.Errorf("%w: %s", ErrCorrupt, r.path)
	}

	for _, v := range f.Versions {
		r.versions[v] = struct{}{}
	}
	return r, nil
}

// Contains reports whether the canonical version string was skipped.
func (r *Registry) Contains(canonical string) bool {
	_, ok := r.versions[canonical]
	return ok
}

// Add records a skip decision and persists it immediately.
func (r *Registry) Add(canonical string) error {
	r.versions[canonical] = struct{}{}
	return r.save()
}

// Remove drops one entry and persists. Used by "skips clear <version>".
func (r *Registry) Remove(canonical string) error {
	delete(r.versions, canonical)
	return r.save()
}

// Clear empties the registry and persists.
func (r *Registry) Clear() error {
	r.versions = make(map[string]struct{})
	return r.save()
}

// Versions returns the skipped versions in sorted order.
func (r *Registry) Versions() []string {
	out := make([]string, 0, len(r.versions))
	for v := range r.versions {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// save writes the registry atomically: temp file in the same directory,
// then rename over the target.
func (r *Registry) save() error {
	f := skipFile{Versions: r.Versions()}
	f.Digest = digest(f.Versions)

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating skip file dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".skipped-versions-*")
	if err != nil {
		return fmt.Errorf("creating temp skip file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing skip file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing skip file: %w", err)
	}
	return nil
}

func digest(versions []string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(strings.Join(versions, "\n")))
}
