package update

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const (
	cacheFileName = "last-check.json"
	cacheDuration = 24 * time.Hour
)

// CacheEntry records the result of the most recent completed check so
// startup checks within the freshness window can skip the network.
// User-initiated checks always bypass it.
type CacheEntry struct {
	CheckedAt       time.Time `json:"checked_at"`
	LatestVersion   string    `json:"latest_version"`
	UpdateAvailable bool      `json:"update_available"`
}

// CachePath returns the cache file location under the app home dir.
func CachePath(homeDir string) string {
	return filepath.Join(homeDir, cacheFileName)
}

// LoadCache reads the cached check result. A missing or damaged file
// is an error; callers treat that as "no cache".
func LoadCache(homeDir string) (*CacheEntry, error) {
	data, err := os.ReadFile(CachePath(homeDir))
	if err != nil {
		return nil, err
	}
	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// SaveCache persists the latest check result.
func SaveCache(homeDir string, entry *CacheEntry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(CachePath(homeDir), data, 0o644)
}

// IsCacheFresh reports whether the entry is recent enough to stand in
// for a startup check.
func IsCacheFresh(entry *CacheEntry) bool {
	return time.Since(entry.CheckedAt) < cacheDuration
}
