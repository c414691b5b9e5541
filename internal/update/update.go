// Package update checks the release feed for newer collint builds.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"collint/internal/version"
)

// releasesURL is a variable so tests can point the check at a stub server.
var releasesURL = "https://api.github.com/repos/collint-js/collint/releases/latest"

// checkTTL bounds how often the network is consulted
const checkTTL = 24 * time.Hour

// Info describes the most recent release relative to this build
type Info struct {
	CurrentVersion  string
	LatestVersion   string
	UpdateAvailable bool
}

type release struct {
	TagName string `json:"tag_name"`
}

type cacheEntry struct {
	CheckedAt time.Time `json:"checked_at"`
	Latest    string    `json:"latest"`
}

// Check queries the release feed for the latest published version
func Check(ctx context.Context) (*Info, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releasesURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release check: unexpected status %s", resp.Status)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("release check: %w", err)
	}
	if rel.TagName == "" {
		return nil, fmt.Errorf("release check: response has no tag")
	}
	return newInfo(rel.TagName), nil
}

// CheckWithCache consults the on-disk result of a previous check before
// hitting the network, so at most one request goes out per TTL window.
func CheckWithCache(ctx context.Context) (*Info, error) {
	path := cachePath()
	if entry, ok := readCache(path); ok && time.Since(entry.CheckedAt) < checkTTL {
		return newInfo(entry.Latest), nil
	}

	res, err := Check(ctx)
	if err != nil {
		return nil, err
	}
	writeCache(path, cacheEntry{CheckedAt: time.Now(), Latest: res.LatestVersion})
	return res, nil
}

func newInfo(latest string) *Info {
	return &Info{
		CurrentVersion:  version.Version,
		LatestVersion:   latest,
		UpdateAvailable: compareVersions(latest, version.Version) > 0,
	}
}

func cachePath() string {
	dir := os.Getenv("XDG_CACHE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".cache")
	}
	return filepath.Join(dir, "collint", "update-check.json")
}

func readCache(path string) (cacheEntry, bool) {
	var entry cacheEntry
	if path == "" {
		return entry, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return entry, false
	}
	if err := json.Unmarshal(data, &entry); err != nil || entry.Latest == "" {
		return entry, false
	}
	return entry, true
}

func writeCache(path string, entry cacheEntry) {
	if path == "" {
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	_ = os.WriteFile(path, data, 0o644)
}

// compareVersions orders two version strings by their dotted numeric
// components. Development builds sort newest so they never prompt an
// update; pre-release suffixes are ignored.
func compareVersions(a, b string) int {
	if a == b {
		return 0
	}
	aDev, bDev := isDev(a), isDev(b)
	switch {
	case aDev && bDev:
		return 0
	case aDev:
		return 1
	case bDev:
		return -1
	}

	av, bv := numbers(a), numbers(b)
	for i := range av {
		switch {
		case av[i] < bv[i]:
			return -1
		case av[i] > bv[i]:
			return 1
		}
	}
	return 0
}

func isDev(v string) bool {
	return v == "" || v == "dev"
}

func numbers(v string) [3]int {
	v = strings.TrimPrefix(v, "v")
	if i := strings.IndexByte(v, '-'); i >= 0 {
		v = v[:i]
	}
	var out [3]int
	for i, part := range strings.SplitN(v, ".", 3) {
		n, err := strconv.Atoi(part)
		if err != nil {
			break
		}
		out[i] = n
	}
	return out
}
