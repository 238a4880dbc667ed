// Package update checks GitHub releases for newer versions of the binary
// and replaces the running executable on request.
package update

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	semver3 "github.com/blang/semver"
	semver "github.com/blang/semver/v4"
	"github.com/nexus-forensics/nexus/internal/config"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

const (
	// Slug is the GitHub owner/repo releases are published under.
	Slug          = "nexus-forensics/nexus"
	cacheFileName = "update.json"
	cacheTTL      = 24 * time.Hour
)

type cache struct {
	LastChecked time.Time `json:"last_checked"`
	Latest      string    `json:"latest"`
}

// Checker compares the running version against the newest release. The
// zero value is not usable; see NewChecker.
type Checker struct {
	// CacheDir holds the last lookup; empty disables caching.
	CacheDir string
	// Latest returns the newest published version.
	Latest func() (string, error)
	Now    func() time.Time
}

// NewChecker returns a Checker backed by GitHub releases and a cache in the
// nexus config directory.
func NewChecker() *Checker {
	dir, _ := config.Dir()
	return &Checker{CacheDir: dir, Latest: latestRelease, Now: time.Now}
}

func latestRelease() (string, error) {
	rel, found, err := selfupdate.DetectLatest(Slug)
	if err != nil {
		return "", err
	}
	if !found {
		return "", errors.New("no release published")
	}
	return rel.Version.String(), nil
}

func (c *Checker) loadCache() (cache, error) {
	var ca cache
	if c.CacheDir == "" {
		return ca, errors.New("no config dir")
	}
	b, err := os.ReadFile(filepath.Join(c.CacheDir, cacheFileName))
	if err != nil {
		return ca, err
	}
	_ = json.Unmarshal(b, &ca)
	return ca, nil
}

func (c *Checker) saveCache(ca cache) {
	if c.CacheDir == "" {
		return
	}
	_ = os.MkdirAll(c.CacheDir, 0755)
	b, _ := json.MarshalIndent(ca, "", "  ")
	_ = os.WriteFile(filepath.Join(c.CacheDir, cacheFileName), b, 0644)
}

// Check returns the latest known version and whether it is newer than
// current. Lookups are cached for 24h and skipped entirely in CI or when
// noNetwork is set. Lookup failures are not errors; the cached value, if
// any, is used instead.
func (c *Checker) Check(current string, noNetwork bool) (string, bool, error) {
	if os.Getenv("CI") != "" || noNetwork {
		return "", false, nil
	}
	ca, _ := c.loadCache()
	latest := ca.Latest
	if c.Now().Sub(ca.LastChecked) > cacheTTL || latest == "" {
		if v, err := c.Latest(); err == nil {
			latest = normalize(v)
			ca.Latest = latest
			ca.LastChecked = c.Now()
			c.saveCache(ca)
		}
	}
	if latest == "" || current == "" {
		return latest, false, nil
	}
	return latest, Newer(latest, current), nil
}

// Check runs the default Checker.
func Check(current string, noNetwork bool) (string, bool, error) {
	return NewChecker().Check(current, noNetwork)
}

func normalize(v string) string {
	return strings.TrimPrefix(strings.TrimSpace(v), "v")
}

// Parse reads a version leniently ("v1.2", "1.2.3-rc.1"). Unparseable
// versions, such as a development build's commit hash, read as 0.0.0.
func Parse(v string) semver.Version {
	ver, err := semver.ParseTolerant(normalize(v))
	if err != nil {
		return semver.Version{}
	}
	return ver
}

// Newer reports whether latest is a higher version than current.
func Newer(latest, current string) bool {
	return Parse(latest).GT(Parse(current))
}

// Apply replaces the running executable with the latest release and
// returns the installed version.
func Apply(current string) (string, error) {
	v, err := semver3.Parse(Parse(current).String())
	if err != nil {
		return "", fmt.Errorf("parse version %q: %w", current, err)
	}
	rel, err := selfupdate.UpdateSelf(v, Slug)
	if err != nil {
		return "", fmt.Errorf("self-update: %w", err)
	}
	return rel.Version.String(), nil
}
