// Package update checks GitHub releases for a newer store-cli.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	DefaultReleasesURL = "https://api.github.com/repos/36node/store-cli/releases/latest"
	CheckTimeout       = 5 * time.Second
)

type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

type CheckResult struct {
	CurrentVersion  string `json:"current_version"`
	LatestVersion   string `json:"latest_version"`
	UpdateURL       string `json:"update_url,omitempty"`
	UpdateAvailable bool   `json:"update_available"`
}

// Notice is the one-line hint printed by `store version`, or "" when current.
func (r *CheckResult) Notice() string {
	if r == nil || !r.UpdateAvailable {
		return ""
	}
	return fmt.Sprintf("A new version of store is available: %s -> %s (%s)", r.CurrentVersion, r.LatestVersion, r.UpdateURL)
}

// Checker queries a releases endpoint.
type Checker struct {
	URL  string
	HTTP *http.Client
}

// NewChecker uses DefaultReleasesURL and http.DefaultClient.
func NewChecker() *Checker {
	return &Checker{URL: DefaultReleasesURL, HTTP: http.DefaultClient}
}

// CheckForUpdate is NewChecker().Check.
func CheckForUpdate(ctx context.Context, currentVersion string) *CheckResult {
	return NewChecker().Check(ctx, currentVersion)
}

// Check returns nil when the check is skipped or fails; it never blocks the
// CLI. Dev builds and STORE_NO_UPDATE_CHECK skip the request.
func (c *Checker) Check(ctx context.Context, currentVersion string) *CheckResult {
	if currentVersion == "dev" || currentVersion == "" || os.Getenv("STORE_NO_UPDATE_CHECK") != "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, CheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil || release.TagName == "" {
		return nil
	}

	current := normalizeVersion(currentVersion)
	latest := normalizeVersion(release.TagName)

	result := &CheckResult{
		CurrentVersion: strings.TrimPrefix(currentVersion, "v"),
		LatestVersion:  strings.TrimPrefix(release.TagName, "v"),
		UpdateURL:      release.HTMLURL,
	}
	if semver.IsValid(current) && semver.IsValid(latest) {
		result.UpdateAvailable = semver.Compare(latest, current) > 0
	}
	return result
}

func normalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}
