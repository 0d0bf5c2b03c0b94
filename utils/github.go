package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// ReleaseRepo is where kiwi releases are published.
const ReleaseRepo = "kiwi-automation/kiwi"

var githubAPIURL = "https://api.github.com"

type GitHubRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
	Assets  []struct {
		BrowserDownloadURL string `json:"browser_download_url"`
		Name               string `json:"name"`
	} `json:"assets"`
}

// UpdateInfo compares the running version with the latest release.
type UpdateInfo struct {
	Current         string `json:"current" yaml:"current"`
	Latest          string `json:"latest" yaml:"latest"`
	UpdateAvailable bool   `json:"updateAvailable" yaml:"updateAvailable"`
	URL             string `json:"url,omitempty" yaml:"url,omitempty"`
}

// GetLatestRelease fetches the latest release of a GitHub repository
func GetLatestRelease(ctx context.Context, repo string) (*GitHubRelease, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", githubAPIURL, repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest release: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	var release GitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to decode release JSON: %v", err)
	}

	if release.TagName == "" {
		return nil, fmt.Errorf("latest release has no tag")
	}

	return &release, nil
}

// canonicalVersion accepts "1.2.3" as well as "v1.2.3".
func canonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.Canonical(v)
}

// CheckForUpdate reports whether the latest release of repo is newer than
// current. A non-semver current version, such as a dev build, never has an
// update.
func CheckForUpdate(ctx context.Context, repo, current string) (*UpdateInfo, error) {
	release, err := GetLatestRelease(ctx, repo)
	if err != nil {
		return nil, err
	}

	latest := canonicalVersion(release.TagName)
	if latest == "" {
		return nil, fmt.Errorf("latest release tag '%s' is not a semantic version", release.TagName)
	}

	info := &UpdateInfo{
		Current: current,
		Latest:  latest,
		URL:     release.HTMLURL,
	}

	if cur := canonicalVersion(current); cur != "" {
		info.UpdateAvailable = semver.Compare(latest, cur) > 0
	} else {
		Verbose("Version '%s' is not a release, skipping comparison", current)
	}

	return info, nil
}
