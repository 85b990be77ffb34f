package version

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAPIURL = "https://api.github.com/repos/studiowebux/flowcli/releases/latest"
	checkTimeout  = 5 * time.Second
)

// GitHubRelease is the subset of the release API response we care about
type GitHubRelease struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
}

// Checker looks up the latest published release
type Checker struct {
	apiURL string
	client *http.Client
}

// NewChecker creates a checker against the project's release feed
func NewChecker() *Checker {
	return &Checker{
		apiURL: defaultAPIURL,
		client: &http.Client{Timeout: checkTimeout},
	}
}

// CheckForUpdate checks if a newer version is available
func (c *Checker) CheckForUpdate(currentVersion string) (available bool, latestVersion string, url string, err error) {
	req, err := http.NewRequest("GET", c.apiURL, nil)
	if err != nil {
		return false, "", "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "flowcli/"+currentVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return false, "", "", fmt.Errorf("failed to fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, "", "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var release GitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return false, "", "", fmt.Errorf("failed to decode response: %w", err)
	}

	latestVersion = strings.TrimPrefix(release.TagName, "v")
	currentVersion = strings.TrimPrefix(currentVersion, "v")

	if latestVersion != "" && isNewerVersion(latestVersion, currentVersion) {
		return true, latestVersion, release.HTMLURL, nil
	}

	return false, latestVersion, release.HTMLURL, nil
}

// isNewerVersion reports whether latest is a strictly higher release
// than current. Pre-release and build suffixes are ignored, so a
// 0.2.0-rc1 tag counts the same as 0.2.0. Missing parts compare as
// zero, making 1.0 equivalent to 1.0.0.
func isNewerVersion(latest, current string) bool {
	a := releaseNumbers(latest)
	b := releaseNumbers(current)

	for i := 0; i < len(a) || i < len(b); i++ {
		av, bv := 0, 0
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if av != bv {
			return av > bv
		}
	}
	return false
}

// releaseNumbers splits a version like 1.2.3-rc1 into [1 2 3]
func releaseNumbers(version string) []int {
	if i := strings.IndexAny(version, "-+"); i >= 0 {
		version = version[:i]
	}

	var nums []int
	for _, part := range strings.Split(version, ".") {
		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		nums = append(nums, n)
	}
	return nums
}
