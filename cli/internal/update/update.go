// Package update checks GitHub releases for a newer CLI version.
package update

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-version"

	"github.com/datavirke/odata-go-generator/cli/internal/ui"
)

const latestReleaseURL = "https://api.github.com/repos/datavirke/odata-go-generator/releases/latest"

type release struct {
	TagName string `json:"tag_name"`
}

// CheckForUpdates compares the running version against the latest
// published release and prints a notice when an upgrade is available.
// Network failures are returned so callers can choose to ignore them.
func CheckForUpdates(currentVersion string) error {
	current, err := version.NewVersion(currentVersion)
	if err != nil {
		return fmt.Errorf("invalid version format: %w", err)
	}

	latestStr, err := fetchLatestVersion()
	if err != nil {
		return err
	}
	latest, err := version.NewVersion(latestStr)
	if err != nil {
		return fmt.Errorf("invalid latest version format: %w", err)
	}

	if current.LessThan(latest) {
		ui.PrintWarning("A new version is available!")
		fmt.Printf("Current version: %s\n", currentVersion)
		fmt.Printf("Latest version:  %s\n", latestStr)
		fmt.Printf("\nUpdate with: go install github.com/datavirke/odata-go-generator/cli@latest\n")
	}
	return nil
}

func fetchLatestVersion() (string, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(latestReleaseURL)
	if err != nil {
		return "", fmt.Errorf("failed to query releases: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release query returned %s", resp.Status)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", fmt.Errorf("failed to decode release: %w", err)
	}
	return strings.TrimPrefix(rel.TagName, "v"), nil
}
